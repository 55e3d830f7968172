package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRupees(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "whole rupees", in: "100", want: 10000},
		{name: "two decimals", in: "99.50", want: 9950},
		{name: "one decimal", in: "5.5", want: 550},
		{name: "rupee sign", in: "₹25", want: 2500},
		{name: "whitespace", in: "  10 ", want: 1000},
		{name: "zero", in: "0", want: 0},
		{name: "too many decimals", in: "1.234", wantErr: true},
		{name: "not a number", in: "abc", wantErr: true},
		{name: "negative", in: "-5", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRupees(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatPaise(t *testing.T) {
	assert.Equal(t, "₹125.50", FormatPaise(12550))
	assert.Equal(t, "₹0.05", FormatPaise(5))
	assert.Equal(t, "₹5.00", FormatPaise(500))
	assert.Equal(t, "-₹1.00", FormatPaise(-100))
}

func TestTopupStatusResolved(t *testing.T) {
	assert.False(t, TopupOpen.Resolved())
	assert.False(t, TopupSubmitted.Resolved())
	assert.True(t, TopupApproved.Resolved())
	assert.True(t, TopupDeclined.Resolved())
}
