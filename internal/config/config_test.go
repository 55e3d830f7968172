package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("TG_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "999")
	t.Setenv("PRICE_PER_ACCOUNT", "7.50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Token)
	assert.Equal(t, int64(999), cfg.AdminID)
	assert.Equal(t, int64(750), cfg.PricePaise)
	assert.Equal(t, "3000", cfg.Port)
	assert.NotEmpty(t, cfg.UPIID)
	assert.NotEmpty(t, cfg.DataFile)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TG_TOKEN", "")
	t.Setenv("ADMIN_ID", "999")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresNumericAdminID(t *testing.T) {
	t.Setenv("TG_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
