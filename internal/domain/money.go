package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Amounts are kept in paise so wallet arithmetic stays integral.

// FormatPaise renders paise as rupees, e.g. 12550 -> "₹125.50".
func FormatPaise(p int64) string {
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, p/100, p%100)
}

// ParseRupees parses user input like "100" or "99.50" into paise.
// At most two decimal places are accepted.
func ParseRupees(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "₹"))
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	whole, frac, _ := strings.Cut(s, ".")
	r, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if r < 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	p := r * 100
	if frac != "" {
		if len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		p += f
	}
	return p, nil
}
