package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// Cents is an exact integer amount in the smallest currency unit. Prices
// arrive from chat forms as decimal strings ("9.50"); parsing normalizes
// them here so that equality checks in the order ledger never produce false
// diffs from type coercion.
type Cents int64

// Parse accepts "9", "9.5" and "9.50" style decimal strings with at most
// two fractional digits.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	neg := strings.HasPrefix(s, "-")
	if neg {
		return 0, ErrNegativeAmount
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	// ParseInt alone is too lenient here: it accepts a sign inside either
	// part, so "9.-5" would slip through as a valid amount.
	if !allDigits(whole) {
		return 0, ErrInvalidAmount
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	var f int64
	if hasFrac {
		if frac == "" || len(frac) > 2 || !allDigits(frac) {
			return 0, ErrInvalidAmount
		}
		f, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		if len(frac) == 1 {
			f *= 10
		}
	}

	return Cents(w*100 + f), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func FromInt64(v int64) (Cents, error) {
	if v < 0 {
		return 0, ErrNegativeAmount
	}
	return Cents(v), nil
}

func (c Cents) Int64() int64 {
	return int64(c)
}

// String renders the amount back as a normalized two-digit decimal.
func (c Cents) String() string {
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}
