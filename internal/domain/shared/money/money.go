package money

import (
	"errors"
	"math"
	"strings"
)

var ErrInvalidCurrency = errors.New("money: invalid currency code")

// Amounts are carried in whole currency units. Upstream quotes arrive as
// floats; Round is the single place where they become integers.

// Round rounds to the nearest whole unit, halves upward (2.5 -> 3,
// -2.5 -> -2).
func Round(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Floor(v + 0.5))
}

// NormalizeCurrency uppercases and validates a 3-letter currency code.
func NormalizeCurrency(code string) (string, error) {
	code = strings.TrimSpace(code)
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	return strings.ToUpper(code), nil
}

// ClampNonNegative floors an amount at zero.
func ClampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// Min returns the smaller of two amounts.
func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
