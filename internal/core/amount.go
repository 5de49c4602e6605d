// Package core holds the pure domain logic of the web client: roles, budget
// progress classification, and the arithmetic behind the onboarding plan.
// Nothing here touches the network or the clock.
package core

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses a user-entered monetary amount. Both comma and dot are
// accepted as decimal separators. Negative amounts are rejected; entry fields
// never mean "refund" in this app.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// AmountOrZero parses like ParseAmount but maps anything invalid to zero.
// Wizard sums use it so a half-typed field reads as 0 instead of blocking the
// arithmetic, mirroring how the entry forms behave while typing.
func AmountOrZero(s string) float64 {
	v, err := ParseAmount(s)
	if err != nil {
		return 0
	}
	return v
}
