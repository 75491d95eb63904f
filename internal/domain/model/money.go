package model

import (
	"fmt"
	"math"
	"regexp"

	"github.com/shopspring/decimal"
)

// centsPerDollar is the fixed-point scale of Money.
const centsPerDollar = 100

// moneyPattern accepts non-negative amounts with exactly two fraction digits.
var moneyPattern = regexp.MustCompile(`^[0-9]+\.[0-9]{2}$`)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// Money is a non-negative monetary amount in integer cents.
type Money int64

// ParseMoney converts strings like "35.35" into exact cents.
func ParseMoney(s string) (Money, error) {
	if !moneyPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q must look like 0.00", ErrInvalidMoney, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidMoney, s, err)
	}
	cents := d.Shift(2)
	if cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidMoney, s)
	}
	return Money(cents.IntPart()), nil
}

// MustParseMoney is ParseMoney for literals known to be valid.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 { return int64(m) }

// IsWholeDollars reports whether the amount has no cents.
func (m Money) IsWholeDollars() bool { return m.IsMultipleOf(centsPerDollar) }

// IsMultipleOf reports whether the amount divides evenly by step cents.
func (m Money) IsMultipleOf(step int64) bool {
	if step <= 0 {
		return false
	}
	return int64(m)%step == 0
}

// Decimal returns the amount as an exact decimal in dollars.
func (m Money) Decimal() decimal.Decimal { return decimal.New(int64(m), -2) }

// String formats the amount with two fraction digits.
func (m Money) String() string { return m.Decimal().StringFixed(2) }
