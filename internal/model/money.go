package model

import "github.com/shopspring/decimal"

// Money carries euro amounts with cent precision. Intermediate results keep
// full decimal precision; RoundCents (banker's rounding) is applied once per
// heir at the end of the pipeline.
type Money = decimal.Decimal

// Euros builds a Money value from a float amount.
func Euros(v float64) Money {
	return decimal.NewFromFloat(v)
}

// Zero is the additive identity for Money.
func Zero() Money {
	return decimal.Zero
}

// RoundCents rounds half-to-even to cent precision.
func RoundCents(m Money) Money {
	return m.RoundBank(2)
}

// MulFrac multiplies an amount by a share fraction.
func MulFrac(m Money, frac float64) Money {
	return m.Mul(decimal.NewFromFloat(frac))
}

// CentsEqual reports whether two amounts agree within one cent.
func CentsEqual(a, b Money) bool {
	return a.Sub(b).Abs().LessThanOrEqual(decimal.New(1, -2))
}
