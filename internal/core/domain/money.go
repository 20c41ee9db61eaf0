package domain

import "github.com/shopspring/decimal"

const (
	// MoneyPlaces is the number of decimals every currency amount is rounded to.
	MoneyPlaces int32 = 2
	// QuantityPlaces is the number of decimals share quantities are rounded to.
	QuantityPlaces int32 = 6
	// RatePlaces is the number of decimals derived exchange rates are rounded to.
	RatePlaces int32 = 6
)

// Tolerance is the largest difference two money amounts may have and still be considered equal.
var Tolerance = decimal.RequireFromString("0.01")

// Round2 rounds a money amount to minor-unit precision.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(MoneyPlaces) }

// RoundQty rounds a share quantity.
func RoundQty(d decimal.Decimal) decimal.Decimal { return d.Round(QuantityPlaces) }

// WithinTolerance reports whether |a-b| <= Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}
