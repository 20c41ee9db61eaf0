package utils

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// IsKnownCurrency reports whether code is an ISO-4217 currency code.
func IsKnownCurrency(code string) bool {
	return len(code) == 3 && code == strings.ToUpper(code) && money.GetCurrency(code) != nil
}

// CurrencyFraction returns the number of minor-unit digits of a currency, 2 when unknown.
func CurrencyFraction(code string) int {
	if c := money.GetCurrency(code); c != nil {
		return c.Fraction
	}
	return 2
}

// FormatAmount renders an amount with the currency's symbol and precision.
// Example: 1234.5 USD returns "$1,234.50"
// Example: 1234.5 JPY returns "¥1,235"
func FormatAmount(amount decimal.Decimal, code string) string {
	c := money.GetCurrency(code)
	if c == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, c.Code).Display()
}

// FormatWithPrecision formats an amount with the given precision
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}
