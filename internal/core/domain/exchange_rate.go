package domain

import "github.com/shopspring/decimal"

// ExchangeRate converts one unit of FromCurrencyCode into Rate units of ToCurrencyCode from
// DateEffective onwards.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    Date            `json:"dateEffective"`
	AuditFields
}
