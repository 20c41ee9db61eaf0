package dto

import "github.com/shopspring/decimal"

// CreateExchangeRateRequest defines the data needed to record an exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,iso4217"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,iso4217,nefield=FromCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    string          `json:"dateEffective" binding:"required"`
}
