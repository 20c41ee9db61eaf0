package repositories

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// RateProvider looks up the rate converting one unit of from into to, effective on date.
// A missing rate is reported with ok=false, not an error.
type RateProvider interface {
	GetRate(ctx context.Context, from, to string, on domain.Date) (rate decimal.Decimal, ok bool, err error)
}
