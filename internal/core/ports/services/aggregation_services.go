package services

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
)

// AggregationSvc buckets balances by currency. Amounts in different currencies are never
// summed without a rate.
type AggregationSvc interface {
	// GetCategoryBalancesByCurrency sums a category by the currency of each line.
	GetCategoryBalancesByCurrency(ctx context.Context, categoryID string) (domain.CurrencyBalances, error)

	// GetGroupAggregateBalance sums the members of a group per currency.
	GetGroupAggregateBalance(ctx context.Context, groupID string) (domain.AggregateBalance, error)

	// GetNetWorth sums user accounts at date and converts them into baseCurrency.
	GetNetWorth(ctx context.Context, baseCurrency string, date domain.Date) (*domain.NetWorth, error)

	// GetCategoryRollup sums every category over [from, to] per line currency.
	GetCategoryRollup(ctx context.Context, from, to domain.Date) ([]domain.CategoryRollupRow, error)
}

// ExchangeRateSvc records and looks up exchange rates.
type ExchangeRateSvc interface {
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest) (*domain.ExchangeRate, error)
	GetExchangeRate(ctx context.Context, from, to string, on domain.Date) (*domain.ExchangeRate, error)
}
