package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SaveExchangeRate inserts a rate or replaces the one recorded for the same pair and date.
func (s *Store) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO exchange_rates (
			exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective, created_at, last_updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (from_currency_code, to_currency_code, date_effective)
		DO UPDATE SET rate = EXCLUDED.rate, last_updated_at = EXCLUDED.last_updated_at;`,
		m.ExchangeRateID, m.FromCurrencyCode, m.ToCurrencyCode, m.Rate, m.DateEffective, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return translateWriteError(err, "exchange rate "+m.FromCurrencyCode+"/"+m.ToCurrencyCode)
	}
	return nil
}

// GetRate returns the most recent rate effective on or before on.
func (s *Store) GetRate(ctx context.Context, from, to string, on domain.Date) (decimal.Decimal, bool, error) {
	var rate decimal.Decimal
	err := s.Pool.QueryRow(ctx, `
		SELECT rate FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective <= $3
		ORDER BY date_effective DESC
		LIMIT 1;`, from, to, on.Time()).Scan(&rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, apperrors.NewAppError(500, "failed to look up exchange rate", err)
	}
	return rate, true, nil
}
