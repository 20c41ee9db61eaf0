package pgsql

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/models"
	"github.com/SscSPs/household_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const (
	investmentColumns = `account_id, ticker_symbol, quantity, cost_basis_method, created_at, last_updated_at`
	lotColumns        = `account_id, seq, lot_date, quantity, price_per_share, amount`
)

func (t *pgxTx) SaveInvestmentProperties(ctx context.Context, props domain.InvestmentProperties) error {
	m, lots := mapping.ToModelInvestment(props)
	_, err := t.tx.Exec(ctx,
		`INSERT INTO investment_properties (`+investmentColumns+`) VALUES ($1, $2, $3, $4, $5, $6);`,
		m.AccountID, m.TickerSymbol, m.Quantity, m.CostBasisMethod, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return translateWriteError(err, "investment properties for account "+m.AccountID)
	}
	return t.insertLots(ctx, m.AccountID, lots)
}

func (t *pgxTx) insertLots(ctx context.Context, accountID string, lots []models.Lot) error {
	if len(lots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range lots {
		batch.Queue(`INSERT INTO investment_lots (`+lotColumns+`) VALUES ($1, $2, $3, $4, $5, $6);`,
			l.AccountID, l.Seq, l.LotDate, l.Quantity, l.PricePerShare, l.Amount)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return translateWriteError(err, "lots of account "+accountID)
	}
	return nil
}

func (t *pgxTx) FindInvestmentProperties(ctx context.Context, accountID string) (*domain.InvestmentProperties, error) {
	rows, err := t.tx.Query(ctx, `SELECT `+investmentColumns+` FROM investment_properties WHERE account_id = $1;`, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query investment properties", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.InvestmentProperties])
	if err != nil {
		return nil, translateReadError(err, "investment properties for account "+accountID)
	}

	lotRows, err := t.tx.Query(ctx, `SELECT `+lotColumns+` FROM investment_lots WHERE account_id = $1 ORDER BY seq;`, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lots", err)
	}
	lots, err := pgx.CollectRows(lotRows, pgx.RowToStructByName[models.Lot])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan lots", err)
	}
	props := mapping.ToDomainInvestment(m, lots)
	return &props, nil
}

// UpdateInvestmentProperties replaces the lot list wholesale.
func (t *pgxTx) UpdateInvestmentProperties(ctx context.Context, props domain.InvestmentProperties) error {
	m, lots := mapping.ToModelInvestment(props)
	tag, err := t.tx.Exec(ctx,
		`UPDATE investment_properties SET quantity = $2, last_updated_at = $3 WHERE account_id = $1;`,
		m.AccountID, m.Quantity, m.LastUpdatedAt)
	if err != nil {
		return translateWriteError(err, "investment properties for account "+m.AccountID)
	}
	if err := requireAffected(tag, "investment properties for account "+m.AccountID); err != nil {
		return err
	}
	if _, err := t.tx.Exec(ctx, `DELETE FROM investment_lots WHERE account_id = $1;`, m.AccountID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lots", err)
	}
	return t.insertLots(ctx, m.AccountID, lots)
}
