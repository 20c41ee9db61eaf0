package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/models"
	"github.com/SscSPs/household_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const checkpointColumns = `checkpoint_id, account_id, checkpoint_date, balance, description, entry_id, created_at, last_updated_at`

func (t *pgxTx) SaveCheckpoint(ctx context.Context, checkpoint domain.Checkpoint) error {
	m := mapping.ToModelCheckpoint(checkpoint)
	_, err := t.tx.Exec(ctx,
		`INSERT INTO checkpoints (`+checkpointColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		m.CheckpointID, m.AccountID, m.CheckpointDate, m.Balance, m.Description, m.EntryID, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("checkpoint for account %s on %s", m.AccountID, checkpoint.CheckpointDate))
	}
	return nil
}

func (t *pgxTx) queryCheckpoint(ctx context.Context, what, query string, args ...any) (*domain.Checkpoint, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+what, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Checkpoint])
	if err != nil {
		return nil, translateReadError(err, what)
	}
	cp := mapping.ToDomainCheckpoint(m)
	return &cp, nil
}

func (t *pgxTx) FindCheckpointByID(ctx context.Context, checkpointID string) (*domain.Checkpoint, error) {
	return t.queryCheckpoint(ctx, "checkpoint "+checkpointID,
		`SELECT `+checkpointColumns+` FROM checkpoints WHERE checkpoint_id = $1;`, checkpointID)
}

func (t *pgxTx) FindCheckpointByAccountAndDate(ctx context.Context, accountID string, date domain.Date) (*domain.Checkpoint, error) {
	return t.queryCheckpoint(ctx, fmt.Sprintf("checkpoint for account %s on %s", accountID, date),
		`SELECT `+checkpointColumns+` FROM checkpoints WHERE account_id = $1 AND checkpoint_date = $2;`,
		accountID, date.Time())
}

func (t *pgxTx) FindLatestCheckpoint(ctx context.Context, accountID string, date domain.Date, inclusive bool) (*domain.Checkpoint, error) {
	op := "<"
	if inclusive {
		op = "<="
	}
	return t.queryCheckpoint(ctx, fmt.Sprintf("checkpoint for account %s before %s", accountID, date), `
		SELECT `+checkpointColumns+` FROM checkpoints
		WHERE account_id = $1 AND checkpoint_date `+op+` $2
		ORDER BY checkpoint_date DESC
		LIMIT 1;`, accountID, date.Time())
}

func (t *pgxTx) ListCheckpointsByAccount(ctx context.Context, accountID string) ([]domain.Checkpoint, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+checkpointColumns+` FROM checkpoints WHERE account_id = $1 ORDER BY checkpoint_date;`, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query checkpoints", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Checkpoint])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan checkpoints", err)
	}
	out := make([]domain.Checkpoint, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainCheckpoint(m)
	}
	return out, nil
}

func (t *pgxTx) DeleteCheckpoint(ctx context.Context, checkpointID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM checkpoints WHERE checkpoint_id = $1;`, checkpointID)
	if err != nil {
		return translateWriteError(err, "checkpoint "+checkpointID)
	}
	return requireAffected(tag, "checkpoint "+checkpointID)
}
