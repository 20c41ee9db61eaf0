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

const accountColumns = `account_id, name, account_type, subtype, currency_code, is_archived, group_id, created_at, last_updated_at`

func (t *pgxTx) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := t.tx.Exec(ctx, query,
		m.AccountID, m.Name, m.AccountType, m.Subtype, m.CurrencyCode,
		m.IsArchived, m.GroupID, m.CreatedAt, m.LastUpdatedAt,
	)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("account %q of type %s", m.Name, m.AccountType))
	}
	return nil
}

func (t *pgxTx) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan accounts", err)
	}
	out := make([]domain.Account, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainAccount(m)
	}
	return out, nil
}

func (t *pgxTx) queryAccount(ctx context.Context, what, query string, args ...any) (*domain.Account, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+what, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateReadError(err, what)
	}
	a := mapping.ToDomainAccount(m)
	return &a, nil
}

func (t *pgxTx) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return t.queryAccount(ctx, "account "+accountID,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1;`, accountID)
}

func (t *pgxTx) FindAccountByName(ctx context.Context, name string, accountType domain.AccountType) (*domain.Account, error) {
	return t.queryAccount(ctx, fmt.Sprintf("account %q of type %s", name, accountType),
		`SELECT `+accountColumns+` FROM accounts WHERE name = $1 AND account_type = $2;`, name, string(accountType))
}

// FindAccountsByIDs omits unknown IDs from the result.
func (t *pgxTx) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	accounts, err := t.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1);`, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out, nil
}

func (t *pgxTx) ListAccountsByGroup(ctx context.Context, groupID string) ([]domain.Account, error) {
	return t.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE group_id = $1 ORDER BY name;`, groupID)
}

func (t *pgxTx) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	return t.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_type = $1 ORDER BY name;`, string(accountType))
}

func (t *pgxTx) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, is_archived = $3, group_id = $4, last_updated_at = $5
		WHERE account_id = $1;
	`
	tag, err := t.tx.Exec(ctx, query, m.AccountID, m.Name, m.IsArchived, m.GroupID, m.LastUpdatedAt)
	if err != nil {
		return translateWriteError(err, "account "+m.AccountID)
	}
	return requireAffected(tag, "account "+m.AccountID)
}

// LockAccounts takes row locks in ID order so concurrent writers cannot deadlock.
func (t *pgxTx) LockAccounts(ctx context.Context, accountIDs []string) error {
	if len(accountIDs) == 0 {
		return nil
	}
	rows, err := t.tx.Query(ctx,
		`SELECT account_id FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`, accountIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts", err)
	}
	locked, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts", err)
	}
	if len(locked) < len(uniqueIDs(accountIDs)) {
		return fmt.Errorf("%w: one or more accounts of %v", apperrors.ErrNotFound, accountIDs)
	}
	return nil
}

func uniqueIDs(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

const groupColumns = `group_id, name, account_type, display_order, created_at, last_updated_at`

func (t *pgxTx) SaveGroup(ctx context.Context, group domain.AccountGroup) error {
	m := mapping.ToModelAccountGroup(group)
	_, err := t.tx.Exec(ctx, `INSERT INTO account_groups (`+groupColumns+`) VALUES ($1, $2, $3, $4, $5, $6);`,
		m.GroupID, m.Name, m.AccountType, m.DisplayOrder, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("group %q of type %s", m.Name, m.AccountType))
	}
	return nil
}

func (t *pgxTx) FindGroupByID(ctx context.Context, groupID string) (*domain.AccountGroup, error) {
	rows, err := t.tx.Query(ctx, `SELECT `+groupColumns+` FROM account_groups WHERE group_id = $1;`, groupID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query account group", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.AccountGroup])
	if err != nil {
		return nil, translateReadError(err, "account group "+groupID)
	}
	g := mapping.ToDomainAccountGroup(m)
	return &g, nil
}

func (t *pgxTx) NextGroupDisplayOrder(ctx context.Context, accountType domain.AccountType) (int, error) {
	var next int
	err := t.tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(display_order), 0) + 1 FROM account_groups WHERE account_type = $1;`,
		string(accountType)).Scan(&next)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to compute group display order", err)
	}
	return next, nil
}
