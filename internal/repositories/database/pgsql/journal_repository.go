package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/household_ledger/internal/models"
	"github.com/SscSPs/household_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	entryColumns = `entry_id, entry_date, posting_date, description, entry_type, display_order, created_at, last_updated_at`
	lineColumns  = `line_id, entry_id, line_no, account_id, amount, currency_code, exchange_rate`
)

func (t *pgxTx) NextDisplayOrder(ctx context.Context) (int64, error) {
	var next int64
	if err := t.tx.QueryRow(ctx, `SELECT nextval('journal_display_order_seq');`).Scan(&next); err != nil {
		return 0, apperrors.NewAppError(500, "failed to allocate display order", err)
	}
	return next, nil
}

// SaveEntry inserts the entry row and batches its lines.
func (t *pgxTx) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	_, err := t.tx.Exec(ctx,
		`INSERT INTO journal_entries (`+entryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		m.EntryID, m.EntryDate, m.PostingDate, m.Description, m.EntryType, m.DisplayOrder, m.CreatedAt, m.LastUpdatedAt,
	)
	if err != nil {
		return translateWriteError(err, "journal entry "+m.EntryID)
	}

	batch := &pgx.Batch{}
	for _, l := range entry.Lines {
		ml := mapping.ToModelJournalLine(l)
		batch.Queue(`INSERT INTO journal_lines (`+lineColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			ml.LineID, m.EntryID, ml.LineNo, ml.AccountID, ml.Amount, ml.CurrencyCode, ml.ExchangeRate)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return translateWriteError(err, "lines of journal entry "+m.EntryID)
	}
	return nil
}

// loadEntries scans entry rows and attaches their lines, preserving row order.
func (t *pgxTx) loadEntries(ctx context.Context, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan journal entries", err)
	}
	if len(ms) == 0 {
		return []domain.JournalEntry{}, nil
	}

	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.EntryID
	}
	lineRows, err := t.tx.Query(ctx,
		`SELECT `+lineColumns+` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_no;`, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	lines, err := pgx.CollectRows(lineRows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan journal lines", err)
	}
	byEntry := make(map[string][]models.JournalLine, len(ms))
	for _, l := range lines {
		byEntry[l.EntryID] = append(byEntry[l.EntryID], l)
	}

	out := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainJournalEntry(m, byEntry[m.EntryID])
	}
	return out, nil
}

func (t *pgxTx) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entries, err := t.loadEntries(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return &entries[0], nil
}

func (t *pgxTx) FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, error) {
	rows, err := t.tx.Query(ctx, `SELECT `+lineColumns+` FROM journal_lines WHERE line_id = $1;`, lineID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal line", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, translateReadError(err, "journal line "+lineID)
	}
	l := mapping.ToDomainJournalLine(m)
	return &l, nil
}

func (t *pgxTx) FindEntriesByDateAndDescription(ctx context.Context, date domain.Date, description string) ([]domain.JournalEntry, error) {
	return t.loadEntries(ctx, `
		SELECT `+entryColumns+` FROM journal_entries
		WHERE entry_date = $1 AND description = $2
		ORDER BY display_order DESC;`, date.Time(), description)
}

func (t *pgxTx) FindEntriesByTypeAndAccount(ctx context.Context, entryType domain.EntryType, accountID string) ([]domain.JournalEntry, error) {
	return t.loadEntries(ctx, `
		SELECT `+entryColumns+` FROM journal_entries e
		WHERE e.entry_type = $1
		  AND EXISTS (SELECT 1 FROM journal_lines l WHERE l.entry_id = e.entry_id AND l.account_id = $2)
		ORDER BY e.display_order DESC;`, string(entryType), accountID)
}

func (t *pgxTx) ListEntriesByAccount(ctx context.Context, accountID string, limit int, cursor *portsrepo.EntryCursor) ([]domain.JournalEntry, error) {
	var sb strings.Builder
	args := []any{accountID}
	sb.WriteString(`SELECT ` + entryColumns + ` FROM journal_entries e
		WHERE EXISTS (SELECT 1 FROM journal_lines l WHERE l.entry_id = e.entry_id AND l.account_id = $1)`)
	if cursor != nil {
		args = append(args, cursor.EntryDate.Time(), cursor.DisplayOrder)
		sb.WriteString(` AND (e.entry_date, e.display_order) < ($2, $3)`)
	}
	sb.WriteString(` ORDER BY e.entry_date DESC, e.display_order DESC`)
	if limit > 0 {
		args = append(args, limit)
		sb.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}
	return t.loadEntries(ctx, sb.String(), args...)
}

func (t *pgxTx) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	tag, err := t.tx.Exec(ctx, `
		UPDATE journal_entries
		SET entry_date = $2, posting_date = $3, description = $4, display_order = $5, last_updated_at = $6
		WHERE entry_id = $1;`,
		m.EntryID, m.EntryDate, m.PostingDate, m.Description, m.DisplayOrder, m.LastUpdatedAt)
	if err != nil {
		return translateWriteError(err, "journal entry "+m.EntryID)
	}
	return requireAffected(tag, "journal entry "+m.EntryID)
}

func (t *pgxTx) UpdateLine(ctx context.Context, line domain.JournalLine) error {
	m := mapping.ToModelJournalLine(line)
	tag, err := t.tx.Exec(ctx, `
		UPDATE journal_lines
		SET account_id = $2, amount = $3, currency_code = $4, exchange_rate = $5
		WHERE line_id = $1;`,
		m.LineID, m.AccountID, m.Amount, m.CurrencyCode, m.ExchangeRate)
	if err != nil {
		return translateWriteError(err, "journal line "+m.LineID)
	}
	return requireAffected(tag, "journal line "+m.LineID)
}

// DeleteEntry relies on ON DELETE CASCADE for the lines.
func (t *pgxTx) DeleteEntry(ctx context.Context, entryID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return translateWriteError(err, "journal entry "+entryID)
	}
	return requireAffected(tag, "journal entry "+entryID)
}

// lineFilterClause renders f as a WHERE clause over journal_lines l joined to journal_entries e.
func lineFilterClause(f portsrepo.LineFilter) (string, []any) {
	args := []any{f.AccountID}
	conds := []string{"l.account_id = $1"}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.After != nil {
		add("e.entry_date > $%d", f.After.Time())
	}
	if f.From != nil {
		add("e.entry_date >= $%d", f.From.Time())
	}
	if f.Until != nil {
		add("e.entry_date <= $%d", f.Until.Time())
	}
	if len(f.ExcludeEntryIDs) > 0 {
		add("NOT (e.entry_id = ANY($%d))", f.ExcludeEntryIDs)
	}
	if len(f.ExcludeEntryTypes) > 0 {
		types := make([]string, len(f.ExcludeEntryTypes))
		for i, et := range f.ExcludeEntryTypes {
			types[i] = string(et)
		}
		add("NOT (e.entry_type = ANY($%d))", types)
	}
	return strings.Join(conds, " AND "), args
}

func (t *pgxTx) SumLines(ctx context.Context, filter portsrepo.LineFilter) (decimal.Decimal, error) {
	where, args := lineFilterClause(filter)
	var sum decimal.Decimal
	err := t.tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(l.amount), 0)
		FROM journal_lines l JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE `+where+`;`, args...).Scan(&sum)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum journal lines", err)
	}
	return domain.Round2(sum), nil
}

func (t *pgxTx) SumLinesByCurrency(ctx context.Context, filter portsrepo.LineFilter) (domain.CurrencyBalances, error) {
	where, args := lineFilterClause(filter)
	rows, err := t.tx.Query(ctx, `
		SELECT l.currency_code, SUM(l.amount)
		FROM journal_lines l JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE `+where+`
		GROUP BY l.currency_code;`, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum journal lines by currency", err)
	}
	defer rows.Close()

	out := make(domain.CurrencyBalances)
	for rows.Next() {
		var code string
		var sum decimal.Decimal
		if err := rows.Scan(&code, &sum); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan currency sum", err)
		}
		out.Add(code, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum journal lines by currency", err)
	}
	return out, nil
}
