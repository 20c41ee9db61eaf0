package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	err := s.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		for _, a := range []domain.Account{
			{AccountID: "checking", Name: "Checking", AccountType: domain.UserAccount, Subtype: domain.Asset, CurrencyCode: "USD"},
			{AccountID: "food", Name: "Food", AccountType: domain.CategoryAccount, Subtype: domain.Asset, CurrencyCode: "USD"},
		} {
			if err := tx.SaveAccount(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func entry(id string, date domain.Date, amount int64, order int64) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:      id,
		EntryDate:    date,
		Description:  "groceries",
		DisplayOrder: order,
		Lines: []domain.JournalLine{
			{LineID: id + "-0", EntryID: id, LineNo: 0, AccountID: "checking", Amount: decimal.NewFromInt(-amount), CurrencyCode: "USD"},
			{LineID: id + "-1", EntryID: id, LineNo: 1, AccountID: "food", Amount: decimal.NewFromInt(amount), CurrencyCode: "USD"},
		},
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := NewStore()
	seed(t, s)
	boom := errors.New("boom")

	err := s.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		require.NoError(t, tx.SaveEntry(ctx, entry("e1", domain.NewDate(2024, 1, 1), 10, 1)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = s.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, err := tx.FindEntryByID(ctx, "e1")
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSumLinesWindow(t *testing.T) {
	s := NewStore()
	seed(t, s)
	jan1, jan2, jan3 := domain.NewDate(2024, 1, 1), domain.NewDate(2024, 1, 2), domain.NewDate(2024, 1, 3)

	err := s.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		for _, e := range []domain.JournalEntry{entry("e1", jan1, 10, 1), entry("e2", jan2, 20, 2), entry("e3", jan3, 30, 3)} {
			if err := tx.SaveEntry(ctx, e); err != nil {
				return err
			}
		}

		sum, err := tx.SumLines(ctx, portsrepo.LineFilter{AccountID: "checking", Until: &jan2})
		require.NoError(t, err)
		assert.Equal(t, "-30", sum.String())

		sum, err = tx.SumLines(ctx, portsrepo.LineFilter{AccountID: "checking", After: &jan1, Until: &jan3, ExcludeEntryIDs: []string{"e3"}})
		require.NoError(t, err)
		assert.Equal(t, "-20", sum.String())

		byCurrency, err := tx.SumLinesByCurrency(ctx, portsrepo.LineFilter{AccountID: "food", From: &jan2})
		require.NoError(t, err)
		assert.Equal(t, "50", byCurrency["USD"].String())
		return nil
	})
	require.NoError(t, err)
}

func TestListEntriesByAccountCursor(t *testing.T) {
	s := NewStore()
	seed(t, s)
	jan1, jan2 := domain.NewDate(2024, 1, 1), domain.NewDate(2024, 1, 2)

	err := s.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		for _, e := range []domain.JournalEntry{entry("e1", jan1, 10, 1), entry("e2", jan2, 20, 2), entry("e3", jan2, 30, 3)} {
			if err := tx.SaveEntry(ctx, e); err != nil {
				return err
			}
		}
		page, err := tx.ListEntriesByAccount(ctx, "checking", 2, nil)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "e3", page[0].EntryID)
		assert.Equal(t, "e2", page[1].EntryID)

		page, err = tx.ListEntriesByAccount(ctx, "checking", 2, &portsrepo.EntryCursor{EntryDate: jan2, DisplayOrder: 2})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "e1", page[0].EntryID)
		return nil
	})
	require.NoError(t, err)
}

func TestSaveAccountDuplicate(t *testing.T) {
	s := NewStore()
	seed(t, s)
	err := s.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.SaveAccount(ctx, domain.Account{AccountID: "other", Name: "Checking", AccountType: domain.UserAccount})
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestGetRate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.SaveExchangeRate(ctx, domain.ExchangeRate{FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: decimal.RequireFromString("1.1"), DateEffective: domain.NewDate(2024, 1, 1)}))
	require.NoError(t, s.SaveExchangeRate(ctx, domain.ExchangeRate{FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: decimal.RequireFromString("1.2"), DateEffective: domain.NewDate(2024, 3, 1)}))

	rate, ok, err := s.GetRate(ctx, "EUR", "USD", domain.NewDate(2024, 2, 15))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1.1", rate.String())

	rate, ok, err = s.GetRate(ctx, "EUR", "USD", domain.NewDate(2024, 6, 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1.2", rate.String())

	_, ok, err = s.GetRate(ctx, "EUR", "USD", domain.NewDate(2023, 12, 31))
	require.NoError(t, err)
	assert.False(t, ok)
}
