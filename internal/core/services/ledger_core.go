package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/household_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// postEntryTx assigns ids, line numbers, display order and audit fields, checks that the
// lines balance and persists the entry. With reconcile set the opening balance reconciler
// runs over the new lines.
func (s *BaseService) postEntryTx(ctx context.Context, tx portsrepo.LedgerTx, entry domain.JournalEntry, reconcile bool) (*domain.JournalEntry, error) {
	if err := tx.LockAccounts(ctx, lineAccountIDs(entry.Lines)); err != nil {
		return nil, err
	}

	switch {
	case len(entry.Lines) == 0 && entry.EntryType == domain.EntryTypeSplit:
	case entry.EntryType == domain.EntryTypeCurrencyTransfer:
		if err := accounting.ValidateCurrencyTransfer(entry.Lines); err != nil {
			return nil, err
		}
	default:
		if err := accounting.ValidateEntryBalance(entry.Lines); err != nil {
			return nil, err
		}
	}

	order, err := tx.NextDisplayOrder(ctx)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	entry.EntryID = uuid.NewString()
	entry.DisplayOrder = order
	entry.AuditFields = domain.AuditFields{CreatedAt: now, LastUpdatedAt: now}
	lines := make([]domain.JournalLine, len(entry.Lines))
	for i, line := range entry.Lines {
		line.LineID = uuid.NewString()
		line.EntryID = entry.EntryID
		line.LineNo = i
		line.Amount = domain.Round2(line.Amount)
		lines[i] = line
	}
	entry.Lines = lines

	if err := tx.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	if reconcile && !entry.IsOpeningBalance() {
		if err := s.adjustOpeningBalanceTx(ctx, tx, lineChange{date: entry.EntryDate, lines: entry.Lines, sign: 1}); err != nil {
			return nil, err
		}
	}
	return &entry, nil
}

func lineAccountIDs(lines []domain.JournalLine) []string {
	seen := make(map[string]bool, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	sort.Strings(ids)
	return ids
}

// loadAccountsTx fetches the given accounts and fails with apperrors.ErrNotFound when one is missing.
func loadAccountsTx(ctx context.Context, tx portsrepo.LedgerTx, ids ...string) (map[string]domain.Account, error) {
	accounts, err := tx.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// transactionLines derives the two lines of an income, expense or transfer between from
// (the user side) and to. Both lines record the currency of the user account.
func transactionLines(txnType domain.TransactionType, from, to domain.Account, amount decimal.Decimal) ([]domain.JournalLine, error) {
	if !from.IsUser() {
		return nil, validationErrorf("fromAccountID must be a user account, %s is a %s account", from.Name, from.AccountType)
	}
	if from.CurrencyCode != to.CurrencyCode && !to.IsCategory() {
		return nil, validationErrorf("accounts %s (%s) and %s (%s) have different currencies, use a currency transfer",
			from.Name, from.CurrencyCode, to.Name, to.CurrencyCode)
	}
	fromAmount, toAmount, err := accounting.CalculateSignedAmounts(txnType, from, amount)
	if err != nil {
		return nil, err
	}

	return []domain.JournalLine{
		{AccountID: from.AccountID, Amount: fromAmount, CurrencyCode: from.CurrencyCode},
		{AccountID: to.AccountID, Amount: toAmount, CurrencyCode: from.CurrencyCode},
	}, nil
}

// findDuplicateTx returns an existing entry on the same date with the same description
// whose lines post the same signed amounts in the same currencies to the same accounts.
func findDuplicateTx(ctx context.Context, tx portsrepo.LedgerTx, date domain.Date, description string, lines []domain.JournalLine) (*domain.JournalEntry, error) {
	candidates, err := tx.FindEntriesByDateAndDescription(ctx, date, description)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if sameLines(candidates[i].Lines, lines) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

func sameLines(existing, proposed []domain.JournalLine) bool {
	if len(existing) != len(proposed) {
		return false
	}
	used := make([]bool, len(existing))
	for _, p := range proposed {
		found := false
		for i, e := range existing {
			if !used[i] && e.AccountID == p.AccountID && e.CurrencyCode == p.CurrencyCode && e.Amount.Equal(domain.Round2(p.Amount)) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// findOpeningEntryTx returns the opening-balance entry of an account, or nil when there is
// none. Extra opening entries are removed, keeping the newest.
func (s *BaseService) findOpeningEntryTx(ctx context.Context, tx portsrepo.LedgerTx, accountID string) (*domain.JournalEntry, error) {
	entries, err := tx.FindEntriesByTypeAndAccount(ctx, domain.EntryTypeOpeningBalance, accountID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	for _, extra := range entries[1:] {
		s.LogInfo(ctx, "Removing extra opening balance entry",
			slog.String("account_id", accountID),
			slog.String("entry_id", extra.EntryID),
			slog.String("kept_entry_id", entries[0].EntryID))
		if err := tx.DeleteEntry(ctx, extra.EntryID); err != nil {
			return nil, err
		}
	}
	return &entries[0], nil
}

// openingLines splits an opening entry into the account side and the equity side.
func openingLines(entry *domain.JournalEntry, accountID string) (domain.JournalLine, domain.JournalLine, error) {
	var accountLine, equityLine domain.JournalLine
	var haveAccount, haveEquity bool
	for _, l := range entry.Lines {
		if l.AccountID == accountID && !haveAccount {
			accountLine, haveAccount = l, true
		} else {
			equityLine, haveEquity = l, true
		}
	}
	if !haveAccount || !haveEquity || len(entry.Lines) != 2 {
		return accountLine, equityLine, invariantErrorf("opening balance entry %s is malformed", entry.EntryID)
	}
	return accountLine, equityLine, nil
}

// lineChange is a set of lines dated date that is being added (sign 1) or removed (sign -1).
type lineChange struct {
	date  domain.Date
	lines []domain.JournalLine
	sign  int
}

// adjustOpeningBalanceTx keeps today's balance of user accounts stable when lines dated
// before the account's opening entry change: the opening entry absorbs the net shift of all
// changes, and is removed only when that net result brings it to zero.
func (s *BaseService) adjustOpeningBalanceTx(ctx context.Context, tx portsrepo.LedgerTx, changes ...lineChange) error {
	var order []string
	openings := make(map[string]*domain.JournalEntry)
	shifts := make(map[string]decimal.Decimal)
	for _, change := range changes {
		for _, line := range change.lines {
			opening, seen := openings[line.AccountID]
			if !seen {
				account, err := tx.FindAccountByID(ctx, line.AccountID)
				if err != nil {
					return err
				}
				if account.IsUser() {
					if opening, err = s.findOpeningEntryTx(ctx, tx, account.AccountID); err != nil {
						return err
					}
				}
				openings[line.AccountID] = opening
				order = append(order, line.AccountID)
			}
			if opening == nil || !change.date.Before(opening.EntryDate) {
				continue
			}
			shift := line.Amount.Mul(decimal.NewFromInt(int64(-change.sign)))
			shifts[line.AccountID] = shifts[line.AccountID].Add(shift)
		}
	}

	for _, accountID := range order {
		opening, shift := openings[accountID], shifts[accountID]
		if opening == nil || shift.IsZero() {
			continue
		}
		accountLine, equityLine, err := openingLines(opening, accountID)
		if err != nil {
			return err
		}
		newAmount := domain.Round2(accountLine.Amount.Add(shift))

		if newAmount.IsZero() {
			s.LogInfo(ctx, "Opening balance reduced to zero, removing entry",
				slog.String("account_id", accountID),
				slog.String("entry_id", opening.EntryID))
			if err := tx.DeleteEntry(ctx, opening.EntryID); err != nil {
				return err
			}
			continue
		}

		accountLine.Amount = newAmount
		equityLine.Amount = newAmount.Neg()
		if err := tx.UpdateLine(ctx, accountLine); err != nil {
			return err
		}
		if err := tx.UpdateLine(ctx, equityLine); err != nil {
			return err
		}
		s.LogDebug(ctx, "Adjusted opening balance",
			slog.String("account_id", accountID),
			slog.String("entry_id", opening.EntryID),
			slog.String("amount", newAmount.String()))
	}
	return nil
}

// balanceAtDateTx sums an account up to and including date, starting from the latest
// checkpoint on or before date (strictly before when inclusive is false).
func balanceAtDateTx(ctx context.Context, tx portsrepo.LedgerTx, accountID string, date domain.Date, inclusive bool) (decimal.Decimal, error) {
	cp, err := tx.FindLatestCheckpoint(ctx, accountID, date, inclusive)
	if errors.Is(err, apperrors.ErrNotFound) {
		return tx.SumLines(ctx, portsrepo.LineFilter{AccountID: accountID, Until: &date})
	}
	if err != nil {
		return decimal.Zero, err
	}

	filter := portsrepo.LineFilter{AccountID: accountID, After: &cp.CheckpointDate, Until: &date}
	if cp.EntryID != "" {
		filter.ExcludeEntryIDs = []string{cp.EntryID}
	}
	sum, err := tx.SumLines(ctx, filter)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.Round2(cp.Balance.Add(sum)), nil
}
