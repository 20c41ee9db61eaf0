package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/utils/accounting"
	"github.com/SscSPs/household_ledger/internal/utils/pagination"
	"github.com/SscSPs/household_ledger/internal/utils/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
}

// NewLedgerService creates the ledger core over store.
func NewLedgerService(store portsrepo.Store, options ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{BaseService: newBaseService(store, options...)}
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (*dto.CreateEntryResult, error) {
	if err := validation.Struct(req); err != nil {
		s.LogWarn(ctx, err, "Invalid create entry request")
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	postingDate, err := parsePostingDate(req.PostingDate, date)
	if err != nil {
		return nil, err
	}
	if req.Amount.IsZero() {
		return nil, validationErrorf("amount must be non-zero")
	}
	txnType, _ := domain.ParseTransactionType(req.TransactionType)

	var result *dto.CreateEntryResult
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := loadAccountsTx(ctx, tx, req.FromAccountID, req.ToAccountID)
		if err != nil {
			return err
		}
		from, to := accounts[req.FromAccountID], accounts[req.ToAccountID]
		if err := checkNotArchived(from, to); err != nil {
			return err
		}
		lines, err := transactionLines(txnType, from, to, req.Amount)
		if err != nil {
			return err
		}
		entry := domain.JournalEntry{
			EntryDate:   date,
			PostingDate: postingDate,
			Description: req.Description,
			EntryType:   txnType.EntryType(),
			Lines:       lines,
		}
		result, err = s.createWithDuplicateCheckTx(ctx, tx, entry, req.AllowDuplicate)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create journal entry",
			slog.String("from_account_id", req.FromAccountID),
			slog.String("to_account_id", req.ToAccountID))
		return nil, err
	}
	s.logCreateResult(ctx, result)
	return result, nil
}

func (s *ledgerService) CreateCurrencyTransfer(ctx context.Context, req dto.CurrencyTransferRequest) (*dto.CreateEntryResult, error) {
	if err := validation.Struct(req); err != nil {
		s.LogWarn(ctx, err, "Invalid currency transfer request")
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	postingDate, err := parsePostingDate(req.PostingDate, date)
	if err != nil {
		return nil, err
	}
	amountFrom, amountTo, rate, err := accounting.DeriveCurrencyTransfer(req.AmountFrom, req.AmountTo, req.ExchangeRate)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected currency transfer")
		return nil, err
	}

	var result *dto.CreateEntryResult
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := loadAccountsTx(ctx, tx, req.FromAccountID, req.ToAccountID)
		if err != nil {
			return err
		}
		from, to := accounts[req.FromAccountID], accounts[req.ToAccountID]
		if err := checkNotArchived(from, to); err != nil {
			return err
		}
		if from.CurrencyCode == to.CurrencyCode {
			return validationErrorf("accounts %s and %s share currency %s, use a transfer", from.Name, to.Name, from.CurrencyCode)
		}
		entry := domain.JournalEntry{
			EntryDate:   date,
			PostingDate: postingDate,
			Description: req.Description,
			EntryType:   domain.EntryTypeCurrencyTransfer,
			Lines: []domain.JournalLine{
				{AccountID: from.AccountID, Amount: amountFrom.Neg(), CurrencyCode: from.CurrencyCode, ExchangeRate: &rate},
				{AccountID: to.AccountID, Amount: amountTo, CurrencyCode: to.CurrencyCode},
			},
		}
		result, err = s.createWithDuplicateCheckTx(ctx, tx, entry, req.AllowDuplicate)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create currency transfer",
			slog.String("from_account_id", req.FromAccountID),
			slog.String("to_account_id", req.ToAccountID))
		return nil, err
	}
	s.logCreateResult(ctx, result)
	return result, nil
}

func (s *ledgerService) createWithDuplicateCheckTx(ctx context.Context, tx portsrepo.LedgerTx, entry domain.JournalEntry, allowDuplicate bool) (*dto.CreateEntryResult, error) {
	if !allowDuplicate {
		duplicate, err := findDuplicateTx(ctx, tx, entry.EntryDate, entry.Description, entry.Lines)
		if err != nil {
			return nil, err
		}
		if duplicate != nil {
			return &dto.CreateEntryResult{
				Skipped:    true,
				Duplicate:  duplicate,
				SkipReason: fmt.Sprintf("potential duplicate of entry %s on %s", duplicate.EntryID, duplicate.EntryDate),
			}, nil
		}
	}
	created, err := s.postEntryTx(ctx, tx, entry, true)
	if err != nil {
		return nil, err
	}
	return &dto.CreateEntryResult{Entry: created}, nil
}

func (s *ledgerService) logCreateResult(ctx context.Context, result *dto.CreateEntryResult) {
	if result.Skipped {
		s.LogInfo(ctx, "Skipped duplicate journal entry", slog.String("duplicate_entry_id", result.Duplicate.EntryID))
		return
	}
	s.LogInfo(ctx, "Journal entry created", slog.String("entry_id", result.Entry.EntryID))
}

func checkNotArchived(accounts ...domain.Account) error {
	for _, a := range accounts {
		if a.IsArchived {
			return validationErrorf("account %s is archived", a.Name)
		}
	}
	return nil
}

func (s *ledgerService) UpdateLine(ctx context.Context, lineID string, req dto.UpdateLineRequest) (*domain.JournalEntry, error) {
	var updated *domain.JournalEntry
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		line, err := tx.FindLineByID(ctx, lineID)
		if err != nil {
			return err
		}
		entry, err := tx.FindEntryByID(ctx, line.EntryID)
		if err != nil {
			return err
		}
		if entry.IsOpeningBalance() {
			return validationErrorf("opening balance entries are changed with setOpeningBalance")
		}
		txnType, ok := domain.ParseTransactionType(string(entry.EntryType))
		if !ok || len(entry.Lines) != 2 {
			return validationErrorf("entries of type %q cannot be edited line by line", entry.EntryType)
		}
		oldDate := entry.EntryDate
		oldLines := append([]domain.JournalLine(nil), entry.Lines...)
		fromLine, toLine := entry.Lines[0], entry.Lines[1]

		fromID, toID := fromLine.AccountID, toLine.AccountID
		if req.FromAccountID != "" {
			fromID = req.FromAccountID
		}
		if req.ToAccountID != "" {
			toID = req.ToAccountID
		}
		if fromID == toID {
			return validationErrorf("fromAccountID and toAccountID must differ")
		}
		accounts, err := loadAccountsTx(ctx, tx, fromLine.AccountID, fromID, toID)
		if err != nil {
			return err
		}

		amount := accounting.TransactionAmount(txnType, accounts[fromLine.AccountID], fromLine.Amount)
		if req.Amount != nil {
			amount = *req.Amount
		}
		if amount.IsZero() {
			return validationErrorf("amount must be non-zero")
		}
		if req.Date != "" {
			if entry.EntryDate, err = parseDate("date", req.Date); err != nil {
				return err
			}
		}
		if req.Description != nil {
			entry.Description = *req.Description
		}
		if req.PostingDate != nil {
			if entry.PostingDate, err = parsePostingDate(req.PostingDate, entry.EntryDate); err != nil {
				return err
			}
		} else if entry.PostingDate != nil && entry.PostingDate.Before(entry.EntryDate) {
			return validationErrorf("postingDate %s is before date %s", *entry.PostingDate, entry.EntryDate)
		}

		newLines, err := transactionLines(txnType, accounts[fromID], accounts[toID], amount)
		if err != nil {
			return err
		}
		fromLine.AccountID, fromLine.Amount, fromLine.CurrencyCode = newLines[0].AccountID, newLines[0].Amount, newLines[0].CurrencyCode
		toLine.AccountID, toLine.Amount, toLine.CurrencyCode = newLines[1].AccountID, newLines[1].Amount, newLines[1].CurrencyCode
		entry.Lines = []domain.JournalLine{fromLine, toLine}

		if err := tx.LockAccounts(ctx, lineAccountIDs(append(oldLines, entry.Lines...))); err != nil {
			return err
		}
		entry.LastUpdatedAt = s.Now()
		if err := tx.UpdateEntry(ctx, *entry); err != nil {
			return err
		}
		for _, l := range entry.Lines {
			if err := tx.UpdateLine(ctx, l); err != nil {
				return err
			}
		}
		if err := s.adjustOpeningBalanceTx(ctx, tx,
			lineChange{date: oldDate, lines: oldLines, sign: -1},
			lineChange{date: entry.EntryDate, lines: entry.Lines, sign: 1},
		); err != nil {
			return err
		}
		updated, err = tx.FindEntryByID(ctx, entry.EntryID)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update journal line", slog.String("line_id", lineID))
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", updated.EntryID), slog.String("line_id", lineID))
	return updated, nil
}

// lotEntryTypes carry lot state that a plain delete would leave inconsistent.
var lotEntryTypes = map[domain.EntryType]bool{
	domain.EntryTypeBuy:          true,
	domain.EntryTypeSell:         true,
	domain.EntryTypeSplit:        true,
	domain.EntryTypeReinvestment: true,
}

func (s *ledgerService) DeleteEntry(ctx context.Context, entryID string) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		entry, err := tx.FindEntryByID(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.EntryType == domain.EntryTypeCheckpoint {
			return validationErrorf("entry %s backs a checkpoint, delete the checkpoint instead", entryID)
		}
		if lotEntryTypes[entry.EntryType] {
			return validationErrorf("entry %s of type %q updates security lots and cannot be deleted", entryID, entry.EntryType)
		}
		if err := tx.LockAccounts(ctx, lineAccountIDs(entry.Lines)); err != nil {
			return err
		}
		if !entry.IsOpeningBalance() {
			if err := s.adjustOpeningBalanceTx(ctx, tx, lineChange{date: entry.EntryDate, lines: entry.Lines, sign: -1}); err != nil {
				return err
			}
		}
		return tx.DeleteEntry(ctx, entryID)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete journal entry", slog.String("entry_id", entryID))
		return err
	}
	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID))
	return nil
}

func (s *ledgerService) SwapDisplayOrder(ctx context.Context, req dto.SwapDisplayOrderRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		a, err := tx.FindEntryByID(ctx, req.EntryIDA)
		if err != nil {
			return err
		}
		b, err := tx.FindEntryByID(ctx, req.EntryIDB)
		if err != nil {
			return err
		}
		now := s.Now()
		a.DisplayOrder, b.DisplayOrder = b.DisplayOrder, a.DisplayOrder
		a.LastUpdatedAt, b.LastUpdatedAt = now, now
		if err := tx.UpdateEntry(ctx, *a); err != nil {
			return err
		}
		return tx.UpdateEntry(ctx, *b)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to swap display order",
			slog.String("entry_a", req.EntryIDA), slog.String("entry_b", req.EntryIDB))
		return err
	}
	return nil
}

func (s *ledgerService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		entry, err = tx.FindEntryByID(ctx, entryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) ListAccountEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var cursor *portsrepo.EntryCursor
	if params.NextToken != nil && *params.NextToken != "" {
		date, order, err := pagination.DecodeEntryToken(*params.NextToken)
		if err != nil {
			return nil, validationErrorf("%v", err)
		}
		cursor = &portsrepo.EntryCursor{EntryDate: date, DisplayOrder: order}
	}

	var entries []domain.JournalEntry
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.FindAccountByID(ctx, accountID); err != nil {
			return err
		}
		var err error
		entries, err = tx.ListEntriesByAccount(ctx, accountID, limit+1, cursor)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to list account entries", slog.String("account_id", accountID))
		return nil, err
	}

	resp := &dto.ListEntriesResponse{Entries: entries}
	if len(entries) > limit {
		resp.Entries = entries[:limit]
		last := resp.Entries[limit-1]
		token := pagination.EncodeEntryToken(last.EntryDate, last.DisplayOrder)
		resp.NextToken = &token
	}
	if resp.Entries == nil {
		resp.Entries = []domain.JournalEntry{}
	}
	return resp, nil
}
