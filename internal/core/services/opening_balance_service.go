package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/utils/accounting"
	"github.com/SscSPs/household_ledger/internal/utils/validation"
)

const openingBalanceDescription = "Opening Balance"

type openingBalanceService struct {
	BaseService
}

// NewOpeningBalanceService creates the opening balance service over store.
func NewOpeningBalanceService(store portsrepo.Store, options ...ServiceOption) portssvc.OpeningBalanceSvc {
	return &openingBalanceService{BaseService: newBaseService(store, options...)}
}

var _ portssvc.OpeningBalanceSvc = (*openingBalanceService)(nil)

func (s *openingBalanceService) SetOpeningBalance(ctx context.Context, req dto.SetOpeningBalanceRequest) (*domain.JournalEntry, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	var result *domain.JournalEntry
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		account, err := tx.FindAccountByID(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if !account.IsUser() {
			return validationErrorf("opening balances can only be set on user accounts, %s is %s", account.Name, account.AccountType)
		}
		if err := tx.LockAccounts(ctx, []string{account.AccountID}); err != nil {
			return err
		}
		raw := accounting.OpeningRawAmount(account.Subtype, req.Amount)

		existing, err := s.findOpeningEntryTx(ctx, tx, account.AccountID)
		if err != nil {
			return err
		}

		if raw.IsZero() {
			if existing != nil {
				s.LogInfo(ctx, "Removing opening balance", slog.String("account_id", account.AccountID), slog.String("entry_id", existing.EntryID))
				return tx.DeleteEntry(ctx, existing.EntryID)
			}
			return nil
		}

		if existing == nil {
			equity, err := s.systemAccountTx(ctx, tx, domain.OpeningBalancesAccountName, account.CurrencyCode)
			if err != nil {
				return err
			}
			result, err = s.postEntryTx(ctx, tx, domain.JournalEntry{
				EntryDate:   date,
				Description: openingBalanceDescription,
				EntryType:   domain.EntryTypeOpeningBalance,
				Lines: []domain.JournalLine{
					{AccountID: account.AccountID, Amount: raw, CurrencyCode: account.CurrencyCode},
					{AccountID: equity.AccountID, Amount: raw.Neg(), CurrencyCode: account.CurrencyCode},
				},
			}, false)
			return err
		}

		accountLine, equityLine, err := openingLines(existing, account.AccountID)
		if err != nil {
			return err
		}
		existing.EntryDate = date
		existing.LastUpdatedAt = s.Now()
		if err := tx.UpdateEntry(ctx, *existing); err != nil {
			return err
		}
		accountLine.Amount = raw
		equityLine.Amount = raw.Neg()
		if err := tx.UpdateLine(ctx, accountLine); err != nil {
			return err
		}
		if err := tx.UpdateLine(ctx, equityLine); err != nil {
			return err
		}
		result, err = tx.FindEntryByID(ctx, existing.EntryID)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to set opening balance", slog.String("account_id", req.AccountID))
		return nil, err
	}
	if result != nil {
		s.LogInfo(ctx, "Opening balance set", slog.String("account_id", req.AccountID), slog.String("entry_id", result.EntryID))
	}
	return result, nil
}

func (s *openingBalanceService) GetOpeningBalance(ctx context.Context, accountID string) (*domain.JournalEntry, error) {
	var result *domain.JournalEntry
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.FindAccountByID(ctx, accountID); err != nil {
			return err
		}
		var err error
		result, err = s.findOpeningEntryTx(ctx, tx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: no opening balance for account %s", apperrors.ErrNotFound, accountID)
	}
	return result, nil
}
