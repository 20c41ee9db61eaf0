package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/google/uuid"
)

// engineAccounts lists the accounts the ledger creates on first use.
var engineAccounts = map[string]domain.AccountType{
	domain.OpeningBalancesAccountName:      domain.SystemAccount,
	domain.CheckpointAdjustmentAccountName: domain.SystemAccount,
	domain.ReinvestedDividendsAccountName:  domain.SystemAccount,
	domain.InvestmentExpensesAccountName:   domain.CategoryAccount,
	domain.RealizedGainsAccountName:        domain.CategoryAccount,
	domain.DividendIncomeAccountName:       domain.CategoryAccount,
	domain.InterestIncomeAccountName:       domain.CategoryAccount,
}

// systemAccountTx returns the engine account called name, creating it in currency when
// it does not exist yet. Lines posted to it carry their own currency.
func (s *BaseService) systemAccountTx(ctx context.Context, tx portsrepo.LedgerTx, name, currency string) (*domain.Account, error) {
	accountType, ok := engineAccounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an engine account", apperrors.ErrInternal, name)
	}

	account, err := tx.FindAccountByName(ctx, name, accountType)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := s.Now()
	created := domain.Account{
		AccountID:    uuid.NewString(),
		Name:         name,
		AccountType:  accountType,
		Subtype:      domain.Asset,
		CurrencyCode: currency,
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := tx.SaveAccount(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create account %q: %w", name, err)
	}
	s.LogInfo(ctx, "Created engine account", slog.String("account_id", created.AccountID), slog.String("name", name))
	return &created, nil
}
