package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type balanceService struct {
	BaseService
}

// NewBalanceService creates the balance calculator over store.
func NewBalanceService(store portsrepo.Store, options ...ServiceOption) portssvc.BalanceSvc {
	return &balanceService{BaseService: newBaseService(store, options...)}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func (s *balanceService) GetBalanceAtDate(ctx context.Context, accountID string, date domain.Date) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.FindAccountByID(ctx, accountID); err != nil {
			return err
		}
		var err error
		balance, err = balanceAtDateTx(ctx, tx, accountID, date, true)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to compute balance", slog.String("account_id", accountID), slog.String("date", date.String()))
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *balanceService) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return s.GetBalanceAtDate(ctx, accountID, s.Today())
}
