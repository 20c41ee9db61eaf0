package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

type aggregationService struct {
	BaseService
	rates portsrepo.RateProvider
}

// NewAggregationService creates the multi-currency aggregator. Without a rate provider every
// foreign currency is reported as unconvertible.
func NewAggregationService(store portsrepo.Store, rates portsrepo.RateProvider, options ...ServiceOption) portssvc.AggregationSvc {
	return &aggregationService{BaseService: newBaseService(store, options...), rates: rates}
}

var _ portssvc.AggregationSvc = (*aggregationService)(nil)

func (s *aggregationService) GetCategoryBalancesByCurrency(ctx context.Context, categoryID string) (domain.CurrencyBalances, error) {
	var balances domain.CurrencyBalances
	today := s.Today()
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		account, err := tx.FindAccountByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if !account.IsCategory() {
			return validationErrorf("account %s is not a category", account.Name)
		}
		balances, err = tx.SumLinesByCurrency(ctx, portsrepo.LineFilter{AccountID: categoryID, Until: &today})
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to compute category balances", slog.String("account_id", categoryID))
		return nil, err
	}
	return balances, nil
}

// accountBucketsTx adds the balance of account at date into out. Categories contribute per
// line currency, every other account in its own currency.
func accountBucketsTx(ctx context.Context, tx portsrepo.LedgerTx, account domain.Account, date domain.Date, out domain.CurrencyBalances) error {
	if account.IsCategory() {
		byCurrency, err := tx.SumLinesByCurrency(ctx, portsrepo.LineFilter{AccountID: account.AccountID, Until: &date})
		if err != nil {
			return err
		}
		for currency, amount := range byCurrency {
			out.Add(currency, amount)
		}
		return nil
	}
	balance, err := balanceAtDateTx(ctx, tx, account.AccountID, date, true)
	if err != nil {
		return err
	}
	out.Add(account.CurrencyCode, balance)
	return nil
}

func (s *aggregationService) GetGroupAggregateBalance(ctx context.Context, groupID string) (domain.AggregateBalance, error) {
	aggregate := domain.AggregateBalance{ByCurrency: domain.CurrencyBalances{}}
	today := s.Today()
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.FindGroupByID(ctx, groupID); err != nil {
			return err
		}
		members, err := tx.ListAccountsByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		for _, member := range members {
			if err := accountBucketsTx(ctx, tx, member, today, aggregate.ByCurrency); err != nil {
				return err
			}
		}
		aggregate.ByCurrency.Compact()
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to aggregate group balance", slog.String("group_id", groupID))
		return domain.AggregateBalance{}, err
	}
	return aggregate, nil
}

func (s *aggregationService) GetNetWorth(ctx context.Context, baseCurrency string, date domain.Date) (*domain.NetWorth, error) {
	baseCurrency = strings.ToUpper(baseCurrency)
	if !utils.IsKnownCurrency(baseCurrency) {
		return nil, validationErrorf("unknown currency %q", baseCurrency)
	}

	worth := &domain.NetWorth{Date: date, BaseCurrency: baseCurrency, ByCurrency: domain.CurrencyBalances{}}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := tx.ListAccountsByType(ctx, domain.UserAccount)
		if err != nil {
			return err
		}
		for _, account := range accounts {
			if err := accountBucketsTx(ctx, tx, account, date, worth.ByCurrency); err != nil {
				return err
			}
		}
		worth.ByCurrency.Compact()
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to compute net worth", slog.String("date", date.String()))
		return nil, err
	}

	total := decimal.Zero
	for _, currency := range worth.ByCurrency.Currencies() {
		amount := worth.ByCurrency[currency]
		if currency == baseCurrency {
			total = domain.Round2(total.Add(amount))
			continue
		}
		if s.rates == nil {
			worth.Unknown = append(worth.Unknown, currency)
			continue
		}
		rate, ok, err := s.rates.GetRate(ctx, currency, baseCurrency, date)
		if err != nil {
			s.LogError(ctx, err, "Failed to look up exchange rate", slog.String("from", currency), slog.String("to", baseCurrency))
			return nil, err
		}
		if !ok {
			worth.Unknown = append(worth.Unknown, currency)
			continue
		}
		total = domain.Round2(total.Add(domain.Round2(amount.Mul(rate))))
	}
	if len(worth.Unknown) == 0 {
		worth.Total = &total
	}
	return worth, nil
}

func (s *aggregationService) GetCategoryRollup(ctx context.Context, from, to domain.Date) ([]domain.CategoryRollupRow, error) {
	if to.Before(from) {
		return nil, validationErrorf("range end %s is before start %s", to, from)
	}
	rows := []domain.CategoryRollupRow{}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		categories, err := tx.ListAccountsByType(ctx, domain.CategoryAccount)
		if err != nil {
			return err
		}
		for _, category := range categories {
			sums, err := tx.SumLinesByCurrency(ctx, portsrepo.LineFilter{AccountID: category.AccountID, From: &from, Until: &to})
			if err != nil {
				return err
			}
			if len(sums) == 0 {
				continue
			}
			rows = append(rows, domain.CategoryRollupRow{AccountID: category.AccountID, Name: category.Name, ByCurrency: sums})
		}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to roll up categories", slog.String("from", from.String()), slog.String("to", to.String()))
		return nil, err
	}
	return rows, nil
}
