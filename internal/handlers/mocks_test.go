package handlers_test

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest) (*domain.AccountGroup, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountGroup), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (*dto.CreateEntryResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CreateEntryResult), args.Error(1)
}
func (m *MockLedgerService) CreateCurrencyTransfer(ctx context.Context, req dto.CurrencyTransferRequest) (*dto.CreateEntryResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CreateEntryResult), args.Error(1)
}
func (m *MockLedgerService) UpdateLine(ctx context.Context, lineID string, req dto.UpdateLineRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, lineID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) DeleteEntry(ctx context.Context, entryID string) error {
	return m.Called(ctx, entryID).Error(0)
}
func (m *MockLedgerService) SwapDisplayOrder(ctx context.Context, req dto.SwapDisplayOrderRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *MockLedgerService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) ListAccountEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) GetBalanceAtDate(ctx context.Context, accountID string, date domain.Date) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockBalanceService) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portssvc.BalanceSvc = (*MockBalanceService)(nil)

// --- Mock AggregationService ---
type MockAggregationService struct {
	mock.Mock
}

func (m *MockAggregationService) GetCategoryBalancesByCurrency(ctx context.Context, categoryID string) (domain.CurrencyBalances, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.CurrencyBalances), args.Error(1)
}
func (m *MockAggregationService) GetGroupAggregateBalance(ctx context.Context, groupID string) (domain.AggregateBalance, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(domain.AggregateBalance), args.Error(1)
}
func (m *MockAggregationService) GetNetWorth(ctx context.Context, baseCurrency string, date domain.Date) (*domain.NetWorth, error) {
	args := m.Called(ctx, baseCurrency, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetWorth), args.Error(1)
}
func (m *MockAggregationService) GetCategoryRollup(ctx context.Context, from, to domain.Date) ([]domain.CategoryRollupRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryRollupRow), args.Error(1)
}

var _ portssvc.AggregationSvc = (*MockAggregationService)(nil)

// --- Mock InvestmentService ---
type MockInvestmentService struct {
	mock.Mock
}

func (m *MockInvestmentService) GetInvestmentProperties(ctx context.Context, accountID string) (*domain.InvestmentProperties, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvestmentProperties), args.Error(1)
}
func (m *MockInvestmentService) CalculateCostBasis(ctx context.Context, accountID string, quantity decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, quantity)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockInvestmentService) CreateInvestmentProperties(ctx context.Context, req dto.CreateInvestmentRequest) (*domain.InvestmentProperties, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvestmentProperties), args.Error(1)
}
func (m *MockInvestmentService) RecordBuy(ctx context.Context, req dto.TradeRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockInvestmentService) RecordSell(ctx context.Context, req dto.TradeRequest) (*dto.SellResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SellResult), args.Error(1)
}
func (m *MockInvestmentService) RecordStockSplit(ctx context.Context, req dto.StockSplitRequest) (*domain.InvestmentProperties, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvestmentProperties), args.Error(1)
}
func (m *MockInvestmentService) RecordReinvestedDividend(ctx context.Context, req dto.ReinvestedDividendRequest) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}
func (m *MockInvestmentService) RecordFee(ctx context.Context, req dto.InvestmentCashRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockInvestmentService) RecordInterest(ctx context.Context, req dto.InvestmentCashRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portssvc.InvestmentSvcFacade = (*MockInvestmentService)(nil)
