package services

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// InvestmentReaderSvc defines read operations for the security sub-ledger
type InvestmentReaderSvc interface {
	GetInvestmentProperties(ctx context.Context, accountID string) (*domain.InvestmentProperties, error)

	// CalculateCostBasis returns the cost of selling quantity shares today.
	CalculateCostBasis(ctx context.Context, accountID string, quantity decimal.Decimal) (decimal.Decimal, error)
}

// InvestmentWriterSvc posts investment transactions through the ledger.
type InvestmentWriterSvc interface {
	CreateInvestmentProperties(ctx context.Context, req dto.CreateInvestmentRequest) (*domain.InvestmentProperties, error)
	RecordBuy(ctx context.Context, req dto.TradeRequest) (*domain.JournalEntry, error)
	RecordSell(ctx context.Context, req dto.TradeRequest) (*dto.SellResult, error)
	RecordStockSplit(ctx context.Context, req dto.StockSplitRequest) (*domain.InvestmentProperties, error)
	RecordReinvestedDividend(ctx context.Context, req dto.ReinvestedDividendRequest) ([]domain.JournalEntry, error)
	RecordFee(ctx context.Context, req dto.InvestmentCashRequest) (*domain.JournalEntry, error)
	RecordInterest(ctx context.Context, req dto.InvestmentCashRequest) (*domain.JournalEntry, error)
}

// InvestmentSvcFacade combines all investment-related service interfaces
type InvestmentSvcFacade interface {
	InvestmentReaderSvc
	InvestmentWriterSvc
}
