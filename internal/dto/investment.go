package dto

import (
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Dividend recording modes.
const (
	DividendAsIncome    = "income"
	DividendAsCostBasis = "cost_basis"
)

// CreateInvestmentRequest attaches a security sub-ledger to an account.
type CreateInvestmentRequest struct {
	AccountID       string `json:"accountID" binding:"required"`
	TickerSymbol    string `json:"tickerSymbol" binding:"required"`
	CostBasisMethod string `json:"costBasisMethod" binding:"omitempty,oneof=FIFO AVERAGE_COST"` // Defaults to FIFO
}

// TradeRequest describes a buy or a sell of a security against a cash account.
type TradeRequest struct {
	AccountID     string          `json:"accountID" binding:"required"`
	CashAccountID string          `json:"cashAccountID" binding:"required,nefield=AccountID"`
	Date          string          `json:"date" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Fee           decimal.Decimal `json:"fee"`
	Description   string          `json:"description"`
}

// SellResult reports the realized figures of a sale.
type SellResult struct {
	Entry        *domain.JournalEntry `json:"entry"`
	CostBasis    decimal.Decimal      `json:"costBasis"`
	SaleProceeds decimal.Decimal      `json:"saleProceeds"`
	RealizedGain decimal.Decimal      `json:"realizedGain"`
	Lots         domain.Lots          `json:"lots"`
}

// StockSplitRequest rescales a position by Ratio new shares per old share.
type StockSplitRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Date      string          `json:"date" binding:"required"`
	Ratio     decimal.Decimal `json:"ratio"`
}

// ReinvestedDividendRequest buys Amount/Price shares with a dividend. CashAccountID is
// required when Mode is "income".
type ReinvestedDividendRequest struct {
	AccountID     string          `json:"accountID" binding:"required"`
	CashAccountID string          `json:"cashAccountID"`
	Date          string          `json:"date" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Price         decimal.Decimal `json:"price"`
	Mode          string          `json:"mode" binding:"omitempty,oneof=income cost_basis"` // Defaults to income
	Description   string          `json:"description"`
}

// InvestmentCashRequest records a fee paid from, or interest paid into, an account.
type InvestmentCashRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Date        string          `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// CostBasisResponse is the cost of selling Quantity shares now.
type CostBasisResponse struct {
	AccountID string          `json:"accountID"`
	Quantity  decimal.Decimal `json:"quantity"`
	CostBasis decimal.Decimal `json:"costBasis"`
}
