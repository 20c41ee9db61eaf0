package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentProperties represents a row of the investment_properties table.
type InvestmentProperties struct {
	AccountID       string          `db:"account_id"`
	TickerSymbol    string          `db:"ticker_symbol"`
	Quantity        decimal.Decimal `db:"quantity"`
	CostBasisMethod string          `db:"cost_basis_method"`
	AuditFields
}

// Lot represents a row of the investment_lots table. Seq orders the lots of an account.
type Lot struct {
	AccountID     string          `db:"account_id"`
	Seq           int             `db:"seq"`
	LotDate       time.Time       `db:"lot_date"`
	Quantity      decimal.Decimal `db:"quantity"`
	PricePerShare decimal.Decimal `db:"price_per_share"`
	Amount        decimal.Decimal `db:"amount"`
}
