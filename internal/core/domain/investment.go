package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CostBasisMethod defines how the cost of sold shares is determined.
type CostBasisMethod string

const (
	// FIFO consumes the oldest lots first.
	FIFO CostBasisMethod = "FIFO"
	// AverageCost prices every sold share at balance/quantity.
	AverageCost CostBasisMethod = "AVERAGE_COST"
)

// ParseCostBasisMethod parses a string into a CostBasisMethod.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch m := CostBasisMethod(s); m {
	case FIFO, AverageCost:
		return m, nil
	}
	return "", fmt.Errorf("unknown cost basis method %q", s)
}

// ErrInsufficientShares is returned when lots cannot cover a requested quantity.
var ErrInsufficientShares = errors.New("insufficient shares")

// Lot is a single acquisition of a security. Amount is the total acquired cost including
// fees and does not change when the lot is split.
type Lot struct {
	LotDate       Date            `json:"date"`
	Quantity      decimal.Decimal `json:"quantity"`
	PricePerShare decimal.Decimal `json:"pricePerShare"`
	Amount        decimal.Decimal `json:"amount"`
}

// Lots is ordered ascending by LotDate.
type Lots []Lot

// InvestmentProperties is the security sub-ledger of a User account.
type InvestmentProperties struct {
	AccountID       string          `json:"accountID"`
	TickerSymbol    string          `json:"tickerSymbol"`
	Quantity        decimal.Decimal `json:"quantity"`
	CostBasisMethod CostBasisMethod `json:"costBasisMethod"`
	Lots            Lots            `json:"lots"`
	AuditFields
}

// TotalQuantity sums the quantity of every lot.
func (l Lots) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l {
		total = total.Add(lot.Quantity)
	}
	return total
}

// TotalAmount sums the cost of every lot.
func (l Lots) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l {
		total = total.Add(lot.Amount)
	}
	return total
}

// Add inserts lot after every lot acquired on or before its date.
func (l Lots) Add(lot Lot) Lots {
	i := len(l)
	for i > 0 && l[i-1].LotDate.After(lot.LotDate) {
		i--
	}
	out := make(Lots, 0, len(l)+1)
	out = append(out, l[:i]...)
	out = append(out, lot)
	return append(out, l[i:]...)
}

// costOf returns the cost of taking qty shares out of lot.
func (lot Lot) costOf(qty decimal.Decimal) decimal.Decimal {
	if qty.Equal(lot.Quantity) {
		return lot.Amount
	}
	return Round2(lot.Amount.Div(lot.Quantity).Mul(qty))
}

// FIFOCost returns the cost of selling qty shares, oldest lots first.
func (l Lots) FIFOCost(qty decimal.Decimal) (decimal.Decimal, error) {
	cost := decimal.Zero
	remaining := qty
	for _, lot := range l {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(lot.Quantity, remaining)
		cost = Round2(cost.Add(lot.costOf(take)))
		remaining = RoundQty(remaining.Sub(take))
	}
	if remaining.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: requested %s, available %s", ErrInsufficientShares, qty, l.TotalQuantity())
	}
	return cost, nil
}

// Sell consumes qty shares oldest first. A partially consumed lot keeps its proportional
// remaining cost.
func (l Lots) Sell(qty decimal.Decimal) (Lots, error) {
	if l.TotalQuantity().LessThan(qty) {
		return nil, fmt.Errorf("%w: requested %s, available %s", ErrInsufficientShares, qty, l.TotalQuantity())
	}
	remaining := qty
	out := make(Lots, 0, len(l))
	for _, lot := range l {
		if !remaining.IsPositive() {
			out = append(out, lot)
			continue
		}
		if lot.Quantity.GreaterThan(remaining) {
			lot.Amount = Round2(lot.Amount.Sub(lot.costOf(remaining)))
			lot.Quantity = RoundQty(lot.Quantity.Sub(remaining))
			remaining = decimal.Zero
			out = append(out, lot)
			continue
		}
		remaining = RoundQty(remaining.Sub(lot.Quantity))
	}
	return out, nil
}

// Split rescales every lot by ratio, keeping their order: quantity times ratio, price divided by
// ratio, amount unchanged.
func (l Lots) Split(ratio decimal.Decimal) Lots {
	out := make(Lots, len(l))
	for i, lot := range l {
		lot.Quantity = RoundQty(lot.Quantity.Mul(ratio))
		lot.PricePerShare = RoundQty(lot.PricePerShare.Div(ratio))
		out[i] = lot
	}
	return out
}
