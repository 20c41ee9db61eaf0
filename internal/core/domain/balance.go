package domain

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// CurrencyBalances maps an ISO currency code to an amount in that currency.
type CurrencyBalances map[string]decimal.Decimal

// Add accumulates amount into the currency bucket, rounding after the step.
func (b CurrencyBalances) Add(currency string, amount decimal.Decimal) {
	b[currency] = Round2(b[currency].Add(amount))
}

// Compact removes buckets whose amount is zero.
func (b CurrencyBalances) Compact() {
	for c, v := range b {
		if v.IsZero() {
			delete(b, c)
		}
	}
}

// Currencies returns the bucket keys in sorted order.
func (b CurrencyBalances) Currencies() []string {
	codes := make([]string, 0, len(b))
	for c := range b {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// AggregateBalance is the balance of a set of accounts. When exactly one currency is present it
// collapses to a bare number; otherwise it is a currency map. Amounts in different currencies
// are never summed together.
type AggregateBalance struct {
	ByCurrency CurrencyBalances
}

// Single returns the amount and currency when the aggregate holds exactly one currency.
func (a AggregateBalance) Single() (decimal.Decimal, string, bool) {
	if len(a.ByCurrency) != 1 {
		return decimal.Zero, "", false
	}
	for c, v := range a.ByCurrency {
		return v, c, true
	}
	return decimal.Zero, "", false
}

func (a AggregateBalance) MarshalJSON() ([]byte, error) {
	if v, _, ok := a.Single(); ok {
		return json.Marshal(v)
	}
	if a.ByCurrency == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a.ByCurrency)
}

// NetWorth is the per-currency sum of User account balances, optionally converted to a base
// currency. When a rate is missing Total is nil and Unknown lists the unconvertible currencies.
type NetWorth struct {
	Date         Date             `json:"date"`
	BaseCurrency string           `json:"baseCurrency"`
	ByCurrency   CurrencyBalances `json:"byCurrency"`
	Total        *decimal.Decimal `json:"total,omitempty"`
	Unknown      []string         `json:"unknown,omitempty"`
}

// CategoryRollupRow is the per-line-currency activity of one category over a period.
type CategoryRollupRow struct {
	AccountID  string           `json:"accountID"`
	Name       string           `json:"name"`
	ByCurrency CurrencyBalances `json:"byCurrency"`
}
