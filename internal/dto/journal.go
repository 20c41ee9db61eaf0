package dto

import (
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest records a two-line transaction. FromAccountID is the user side,
// ToAccountID the counterparty.
type CreateEntryRequest struct {
	Date            string          `json:"date" binding:"required"` // YYYY-MM-DD
	PostingDate     *string         `json:"postingDate,omitempty"`   // Optional, not before Date
	FromAccountID   string          `json:"fromAccountID" binding:"required"`
	ToAccountID     string          `json:"toAccountID" binding:"required,nefield=FromAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transactionType" binding:"required,oneof=income expense transfer"`
	Description     string          `json:"description"`
	// AllowDuplicate forces creation when an identical entry already exists.
	AllowDuplicate bool `json:"allowDuplicate"`
}

// CurrencyTransferRequest moves money between accounts of different currencies.
// At least two of AmountFrom, AmountTo and ExchangeRate must be supplied.
type CurrencyTransferRequest struct {
	Date           string           `json:"date" binding:"required"`
	PostingDate    *string          `json:"postingDate,omitempty"`
	FromAccountID  string           `json:"fromAccountID" binding:"required"`
	ToAccountID    string           `json:"toAccountID" binding:"required,nefield=FromAccountID"`
	AmountFrom     *decimal.Decimal `json:"amountFrom,omitempty"`
	AmountTo       *decimal.Decimal `json:"amountTo,omitempty"`
	ExchangeRate   *decimal.Decimal `json:"exchangeRate,omitempty"`
	Description    string           `json:"description"`
	AllowDuplicate bool             `json:"allowDuplicate"`
}

// CreateEntryResult is returned by entry creation. A detected duplicate is reported with
// Skipped set and the existing entry in Duplicate instead of an error.
type CreateEntryResult struct {
	Entry      *domain.JournalEntry `json:"entry,omitempty"`
	Skipped    bool                 `json:"skipped"`
	Duplicate  *domain.JournalEntry `json:"duplicate,omitempty"`
	SkipReason string               `json:"skipReason,omitempty"`
}

// UpdateLineRequest edits the transaction a line belongs to. Nil or empty fields keep
// their current value.
type UpdateLineRequest struct {
	FromAccountID string           `json:"fromAccountID"`
	ToAccountID   string           `json:"toAccountID"`
	Amount        *decimal.Decimal `json:"amount"`
	Date          string           `json:"date"`
	Description   *string          `json:"description"`
	PostingDate   *string          `json:"postingDate"` // An empty string clears the posting date
}

// SwapDisplayOrderRequest exchanges the same-day ordering of two entries.
type SwapDisplayOrderRequest struct {
	EntryIDA string `json:"entryIDA" binding:"required"`
	EntryIDB string `json:"entryIDB" binding:"required,nefield=EntryIDA"`
}

// ListEntriesParams defines parameters for listing an account's register.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is one page of an account's register, newest first.
type ListEntriesResponse struct {
	Entries   []domain.JournalEntry `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}
