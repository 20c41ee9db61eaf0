package domain

import "github.com/shopspring/decimal"

// EntryType tags journal entries the engine treats specially.
type EntryType string

const (
	EntryTypeNone             EntryType = ""
	EntryTypeIncome           EntryType = "income"
	EntryTypeExpense          EntryType = "expense"
	EntryTypeTransfer         EntryType = "transfer"
	EntryTypeOpeningBalance   EntryType = "opening-balance"
	EntryTypeCurrencyTransfer EntryType = "currency_transfer"
	EntryTypeCheckpoint       EntryType = "checkpoint"
	EntryTypeBuy              EntryType = "buy"
	EntryTypeSell             EntryType = "sell"
	EntryTypeSplit            EntryType = "split"
	EntryTypeDividend         EntryType = "dividend"
	EntryTypeReinvestment     EntryType = "reinvestment"
	EntryTypeFee              EntryType = "fee"
	EntryTypeInterest         EntryType = "interest"
)

// TransactionType is the economic kind of a two-account entry.
type TransactionType string

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

// ParseTransactionType validates a caller supplied transaction type.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch t := TransactionType(s); t {
	case Income, Expense, Transfer:
		return t, true
	}
	return "", false
}

// EntryType returns the entry tag recorded for entries of this transaction type.
func (t TransactionType) EntryType() EntryType { return EntryType(t) }

// JournalEntry is one balanced economic event composed of two or more lines.
type JournalEntry struct {
	EntryID      string        `json:"entryID"`
	EntryDate    Date          `json:"date"`
	PostingDate  *Date         `json:"postingDate,omitempty"`
	Description  string        `json:"description"`
	EntryType    EntryType     `json:"entryType,omitempty"`
	DisplayOrder int64         `json:"displayOrder"`
	Lines        []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// IsOpeningBalance reports whether the entry is an account's opening-balance baseline.
func (e JournalEntry) IsOpeningBalance() bool { return e.EntryType == EntryTypeOpeningBalance }

// LineFor returns the first line posted to accountID.
func (e JournalEntry) LineFor(accountID string) (JournalLine, bool) {
	for _, l := range e.Lines {
		if l.AccountID == accountID {
			return l, true
		}
	}
	return JournalLine{}, false
}

// JournalLine is a signed amount posted to one account as part of an entry.
type JournalLine struct {
	LineID       string           `json:"lineID"`
	EntryID      string           `json:"entryID"`
	LineNo       int              `json:"lineNo"`
	AccountID    string           `json:"accountID"`
	Amount       decimal.Decimal  `json:"amount"`
	CurrencyCode string           `json:"currencyCode"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
}

// SumByCurrency nets line amounts per currency.
func SumByCurrency(lines []JournalLine) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, l := range lines {
		sums[l.CurrencyCode] = sums[l.CurrencyCode].Add(l.Amount)
	}
	return sums
}
