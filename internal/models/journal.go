package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents a row of the journal_entries table.
type JournalEntry struct {
	EntryID      string     `db:"entry_id"`
	EntryDate    time.Time  `db:"entry_date"`
	PostingDate  *time.Time `db:"posting_date"` // Nullable
	Description  string     `db:"description"`
	EntryType    string     `db:"entry_type"`
	DisplayOrder int64      `db:"display_order"`
	AuditFields
}

// JournalLine represents a row of the journal_lines table.
type JournalLine struct {
	LineID       string              `db:"line_id"`
	EntryID      string              `db:"entry_id"`
	LineNo       int                 `db:"line_no"`
	AccountID    string              `db:"account_id"`
	Amount       decimal.Decimal     `db:"amount"`
	CurrencyCode string              `db:"currency_code"`
	ExchangeRate decimal.NullDecimal `db:"exchange_rate"` // Set on the source leg of a currency transfer
}
