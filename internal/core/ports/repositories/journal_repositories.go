package repositories

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineFilter selects journal lines of one account by the date of their entry.
type LineFilter struct {
	AccountID string
	// After excludes entries dated on or before it.
	After *domain.Date
	// From excludes entries dated before it.
	From *domain.Date
	// Until excludes entries dated after it.
	Until *domain.Date
	// ExcludeEntryIDs drops specific entries from the window.
	ExcludeEntryIDs []string
	// ExcludeEntryTypes drops entries by tag.
	ExcludeEntryTypes []domain.EntryType
}

// EntryCursor marks the last entry of a register page.
type EntryCursor struct {
	EntryDate    domain.Date
	DisplayOrder int64
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves an entry with its lines ordered by line number.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLineByID retrieves a single line.
	FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, error)

	// FindEntriesByDateAndDescription returns candidate duplicates, lines included.
	FindEntriesByDateAndDescription(ctx context.Context, date domain.Date, description string) ([]domain.JournalEntry, error)

	// FindEntriesByTypeAndAccount returns entries of a type with a line on accountID,
	// newest first (by display order), lines included.
	FindEntriesByTypeAndAccount(ctx context.Context, entryType domain.EntryType, accountID string) ([]domain.JournalEntry, error)

	// ListEntriesByAccount returns a register page ordered by (date desc, display order desc)
	// starting strictly after cursor, lines included.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, cursor *EntryCursor) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// NextDisplayOrder returns a display order greater than every existing one.
	NextDisplayOrder(ctx context.Context) (int64, error)

	// SaveEntry persists an entry and all of its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntry updates date, posting date, description and display order of an entry.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateLine updates account, amount, currency and exchange rate of a line.
	UpdateLine(ctx context.Context, line domain.JournalLine) error

	// DeleteEntry removes an entry and its lines.
	DeleteEntry(ctx context.Context, entryID string) error
}

// LineAggregator computes sums over journal lines.
type LineAggregator interface {
	// SumLines nets the amounts of the lines matching filter.
	SumLines(ctx context.Context, filter LineFilter) (decimal.Decimal, error)

	// SumLinesByCurrency nets the amounts of the matching lines per line currency.
	SumLinesByCurrency(ctx context.Context, filter LineFilter) (domain.CurrencyBalances, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LineAggregator
}
