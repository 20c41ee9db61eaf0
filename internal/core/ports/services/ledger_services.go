package services

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
)

// JournalWriterSvc is the single mutation entry point of the ledger.
type JournalWriterSvc interface {
	// CreateEntry records a two-line income, expense or transfer.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (*dto.CreateEntryResult, error)

	// CreateCurrencyTransfer records a transfer between accounts of different currencies.
	CreateCurrencyTransfer(ctx context.Context, req dto.CurrencyTransferRequest) (*dto.CreateEntryResult, error)

	// UpdateLine edits the transaction owning lineID and re-derives both lines.
	UpdateLine(ctx context.Context, lineID string, req dto.UpdateLineRequest) (*domain.JournalEntry, error)

	// DeleteEntry removes an entry and its lines.
	DeleteEntry(ctx context.Context, entryID string) error

	// SwapDisplayOrder exchanges the display order of two entries.
	SwapDisplayOrder(ctx context.Context, req dto.SwapDisplayOrderRequest) error
}

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListAccountEntries retrieves a page of an account's register.
	ListAccountEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// LedgerSvcFacade combines all journal-related service interfaces
type LedgerSvcFacade interface {
	JournalWriterSvc
	JournalReaderSvc
}
