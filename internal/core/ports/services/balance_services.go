package services

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// BalanceSvc computes checkpoint-aware account balances.
type BalanceSvc interface {
	// GetBalanceAtDate returns the balance of an account at the end of date.
	GetBalanceAtDate(ctx context.Context, accountID string, date domain.Date) (decimal.Decimal, error)

	// GetAccountBalance returns the balance as of today.
	GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// CheckpointSvc manages balance assertions.
type CheckpointSvc interface {
	CreateCheckpoint(ctx context.Context, req dto.CreateCheckpointRequest) (*domain.Checkpoint, error)

	// ReconcileCheckpoint recreates a checkpoint with its original asserted balance.
	ReconcileCheckpoint(ctx context.Context, checkpointID string) (*domain.Checkpoint, error)

	// ReconcileAccountCheckpoints reconciles every checkpoint of an account oldest first.
	ReconcileAccountCheckpoints(ctx context.Context, accountID string) ([]domain.Checkpoint, error)

	DeleteCheckpoint(ctx context.Context, checkpointID string) error
	ListCheckpoints(ctx context.Context, accountID string) ([]domain.Checkpoint, error)
}

// OpeningBalanceSvc maintains the single opening-balance entry of an account.
type OpeningBalanceSvc interface {
	// SetOpeningBalance creates, updates or (for a zero amount) deletes the opening entry.
	// It returns nil when no opening entry remains.
	SetOpeningBalance(ctx context.Context, req dto.SetOpeningBalanceRequest) (*domain.JournalEntry, error)

	// GetOpeningBalance returns the opening entry or apperrors.ErrNotFound.
	GetOpeningBalance(ctx context.Context, accountID string) (*domain.JournalEntry, error)
}
