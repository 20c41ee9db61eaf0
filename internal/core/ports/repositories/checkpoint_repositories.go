package repositories

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
)

// CheckpointRepository defines persistence for balance checkpoints.
type CheckpointRepository interface {
	SaveCheckpoint(ctx context.Context, checkpoint domain.Checkpoint) error
	FindCheckpointByID(ctx context.Context, checkpointID string) (*domain.Checkpoint, error)

	// FindCheckpointByAccountAndDate returns apperrors.ErrNotFound when none exists.
	FindCheckpointByAccountAndDate(ctx context.Context, accountID string, date domain.Date) (*domain.Checkpoint, error)

	// FindLatestCheckpoint returns the most recent checkpoint dated on or before date
	// (strictly before when inclusive is false), or apperrors.ErrNotFound.
	FindLatestCheckpoint(ctx context.Context, accountID string, date domain.Date, inclusive bool) (*domain.Checkpoint, error)

	// ListCheckpointsByAccount returns checkpoints oldest first.
	ListCheckpointsByAccount(ctx context.Context, accountID string) ([]domain.Checkpoint, error)

	DeleteCheckpoint(ctx context.Context, checkpointID string) error
}
