package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
)

func (t *tx) SaveCheckpoint(_ context.Context, cp domain.Checkpoint) error {
	for _, c := range t.st.checkpoints {
		if c.AccountID == cp.AccountID && c.CheckpointDate.Equal(cp.CheckpointDate) {
			return fmt.Errorf("%w: checkpoint for account %s on %s already exists", apperrors.ErrConflict, cp.AccountID, cp.CheckpointDate)
		}
	}
	t.st.checkpoints[cp.CheckpointID] = cp
	return nil
}

func (t *tx) FindCheckpointByID(_ context.Context, checkpointID string) (*domain.Checkpoint, error) {
	cp, ok := t.st.checkpoints[checkpointID]
	if !ok {
		return nil, fmt.Errorf("%w: checkpoint %s", apperrors.ErrNotFound, checkpointID)
	}
	return &cp, nil
}

func (t *tx) FindCheckpointByAccountAndDate(_ context.Context, accountID string, date domain.Date) (*domain.Checkpoint, error) {
	for _, cp := range t.st.checkpoints {
		if cp.AccountID == accountID && cp.CheckpointDate.Equal(date) {
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: checkpoint for account %s on %s", apperrors.ErrNotFound, accountID, date)
}

func (t *tx) FindLatestCheckpoint(_ context.Context, accountID string, date domain.Date, inclusive bool) (*domain.Checkpoint, error) {
	var best *domain.Checkpoint
	for _, cp := range t.st.checkpoints {
		if cp.AccountID != accountID || cp.CheckpointDate.After(date) {
			continue
		}
		if !inclusive && cp.CheckpointDate.Equal(date) {
			continue
		}
		if best == nil || cp.CheckpointDate.After(best.CheckpointDate) {
			c := cp
			best = &c
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no checkpoint for account %s on or before %s", apperrors.ErrNotFound, accountID, date)
	}
	return best, nil
}

func (t *tx) ListCheckpointsByAccount(_ context.Context, accountID string) ([]domain.Checkpoint, error) {
	var out []domain.Checkpoint
	for _, cp := range t.st.checkpoints {
		if cp.AccountID == accountID {
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckpointDate.Before(out[j].CheckpointDate) })
	return out, nil
}

func (t *tx) DeleteCheckpoint(_ context.Context, checkpointID string) error {
	if _, ok := t.st.checkpoints[checkpointID]; !ok {
		return fmt.Errorf("%w: checkpoint %s", apperrors.ErrNotFound, checkpointID)
	}
	delete(t.st.checkpoints, checkpointID)
	return nil
}
