package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/utils/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type checkpointService struct {
	BaseService
}

// NewCheckpointService creates the checkpoint manager over store.
func NewCheckpointService(store portsrepo.Store, options ...ServiceOption) portssvc.CheckpointSvc {
	return &checkpointService{BaseService: newBaseService(store, options...)}
}

var _ portssvc.CheckpointSvc = (*checkpointService)(nil)

func (s *checkpointService) CreateCheckpoint(ctx context.Context, req dto.CreateCheckpointRequest) (*domain.Checkpoint, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	var cp *domain.Checkpoint
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		account, err := tx.FindAccountByID(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if !account.IsUser() {
			return validationErrorf("checkpoints can only be declared on user accounts, %s is %s", account.Name, account.AccountType)
		}
		cp, err = s.createCheckpointTx(ctx, tx, account, date, req.Balance, req.Description, uuid.NewString())
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create checkpoint", slog.String("account_id", req.AccountID), slog.String("date", req.Date))
		return nil, err
	}
	s.LogInfo(ctx, "Checkpoint created",
		slog.String("checkpoint_id", cp.CheckpointID),
		slog.String("account_id", cp.AccountID),
		slog.String("entry_id", cp.EntryID))
	return cp, nil
}

// createCheckpointTx materializes a checkpoint as an adjustment entry against the
// "Checkpoint Adjustment" account. The entry is written even for a zero adjustment.
func (s *checkpointService) createCheckpointTx(ctx context.Context, tx portsrepo.LedgerTx, account *domain.Account, date domain.Date, balance decimal.Decimal, description, checkpointID string) (*domain.Checkpoint, error) {
	if err := tx.LockAccounts(ctx, []string{account.AccountID}); err != nil {
		return nil, err
	}
	if existing, err := tx.FindCheckpointByAccountAndDate(ctx, account.AccountID, date); err == nil {
		return nil, fmt.Errorf("%w: checkpoint %s already exists for account %s on %s", apperrors.ErrConflict, existing.CheckpointID, account.Name, date)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	target := domain.Round2(balance)
	prior, err := balanceAtDateTx(ctx, tx, account.AccountID, date, false)
	if err != nil {
		return nil, err
	}
	adjustment := domain.Round2(target.Sub(prior))

	adjustmentAccount, err := s.systemAccountTx(ctx, tx, domain.CheckpointAdjustmentAccountName, account.CurrencyCode)
	if err != nil {
		return nil, err
	}
	entryDescription := "Checkpoint " + checkpointID
	if description != "" {
		entryDescription += ": " + description
	}
	entry, err := s.postEntryTx(ctx, tx, domain.JournalEntry{
		EntryDate:   date,
		Description: entryDescription,
		EntryType:   domain.EntryTypeCheckpoint,
		Lines: []domain.JournalLine{
			{AccountID: account.AccountID, Amount: adjustment, CurrencyCode: account.CurrencyCode},
			{AccountID: adjustmentAccount.AccountID, Amount: adjustment.Neg(), CurrencyCode: account.CurrencyCode},
		},
	}, false)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	cp := domain.Checkpoint{
		CheckpointID:   checkpointID,
		AccountID:      account.AccountID,
		CheckpointDate: date,
		Balance:        target,
		Description:    description,
		EntryID:        entry.EntryID,
		AuditFields:    domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := tx.SaveCheckpoint(ctx, cp); err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Checkpoint adjustment posted",
		slog.String("checkpoint_id", checkpointID),
		slog.String("prior_balance", prior.String()),
		slog.String("adjustment", adjustment.String()))
	return &cp, nil
}

// backingEntryIDTx locates the entry materializing cp. Rows without an entry reference are
// matched by description, then by (date, account).
func (s *checkpointService) backingEntryIDTx(ctx context.Context, tx portsrepo.LedgerTx, cp *domain.Checkpoint) (string, error) {
	if cp.EntryID != "" {
		return cp.EntryID, nil
	}
	entries, err := tx.FindEntriesByTypeAndAccount(ctx, domain.EntryTypeCheckpoint, cp.AccountID)
	if err != nil {
		return "", err
	}
	var byDate []string
	for _, e := range entries {
		if strings.Contains(e.Description, cp.CheckpointID) {
			return e.EntryID, nil
		}
		if e.EntryDate.Equal(cp.CheckpointDate) {
			byDate = append(byDate, e.EntryID)
		}
	}
	switch len(byDate) {
	case 0:
		return "", nil
	case 1:
		return byDate[0], nil
	default:
		return "", fmt.Errorf("%w: %d checkpoint entries on %s match checkpoint %s", apperrors.ErrConflict, len(byDate), cp.CheckpointDate, cp.CheckpointID)
	}
}

func (s *checkpointService) deleteCheckpointTx(ctx context.Context, tx portsrepo.LedgerTx, cp *domain.Checkpoint) error {
	if err := tx.LockAccounts(ctx, []string{cp.AccountID}); err != nil {
		return err
	}
	entryID, err := s.backingEntryIDTx(ctx, tx, cp)
	if err != nil {
		return err
	}
	if entryID == "" {
		s.LogInfo(ctx, "Checkpoint has no backing entry", slog.String("checkpoint_id", cp.CheckpointID))
	} else if err := tx.DeleteEntry(ctx, entryID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return tx.DeleteCheckpoint(ctx, cp.CheckpointID)
}

func (s *checkpointService) reconcileTx(ctx context.Context, tx portsrepo.LedgerTx, cp *domain.Checkpoint) (*domain.Checkpoint, error) {
	account, err := tx.FindAccountByID(ctx, cp.AccountID)
	if err != nil {
		return nil, err
	}
	if err := s.deleteCheckpointTx(ctx, tx, cp); err != nil {
		return nil, err
	}
	return s.createCheckpointTx(ctx, tx, account, cp.CheckpointDate, cp.Balance, cp.Description, cp.CheckpointID)
}

func (s *checkpointService) ReconcileCheckpoint(ctx context.Context, checkpointID string) (*domain.Checkpoint, error) {
	var reconciled *domain.Checkpoint
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		cp, err := tx.FindCheckpointByID(ctx, checkpointID)
		if err != nil {
			return err
		}
		reconciled, err = s.reconcileTx(ctx, tx, cp)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to reconcile checkpoint", slog.String("checkpoint_id", checkpointID))
		return nil, err
	}
	s.LogInfo(ctx, "Checkpoint reconciled", slog.String("checkpoint_id", checkpointID), slog.String("entry_id", reconciled.EntryID))
	return reconciled, nil
}

func (s *checkpointService) ReconcileAccountCheckpoints(ctx context.Context, accountID string) ([]domain.Checkpoint, error) {
	var reconciled []domain.Checkpoint
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.FindAccountByID(ctx, accountID); err != nil {
			return err
		}
		checkpoints, err := tx.ListCheckpointsByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		for i := range checkpoints {
			cp, err := s.reconcileTx(ctx, tx, &checkpoints[i])
			if err != nil {
				return err
			}
			reconciled = append(reconciled, *cp)
		}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to reconcile account checkpoints", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Account checkpoints reconciled", slog.String("account_id", accountID), slog.Int("count", len(reconciled)))
	return reconciled, nil
}

func (s *checkpointService) DeleteCheckpoint(ctx context.Context, checkpointID string) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		cp, err := tx.FindCheckpointByID(ctx, checkpointID)
		if err != nil {
			return err
		}
		return s.deleteCheckpointTx(ctx, tx, cp)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete checkpoint", slog.String("checkpoint_id", checkpointID))
		return err
	}
	s.LogInfo(ctx, "Checkpoint deleted", slog.String("checkpoint_id", checkpointID))
	return nil
}

func (s *checkpointService) ListCheckpoints(ctx context.Context, accountID string) ([]domain.Checkpoint, error) {
	var checkpoints []domain.Checkpoint
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.FindAccountByID(ctx, accountID); err != nil {
			return err
		}
		var err error
		checkpoints, err = tx.ListCheckpointsByAccount(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if checkpoints == nil {
		checkpoints = []domain.Checkpoint{}
	}
	return checkpoints, nil
}
