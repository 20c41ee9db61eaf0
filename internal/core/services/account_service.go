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
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
}

// NewAccountService creates a new AccountService.
func NewAccountService(store portsrepo.Store, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{BaseService: newBaseService(store, options...)}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// groupMatchesTx checks that groupID exists and holds accounts of accountType.
func groupMatchesTx(ctx context.Context, tx portsrepo.LedgerTx, groupID string, accountType domain.AccountType) error {
	group, err := tx.FindGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return validationErrorf("group %s does not exist", groupID)
		}
		return err
	}
	if group.AccountType != accountType {
		return validationErrorf("group %s holds %s accounts, not %s", group.Name, group.AccountType, accountType)
	}
	return nil
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := validation.Struct(req); err != nil {
		s.LogWarn(ctx, err, "Invalid create account request")
		return nil, err
	}
	subtype := req.Subtype
	if subtype == "" {
		subtype = domain.Asset
	}
	if req.GroupID != nil && *req.GroupID == "" {
		req.GroupID = nil
	}

	now := s.Now()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		AccountType:  req.AccountType,
		Subtype:      subtype,
		CurrencyCode: req.CurrencyCode,
		GroupID:      req.GroupID,
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if account.GroupID != nil {
			if err := groupMatchesTx(ctx, tx, *account.GroupID, account.AccountType); err != nil {
				return err
			}
		}
		return tx.SaveAccount(ctx, account)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create account", slog.String("name", account.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("type", string(account.AccountType)),
		slog.String("currency", account.CurrencyCode))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var account *domain.Account
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		account, err = tx.FindAccountByID(ctx, accountID)
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	switch accountType {
	case domain.UserAccount, domain.SystemAccount, domain.CategoryAccount:
	default:
		return nil, validationErrorf("unknown account type %q", accountType)
	}
	var accounts []domain.Account
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		accounts, err = tx.ListAccountsByType(ctx, accountType)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("type", string(accountType)))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	var account *domain.Account
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		account, err = tx.FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return validationErrorf("name must not be empty")
			}
			account.Name = name
		}
		if req.IsArchived != nil {
			account.IsArchived = *req.IsArchived
		}
		if req.GroupID != nil {
			if *req.GroupID == "" {
				account.GroupID = nil
			} else {
				if err := groupMatchesTx(ctx, tx, *req.GroupID, account.AccountType); err != nil {
					return err
				}
				groupID := *req.GroupID
				account.GroupID = &groupID
			}
		}
		account.LastUpdatedAt = s.Now()
		return tx.UpdateAccount(ctx, *account)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest) (*domain.AccountGroup, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	var group domain.AccountGroup
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		order, err := tx.NextGroupDisplayOrder(ctx, req.AccountType)
		if err != nil {
			return err
		}
		now := s.Now()
		group = domain.AccountGroup{
			GroupID:      uuid.NewString(),
			Name:         strings.TrimSpace(req.Name),
			AccountType:  req.AccountType,
			DisplayOrder: order,
			AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		if err := tx.SaveGroup(ctx, group); err != nil {
			return fmt.Errorf("failed to save group %q: %w", group.Name, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create account group", slog.String("name", req.Name))
		return nil, err
	}
	s.LogInfo(ctx, "Account group created", slog.String("group_id", group.GroupID), slog.Int("display_order", group.DisplayOrder))
	return &group, nil
}
