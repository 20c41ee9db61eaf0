package repositories

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByName retrieves an account by its (name, type) unique key.
	FindAccountByName(ctx context.Context, name string, accountType domain.AccountType) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByGroup returns the members of a group ordered by name.
	ListAccountsByGroup(ctx context.Context, groupID string) ([]domain.Account, error)

	// ListAccountsByType returns every account of a type ordered by name.
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A (name, type) collision returns apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable fields (name, archived, group).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// LockAccounts serializes concurrent mutations of the given accounts until the
	// enclosing transaction ends.
	LockAccounts(ctx context.Context, accountIDs []string) error
}

// AccountGroupRepository defines persistence for account groups.
type AccountGroupRepository interface {
	// SaveGroup persists a new group. A (name, accountType) collision returns apperrors.ErrDuplicate.
	SaveGroup(ctx context.Context, group domain.AccountGroup) error
	FindGroupByID(ctx context.Context, groupID string) (*domain.AccountGroup, error)
	// NextGroupDisplayOrder returns one past the highest display order used by accountType.
	NextGroupDisplayOrder(ctx context.Context, accountType domain.AccountType) (int, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountGroupRepository
}
