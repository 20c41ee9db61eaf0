package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
)

func (t *tx) SaveAccount(_ context.Context, account domain.Account) error {
	for _, a := range t.st.accounts {
		if a.Name == account.Name && a.AccountType == account.AccountType {
			return fmt.Errorf("%w: account %q of type %s", apperrors.ErrDuplicate, account.Name, account.AccountType)
		}
	}
	account.GroupID = cloneString(account.GroupID)
	t.st.accounts[account.AccountID] = account
	return nil
}

func (t *tx) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	a, ok := t.st.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &a, nil
}

func (t *tx) FindAccountByName(_ context.Context, name string, accountType domain.AccountType) (*domain.Account, error) {
	for _, a := range t.st.accounts {
		if a.Name == name && a.AccountType == accountType {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: account %q of type %s", apperrors.ErrNotFound, name, accountType)
}

func (t *tx) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := t.st.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (t *tx) ListAccountsByGroup(_ context.Context, groupID string) ([]domain.Account, error) {
	return t.listAccounts(func(a domain.Account) bool { return a.GroupID != nil && *a.GroupID == groupID }), nil
}

func (t *tx) ListAccountsByType(_ context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	return t.listAccounts(func(a domain.Account) bool { return a.AccountType == accountType }), nil
}

func (t *tx) listAccounts(keep func(domain.Account) bool) []domain.Account {
	var out []domain.Account
	for _, a := range t.st.accounts {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (t *tx) UpdateAccount(_ context.Context, account domain.Account) error {
	existing, ok := t.st.accounts[account.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	existing.Name = account.Name
	existing.IsArchived = account.IsArchived
	existing.GroupID = cloneString(account.GroupID)
	existing.LastUpdatedAt = account.LastUpdatedAt
	t.st.accounts[account.AccountID] = existing
	return nil
}

func (t *tx) SaveGroup(_ context.Context, group domain.AccountGroup) error {
	for _, g := range t.st.groups {
		if g.Name == group.Name && g.AccountType == group.AccountType {
			return fmt.Errorf("%w: group %q of type %s", apperrors.ErrDuplicate, group.Name, group.AccountType)
		}
	}
	t.st.groups[group.GroupID] = group
	return nil
}

func (t *tx) FindGroupByID(_ context.Context, groupID string) (*domain.AccountGroup, error) {
	g, ok := t.st.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: account group %s", apperrors.ErrNotFound, groupID)
	}
	return &g, nil
}

func (t *tx) NextGroupDisplayOrder(_ context.Context, accountType domain.AccountType) (int, error) {
	next := 1
	for _, g := range t.st.groups {
		if g.AccountType == accountType && g.DisplayOrder >= next {
			next = g.DisplayOrder + 1
		}
	}
	return next, nil
}
