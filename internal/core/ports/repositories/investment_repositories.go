package repositories

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
)

// InvestmentRepository defines persistence for the security sub-ledger.
type InvestmentRepository interface {
	// SaveInvestmentProperties persists a new security record for an account.
	SaveInvestmentProperties(ctx context.Context, props domain.InvestmentProperties) error

	// FindInvestmentProperties returns the record with its lots oldest first.
	FindInvestmentProperties(ctx context.Context, accountID string) (*domain.InvestmentProperties, error)

	// UpdateInvestmentProperties rewrites quantity and the full ordered lot list.
	UpdateInvestmentProperties(ctx context.Context, props domain.InvestmentProperties) error
}
