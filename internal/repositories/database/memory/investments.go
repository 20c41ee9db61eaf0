package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
)

func (t *tx) SaveInvestmentProperties(_ context.Context, props domain.InvestmentProperties) error {
	if _, exists := t.st.investments[props.AccountID]; exists {
		return fmt.Errorf("%w: investment properties for account %s", apperrors.ErrDuplicate, props.AccountID)
	}
	props.Lots = append(domain.Lots(nil), props.Lots...)
	t.st.investments[props.AccountID] = props
	return nil
}

func (t *tx) FindInvestmentProperties(_ context.Context, accountID string) (*domain.InvestmentProperties, error) {
	props, ok := t.st.investments[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: investment properties for account %s", apperrors.ErrNotFound, accountID)
	}
	props.Lots = append(domain.Lots(nil), props.Lots...)
	return &props, nil
}

func (t *tx) UpdateInvestmentProperties(_ context.Context, props domain.InvestmentProperties) error {
	existing, ok := t.st.investments[props.AccountID]
	if !ok {
		return fmt.Errorf("%w: investment properties for account %s", apperrors.ErrNotFound, props.AccountID)
	}
	existing.Quantity = props.Quantity
	existing.Lots = append(domain.Lots(nil), props.Lots...)
	existing.LastUpdatedAt = props.LastUpdatedAt
	t.st.investments[props.AccountID] = existing
	return nil
}
