package services

import (
	"errors"
	"fmt"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
)

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

func invariantErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvariantViolation, fmt.Sprintf(format, args...))
}

func isClientError(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrInvariantViolation)
}

func parseDate(field, value string) (domain.Date, error) {
	d, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, field, err)
	}
	return d, nil
}

// parsePostingDate parses an optional posting date that may not precede the entry date.
func parsePostingDate(value *string, entryDate domain.Date) (*domain.Date, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	d, err := parseDate("postingDate", *value)
	if err != nil {
		return nil, err
	}
	if d.Before(entryDate) {
		return nil, validationErrorf("postingDate %s is before date %s", d, entryDate)
	}
	return &d, nil
}
