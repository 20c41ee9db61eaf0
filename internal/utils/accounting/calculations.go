package accounting

import (
	"fmt"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmounts applies the sign convention to a transaction amount and returns the
// amounts of the user-side ("from") line and the counterparty ("to") line.
//
//	income   Asset     +amount / -amount
//	income   Liability -amount / +amount
//	expense  any       -amount / +amount
//	transfer any       -|amount| / +|amount|
//
// A negative amount on income or expense is a refund and flips both lines.
func CalculateSignedAmounts(txnType domain.TransactionType, from domain.Account, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	amount = domain.Round2(amount)
	var fromAmount decimal.Decimal

	switch txnType {
	case domain.Income:
		if from.Subtype == domain.Liability {
			fromAmount = amount.Neg()
		} else {
			fromAmount = amount
		}
	case domain.Expense:
		fromAmount = amount.Neg()
	case domain.Transfer:
		fromAmount = amount.Abs().Neg()
	default:
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: unknown transaction type '%s'", apperrors.ErrValidation, txnType)
	}
	return fromAmount, fromAmount.Neg(), nil
}

// OpeningRawAmount converts a display amount ("money you have" for assets, "money you owe"
// for liabilities) into the signed amount stored on the account's line.
func OpeningRawAmount(subtype domain.AccountSubtype, displayAmount decimal.Decimal) decimal.Decimal {
	raw := domain.Round2(displayAmount)
	if subtype == domain.Liability {
		return raw.Neg()
	}
	return raw
}

// ValidateEntryBalance checks that the lines of an entry net to zero in every currency.
// Entries whose lines span two currencies are checked by the caller against the exchange rate.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrInvariantViolation)
	}
	for currency, sum := range domain.SumByCurrency(lines) {
		if !sum.IsZero() {
			return fmt.Errorf("%w: journal entry lines do not balance to zero in %s: sum is %s", apperrors.ErrInvariantViolation, currency, sum.String())
		}
	}
	return nil
}

// TransactionAmount recovers the amount that CalculateSignedAmounts turned into fromAmount.
func TransactionAmount(txnType domain.TransactionType, from domain.Account, fromAmount decimal.Decimal) decimal.Decimal {
	if txnType == domain.Income && from.Subtype != domain.Liability {
		return fromAmount
	}
	return fromAmount.Neg()
}

// DeriveCurrencyTransfer completes a currency transfer from at least two of amountFrom,
// amountTo and rate. Amounts are magnitudes. A derived rate is rounded to 6 places and a
// derived amount to 2; when all three are given they must agree within domain.Tolerance.
func DeriveCurrencyTransfer(amountFrom, amountTo, rate *decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	given := 0
	for _, v := range []*decimal.Decimal{amountFrom, amountTo, rate} {
		if v == nil {
			continue
		}
		if !v.IsPositive() {
			return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("%w: currency transfer amounts and rate must be positive", apperrors.ErrValidation)
		}
		given++
	}
	if given < 2 {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("%w: currency transfer needs at least two of amountFrom, amountTo and exchangeRate", apperrors.ErrValidation)
	}

	switch {
	case rate == nil:
		from, to := domain.Round2(*amountFrom), domain.Round2(*amountTo)
		return from, to, to.DivRound(from, domain.RatePlaces), nil
	case amountTo == nil:
		from := domain.Round2(*amountFrom)
		return from, domain.Round2(from.Mul(*rate)), *rate, nil
	case amountFrom == nil:
		to := domain.Round2(*amountTo)
		return domain.Round2(to.Div(*rate)), to, *rate, nil
	}

	from, to := domain.Round2(*amountFrom), domain.Round2(*amountTo)
	if expected := domain.Round2(from.Mul(*rate)); !domain.WithinTolerance(expected, to) {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("%w: amountTo %s is inconsistent with amountFrom %s at rate %s (expected %s)",
			apperrors.ErrInvariantViolation, to, from, *rate, expected)
	}
	return from, to, *rate, nil
}

// ValidateCurrencyTransfer checks the two legs of a currency transfer against the exchange
// rate recorded on the source leg.
func ValidateCurrencyTransfer(lines []domain.JournalLine) error {
	if len(lines) != 2 {
		return fmt.Errorf("%w: currency transfer must have exactly two lines", apperrors.ErrInvariantViolation)
	}
	from, to := lines[0], lines[1]
	if from.ExchangeRate == nil {
		return fmt.Errorf("%w: currency transfer is missing its exchange rate", apperrors.ErrInvariantViolation)
	}
	if from.Amount.Sign() == to.Amount.Sign() {
		return fmt.Errorf("%w: currency transfer legs must have opposite signs", apperrors.ErrInvariantViolation)
	}
	expected := domain.Round2(from.Amount.Abs().Mul(*from.ExchangeRate))
	if !domain.WithinTolerance(expected, to.Amount.Abs()) {
		return fmt.Errorf("%w: currency transfer legs %s %s and %s %s are inconsistent with rate %s",
			apperrors.ErrInvariantViolation, from.Amount.Abs(), from.CurrencyCode, to.Amount.Abs(), to.CurrencyCode, *from.ExchangeRate)
	}
	return nil
}
