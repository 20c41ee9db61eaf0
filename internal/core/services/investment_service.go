package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/utils/validation"
	"github.com/shopspring/decimal"
)

type investmentService struct {
	BaseService
}

// NewInvestmentService creates the cost-basis engine over store.
func NewInvestmentService(store portsrepo.Store, options ...ServiceOption) portssvc.InvestmentSvcFacade {
	return &investmentService{BaseService: newBaseService(store, options...)}
}

var _ portssvc.InvestmentSvcFacade = (*investmentService)(nil)

func (s *investmentService) CreateInvestmentProperties(ctx context.Context, req dto.CreateInvestmentRequest) (*domain.InvestmentProperties, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	method := domain.FIFO
	if req.CostBasisMethod != "" {
		method = domain.CostBasisMethod(req.CostBasisMethod)
	}

	var props domain.InvestmentProperties
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		account, err := tx.FindAccountByID(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if !account.IsUser() || account.Subtype != domain.Asset {
			return validationErrorf("account %s must be a user asset account to hold a security", account.Name)
		}
		now := s.Now()
		props = domain.InvestmentProperties{
			AccountID:       account.AccountID,
			TickerSymbol:    req.TickerSymbol,
			Quantity:        decimal.Zero,
			CostBasisMethod: method,
			Lots:            domain.Lots{},
			AuditFields:     domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		return tx.SaveInvestmentProperties(ctx, props)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create investment properties", slog.String("account_id", req.AccountID))
		return nil, err
	}
	s.LogInfo(ctx, "Investment properties created", slog.String("account_id", props.AccountID), slog.String("ticker", props.TickerSymbol))
	return &props, nil
}

func (s *investmentService) GetInvestmentProperties(ctx context.Context, accountID string) (*domain.InvestmentProperties, error) {
	var props *domain.InvestmentProperties
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		props, err = tx.FindInvestmentProperties(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return props, nil
}

// tradeAccountsTx loads and locks the security and cash accounts of a trade.
func (s *investmentService) tradeAccountsTx(ctx context.Context, tx portsrepo.LedgerTx, securityID, cashID string) (*domain.InvestmentProperties, domain.Account, domain.Account, error) {
	props, err := tx.FindInvestmentProperties(ctx, securityID)
	if err != nil {
		return nil, domain.Account{}, domain.Account{}, err
	}
	accounts, err := loadAccountsTx(ctx, tx, securityID, cashID)
	if err != nil {
		return nil, domain.Account{}, domain.Account{}, err
	}
	security, cash := accounts[securityID], accounts[cashID]
	if security.CurrencyCode != cash.CurrencyCode {
		return nil, domain.Account{}, domain.Account{}, validationErrorf("cash account %s (%s) does not match security currency %s",
			cash.Name, cash.CurrencyCode, security.CurrencyCode)
	}
	if err := tx.LockAccounts(ctx, []string{securityID, cashID}); err != nil {
		return nil, domain.Account{}, domain.Account{}, err
	}
	return props, security, cash, nil
}

func validateTrade(req dto.TradeRequest) (domain.Date, error) {
	if err := validation.Struct(req); err != nil {
		return domain.Date{}, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return domain.Date{}, err
	}
	switch {
	case !req.Quantity.IsPositive():
		return domain.Date{}, validationErrorf("quantity must be positive")
	case !req.Price.IsPositive():
		return domain.Date{}, validationErrorf("price must be positive")
	case req.Fee.IsNegative():
		return domain.Date{}, validationErrorf("fee must not be negative")
	}
	return date, nil
}

func (s *investmentService) RecordBuy(ctx context.Context, req dto.TradeRequest) (*domain.JournalEntry, error) {
	date, err := validateTrade(req)
	if err != nil {
		return nil, err
	}
	quantity := domain.RoundQty(req.Quantity)
	fee := domain.Round2(req.Fee)

	var entry *domain.JournalEntry
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		props, security, cash, err := s.tradeAccountsTx(ctx, tx, req.AccountID, req.CashAccountID)
		if err != nil {
			return err
		}
		purchase := domain.Round2(quantity.Mul(req.Price))
		totalCost := domain.Round2(purchase.Add(fee))

		lines := []domain.JournalLine{
			{AccountID: security.AccountID, Amount: totalCost, CurrencyCode: security.CurrencyCode},
			{AccountID: cash.AccountID, Amount: purchase.Neg(), CurrencyCode: cash.CurrencyCode},
		}
		if fee.IsPositive() {
			lines = append(lines, domain.JournalLine{AccountID: cash.AccountID, Amount: fee.Neg(), CurrencyCode: cash.CurrencyCode})
		}
		description := req.Description
		if description == "" {
			description = fmt.Sprintf("Buy %s %s @ %s", quantity, props.TickerSymbol, req.Price)
		}
		entry, err = s.postEntryTx(ctx, tx, domain.JournalEntry{
			EntryDate:   date,
			Description: description,
			EntryType:   domain.EntryTypeBuy,
			Lines:       lines,
		}, true)
		if err != nil {
			return err
		}

		s.addLot(props, domain.Lot{LotDate: date, Quantity: quantity, PricePerShare: req.Price, Amount: totalCost})
		return tx.UpdateInvestmentProperties(ctx, *props)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to record buy", slog.String("account_id", req.AccountID))
		return nil, err
	}
	s.LogInfo(ctx, "Buy recorded", slog.String("account_id", req.AccountID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

// addLot increases the position. Lots are only tracked for FIFO positions.
func (s *investmentService) addLot(props *domain.InvestmentProperties, lot domain.Lot) {
	if props.CostBasisMethod == domain.FIFO {
		props.Lots = props.Lots.Add(lot)
		props.Quantity = props.Lots.TotalQuantity()
	} else {
		props.Quantity = domain.RoundQty(props.Quantity.Add(lot.Quantity))
	}
	props.LastUpdatedAt = s.Now()
}

// costBasisTx returns the cost of selling quantity shares, valuing an average-cost position
// with its balance at date.
func costBasisTx(ctx context.Context, tx portsrepo.LedgerTx, props *domain.InvestmentProperties, quantity decimal.Decimal, date domain.Date) (decimal.Decimal, error) {
	if props.Quantity.LessThan(quantity) {
		return decimal.Zero, fmt.Errorf("%w: %w: requested %s, available %s", apperrors.ErrInvariantViolation, domain.ErrInsufficientShares, quantity, props.Quantity)
	}
	if props.CostBasisMethod == domain.FIFO {
		cost, err := props.Lots.FIFOCost(quantity)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientShares) {
				return decimal.Zero, fmt.Errorf("%w: %w", apperrors.ErrInvariantViolation, err)
			}
			return decimal.Zero, err
		}
		return cost, nil
	}
	balance, err := balanceAtDateTx(ctx, tx, props.AccountID, date, true)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.Round2(balance.Div(props.Quantity).Mul(quantity)), nil
}

func (s *investmentService) CalculateCostBasis(ctx context.Context, accountID string, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, validationErrorf("quantity must be positive")
	}
	var cost decimal.Decimal
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		props, err := tx.FindInvestmentProperties(ctx, accountID)
		if err != nil {
			return err
		}
		cost, err = costBasisTx(ctx, tx, props, domain.RoundQty(quantity), s.Today())
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to calculate cost basis", slog.String("account_id", accountID))
		return decimal.Zero, err
	}
	return cost, nil
}

func (s *investmentService) RecordSell(ctx context.Context, req dto.TradeRequest) (*dto.SellResult, error) {
	date, err := validateTrade(req)
	if err != nil {
		return nil, err
	}
	quantity := domain.RoundQty(req.Quantity)
	fee := domain.Round2(req.Fee)

	var result dto.SellResult
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		props, security, cash, err := s.tradeAccountsTx(ctx, tx, req.AccountID, req.CashAccountID)
		if err != nil {
			return err
		}
		costBasis, err := costBasisTx(ctx, tx, props, quantity, date)
		if err != nil {
			return err
		}
		gross := domain.Round2(quantity.Mul(req.Price))
		proceeds := domain.Round2(gross.Sub(fee))
		gain := domain.Round2(proceeds.Sub(costBasis))

		securityAmount := costBasis.Neg()
		var gainLine *domain.JournalLine
		if gain.Abs().GreaterThan(domain.Tolerance) {
			gains, err := s.systemAccountTx(ctx, tx, domain.RealizedGainsAccountName, security.CurrencyCode)
			if err != nil {
				return err
			}
			gainLine = &domain.JournalLine{AccountID: gains.AccountID, Amount: gain.Neg(), CurrencyCode: security.CurrencyCode}
		} else {
			// Sub-cent gains stay on the security so the entry still nets to zero.
			securityAmount = domain.Round2(securityAmount.Sub(gain))
		}

		lines := []domain.JournalLine{
			{AccountID: security.AccountID, Amount: securityAmount, CurrencyCode: security.CurrencyCode},
			{AccountID: cash.AccountID, Amount: gross, CurrencyCode: cash.CurrencyCode},
		}
		if fee.IsPositive() {
			lines = append(lines, domain.JournalLine{AccountID: cash.AccountID, Amount: fee.Neg(), CurrencyCode: cash.CurrencyCode})
		}
		if gainLine != nil {
			lines = append(lines, *gainLine)
		}
		description := req.Description
		if description == "" {
			description = fmt.Sprintf("Sell %s %s @ %s", quantity, props.TickerSymbol, req.Price)
		}
		entry, err := s.postEntryTx(ctx, tx, domain.JournalEntry{
			EntryDate:   date,
			Description: description,
			EntryType:   domain.EntryTypeSell,
			Lines:       lines,
		}, true)
		if err != nil {
			return err
		}

		if props.CostBasisMethod == domain.FIFO {
			if props.Lots, err = props.Lots.Sell(quantity); err != nil {
				return fmt.Errorf("%w: %w", apperrors.ErrInvariantViolation, err)
			}
			props.Quantity = props.Lots.TotalQuantity()
		} else {
			props.Quantity = domain.RoundQty(props.Quantity.Sub(quantity))
		}
		props.LastUpdatedAt = s.Now()
		if err := tx.UpdateInvestmentProperties(ctx, *props); err != nil {
			return err
		}

		result = dto.SellResult{Entry: entry, CostBasis: costBasis, SaleProceeds: proceeds, RealizedGain: gain, Lots: props.Lots}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to record sell", slog.String("account_id", req.AccountID))
		return nil, err
	}
	s.LogInfo(ctx, "Sell recorded",
		slog.String("account_id", req.AccountID),
		slog.String("entry_id", result.Entry.EntryID),
		slog.String("realized_gain", result.RealizedGain.String()))
	return &result, nil
}

func (s *investmentService) RecordStockSplit(ctx context.Context, req dto.StockSplitRequest) (*domain.InvestmentProperties, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if !req.Ratio.IsPositive() {
		return nil, validationErrorf("split ratio must be positive")
	}

	var props *domain.InvestmentProperties
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		props, err = tx.FindInvestmentProperties(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if err := tx.LockAccounts(ctx, []string{req.AccountID}); err != nil {
			return err
		}
		today := s.Today()
		before, err := balanceAtDateTx(ctx, tx, req.AccountID, today, true)
		if err != nil {
			return err
		}
		costBefore := props.Lots.TotalAmount()

		if _, err := s.postEntryTx(ctx, tx, domain.JournalEntry{
			EntryDate:   date,
			Description: fmt.Sprintf("Stock split %s for 1 (%s)", req.Ratio, props.TickerSymbol),
			EntryType:   domain.EntryTypeSplit,
		}, false); err != nil {
			return err
		}
		if props.CostBasisMethod == domain.FIFO {
			props.Lots = props.Lots.Split(req.Ratio)
			props.Quantity = props.Lots.TotalQuantity()
		} else {
			props.Quantity = domain.RoundQty(props.Quantity.Mul(req.Ratio))
		}
		props.LastUpdatedAt = s.Now()

		after, err := balanceAtDateTx(ctx, tx, req.AccountID, today, true)
		if err != nil {
			return err
		}
		if !domain.WithinTolerance(before, after) || !domain.WithinTolerance(costBefore, props.Lots.TotalAmount()) {
			return invariantErrorf("stock split changed the balance of %s from %s to %s", req.AccountID, before, after)
		}
		return tx.UpdateInvestmentProperties(ctx, *props)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to record stock split", slog.String("account_id", req.AccountID))
		return nil, err
	}
	s.LogInfo(ctx, "Stock split recorded", slog.String("account_id", req.AccountID), slog.String("ratio", req.Ratio.String()))
	return props, nil
}

func (s *investmentService) RecordReinvestedDividend(ctx context.Context, req dto.ReinvestedDividendRequest) ([]domain.JournalEntry, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, validationErrorf("dividend amount must be positive")
	}
	if !req.Price.IsPositive() {
		return nil, validationErrorf("price must be positive")
	}
	mode := req.Mode
	if mode == "" {
		mode = dto.DividendAsIncome
	}
	if mode == dto.DividendAsIncome && req.CashAccountID == "" {
		return nil, validationErrorf("cashAccountID is required when the dividend is recorded as income")
	}
	amount := domain.Round2(req.Amount)
	shares := domain.RoundQty(amount.Div(req.Price))

	var entries []domain.JournalEntry
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var (
			props    *domain.InvestmentProperties
			security domain.Account
			err      error
		)
		if mode == dto.DividendAsIncome {
			var cash domain.Account
			props, security, cash, err = s.tradeAccountsTx(ctx, tx, req.AccountID, req.CashAccountID)
			if err != nil {
				return err
			}
			income, err := s.systemAccountTx(ctx, tx, domain.DividendIncomeAccountName, security.CurrencyCode)
			if err != nil {
				return err
			}
			dividend, err := s.postEntryTx(ctx, tx, domain.JournalEntry{
				EntryDate:   date,
				Description: s.dividendDescription(req, props, "Dividend"),
				EntryType:   domain.EntryTypeDividend,
				Lines: []domain.JournalLine{
					{AccountID: cash.AccountID, Amount: amount, CurrencyCode: cash.CurrencyCode},
					{AccountID: income.AccountID, Amount: amount.Neg(), CurrencyCode: cash.CurrencyCode},
				},
			}, true)
			if err != nil {
				return err
			}
			reinvest, err := s.postEntryTx(ctx, tx, domain.JournalEntry{
				EntryDate:   date,
				Description: s.dividendDescription(req, props, "Dividend reinvestment"),
				EntryType:   domain.EntryTypeReinvestment,
				Lines: []domain.JournalLine{
					{AccountID: security.AccountID, Amount: amount, CurrencyCode: security.CurrencyCode},
					{AccountID: cash.AccountID, Amount: amount.Neg(), CurrencyCode: cash.CurrencyCode},
				},
			}, true)
			if err != nil {
				return err
			}
			entries = []domain.JournalEntry{*dividend, *reinvest}
		} else {
			props, err = tx.FindInvestmentProperties(ctx, req.AccountID)
			if err != nil {
				return err
			}
			found, err := tx.FindAccountByID(ctx, req.AccountID)
			if err != nil {
				return err
			}
			security = *found
			equity, err := s.systemAccountTx(ctx, tx, domain.ReinvestedDividendsAccountName, security.CurrencyCode)
			if err != nil {
				return err
			}
			reinvest, err := s.postEntryTx(ctx, tx, domain.JournalEntry{
				EntryDate:   date,
				Description: s.dividendDescription(req, props, "Dividend reinvestment"),
				EntryType:   domain.EntryTypeReinvestment,
				Lines: []domain.JournalLine{
					{AccountID: security.AccountID, Amount: amount, CurrencyCode: security.CurrencyCode},
					{AccountID: equity.AccountID, Amount: amount.Neg(), CurrencyCode: security.CurrencyCode},
				},
			}, true)
			if err != nil {
				return err
			}
			entries = []domain.JournalEntry{*reinvest}
		}

		s.addLot(props, domain.Lot{LotDate: date, Quantity: shares, PricePerShare: req.Price, Amount: amount})
		return tx.UpdateInvestmentProperties(ctx, *props)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to record reinvested dividend", slog.String("account_id", req.AccountID))
		return nil, err
	}
	s.LogInfo(ctx, "Reinvested dividend recorded",
		slog.String("account_id", req.AccountID),
		slog.String("mode", mode),
		slog.String("shares", shares.String()))
	return entries, nil
}

func (s *investmentService) dividendDescription(req dto.ReinvestedDividendRequest, props *domain.InvestmentProperties, prefix string) string {
	if req.Description != "" {
		return req.Description
	}
	return fmt.Sprintf("%s %s", prefix, props.TickerSymbol)
}

func (s *investmentService) RecordFee(ctx context.Context, req dto.InvestmentCashRequest) (*domain.JournalEntry, error) {
	return s.recordCashEvent(ctx, req, domain.Expense, domain.InvestmentExpensesAccountName, domain.EntryTypeFee, "Investment fee")
}

func (s *investmentService) RecordInterest(ctx context.Context, req dto.InvestmentCashRequest) (*domain.JournalEntry, error) {
	return s.recordCashEvent(ctx, req, domain.Income, domain.InterestIncomeAccountName, domain.EntryTypeInterest, "Interest")
}

// recordCashEvent posts an income or expense between the account and an engine category.
func (s *investmentService) recordCashEvent(ctx context.Context, req dto.InvestmentCashRequest, txnType domain.TransactionType, category string, entryType domain.EntryType, defaultDescription string) (*domain.JournalEntry, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, validationErrorf("amount must be positive")
	}
	description := req.Description
	if description == "" {
		description = defaultDescription
	}

	var entry *domain.JournalEntry
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		account, err := tx.FindAccountByID(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if !account.IsUser() {
			return validationErrorf("account %s must be a user account", account.Name)
		}
		counterparty, err := s.systemAccountTx(ctx, tx, category, account.CurrencyCode)
		if err != nil {
			return err
		}
		lines, err := transactionLines(txnType, *account, *counterparty, req.Amount)
		if err != nil {
			return err
		}
		entry, err = s.postEntryTx(ctx, tx, domain.JournalEntry{
			EntryDate:   date,
			Description: description,
			EntryType:   entryType,
			Lines:       lines,
		}, true)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to record investment cash event", slog.String("account_id", req.AccountID), slog.String("type", string(entryType)))
		return nil, err
	}
	s.LogInfo(ctx, "Investment cash event recorded", slog.String("account_id", req.AccountID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}
