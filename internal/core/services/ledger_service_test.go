package services_test

import (
	"testing"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	ledgerSuite
	checking *domain.Account
	card     *domain.Account
	salary   *domain.Account
	food     *domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ledgerSuite.SetupTest()
	suite.checking = suite.userAsset("Checking", "USD")
	suite.card = suite.account("Card", domain.UserAccount, domain.Liability, "USD")
	suite.salary = suite.category("Salary")
	suite.food = suite.category("Food")
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_SignConvention() {
	income := suite.post(domain.Income, suite.checking, suite.salary, "1000", "2024-06-01")
	suite.equalAmount("1000", lineOf(income, suite.checking.AccountID).Amount)
	suite.equalAmount("-1000", lineOf(income, suite.salary.AccountID).Amount)
	suite.Equal(domain.EntryTypeIncome, income.EntryType)

	expense := suite.post(domain.Expense, suite.card, suite.food, "40", "2024-06-02")
	suite.equalAmount("-40", lineOf(expense, suite.card.AccountID).Amount)
	suite.equalAmount("40", lineOf(expense, suite.food.AccountID).Amount)

	// Transfers always move |amount| out of the source.
	transfer := suite.post(domain.Transfer, suite.checking, suite.card, "-25", "2024-06-03")
	suite.equalAmount("-25", lineOf(transfer, suite.checking.AccountID).Amount)
	suite.equalAmount("25", lineOf(transfer, suite.card.AccountID).Amount)

	suite.equalAmount("975", suite.balanceAt(suite.checking.AccountID, "2024-06-30"))
	suite.equalAmount("-15", suite.balanceAt(suite.card.AccountID, "2024-06-30"))
	suite.equalAmount("40", suite.balanceAt(suite.food.AccountID, "2024-06-30"))
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_LiabilityIncomeReducesDebt() {
	entry := suite.post(domain.Income, suite.card, suite.salary, "30", "2024-06-01")
	suite.equalAmount("-30", lineOf(entry, suite.card.AccountID).Amount)
	suite.equalAmount("30", lineOf(entry, suite.salary.AccountID).Amount)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_CategoryTakesAccountCurrency() {
	euro := suite.userAsset("Euro Wallet", "EUR")
	entry := suite.post(domain.Expense, euro, suite.food, "10", "2024-06-01")

	for _, l := range entry.Lines {
		suite.Equal("EUR", l.CurrencyCode)
	}
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_CurrencyMismatchRejected() {
	euro := suite.userAsset("Euro Wallet", "EUR")
	_, err := suite.svc.Ledger.CreateEntry(suite.ctx, dto.CreateEntryRequest{
		Date:            "2024-06-01",
		FromAccountID:   suite.checking.AccountID,
		ToAccountID:     euro.AccountID,
		Amount:          dec("10"),
		TransactionType: "transfer",
	})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "currency transfer")
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_Validation() {
	testCases := []struct {
		name string
		req  dto.CreateEntryRequest
	}{
		{"zero amount", dto.CreateEntryRequest{Date: "2024-06-01", FromAccountID: suite.checking.AccountID, ToAccountID: suite.food.AccountID, TransactionType: "expense"}},
		{"bad date", dto.CreateEntryRequest{Date: "06/01/2024", FromAccountID: suite.checking.AccountID, ToAccountID: suite.food.AccountID, Amount: dec("1"), TransactionType: "expense"}},
		{"same account", dto.CreateEntryRequest{Date: "2024-06-01", FromAccountID: suite.checking.AccountID, ToAccountID: suite.checking.AccountID, Amount: dec("1"), TransactionType: "expense"}},
		{"unknown type", dto.CreateEntryRequest{Date: "2024-06-01", FromAccountID: suite.checking.AccountID, ToAccountID: suite.food.AccountID, Amount: dec("1"), TransactionType: "gift"}},
		{"category as source", dto.CreateEntryRequest{Date: "2024-06-01", FromAccountID: suite.salary.AccountID, ToAccountID: suite.checking.AccountID, Amount: dec("1"), TransactionType: "income"}},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.svc.Ledger.CreateEntry(suite.ctx, tc.req)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	postingDate := "2024-05-31"
	_, err := suite.svc.Ledger.CreateEntry(suite.ctx, dto.CreateEntryRequest{
		Date: "2024-06-01", PostingDate: &postingDate, FromAccountID: suite.checking.AccountID,
		ToAccountID: suite.food.AccountID, Amount: dec("1"), TransactionType: "expense",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_UnknownAccount() {
	_, err := suite.svc.Ledger.CreateEntry(suite.ctx, dto.CreateEntryRequest{
		Date: "2024-06-01", FromAccountID: suite.checking.AccountID, ToAccountID: "missing",
		Amount: dec("1"), TransactionType: "expense",
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_ArchivedAccountRejected() {
	archived := true
	_, err := suite.svc.Account.UpdateAccount(suite.ctx, suite.food.AccountID, dto.UpdateAccountRequest{IsArchived: &archived})
	suite.Require().NoError(err)

	_, err = suite.svc.Ledger.CreateEntry(suite.ctx, dto.CreateEntryRequest{
		Date: "2024-06-01", FromAccountID: suite.checking.AccountID, ToAccountID: suite.food.AccountID,
		Amount: dec("1"), TransactionType: "expense",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_DuplicateSkipped() {
	req := dto.CreateEntryRequest{
		Date:            "2024-06-05",
		FromAccountID:   suite.checking.AccountID,
		ToAccountID:     suite.food.AccountID,
		Amount:          dec("12.50"),
		TransactionType: "expense",
		Description:     "Bakery",
	}
	first, err := suite.svc.Ledger.CreateEntry(suite.ctx, req)
	suite.Require().NoError(err)
	suite.Require().False(first.Skipped)

	second, err := suite.svc.Ledger.CreateEntry(suite.ctx, req)
	suite.Require().NoError(err)
	suite.True(second.Skipped)
	suite.Nil(second.Entry)
	suite.Require().NotNil(second.Duplicate)
	suite.Equal(first.Entry.EntryID, second.Duplicate.EntryID)
	suite.NotEmpty(second.SkipReason)

	req.Amount = dec("13")
	different, err := suite.svc.Ledger.CreateEntry(suite.ctx, req)
	suite.Require().NoError(err)
	suite.False(different.Skipped)

	req.Amount = dec("12.50")
	req.AllowDuplicate = true
	forced, err := suite.svc.Ledger.CreateEntry(suite.ctx, req)
	suite.Require().NoError(err)
	suite.False(forced.Skipped)
	suite.NotEqual(first.Entry.EntryID, forced.Entry.EntryID)

	suite.equalAmount("-38", suite.balanceAt(suite.checking.AccountID, "2024-06-30"))
}

func (suite *LedgerServiceTestSuite) TestCreateCurrencyTransfer() {
	euro := suite.userAsset("Euro Savings", "EUR")

	res, err := suite.svc.Ledger.CreateCurrencyTransfer(suite.ctx, dto.CurrencyTransferRequest{
		Date:          "2024-06-10",
		FromAccountID: suite.checking.AccountID,
		ToAccountID:   euro.AccountID,
		AmountFrom:    decPtr("100"),
		ExchangeRate:  decPtr("0.9"),
	})
	suite.Require().NoError(err)
	entry := res.Entry
	suite.Equal(domain.EntryTypeCurrencyTransfer, entry.EntryType)

	from := lineOf(entry, suite.checking.AccountID)
	suite.equalAmount("-100", from.Amount)
	suite.Equal("USD", from.CurrencyCode)
	suite.Require().NotNil(from.ExchangeRate)
	suite.equalAmount("0.9", *from.ExchangeRate)

	to := lineOf(entry, euro.AccountID)
	suite.equalAmount("90", to.Amount)
	suite.Equal("EUR", to.CurrencyCode)

	suite.equalAmount("90", suite.balanceAt(euro.AccountID, "2024-06-30"))
}

func (suite *LedgerServiceTestSuite) TestCreateCurrencyTransfer_DerivesRate() {
	euro := suite.userAsset("Euro Savings", "EUR")
	res, err := suite.svc.Ledger.CreateCurrencyTransfer(suite.ctx, dto.CurrencyTransferRequest{
		Date:          "2024-06-10",
		FromAccountID: suite.checking.AccountID,
		ToAccountID:   euro.AccountID,
		AmountFrom:    decPtr("300"),
		AmountTo:      decPtr("275"),
	})
	suite.Require().NoError(err)
	rate := lineOf(res.Entry, suite.checking.AccountID).ExchangeRate
	suite.Require().NotNil(rate)
	suite.equalAmount("0.916667", *rate)
}

func (suite *LedgerServiceTestSuite) TestCreateCurrencyTransfer_Rejections() {
	euro := suite.userAsset("Euro Savings", "EUR")

	_, err := suite.svc.Ledger.CreateCurrencyTransfer(suite.ctx, dto.CurrencyTransferRequest{
		Date: "2024-06-10", FromAccountID: suite.checking.AccountID, ToAccountID: euro.AccountID,
		AmountFrom: decPtr("100"), AmountTo: decPtr("95"), ExchangeRate: decPtr("0.9"),
	})
	suite.ErrorIs(err, apperrors.ErrInvariantViolation)

	_, err = suite.svc.Ledger.CreateCurrencyTransfer(suite.ctx, dto.CurrencyTransferRequest{
		Date: "2024-06-10", FromAccountID: suite.checking.AccountID, ToAccountID: euro.AccountID,
		AmountFrom: decPtr("100"),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	savings := suite.userAsset("Savings", "USD")
	_, err = suite.svc.Ledger.CreateCurrencyTransfer(suite.ctx, dto.CurrencyTransferRequest{
		Date: "2024-06-10", FromAccountID: suite.checking.AccountID, ToAccountID: savings.AccountID,
		AmountFrom: decPtr("100"), ExchangeRate: decPtr("1"),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestUpdateLine() {
	entry := suite.post(domain.Expense, suite.checking, suite.food, "40", "2024-06-01")
	lineID := lineOf(entry, suite.checking.AccountID).LineID

	description := "Groceries"
	updated, err := suite.svc.Ledger.UpdateLine(suite.ctx, lineID, dto.UpdateLineRequest{Description: &description})
	suite.Require().NoError(err)
	suite.Equal("Groceries", updated.Description)
	suite.equalAmount("-40", lineOf(updated, suite.checking.AccountID).Amount)

	updated, err = suite.svc.Ledger.UpdateLine(suite.ctx, lineID, dto.UpdateLineRequest{Amount: decPtr("55"), Date: "2024-06-03"})
	suite.Require().NoError(err)
	suite.equalAmount("-55", lineOf(updated, suite.checking.AccountID).Amount)
	suite.equalAmount("55", lineOf(updated, suite.food.AccountID).Amount)
	suite.Equal(domain.MustParseDate("2024-06-03"), updated.EntryDate)
	suite.Equal(entry.EntryID, updated.EntryID)

	suite.equalAmount("0", suite.balanceAt(suite.checking.AccountID, "2024-06-02"))
	suite.equalAmount("-55", suite.balanceAt(suite.checking.AccountID, "2024-06-03"))

	dining := suite.category("Dining")
	updated, err = suite.svc.Ledger.UpdateLine(suite.ctx, lineID, dto.UpdateLineRequest{ToAccountID: dining.AccountID})
	suite.Require().NoError(err)
	suite.equalAmount("55", lineOf(updated, dining.AccountID).Amount)
	suite.equalAmount("0", suite.balanceAt(suite.food.AccountID, "2024-06-30"))
}

func (suite *LedgerServiceTestSuite) TestUpdateLine_Rejections() {
	_, err := suite.svc.Ledger.UpdateLine(suite.ctx, "missing", dto.UpdateLineRequest{})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	entry := suite.post(domain.Expense, suite.checking, suite.food, "40", "2024-06-10")
	lineID := lineOf(entry, suite.checking.AccountID).LineID

	_, err = suite.svc.Ledger.UpdateLine(suite.ctx, lineID, dto.UpdateLineRequest{Amount: decPtr("0")})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Ledger.UpdateLine(suite.ctx, lineID, dto.UpdateLineRequest{ToAccountID: suite.checking.AccountID})
	suite.ErrorIs(err, apperrors.ErrValidation)

	posting := "2024-06-01"
	_, err = suite.svc.Ledger.UpdateLine(suite.ctx, lineID, dto.UpdateLineRequest{PostingDate: &posting})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry() {
	entry := suite.post(domain.Expense, suite.checking, suite.food, "40", "2024-06-01")
	suite.Require().NoError(suite.svc.Ledger.DeleteEntry(suite.ctx, entry.EntryID))

	_, err := suite.svc.Ledger.GetEntryByID(suite.ctx, entry.EntryID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.equalAmount("0", suite.balanceAt(suite.checking.AccountID, "2024-06-30"))

	suite.ErrorIs(suite.svc.Ledger.DeleteEntry(suite.ctx, entry.EntryID), apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry_CheckpointEntryRejected() {
	cp, err := suite.svc.Checkpoint.CreateCheckpoint(suite.ctx, dto.CreateCheckpointRequest{
		AccountID: suite.checking.AccountID, Date: "2024-06-01", Balance: dec("10"),
	})
	suite.Require().NoError(err)

	err = suite.svc.Ledger.DeleteEntry(suite.ctx, cp.EntryID)
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.svc.Ledger.GetEntryByID(suite.ctx, cp.EntryID)
	suite.NoError(err)
}

func (suite *LedgerServiceTestSuite) TestSwapDisplayOrder() {
	a := suite.post(domain.Expense, suite.checking, suite.food, "1", "2024-06-01")
	b := suite.post(domain.Expense, suite.checking, suite.food, "2", "2024-06-01")

	suite.Require().NoError(suite.svc.Ledger.SwapDisplayOrder(suite.ctx, dto.SwapDisplayOrderRequest{EntryIDA: a.EntryID, EntryIDB: b.EntryID}))

	gotA, err := suite.svc.Ledger.GetEntryByID(suite.ctx, a.EntryID)
	suite.Require().NoError(err)
	gotB, err := suite.svc.Ledger.GetEntryByID(suite.ctx, b.EntryID)
	suite.Require().NoError(err)
	suite.Equal(b.DisplayOrder, gotA.DisplayOrder)
	suite.Equal(a.DisplayOrder, gotB.DisplayOrder)

	err = suite.svc.Ledger.SwapDisplayOrder(suite.ctx, dto.SwapDisplayOrderRequest{EntryIDA: a.EntryID, EntryIDB: a.EntryID})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestListAccountEntries_Paginates() {
	older := suite.post(domain.Expense, suite.checking, suite.food, "1", "2024-06-01")
	first := suite.post(domain.Expense, suite.checking, suite.food, "2", "2024-06-02")
	second := suite.post(domain.Expense, suite.checking, suite.food, "3", "2024-06-02")

	page, err := suite.svc.Ledger.ListAccountEntries(suite.ctx, suite.checking.AccountID, dto.ListEntriesParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(page.Entries, 2)
	suite.Equal(second.EntryID, page.Entries[0].EntryID)
	suite.Equal(first.EntryID, page.Entries[1].EntryID)
	suite.Require().NotNil(page.NextToken)

	page, err = suite.svc.Ledger.ListAccountEntries(suite.ctx, suite.checking.AccountID, dto.ListEntriesParams{Limit: 2, NextToken: page.NextToken})
	suite.Require().NoError(err)
	suite.Require().Len(page.Entries, 1)
	suite.Equal(older.EntryID, page.Entries[0].EntryID)
	suite.Nil(page.NextToken)

	bad := "not-a-token"
	_, err = suite.svc.Ledger.ListAccountEntries(suite.ctx, suite.checking.AccountID, dto.ListEntriesParams{NextToken: &bad})
	suite.ErrorIs(err, apperrors.ErrValidation)
}
