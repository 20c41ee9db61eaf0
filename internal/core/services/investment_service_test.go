package services_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type InvestmentServiceTestSuite struct {
	ledgerSuite
	cash  *domain.Account
	stock *domain.Account
}

func (suite *InvestmentServiceTestSuite) SetupTest() {
	suite.ledgerSuite.SetupTest()
	suite.cash = suite.userAsset("Brokerage Cash", "USD")
	suite.stock = suite.userAsset("ACME Shares", "USD")
}

func TestInvestmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvestmentServiceTestSuite))
}

func (suite *InvestmentServiceTestSuite) track(method string) *domain.InvestmentProperties {
	suite.T().Helper()
	props, err := suite.svc.Investment.CreateInvestmentProperties(suite.ctx, dto.CreateInvestmentRequest{
		AccountID: suite.stock.AccountID, TickerSymbol: "ACME", CostBasisMethod: method,
	})
	suite.Require().NoError(err)
	return props
}

func (suite *InvestmentServiceTestSuite) trade(quantity, price, fee, date string) dto.TradeRequest {
	return dto.TradeRequest{
		AccountID:     suite.stock.AccountID,
		CashAccountID: suite.cash.AccountID,
		Date:          date,
		Quantity:      dec(quantity),
		Price:         dec(price),
		Fee:           dec(fee),
	}
}

func (suite *InvestmentServiceTestSuite) buy(quantity, price, fee, date string) *domain.JournalEntry {
	suite.T().Helper()
	entry, err := suite.svc.Investment.RecordBuy(suite.ctx, suite.trade(quantity, price, fee, date))
	suite.Require().NoError(err)
	return entry
}

func (suite *InvestmentServiceTestSuite) props() *domain.InvestmentProperties {
	suite.T().Helper()
	props, err := suite.svc.Investment.GetInvestmentProperties(suite.ctx, suite.stock.AccountID)
	suite.Require().NoError(err)
	return props
}

func (suite *InvestmentServiceTestSuite) TestCreateInvestmentProperties() {
	props := suite.track("")
	suite.Equal(domain.FIFO, props.CostBasisMethod)
	suite.Equal("ACME", props.TickerSymbol)
	suite.True(props.Quantity.IsZero())

	_, err := suite.svc.Investment.CreateInvestmentProperties(suite.ctx, dto.CreateInvestmentRequest{
		AccountID: suite.stock.AccountID, TickerSymbol: "ACME",
	})
	suite.ErrorIs(err, apperrors.ErrConflict)

	food := suite.category("Food")
	_, err = suite.svc.Investment.CreateInvestmentProperties(suite.ctx, dto.CreateInvestmentRequest{
		AccountID: food.AccountID, TickerSymbol: "FOOD",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Investment.CreateInvestmentProperties(suite.ctx, dto.CreateInvestmentRequest{
		AccountID: suite.cash.AccountID, TickerSymbol: "X", CostBasisMethod: "LIFO",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvestmentServiceTestSuite) TestRecordBuy_CapitalizesFee() {
	suite.track("FIFO")
	entry := suite.buy("10", "150", "5", "2024-01-10")

	suite.Equal(domain.EntryTypeBuy, entry.EntryType)
	suite.Len(entry.Lines, 3)
	suite.equalAmount("1505", lineOf(entry, suite.stock.AccountID).Amount)
	suite.equalAmount("-1505", suite.balanceAt(suite.cash.AccountID, "2024-01-10"))

	props := suite.props()
	suite.equalAmount("10", props.Quantity)
	suite.Require().Len(props.Lots, 1)
	suite.equalAmount("1505", props.Lots[0].Amount)
	suite.equalAmount("150", props.Lots[0].PricePerShare)
}

func (suite *InvestmentServiceTestSuite) TestRecordSell_FIFO() {
	suite.track("FIFO")
	suite.buy("10", "150", "5", "2024-01-10")

	result, err := suite.svc.Investment.RecordSell(suite.ctx, suite.trade("5", "155", "5", "2024-02-10"))
	suite.Require().NoError(err)
	suite.equalAmount("752.5", result.CostBasis)
	suite.equalAmount("770", result.SaleProceeds)
	suite.equalAmount("17.5", result.RealizedGain)
	suite.Require().Len(result.Lots, 1)
	suite.equalAmount("5", result.Lots[0].Quantity)
	suite.equalAmount("752.5", result.Lots[0].Amount)

	entry := result.Entry
	suite.Equal(domain.EntryTypeSell, entry.EntryType)
	suite.equalAmount("-752.5", lineOf(entry, suite.stock.AccountID).Amount)
	gains := suite.engineAccount(domain.CategoryAccount, domain.RealizedGainsAccountName)
	suite.equalAmount("-17.5", lineOf(entry, gains.AccountID).Amount)

	suite.equalAmount("752.5", suite.balanceAt(suite.stock.AccountID, "2024-06-30"))
	suite.equalAmount("-735", suite.balanceAt(suite.cash.AccountID, "2024-06-30"))
	suite.equalAmount("5", suite.props().Quantity)

	cost, err := suite.svc.Investment.CalculateCostBasis(suite.ctx, suite.stock.AccountID, dec("5"))
	suite.Require().NoError(err)
	suite.equalAmount("752.5", cost)
}

func (suite *InvestmentServiceTestSuite) TestRecordSell_OldestLotsFirst() {
	suite.track("FIFO")
	suite.buy("10", "100", "0", "2024-01-10")
	suite.buy("10", "200", "0", "2024-02-10")

	result, err := suite.svc.Investment.RecordSell(suite.ctx, suite.trade("15", "200", "0", "2024-03-10"))
	suite.Require().NoError(err)
	suite.equalAmount("2000", result.CostBasis)
	suite.equalAmount("1000", result.RealizedGain)
	suite.Require().Len(result.Lots, 1)
	suite.equalAmount("5", result.Lots[0].Quantity)
	suite.equalAmount("1000", result.Lots[0].Amount)
}

func (suite *InvestmentServiceTestSuite) TestRecordSell_NoGainHasNoGainLine() {
	suite.track("FIFO")
	suite.buy("10", "100", "0", "2024-01-10")

	result, err := suite.svc.Investment.RecordSell(suite.ctx, suite.trade("4", "100", "0", "2024-03-10"))
	suite.Require().NoError(err)
	suite.True(result.RealizedGain.IsZero())
	suite.Len(result.Entry.Lines, 2)
}

func (suite *InvestmentServiceTestSuite) TestRecordSell_InsufficientShares() {
	suite.track("FIFO")
	suite.buy("10", "100", "0", "2024-01-10")

	_, err := suite.svc.Investment.RecordSell(suite.ctx, suite.trade("11", "100", "0", "2024-03-10"))
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvariantViolation)
	suite.True(errors.Is(err, domain.ErrInsufficientShares))

	suite.equalAmount("10", suite.props().Quantity)
	suite.equalAmount("1000", suite.balanceAt(suite.stock.AccountID, "2024-06-30"))
}

func (suite *InvestmentServiceTestSuite) TestRecordSell_AverageCost() {
	suite.track("AVERAGE_COST")
	suite.buy("10", "100", "0", "2024-01-10")
	suite.buy("10", "200", "0", "2024-02-10")

	result, err := suite.svc.Investment.RecordSell(suite.ctx, suite.trade("5", "300", "0", "2024-03-10"))
	suite.Require().NoError(err)
	suite.equalAmount("750", result.CostBasis)
	suite.equalAmount("750", result.RealizedGain)
	suite.equalAmount("15", suite.props().Quantity)
	suite.equalAmount("2250", suite.balanceAt(suite.stock.AccountID, "2024-06-30"))
}

func (suite *InvestmentServiceTestSuite) TestRecordTrade_Validation() {
	suite.track("FIFO")
	for name, req := range map[string]dto.TradeRequest{
		"zero quantity": suite.trade("0", "10", "0", "2024-01-10"),
		"zero price":    suite.trade("1", "0", "0", "2024-01-10"),
		"negative fee":  suite.trade("1", "10", "-1", "2024-01-10"),
		"bad date":      suite.trade("1", "10", "0", "Jan 10"),
	} {
		suite.Run(name, func() {
			_, err := suite.svc.Investment.RecordBuy(suite.ctx, req)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	euro := suite.userAsset("Euro Cash", "EUR")
	req := suite.trade("1", "10", "0", "2024-01-10")
	req.CashAccountID = euro.AccountID
	_, err := suite.svc.Investment.RecordBuy(suite.ctx, req)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvestmentServiceTestSuite) TestRecordStockSplit() {
	suite.track("FIFO")
	suite.buy("10", "150", "5", "2024-01-10")

	props, err := suite.svc.Investment.RecordStockSplit(suite.ctx, dto.StockSplitRequest{
		AccountID: suite.stock.AccountID, Date: "2024-03-01", Ratio: dec("2.0"),
	})
	suite.Require().NoError(err)
	suite.equalAmount("20", props.Quantity)
	suite.Require().Len(props.Lots, 1)
	suite.equalAmount("20", props.Lots[0].Quantity)
	suite.equalAmount("75", props.Lots[0].PricePerShare)
	suite.equalAmount("1505", props.Lots[0].Amount)
	suite.equalAmount("1505", suite.balanceAt(suite.stock.AccountID, "2024-06-30"))

	_, err = suite.svc.Investment.RecordStockSplit(suite.ctx, dto.StockSplitRequest{
		AccountID: suite.stock.AccountID, Date: "2024-03-01", Ratio: dec("0"),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvestmentServiceTestSuite) TestRecordReinvestedDividend_AsIncome() {
	suite.track("FIFO")
	suite.buy("10", "50", "0", "2024-01-10")

	entries, err := suite.svc.Investment.RecordReinvestedDividend(suite.ctx, dto.ReinvestedDividendRequest{
		AccountID: suite.stock.AccountID, CashAccountID: suite.cash.AccountID,
		Date: "2024-03-01", Amount: dec("100"), Price: dec("50"), Mode: dto.DividendAsIncome,
	})
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Equal(domain.EntryTypeDividend, entries[0].EntryType)
	suite.Equal(domain.EntryTypeReinvestment, entries[1].EntryType)

	income := suite.engineAccount(domain.CategoryAccount, domain.DividendIncomeAccountName)
	suite.equalAmount("-100", suite.balanceAt(income.AccountID, "2024-06-30"))
	suite.equalAmount("-500", suite.balanceAt(suite.cash.AccountID, "2024-06-30"))
	suite.equalAmount("600", suite.balanceAt(suite.stock.AccountID, "2024-06-30"))

	props := suite.props()
	suite.equalAmount("12", props.Quantity)
	suite.Require().Len(props.Lots, 2)
	suite.equalAmount("2", props.Lots[1].Quantity)
	suite.equalAmount("100", props.Lots[1].Amount)

	_, err = suite.svc.Investment.RecordReinvestedDividend(suite.ctx, dto.ReinvestedDividendRequest{
		AccountID: suite.stock.AccountID, Date: "2024-03-01", Amount: dec("100"), Price: dec("50"),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvestmentServiceTestSuite) TestRecordReinvestedDividend_AsCostBasis() {
	suite.track("FIFO")

	entries, err := suite.svc.Investment.RecordReinvestedDividend(suite.ctx, dto.ReinvestedDividendRequest{
		AccountID: suite.stock.AccountID, Date: "2024-03-01", Amount: dec("30"), Price: dec("12"),
		Mode: dto.DividendAsCostBasis,
	})
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)

	equity := suite.engineAccount(domain.SystemAccount, domain.ReinvestedDividendsAccountName)
	suite.equalAmount("-30", suite.balanceAt(equity.AccountID, "2024-06-30"))
	suite.equalAmount("30", suite.balanceAt(suite.stock.AccountID, "2024-06-30"))
	suite.equalAmount("0", suite.balanceAt(suite.cash.AccountID, "2024-06-30"))
	suite.equalAmount("2.5", suite.props().Quantity)
}

func (suite *InvestmentServiceTestSuite) TestRecordFeeAndInterest() {
	fee, err := suite.svc.Investment.RecordFee(suite.ctx, dto.InvestmentCashRequest{
		AccountID: suite.cash.AccountID, Date: "2024-03-01", Amount: dec("10"),
	})
	suite.Require().NoError(err)
	suite.Equal(domain.EntryTypeFee, fee.EntryType)
	expenses := suite.engineAccount(domain.CategoryAccount, domain.InvestmentExpensesAccountName)
	suite.equalAmount("10", lineOf(fee, expenses.AccountID).Amount)

	interest, err := suite.svc.Investment.RecordInterest(suite.ctx, dto.InvestmentCashRequest{
		AccountID: suite.cash.AccountID, Date: "2024-03-02", Amount: dec("4.25"), Description: "March interest",
	})
	suite.Require().NoError(err)
	suite.Equal(domain.EntryTypeInterest, interest.EntryType)
	suite.Equal("March interest", interest.Description)

	suite.equalAmount("-5.75", suite.balanceAt(suite.cash.AccountID, "2024-06-30"))

	_, err = suite.svc.Investment.RecordFee(suite.ctx, dto.InvestmentCashRequest{
		AccountID: suite.cash.AccountID, Date: "2024-03-01", Amount: dec("-1"),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvestmentServiceTestSuite) TestLotEntriesCannotBeDeleted() {
	suite.track("FIFO")
	entry := suite.buy("1", "10", "0", "2024-01-10")

	suite.ErrorIs(suite.svc.Ledger.DeleteEntry(suite.ctx, entry.EntryID), apperrors.ErrValidation)
}
