package services_test

import (
	"testing"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BalanceServiceTestSuite struct {
	ledgerSuite
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}

func (suite *BalanceServiceTestSuite) TestBalanceIsRunningSumOfLines() {
	checking := suite.userAsset("Checking", "USD")
	salary := suite.category("Salary")
	food := suite.category("Food")

	suite.post(domain.Income, checking, salary, "1000", "2024-05-01")
	suite.post(domain.Expense, checking, food, "12.34", "2024-05-03")
	suite.post(domain.Expense, checking, food, "7.66", "2024-05-03")
	_, err := suite.svc.Checkpoint.CreateCheckpoint(suite.ctx, dto.CreateCheckpointRequest{
		AccountID: checking.AccountID, Date: "2024-05-04", Balance: dec("990"),
	})
	suite.Require().NoError(err)
	suite.post(domain.Expense, checking, food, "40", "2024-05-06")

	page, err := suite.svc.Ledger.ListAccountEntries(suite.ctx, checking.AccountID, dto.ListEntriesParams{Limit: 100})
	suite.Require().NoError(err)
	perDay := map[domain.Date]decimal.Decimal{}
	for _, e := range page.Entries {
		perDay[e.EntryDate] = perDay[e.EntryDate].Add(lineOf(&e, checking.AccountID).Amount)
	}

	start := domain.MustParseDate("2024-04-30")
	previous := suite.balanceAt(checking.AccountID, start.String())
	suite.equalAmount("0", previous)
	for d := start.AddDays(1); !d.After(domain.MustParseDate("2024-05-08")); d = d.AddDays(1) {
		current := suite.balanceAt(checking.AccountID, d.String())
		suite.equalAmount(previous.Add(perDay[d]).String(), current, d.String())
		previous = current
	}

	suite.equalAmount("980", suite.balanceAt(checking.AccountID, "2024-05-03"))
	suite.equalAmount("990", suite.balanceAt(checking.AccountID, "2024-05-04"))
	suite.equalAmount("950", previous)
}

func (suite *BalanceServiceTestSuite) TestGetAccountBalanceUsesToday() {
	checking := suite.userAsset("Checking", "USD")
	salary := suite.category("Salary")
	suite.post(domain.Income, checking, salary, "10", "2024-06-30")
	suite.post(domain.Income, checking, salary, "5", "2024-07-01")

	balance, err := suite.svc.Balance.GetAccountBalance(suite.ctx, checking.AccountID)
	suite.Require().NoError(err)
	suite.equalAmount("10", balance)
}

func (suite *BalanceServiceTestSuite) TestUnknownAccount() {
	_, err := suite.svc.Balance.GetBalanceAtDate(suite.ctx, "missing", domain.MustParseDate("2024-01-01"))
	suite.ErrorIs(err, apperrors.ErrNotFound)
}
