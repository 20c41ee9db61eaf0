package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/core/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)

// ledgerSuite wires every service over a fresh in-memory store for each test.
type ledgerSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer
}

func (suite *ledgerSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.svc = services.NewServiceContainer(suite.store, suite.store, suite.store,
		services.WithClock(func() time.Time { return fixedNow }))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func (suite *ledgerSuite) equalAmount(expected string, actual decimal.Decimal, msgAndArgs ...any) {
	suite.T().Helper()
	suite.Truef(dec(expected).Equal(actual), "expected %s, got %s %v", expected, actual, msgAndArgs)
}

func (suite *ledgerSuite) account(name string, accountType domain.AccountType, subtype domain.AccountSubtype, currency string) *domain.Account {
	suite.T().Helper()
	acc, err := suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name:         name,
		AccountType:  accountType,
		Subtype:      subtype,
		CurrencyCode: currency,
	})
	suite.Require().NoError(err)
	return acc
}

func (suite *ledgerSuite) userAsset(name, currency string) *domain.Account {
	return suite.account(name, domain.UserAccount, domain.Asset, currency)
}

func (suite *ledgerSuite) category(name string) *domain.Account {
	return suite.account(name, domain.CategoryAccount, "", "USD")
}

func (suite *ledgerSuite) post(txnType domain.TransactionType, from, to *domain.Account, amount, date string) *domain.JournalEntry {
	suite.T().Helper()
	res, err := suite.svc.Ledger.CreateEntry(suite.ctx, dto.CreateEntryRequest{
		Date:            date,
		FromAccountID:   from.AccountID,
		ToAccountID:     to.AccountID,
		Amount:          dec(amount),
		TransactionType: string(txnType),
		Description:     string(txnType) + " " + amount + " " + date,
	})
	suite.Require().NoError(err)
	suite.Require().False(res.Skipped)
	return res.Entry
}

func (suite *ledgerSuite) balanceAt(accountID, date string) decimal.Decimal {
	suite.T().Helper()
	bal, err := suite.svc.Balance.GetBalanceAtDate(suite.ctx, accountID, domain.MustParseDate(date))
	suite.Require().NoError(err)
	return bal
}

func (suite *ledgerSuite) engineAccount(accountType domain.AccountType, name string) domain.Account {
	suite.T().Helper()
	accounts, err := suite.svc.Account.ListAccounts(suite.ctx, accountType)
	suite.Require().NoError(err)
	for _, a := range accounts {
		if a.Name == name {
			return a
		}
	}
	suite.FailNow("account not found", name)
	return domain.Account{}
}

func lineOf(entry *domain.JournalEntry, accountID string) domain.JournalLine {
	l, _ := entry.LineFor(accountID)
	return l
}
