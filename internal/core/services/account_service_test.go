package services_test

import (
	"testing"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	ledgerSuite
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	acc, err := suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: " Checking ", AccountType: domain.UserAccount, CurrencyCode: "USD",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(acc.AccountID)
	suite.Equal("Checking", acc.Name)
	suite.Equal(domain.Asset, acc.Subtype)
	suite.Equal(fixedNow, acc.CreatedAt)

	found, err := suite.svc.Account.GetAccountByID(suite.ctx, acc.AccountID)
	suite.Require().NoError(err)
	suite.Equal(*acc, *found)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Validation() {
	testCases := []struct {
		name string
		req  dto.CreateAccountRequest
	}{
		{"missing name", dto.CreateAccountRequest{AccountType: domain.UserAccount, CurrencyCode: "USD"}},
		{"unknown currency", dto.CreateAccountRequest{Name: "X", AccountType: domain.UserAccount, CurrencyCode: "ABC"}},
		{"lowercase currency", dto.CreateAccountRequest{Name: "X", AccountType: domain.UserAccount, CurrencyCode: "usd"}},
		{"bad type", dto.CreateAccountRequest{Name: "X", AccountType: "BANK", CurrencyCode: "USD"}},
		{"bad subtype", dto.CreateAccountRequest{Name: "X", AccountType: domain.UserAccount, Subtype: "EQUITY", CurrencyCode: "USD"}},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.svc.Account.CreateAccount(suite.ctx, tc.req)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateName() {
	suite.userAsset("Checking", "USD")
	_, err := suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "Checking", AccountType: domain.UserAccount, CurrencyCode: "EUR",
	})
	suite.ErrorIs(err, apperrors.ErrConflict)

	// The same name is allowed for a different account type.
	_, err = suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "Checking", AccountType: domain.CategoryAccount, CurrencyCode: "USD",
	})
	suite.NoError(err)
}

func (suite *AccountServiceTestSuite) TestGroups() {
	first, err := suite.svc.Account.CreateGroup(suite.ctx, dto.CreateGroupRequest{Name: "Banks", AccountType: domain.UserAccount})
	suite.Require().NoError(err)
	second, err := suite.svc.Account.CreateGroup(suite.ctx, dto.CreateGroupRequest{Name: "Cards", AccountType: domain.UserAccount})
	suite.Require().NoError(err)
	suite.Greater(second.DisplayOrder, first.DisplayOrder)

	_, err = suite.svc.Account.CreateGroup(suite.ctx, dto.CreateGroupRequest{Name: "Banks", AccountType: domain.UserAccount})
	suite.ErrorIs(err, apperrors.ErrConflict)

	acc, err := suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "Checking", AccountType: domain.UserAccount, CurrencyCode: "USD", GroupID: &first.GroupID,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(acc.GroupID)
	suite.Equal(first.GroupID, *acc.GroupID)

	_, err = suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "Food", AccountType: domain.CategoryAccount, CurrencyCode: "USD", GroupID: &first.GroupID,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	missing := "missing"
	_, err = suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "Savings", AccountType: domain.UserAccount, CurrencyCode: "USD", GroupID: &missing,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount() {
	acc := suite.userAsset("Checking", "USD")
	group, err := suite.svc.Account.CreateGroup(suite.ctx, dto.CreateGroupRequest{Name: "Banks", AccountType: domain.UserAccount})
	suite.Require().NoError(err)

	name := "Main Checking"
	archived := true
	updated, err := suite.svc.Account.UpdateAccount(suite.ctx, acc.AccountID, dto.UpdateAccountRequest{
		Name: &name, IsArchived: &archived, GroupID: &group.GroupID,
	})
	suite.Require().NoError(err)
	suite.Equal("Main Checking", updated.Name)
	suite.True(updated.IsArchived)
	suite.Equal(group.GroupID, *updated.GroupID)

	none := ""
	updated, err = suite.svc.Account.UpdateAccount(suite.ctx, acc.AccountID, dto.UpdateAccountRequest{GroupID: &none})
	suite.Require().NoError(err)
	suite.Nil(updated.GroupID)
	suite.Equal("Main Checking", updated.Name)

	blank := "  "
	_, err = suite.svc.Account.UpdateAccount(suite.ctx, acc.AccountID, dto.UpdateAccountRequest{Name: &blank})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Account.UpdateAccount(suite.ctx, "missing", dto.UpdateAccountRequest{Name: &name})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts() {
	suite.userAsset("Checking", "USD")
	suite.userAsset("Savings", "USD")
	suite.category("Food")

	users, err := suite.svc.Account.ListAccounts(suite.ctx, domain.UserAccount)
	suite.Require().NoError(err)
	suite.Len(users, 2)
	suite.Equal("Checking", users[0].Name)

	_, err = suite.svc.Account.ListAccounts(suite.ctx, "BANK")
	suite.ErrorIs(err, apperrors.ErrValidation)
}
