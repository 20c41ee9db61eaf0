package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/handlers"
	"github.com/SscSPs/household_ledger/internal/platform/config"
	"github.com/SscSPs/household_ledger/internal/utils/validation"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type HandlerSuite struct {
	suite.Suite
	router      *gin.Engine
	accounts    *MockAccountService
	ledger      *MockLedgerService
	balances    *MockBalanceService
	aggregation *MockAggregationService
	investments *MockInvestmentService
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	validation.RegisterGin()

	s.accounts = new(MockAccountService)
	s.ledger = new(MockLedgerService)
	s.balances = new(MockBalanceService)
	s.aggregation = new(MockAggregationService)
	s.investments = new(MockInvestmentService)

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, &config.Config{IsProduction: true, BaseCurrency: "USD"}, &portssvc.ServiceContainer{
		Account:     s.accounts,
		Ledger:      s.ledger,
		Balance:     s.balances,
		Aggregation: s.aggregation,
		Investment:  s.investments,
	})
}

func (s *HandlerSuite) TearDownTest() {
	s.accounts.AssertExpectations(s.T())
	s.ledger.AssertExpectations(s.T())
	s.balances.AssertExpectations(s.T())
	s.aggregation.AssertExpectations(s.T())
	s.investments.AssertExpectations(s.T())
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func (s *HandlerSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlerSuite) TestCreateEntry() {
	req := dto.CreateEntryRequest{
		Date: "2024-03-01", FromAccountID: "checking", ToAccountID: "food",
		Amount: decimal.NewFromInt(25), TransactionType: "expense", Description: "groceries",
	}
	entry := &domain.JournalEntry{EntryID: "e1", EntryDate: domain.NewDate(2024, 3, 1), Description: "groceries"}
	s.ledger.On("CreateEntry", mock.Anything, mock.MatchedBy(func(r dto.CreateEntryRequest) bool {
		return r.FromAccountID == "checking" && r.Amount.Equal(decimal.NewFromInt(25))
	})).Return(&dto.CreateEntryResult{Entry: entry}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/entries", req)
	s.Equal(http.StatusCreated, w.Code)

	var res dto.CreateEntryResult
	s.decode(w, &res)
	s.False(res.Skipped)
	s.Equal("e1", res.Entry.EntryID)
}

func (s *HandlerSuite) TestCreateEntrySkippedDuplicateIsOK() {
	dup := &domain.JournalEntry{EntryID: "existing"}
	s.ledger.On("CreateEntry", mock.Anything, mock.Anything).
		Return(&dto.CreateEntryResult{Skipped: true, Duplicate: dup, SkipReason: "duplicate"}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/entries", dto.CreateEntryRequest{
		Date: "2024-03-01", FromAccountID: "checking", ToAccountID: "food",
		Amount: decimal.NewFromInt(25), TransactionType: "expense",
	})
	s.Equal(http.StatusOK, w.Code)
	var res dto.CreateEntryResult
	s.decode(w, &res)
	s.True(res.Skipped)
	s.Equal("existing", res.Duplicate.EntryID)
}

func (s *HandlerSuite) TestCreateEntryBindingErrors() {
	cases := []struct {
		name string
		body dto.CreateEntryRequest
	}{
		{"missing date", dto.CreateEntryRequest{FromAccountID: "a", ToAccountID: "b", TransactionType: "expense"}},
		{"same accounts", dto.CreateEntryRequest{Date: "2024-03-01", FromAccountID: "a", ToAccountID: "a", TransactionType: "expense"}},
		{"unknown type", dto.CreateEntryRequest{Date: "2024-03-01", FromAccountID: "a", ToAccountID: "b", TransactionType: "refund"}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			w := s.do(http.MethodPost, "/api/v1/entries", tc.body)
			s.Equal(http.StatusBadRequest, w.Code)
		})
	}
}

func (s *HandlerSuite) TestErrorKindsMapToStatus() {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: account food", apperrors.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: rates disagree", apperrors.ErrInvariantViolation), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: checkpoint exists", apperrors.ErrConflict), http.StatusConflict},
		{apperrors.NewAppError(500, "failed to begin transaction", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		s.Run(tc.err.Error(), func() {
			s.ledger.On("DeleteEntry", mock.Anything, "e1").Return(tc.err).Once()
			w := s.do(http.MethodDelete, "/api/v1/entries/e1", nil)
			s.Equal(tc.code, w.Code)

			var body map[string]string
			s.decode(w, &body)
			if tc.code == http.StatusInternalServerError {
				s.Equal("Failed to delete entry", body["error"])
			} else {
				s.Equal(tc.err.Error(), body["error"])
			}
		})
	}
}

func (s *HandlerSuite) TestDeleteEntry() {
	s.ledger.On("DeleteEntry", mock.Anything, "e1").Return(nil).Once()
	w := s.do(http.MethodDelete, "/api/v1/entries/e1", nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlerSuite) TestGetAccountBalance() {
	s.accounts.On("GetAccountByID", mock.Anything, "checking").
		Return(&domain.Account{AccountID: "checking", CurrencyCode: "EUR"}, nil).Once()
	s.balances.On("GetBalanceAtDate", mock.Anything, "checking", domain.NewDate(2024, 5, 31)).
		Return(decimal.RequireFromString("120.5"), nil).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/checking/balance?date=2024-05-31", nil)
	s.Equal(http.StatusOK, w.Code)

	var res dto.AccountBalanceResponse
	s.decode(w, &res)
	s.Equal("EUR", res.CurrencyCode)
	s.True(decimal.RequireFromString("120.5").Equal(res.Balance))
	s.Equal(domain.NewDate(2024, 5, 31), res.Date)
}

func (s *HandlerSuite) TestGetAccountBalanceBadDate() {
	w := s.do(http.MethodGet, "/api/v1/accounts/checking/balance?date=31-05-2024", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestCreateAccountRejectsUnknownCurrency() {
	w := s.do(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		Name: "Wallet", AccountType: domain.UserAccount, CurrencyCode: "XYZ",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestNetWorthUsesConfiguredBase() {
	total := decimal.NewFromInt(155)
	s.aggregation.On("GetNetWorth", mock.Anything, "USD", domain.NewDate(2024, 6, 30)).
		Return(&domain.NetWorth{BaseCurrency: "USD", Total: &total}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/net-worth?date=2024-06-30", nil)
	s.Equal(http.StatusOK, w.Code)

	var res domain.NetWorth
	s.decode(w, &res)
	s.Require().NotNil(res.Total)
	s.True(total.Equal(*res.Total))
}

func (s *HandlerSuite) TestCategoryRollupRequiresDates() {
	w := s.do(http.MethodGet, "/api/v1/reports/category-rollup?from=2024-01-01", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestCostBasis() {
	s.investments.On("CalculateCostBasis", mock.Anything, "vti", mock.MatchedBy(func(q decimal.Decimal) bool {
		return q.Equal(decimal.NewFromInt(15))
	})).Return(decimal.NewFromInt(2000), nil).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/vti/cost-basis?quantity=15", nil)
	s.Equal(http.StatusOK, w.Code)

	var res dto.CostBasisResponse
	s.decode(w, &res)
	s.True(decimal.NewFromInt(2000).Equal(res.CostBasis))
}

func (s *HandlerSuite) TestCostBasisInvalidQuantity() {
	w := s.do(http.MethodGet, "/api/v1/accounts/vti/cost-basis?quantity=lots", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestSetOpeningBalanceBindingError() {
	w := s.do(http.MethodPut, "/api/v1/opening-balances", map[string]string{"amount": "10"})
	s.Equal(http.StatusBadRequest, w.Code)
}
