package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts and account groups.
type accountHandler struct {
	accountService     portssvc.AccountSvcFacade
	balanceService     portssvc.BalanceSvc
	aggregationService portssvc.AggregationSvc
	ledgerService      portssvc.LedgerSvcFacade
	now                func() time.Time
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &accountHandler{
		accountService:     services.Account,
		balanceService:     services.Balance,
		aggregationService: services.Aggregation,
		ledgerService:      services.Ledger,
		now:                time.Now,
	}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.GET("/:accountID/balance", h.getAccountBalance)
		accounts.GET("/:accountID/balances-by-currency", h.getCategoryBalances)
		accounts.GET("/:accountID/entries", h.listAccountEntries)
	}

	groups := rg.Group("/groups")
	{
		groups.POST("", h.createGroup)
		groups.GET("/:groupID/balance", h.getGroupBalance)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a user, category or system account in a single ISO-4217 currency
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "An account with this name and type exists"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "CreateAccount", err)
		return
	}

	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("currency_code", req.CurrencyCode))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts of a type
// @Tags accounts
// @Produce  json
// @Param   type query string false "Account type (USER, CATEGORY, SYSTEM)" default(USER)
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Unknown account type"
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountType := domain.AccountType(c.DefaultQuery("type", string(domain.UserAccount)))

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), accountType)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Renames, archives or regroups an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "UpdateAccount", err)
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("accountID"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountBalance godoc
// @Summary Get the balance of an account
// @Description Checkpoint-aware balance at the end of a date (today when omitted)
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("account_id", accountID))

	date, err := queryDate(c, "date", domain.DateOf(h.now()))
	if err != nil {
		badRequest(c, logger, "balance date", err)
		return
	}

	account, err := h.accountService.GetAccountByID(ctx, accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	balance, err := h.balanceService.GetBalanceAtDate(ctx, accountID, date)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID:    accountID,
		Date:         date,
		Balance:      balance,
		CurrencyCode: account.CurrencyCode,
	})
}

// getCategoryBalances godoc
// @Summary Get a category's totals per currency
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Category account ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Not a category"
// @Router /accounts/{accountID}/balances-by-currency [get]
func (h *accountHandler) getCategoryBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	balances, err := h.aggregationService.GetCategoryBalancesByCurrency(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to aggregate category")
		return
	}
	c.JSON(http.StatusOK, balances)
}

// listAccountEntries godoc
// @Summary List an account's register
// @Description Entries touching the account, newest first, paginated with an opaque token
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid token"
// @Router /accounts/{accountID}/entries [get]
func (h *accountHandler) listAccountEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "ListAccountEntries", err)
		return
	}

	page, err := h.ledgerService.ListAccountEntries(c.Request.Context(), c.Param("accountID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, page)
}

// createGroup godoc
// @Summary Create an account group
// @Tags groups
// @Accept  json
// @Produce  json
// @Param   group body dto.CreateGroupRequest true "Group details"
// @Success 201 {object} domain.AccountGroup
// @Failure 409 {object} map[string]string "A group with this name and type exists"
// @Router /groups [post]
func (h *accountHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "CreateGroup", err)
		return
	}

	group, err := h.accountService.CreateGroup(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create group")
		return
	}
	c.JSON(http.StatusCreated, group)
}

// getGroupBalance godoc
// @Summary Get a group's balance per currency
// @Tags groups
// @Produce  json
// @Param   groupID path string true "Group ID"
// @Success 200 {object} domain.AggregateBalance
// @Failure 404 {object} map[string]string "Group not found"
// @Router /groups/{groupID}/balance [get]
func (h *accountHandler) getGroupBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("group_id", c.Param("groupID")))

	balance, err := h.aggregationService.GetGroupAggregateBalance(c.Request.Context(), c.Param("groupID"))
	if err != nil {
		respondError(c, logger, err, "Failed to aggregate group")
		return
	}
	c.JSON(http.StatusOK, balance)
}
