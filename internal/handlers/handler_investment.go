package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// investmentHandler handles the security sub-ledger.
type investmentHandler struct {
	investmentService portssvc.InvestmentSvcFacade
}

func registerInvestmentRoutes(rg *gin.RouterGroup, investmentService portssvc.InvestmentSvcFacade) {
	h := &investmentHandler{investmentService: investmentService}

	investments := rg.Group("/investments")
	{
		investments.POST("", h.createInvestment)
		investments.POST("/buy", h.recordBuy)
		investments.POST("/sell", h.recordSell)
		investments.POST("/split", h.recordSplit)
		investments.POST("/dividends", h.recordReinvestedDividend)
		investments.POST("/fees", h.recordFee)
		investments.POST("/interest", h.recordInterest)
	}
	rg.GET("/accounts/:accountID/investment", h.getInvestment)
	rg.GET("/accounts/:accountID/cost-basis", h.getCostBasis)
}

// createInvestment godoc
// @Summary Attach a security sub-ledger to a user asset account
// @Tags investments
// @Accept  json
// @Produce  json
// @Param   investment body dto.CreateInvestmentRequest true "Security details"
// @Success 201 {object} domain.InvestmentProperties
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Account already tracks a security"
// @Router /investments [post]
func (h *investmentHandler) createInvestment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "CreateInvestment", err)
		return
	}

	props, err := h.investmentService.CreateInvestmentProperties(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create investment")
		return
	}
	c.JSON(http.StatusCreated, props)
}

// getInvestment godoc
// @Summary Get a security's quantity and lots
// @Tags investments
// @Produce  json
// @Param   accountID path string true "Security account ID"
// @Success 200 {object} domain.InvestmentProperties
// @Failure 404 {object} map[string]string "Not an investment account"
// @Router /accounts/{accountID}/investment [get]
func (h *investmentHandler) getInvestment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	props, err := h.investmentService.GetInvestmentProperties(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve investment")
		return
	}
	c.JSON(http.StatusOK, props)
}

// getCostBasis godoc
// @Summary Cost basis of selling a quantity today
// @Tags investments
// @Produce  json
// @Param   accountID path string true "Security account ID"
// @Param   quantity query string true "Shares to price"
// @Success 200 {object} dto.CostBasisResponse
// @Failure 400 {object} map[string]string "Invalid quantity"
// @Failure 422 {object} map[string]string "Insufficient shares"
// @Router /accounts/{accountID}/cost-basis [get]
func (h *investmentHandler) getCostBasis(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", accountID))

	quantity, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		badRequest(c, logger, "cost basis quantity", err)
		return
	}

	cost, err := h.investmentService.CalculateCostBasis(c.Request.Context(), accountID, quantity)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate cost basis")
		return
	}
	c.JSON(http.StatusOK, dto.CostBasisResponse{AccountID: accountID, Quantity: quantity, CostBasis: cost})
}

// recordBuy godoc
// @Summary Buy shares with cash
// @Tags investments
// @Accept  json
// @Produce  json
// @Param   trade body dto.TradeRequest true "Trade details"
// @Success 201 {object} domain.JournalEntry
// @Failure 400 {object} map[string]string "Validation error"
// @Router /investments/buy [post]
func (h *investmentHandler) recordBuy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "RecordBuy", err)
		return
	}

	entry, err := h.investmentService.RecordBuy(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to record buy")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// recordSell godoc
// @Summary Sell shares for cash
// @Description Realized gain is posted to "Realized Gains/Losses".
// @Tags investments
// @Accept  json
// @Produce  json
// @Param   trade body dto.TradeRequest true "Trade details"
// @Success 201 {object} dto.SellResult
// @Failure 422 {object} map[string]string "Insufficient shares"
// @Router /investments/sell [post]
func (h *investmentHandler) recordSell(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "RecordSell", err)
		return
	}

	res, err := h.investmentService.RecordSell(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to record sell")
		return
	}
	c.JSON(http.StatusCreated, res)
}

// recordSplit godoc
// @Summary Apply a stock split
// @Tags investments
// @Accept  json
// @Produce  json
// @Param   split body dto.StockSplitRequest true "Split details"
// @Success 200 {object} domain.InvestmentProperties
// @Failure 400 {object} map[string]string "Validation error"
// @Router /investments/split [post]
func (h *investmentHandler) recordSplit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.StockSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "RecordStockSplit", err)
		return
	}

	props, err := h.investmentService.RecordStockSplit(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to record split")
		return
	}
	c.JSON(http.StatusOK, props)
}

// recordReinvestedDividend godoc
// @Summary Reinvest a dividend into more shares
// @Tags investments
// @Accept  json
// @Produce  json
// @Param   dividend body dto.ReinvestedDividendRequest true "Dividend details"
// @Success 201 {array} domain.JournalEntry
// @Failure 400 {object} map[string]string "Validation error"
// @Router /investments/dividends [post]
func (h *investmentHandler) recordReinvestedDividend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReinvestedDividendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "RecordReinvestedDividend", err)
		return
	}

	entries, err := h.investmentService.RecordReinvestedDividend(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to record dividend")
		return
	}
	c.JSON(http.StatusCreated, entries)
}

// recordFee godoc
// @Summary Record an investment fee
// @Tags investments
// @Accept  json
// @Produce  json
// @Param   fee body dto.InvestmentCashRequest true "Fee details"
// @Success 201 {object} domain.JournalEntry
// @Router /investments/fees [post]
func (h *investmentHandler) recordFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.InvestmentCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "RecordFee", err)
		return
	}

	entry, err := h.investmentService.RecordFee(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to record fee")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// recordInterest godoc
// @Summary Record interest paid into an account
// @Tags investments
// @Accept  json
// @Produce  json
// @Param   interest body dto.InvestmentCashRequest true "Interest details"
// @Success 201 {object} domain.JournalEntry
// @Router /investments/interest [post]
func (h *investmentHandler) recordInterest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.InvestmentCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "RecordInterest", err)
		return
	}

	entry, err := h.investmentService.RecordInterest(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to record interest")
		return
	}
	c.JSON(http.StatusCreated, entry)
}
