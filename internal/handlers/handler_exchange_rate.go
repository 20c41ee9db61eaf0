package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvc
	now                 func() time.Time
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvc) {
	h := &exchangeRateHandler{exchangeRateService: exchangeRateService, now: time.Now}

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", h.createExchangeRate)
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
	}
}

// createExchangeRate godoc
// @Summary Create a new exchange rate
// @Description Adds an exchange rate between two currencies effective from a date
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} domain.ExchangeRate
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to create exchange rate"
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "CreateExchangeRate", err)
		return
	}

	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("rate", req.Rate.String()),
		slog.String("date_effective", req.DateEffective),
	)

	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create exchange rate")
		return
	}
	c.JSON(http.StatusCreated, rate)
}

// getExchangeRate godoc
// @Summary Get the exchange rate effective at a date
// @Tags exchange rates
// @Produce  json
// @Param   from path string true "From currency code"
// @Param   to path string true "To currency code"
// @Param   date query string false "Date (YYYY-MM-DD), today when omitted"
// @Success 200 {object} domain.ExchangeRate
// @Failure 404 {object} map[string]string "No rate on or before the date"
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	date, err := queryDate(c, "date", domain.DateOf(h.now()))
	if err != nil {
		badRequest(c, logger, "exchange rate date", err)
		return
	}

	rate, err := h.exchangeRateService.GetExchangeRate(c.Request.Context(),
		strings.ToUpper(c.Param("from")), strings.ToUpper(c.Param("to")), date)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve exchange rate")
		return
	}
	c.JSON(http.StatusOK, rate)
}
