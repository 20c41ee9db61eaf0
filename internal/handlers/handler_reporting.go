package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves cross-account reports.
type reportingHandler struct {
	aggregationService portssvc.AggregationSvc
	baseCurrency       string
	now                func() time.Time
}

func registerReportingRoutes(rg *gin.RouterGroup, aggregationService portssvc.AggregationSvc, baseCurrency string) {
	h := &reportingHandler{aggregationService: aggregationService, baseCurrency: baseCurrency, now: time.Now}

	reports := rg.Group("/reports")
	{
		reports.GET("/net-worth", h.getNetWorth)
		reports.GET("/category-rollup", h.getCategoryRollup)
	}
}

// getNetWorth godoc
// @Summary Net worth in a base currency
// @Description Sums user accounts at a date. Currencies without a rate are listed as unknown and no total is returned.
// @Tags reports
// @Produce  json
// @Param   base query string false "Base currency (defaults to the configured one)"
// @Param   date query string false "Date (YYYY-MM-DD), today when omitted"
// @Success 200 {object} domain.NetWorth
// @Failure 400 {object} map[string]string "Invalid currency or date"
// @Router /reports/net-worth [get]
func (h *reportingHandler) getNetWorth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	date, err := queryDate(c, "date", domain.DateOf(h.now()))
	if err != nil {
		badRequest(c, logger, "net worth date", err)
		return
	}

	nw, err := h.aggregationService.GetNetWorth(c.Request.Context(), c.DefaultQuery("base", h.baseCurrency), date)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate net worth")
		return
	}
	c.JSON(http.StatusOK, nw)
}

// getCategoryRollup godoc
// @Summary Income and expense totals per category and currency
// @Tags reports
// @Produce  json
// @Param   from query string true "Start date (YYYY-MM-DD)"
// @Param   to query string true "End date (YYYY-MM-DD)"
// @Success 200 {array} domain.CategoryRollupRow
// @Failure 400 {object} map[string]string "Invalid date range"
// @Router /reports/category-rollup [get]
func (h *reportingHandler) getCategoryRollup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, err := domain.ParseDate(c.Query("from"))
	if err != nil {
		badRequest(c, logger, "rollup from", err)
		return
	}
	to, err := domain.ParseDate(c.Query("to"))
	if err != nil {
		badRequest(c, logger, "rollup to", err)
		return
	}

	rows, err := h.aggregationService.GetCategoryRollup(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to build category rollup")
		return
	}
	c.JSON(http.StatusOK, rows)
}
