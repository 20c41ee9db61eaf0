package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests that post to or edit the journal.
type journalHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func registerJournalRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &journalHandler{ledgerService: ledgerService}

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.POST("/currency-transfer", h.createCurrencyTransfer)
		entries.POST("/swap-order", h.swapDisplayOrder)
		entries.GET("/:entryID", h.getEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
	}
	rg.PUT("/lines/:lineID", h.updateLine)
}

// entryStatus is 200 for a skipped duplicate and 201 otherwise.
func entryStatus(res *dto.CreateEntryResult) int {
	if res.Skipped {
		return http.StatusOK
	}
	return http.StatusCreated
}

// createEntry godoc
// @Summary Record an income, expense or transfer
// @Description Posts a balanced two-line entry. An identical entry on the same date is reported as skipped unless allowDuplicate is set.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.CreateEntryResult
// @Success 200 {object} dto.CreateEntryResult "Duplicate skipped"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "CreateEntry", err)
		return
	}

	res, err := h.ledgerService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create entry")
		return
	}
	c.JSON(entryStatus(res), res)
}

// createCurrencyTransfer godoc
// @Summary Move money between accounts of different currencies
// @Description Any two of amountFrom, amountTo and exchangeRate determine the third.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   transfer body dto.CurrencyTransferRequest true "Transfer details"
// @Success 201 {object} dto.CreateEntryResult
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 422 {object} map[string]string "Inconsistent amounts and rate"
// @Router /entries/currency-transfer [post]
func (h *journalHandler) createCurrencyTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CurrencyTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "CreateCurrencyTransfer", err)
		return
	}

	res, err := h.ledgerService.CreateCurrencyTransfer(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create currency transfer")
		return
	}
	c.JSON(entryStatus(res), res)
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", c.Param("entryID")))

	entry, err := h.ledgerService.GetEntryByID(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// deleteEntry godoc
// @Summary Delete a journal entry
// @Description Checkpoint and lot-tracked entries cannot be deleted here.
// @Tags entries
// @Param   entryID path string true "Entry ID"
// @Success 204
// @Failure 400 {object} map[string]string "Entry cannot be deleted directly"
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{entryID} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", c.Param("entryID")))

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), c.Param("entryID")); err != nil {
		respondError(c, logger, err, "Failed to delete entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateLine godoc
// @Summary Edit the transaction owning a line
// @Description Omitted fields keep their value; both lines are re-derived.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   lineID path string true "Line ID"
// @Param   update body dto.UpdateLineRequest true "Fields to change"
// @Success 200 {object} domain.JournalEntry
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Line not found"
// @Router /lines/{lineID} [put]
func (h *journalHandler) updateLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("line_id", c.Param("lineID")))
	var req dto.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "UpdateLine", err)
		return
	}

	entry, err := h.ledgerService.UpdateLine(c.Request.Context(), c.Param("lineID"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update line")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// swapDisplayOrder godoc
// @Summary Swap the display order of two entries
// @Tags entries
// @Accept  json
// @Param   swap body dto.SwapDisplayOrderRequest true "Entries to swap"
// @Success 204
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/swap-order [post]
func (h *journalHandler) swapDisplayOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SwapDisplayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "SwapDisplayOrder", err)
		return
	}

	if err := h.ledgerService.SwapDisplayOrder(c.Request.Context(), req); err != nil {
		respondError(c, logger, err, "Failed to swap display order")
		return
	}
	c.Status(http.StatusNoContent)
}
