package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// checkpointHandler serves checkpoints and opening balances.
type checkpointHandler struct {
	checkpointService     portssvc.CheckpointSvc
	openingBalanceService portssvc.OpeningBalanceSvc
}

func registerCheckpointRoutes(rg *gin.RouterGroup, cs portssvc.CheckpointSvc, obs portssvc.OpeningBalanceSvc) {
	h := &checkpointHandler{checkpointService: cs, openingBalanceService: obs}

	checkpoints := rg.Group("/checkpoints")
	{
		checkpoints.POST("", h.createCheckpoint)
		checkpoints.POST("/:checkpointID/reconcile", h.reconcileCheckpoint)
		checkpoints.DELETE("/:checkpointID", h.deleteCheckpoint)
	}
	rg.GET("/accounts/:accountID/checkpoints", h.listCheckpoints)
	rg.POST("/accounts/:accountID/checkpoints/reconcile", h.reconcileAccountCheckpoints)

	rg.PUT("/opening-balances", h.setOpeningBalance)
	rg.GET("/accounts/:accountID/opening-balance", h.getOpeningBalance)
}

// createCheckpoint godoc
// @Summary Assert an account balance at a date
// @Description Posts a correcting entry against "Checkpoint Adjustment" for the difference.
// @Tags checkpoints
// @Accept  json
// @Produce  json
// @Param   checkpoint body dto.CreateCheckpointRequest true "Checkpoint details"
// @Success 201 {object} domain.Checkpoint
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "A checkpoint exists for this date"
// @Router /checkpoints [post]
func (h *checkpointHandler) createCheckpoint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCheckpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "CreateCheckpoint", err)
		return
	}

	cp, err := h.checkpointService.CreateCheckpoint(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create checkpoint")
		return
	}
	c.JSON(http.StatusCreated, cp)
}

// reconcileCheckpoint godoc
// @Summary Recompute a checkpoint's correcting entry
// @Tags checkpoints
// @Produce  json
// @Param   checkpointID path string true "Checkpoint ID"
// @Success 200 {object} domain.Checkpoint
// @Failure 404 {object} map[string]string "Checkpoint not found"
// @Router /checkpoints/{checkpointID}/reconcile [post]
func (h *checkpointHandler) reconcileCheckpoint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("checkpoint_id", c.Param("checkpointID")))

	cp, err := h.checkpointService.ReconcileCheckpoint(c.Request.Context(), c.Param("checkpointID"))
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile checkpoint")
		return
	}
	c.JSON(http.StatusOK, cp)
}

// deleteCheckpoint godoc
// @Summary Delete a checkpoint and its correcting entry
// @Tags checkpoints
// @Param   checkpointID path string true "Checkpoint ID"
// @Success 204
// @Failure 404 {object} map[string]string "Checkpoint not found"
// @Router /checkpoints/{checkpointID} [delete]
func (h *checkpointHandler) deleteCheckpoint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("checkpoint_id", c.Param("checkpointID")))

	if err := h.checkpointService.DeleteCheckpoint(c.Request.Context(), c.Param("checkpointID")); err != nil {
		respondError(c, logger, err, "Failed to delete checkpoint")
		return
	}
	c.Status(http.StatusNoContent)
}

// listCheckpoints godoc
// @Summary List an account's checkpoints, oldest first
// @Tags checkpoints
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {array} domain.Checkpoint
// @Router /accounts/{accountID}/checkpoints [get]
func (h *checkpointHandler) listCheckpoints(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	cps, err := h.checkpointService.ListCheckpoints(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list checkpoints")
		return
	}
	c.JSON(http.StatusOK, cps)
}

// reconcileAccountCheckpoints godoc
// @Summary Reconcile every checkpoint of an account, oldest first
// @Tags checkpoints
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {array} domain.Checkpoint
// @Router /accounts/{accountID}/checkpoints/reconcile [post]
func (h *checkpointHandler) reconcileAccountCheckpoints(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	cps, err := h.checkpointService.ReconcileAccountCheckpoints(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile checkpoints")
		return
	}
	c.JSON(http.StatusOK, cps)
}

// setOpeningBalance godoc
// @Summary Set an account's opening balance
// @Description A zero amount removes the opening entry.
// @Tags opening balances
// @Accept  json
// @Produce  json
// @Param   opening body dto.SetOpeningBalanceRequest true "Opening balance"
// @Success 200 {object} domain.JournalEntry
// @Success 204 "Opening balance removed"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /opening-balances [put]
func (h *checkpointHandler) setOpeningBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetOpeningBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "SetOpeningBalance", err)
		return
	}

	entry, err := h.openingBalanceService.SetOpeningBalance(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to set opening balance")
		return
	}
	if entry == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// getOpeningBalance godoc
// @Summary Get an account's opening-balance entry
// @Tags opening balances
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 404 {object} map[string]string "No opening balance"
// @Router /accounts/{accountID}/opening-balance [get]
func (h *checkpointHandler) getOpeningBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	entry, err := h.openingBalanceService.GetOpeningBalance(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve opening balance")
		return
	}
	c.JSON(http.StatusOK, entry)
}
