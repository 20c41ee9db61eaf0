package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// respondError writes err with the status its kind maps to. Server-side failures are logged at
// Error and hidden behind failMsg; client errors are logged at Warn and returned verbatim.
func respondError(c *gin.Context, logger *slog.Logger, err error, failMsg string) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error(failMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failMsg})
		return
	}
	logger.Warn(failMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, logger *slog.Logger, what string, err error) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// queryDate parses an optional YYYY-MM-DD query parameter, falling back to def.
func queryDate(c *gin.Context, name string, def domain.Date) (domain.Date, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return domain.ParseDate(raw)
}
