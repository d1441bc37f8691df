package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artifactlab/artifact-service/internal/storage"
)

// AdminHandler exposes the analysis-call audit log.
type AdminHandler struct {
	calls  storage.AnalysisCallRepository
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(calls storage.AnalysisCallRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		calls:  calls,
		logger: logger,
	}
}

// Stats returns attempt counts and the most recent calls.
// Route: GET /api/v1/admin/stats?recent=20
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.calls.Stats(ctx)
	if err != nil {
		h.logger.Error("reading call stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("recent", "20"))
	recent, err := h.calls.Recent(ctx, limit)
	if err != nil {
		h.logger.Error("listing recent calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     stats.Total,
		"succeeded": stats.Succeeded,
		"failed":    stats.Failed,
		"recent":    recent,
	})
}
