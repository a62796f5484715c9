package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mjsalmon/fpl-edge/internal/services"
	"github.com/mjsalmon/fpl-edge/pkg/utils"
)

const defaultTargetLimit = 20

type TransferHandler struct {
	analytics *services.AnalyticsService
}

func NewTransferHandler(analytics *services.AnalyticsService) *TransferHandler {
	return &TransferHandler{analytics: analytics}
}

// GetTransferTargets ranks players by the transfer index. Supports optional
// position filtering, a result limit and a form/fixture weight override.
func (h *TransferHandler) GetTransferTargets(c *gin.Context) {
	opts := services.TransferTargetOptions{
		Position: strings.ToUpper(c.Query("position")),
		Limit:    defaultTargetLimit,
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			utils.SendValidationError(c, "Invalid limit", "limit must be a positive integer")
			return
		}
		opts.Limit = limit
	}

	if raw := c.Query("formWeight"); raw != "" {
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil || weight < 0 || weight > 1 {
			utils.SendValidationError(c, "Invalid formWeight", "formWeight must be a number between 0 and 1")
			return
		}
		opts.FormWeight = &weight
	}

	targets, err := h.analytics.TransferTargets(c.Request.Context(), opts)
	if err != nil {
		utils.SendInternalError(c, "Failed to rank transfer targets")
		return
	}

	utils.SendSuccess(c, gin.H{
		"targets": targets,
		"count":   len(targets),
	})
}
