package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mjsalmon/fpl-edge/internal/services"
	"github.com/mjsalmon/fpl-edge/pkg/utils"
)

type DifficultyHandler struct {
	analytics *services.AnalyticsService
}

func NewDifficultyHandler(analytics *services.AnalyticsService) *DifficultyHandler {
	return &DifficultyHandler{analytics: analytics}
}

// GetDifficultyGrid returns per-team fixture difficulty for a gameweek.
// Without a gameweek parameter it defaults to the next unplayed round.
func (h *DifficultyHandler) GetDifficultyGrid(c *gin.Context) {
	gameweek := 0
	if raw := c.Query("gameweek"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.SendValidationError(c, "Invalid gameweek", "gameweek must be a positive integer")
			return
		}
		gameweek = parsed
	}

	grid, err := h.analytics.DifficultyGrid(c.Request.Context(), gameweek)
	if err != nil {
		utils.SendInternalError(c, "Failed to compute fixture difficulty")
		return
	}

	resolved := gameweek
	if resolved == 0 && len(grid) > 0 {
		resolved = grid[0].Gameweek
	}

	utils.SendSuccess(c, gin.H{
		"gameweek": resolved,
		"teams":    grid,
	})
}
