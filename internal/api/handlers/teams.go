package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mjsalmon/fpl-edge/internal/services"
	"github.com/mjsalmon/fpl-edge/pkg/utils"
)

type TeamHandler struct {
	analytics *services.AnalyticsService
}

func NewTeamHandler(analytics *services.AnalyticsService) *TeamHandler {
	return &TeamHandler{analytics: analytics}
}

// ListTeamStrengths returns every team's strength summary, strongest first.
func (h *TeamHandler) ListTeamStrengths(c *gin.Context) {
	entries, err := h.analytics.TeamStrengths(c.Request.Context())
	if err != nil {
		utils.SendInternalError(c, "Failed to compute team strengths")
		return
	}

	utils.SendSuccess(c, gin.H{
		"teams": entries,
		"count": len(entries),
	})
}

// GetTeamStrength returns the strength summary for a single team.
func (h *TeamHandler) GetTeamStrength(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid team ID", "team ID must be an integer")
		return
	}

	entries, err := h.analytics.TeamStrengths(c.Request.Context())
	if err != nil {
		utils.SendInternalError(c, "Failed to compute team strengths")
		return
	}

	for _, entry := range entries {
		if entry.TeamID == teamID {
			utils.SendSuccess(c, entry)
			return
		}
	}

	utils.SendNotFound(c, "Team not found")
}
