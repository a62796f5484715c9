package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mjsalmon/fpl-edge/internal/services"
	"github.com/mjsalmon/fpl-edge/pkg/utils"
)

type StandingsHandler struct {
	analytics *services.AnalyticsService
}

func NewStandingsHandler(analytics *services.AnalyticsService) *StandingsHandler {
	return &StandingsHandler{analytics: analytics}
}

// GetStandings returns the league table derived from finished fixtures.
func (h *StandingsHandler) GetStandings(c *gin.Context) {
	table, err := h.analytics.Standings(c.Request.Context())
	if err != nil {
		utils.SendInternalError(c, "Failed to compute standings")
		return
	}

	utils.SendSuccess(c, gin.H{
		"standings": table,
		"count":     len(table),
	})
}
