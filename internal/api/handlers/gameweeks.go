package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mjsalmon/fpl-edge/internal/services"
	"github.com/mjsalmon/fpl-edge/pkg/utils"
)

type GameweekHandler struct {
	store     *services.SnapshotStore
	analytics *services.AnalyticsService
}

func NewGameweekHandler(store *services.SnapshotStore, analytics *services.AnalyticsService) *GameweekHandler {
	return &GameweekHandler{store: store, analytics: analytics}
}

// ListGameweeks returns the season calendar plus the resolved lookahead
// window the transfer index currently evaluates.
func (h *GameweekHandler) ListGameweeks(c *gin.Context) {
	snapshot, _, err := h.store.LoadSnapshot()
	if err != nil {
		utils.SendInternalError(c, "Failed to load gameweeks")
		return
	}

	windowStart, windowEnd, err := h.analytics.Window()
	if err != nil {
		utils.SendInternalError(c, "Failed to resolve lookahead window")
		return
	}

	utils.SendSuccess(c, gin.H{
		"gameweeks":    snapshot.Gameweeks,
		"window_start": windowStart,
		"window_end":   windowEnd,
	})
}
