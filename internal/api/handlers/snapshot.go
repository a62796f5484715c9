package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mjsalmon/fpl-edge/internal/services"
	"github.com/mjsalmon/fpl-edge/pkg/utils"
)

type SnapshotHandler struct {
	refresher *services.SnapshotRefresher
	store     *services.SnapshotStore
}

func NewSnapshotHandler(refresher *services.SnapshotRefresher, store *services.SnapshotStore) *SnapshotHandler {
	return &SnapshotHandler{refresher: refresher, store: store}
}

// RefreshSnapshot triggers an immediate upstream sync. Rejected with 409
// while another refresh is still in flight.
func (h *SnapshotHandler) RefreshSnapshot(c *gin.Context) {
	if err := h.refresher.RefreshNow(); err != nil {
		utils.SendConflict(c, "Refresh already in progress")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data":    gin.H{"status": "refresh_started"},
	})
}

// GetSnapshotStatus reports the persisted sync state and the refresher's
// scheduling status.
func (h *SnapshotHandler) GetSnapshotStatus(c *gin.Context) {
	state, err := h.store.State()
	if err != nil {
		utils.SendInternalError(c, "Failed to load sync state")
		return
	}

	utils.SendSuccess(c, gin.H{
		"generation":    state.Generation,
		"last_sync_at":  state.LastSyncAt,
		"team_count":    state.TeamCount,
		"player_count":  state.PlayerCount,
		"fixture_count": state.FixtureCount,
		"refresher":     h.refresher.Status(),
	})
}
