package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mjsalmon/fpl-edge/internal/services"
)

type HealthHandler struct {
	store *services.SnapshotStore
}

func NewHealthHandler(store *services.SnapshotStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// GetHealth returns basic health status - always returns 200 if server is running
// This is used for basic liveness probes
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "fpl-edge",
	})
}

// GetReady returns readiness status - only returns 200 once a snapshot has
// been ingested, so analytics endpoints can serve real data.
func (h *HealthHandler) GetReady(c *gin.Context) {
	state, err := h.store.State()
	if err != nil || state.Generation == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "snapshot not yet ingested",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"generation": state.Generation,
	})
}
