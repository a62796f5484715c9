package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mjsalmon/fpl-edge/internal/services"
	"github.com/mjsalmon/fpl-edge/pkg/utils"
)

type PlayerHandler struct {
	store *services.SnapshotStore
}

func NewPlayerHandler(store *services.SnapshotStore) *PlayerHandler {
	return &PlayerHandler{store: store}
}

type playerView struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	TeamID    int     `json:"team_id"`
	Team      string  `json:"team"`
	Position  string  `json:"position"`
	Price     float64 `json:"price"`
	Form      float64 `json:"form"`
	Points    int     `json:"total_points"`
	Ownership float64 `json:"ownership"`
}

// ListPlayers returns the players from the current snapshot, optionally
// filtered by position or team.
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	snapshot, _, err := h.store.LoadSnapshot()
	if err != nil {
		utils.SendInternalError(c, "Failed to load players")
		return
	}

	position := strings.ToUpper(c.Query("position"))
	teamFilter := c.Query("team")

	shortNames := make(map[int]string, len(snapshot.Teams))
	for _, t := range snapshot.Teams {
		shortNames[t.ID] = t.ShortName
	}

	views := make([]playerView, 0, len(snapshot.Players))
	for _, p := range snapshot.Players {
		if position != "" && p.Position.String() != position {
			continue
		}
		if teamFilter != "" && !strings.EqualFold(shortNames[p.TeamID], teamFilter) {
			continue
		}
		views = append(views, playerView{
			ID:        p.ID,
			Name:      p.Name,
			TeamID:    p.TeamID,
			Team:      shortNames[p.TeamID],
			Position:  p.Position.String(),
			Price:     p.Price,
			Form:      p.Form,
			Points:    p.TotalPoints,
			Ownership: p.Ownership,
		})
	}

	utils.SendSuccess(c, gin.H{
		"players": views,
		"count":   len(views),
	})
}

// GetPlayer returns a single player from the current snapshot.
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid player ID", "player ID must be an integer")
		return
	}

	snapshot, _, err := h.store.LoadSnapshot()
	if err != nil {
		utils.SendInternalError(c, "Failed to load players")
		return
	}

	shortNames := make(map[int]string, len(snapshot.Teams))
	for _, t := range snapshot.Teams {
		shortNames[t.ID] = t.ShortName
	}

	for _, p := range snapshot.Players {
		if p.ID != playerID {
			continue
		}
		utils.SendSuccess(c, playerView{
			ID:        p.ID,
			Name:      p.Name,
			TeamID:    p.TeamID,
			Team:      shortNames[p.TeamID],
			Position:  p.Position.String(),
			Price:     p.Price,
			Form:      p.Form,
			Points:    p.TotalPoints,
			Ownership: p.Ownership,
		})
		return
	}

	utils.SendNotFound(c, "Player not found")
}
