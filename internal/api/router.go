package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mjsalmon/fpl-edge/internal/api/handlers"
	"github.com/mjsalmon/fpl-edge/internal/api/middleware"
	"github.com/mjsalmon/fpl-edge/internal/services"
	"github.com/mjsalmon/fpl-edge/pkg/config"
)

// Deps carries the wired services the API layer is built on.
type Deps struct {
	Store     *services.SnapshotStore
	Analytics *services.AnalyticsService
	Refresher *services.SnapshotRefresher
	Hub       *services.Hub
	Logger    *logrus.Logger
	Config    *config.Config
}

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, deps Deps) {
	standingsHandler := handlers.NewStandingsHandler(deps.Analytics)
	teamHandler := handlers.NewTeamHandler(deps.Analytics)
	difficultyHandler := handlers.NewDifficultyHandler(deps.Analytics)
	transferHandler := handlers.NewTransferHandler(deps.Analytics)
	playerHandler := handlers.NewPlayerHandler(deps.Store)
	gameweekHandler := handlers.NewGameweekHandler(deps.Store, deps.Analytics)
	snapshotHandler := handlers.NewSnapshotHandler(deps.Refresher, deps.Store)

	// Public analytics endpoints
	group.GET("/standings", standingsHandler.GetStandings)
	group.GET("/teams", teamHandler.ListTeamStrengths)
	group.GET("/teams/:id/strength", teamHandler.GetTeamStrength)
	group.GET("/fixtures/difficulty", difficultyHandler.GetDifficultyGrid)
	group.GET("/transfers/targets", transferHandler.GetTransferTargets)
	group.GET("/players", playerHandler.ListPlayers)
	group.GET("/players/:id", playerHandler.GetPlayer)
	group.GET("/gameweeks", gameweekHandler.ListGameweeks)

	// Snapshot endpoints - status is public, triggering a refresh is not
	group.GET("/snapshot/status", snapshotHandler.GetSnapshotStatus)

	auth := group.Group("")
	auth.Use(middleware.AuthRequired(deps.Config.JWTSecret))
	{
		auth.POST("/snapshot/refresh", snapshotHandler.RefreshSnapshot)
	}
}
