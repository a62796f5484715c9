package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mjsalmon/fpl-edge/internal/engine"
	"github.com/mjsalmon/fpl-edge/internal/models"
	"github.com/mjsalmon/fpl-edge/internal/providers"
	"github.com/mjsalmon/fpl-edge/pkg/database"
)

// SnapshotStore persists the league snapshot and converts it between the
// feed's shapes, the database rows and the engine's typed snapshot. This is
// the single place the feed's string-encoded numerics are parsed; everything
// downstream reads typed floats.
type SnapshotStore struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewSnapshotStore(db *database.DB, logger *logrus.Logger) *SnapshotStore {
	return &SnapshotStore{
		db:     db,
		logger: logger,
	}
}

// ReplaceSnapshot upserts a freshly fetched feed snapshot and rotates the
// generation id. The whole swap happens in one transaction so readers never
// see a half-replaced snapshot.
func (s *SnapshotStore) ReplaceSnapshot(feed *providers.FeedSnapshot) (string, error) {
	teams := make([]models.Team, 0, len(feed.Teams))
	for _, t := range feed.Teams {
		teams = append(teams, models.Team{
			ID:        t.ID,
			Name:      t.Name,
			ShortName: t.ShortName,
		})
	}

	players := make([]models.Player, 0, len(feed.Players))
	for _, p := range feed.Players {
		players = append(players, s.playerFromFeed(p))
	}

	fixtures := make([]models.Fixture, 0, len(feed.Fixtures))
	for _, f := range feed.Fixtures {
		if f.Event == nil {
			// Not yet scheduled into a gameweek; the engine cannot place it
			// in a window, so it is not persisted.
			continue
		}
		row := models.Fixture{
			ID:         f.ID,
			Gameweek:   *f.Event,
			HomeTeamID: f.TeamH,
			AwayTeamID: f.TeamA,
			HomeScore:  f.TeamHScore,
			AwayScore:  f.TeamAScore,
			Finished:   f.Finished,
		}
		if f.KickoffTime != nil {
			row.KickoffTime = *f.KickoffTime
		}
		fixtures = append(fixtures, row)
	}

	gameweeks := make([]models.Gameweek, 0, len(feed.Gameweeks))
	for _, gw := range feed.Gameweeks {
		gameweeks = append(gameweeks, models.Gameweek{
			ID:           gw.ID,
			Name:         gw.Name,
			IsCurrent:    gw.IsCurrent,
			IsNext:       gw.IsNext,
			Finished:     gw.Finished,
			DeadlineTime: gw.DeadlineTime,
		})
	}

	generation := uuid.New().String()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true})
		if len(teams) > 0 {
			if err := upsert.Create(&teams).Error; err != nil {
				return fmt.Errorf("failed to upsert teams: %w", err)
			}
		}
		if len(players) > 0 {
			if err := upsert.Create(&players).Error; err != nil {
				return fmt.Errorf("failed to upsert players: %w", err)
			}
		}
		if len(fixtures) > 0 {
			if err := upsert.Create(&fixtures).Error; err != nil {
				return fmt.Errorf("failed to upsert fixtures: %w", err)
			}
		}
		if len(gameweeks) > 0 {
			if err := upsert.Create(&gameweeks).Error; err != nil {
				return fmt.Errorf("failed to upsert gameweeks: %w", err)
			}
		}

		state := models.SyncState{
			ID:           1,
			Generation:   generation,
			LastSyncAt:   time.Now().UTC(),
			TeamCount:    len(teams),
			PlayerCount:  len(players),
			FixtureCount: len(fixtures),
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&state).Error; err != nil {
			return fmt.Errorf("failed to update sync state: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Infof("Snapshot replaced: generation %s, %d teams, %d players, %d fixtures",
		generation, len(teams), len(players), len(fixtures))
	return generation, nil
}

// LoadSnapshot reads the persisted snapshot into the engine's types, along
// with the generation it belongs to.
func (s *SnapshotStore) LoadSnapshot() (engine.Snapshot, string, error) {
	var (
		teams     []models.Team
		players   []models.Player
		fixtures  []models.Fixture
		gameweeks []models.Gameweek
	)

	if err := s.db.Order("id").Find(&teams).Error; err != nil {
		return engine.Snapshot{}, "", fmt.Errorf("failed to load teams: %w", err)
	}
	if err := s.db.Order("id").Find(&players).Error; err != nil {
		return engine.Snapshot{}, "", fmt.Errorf("failed to load players: %w", err)
	}
	if err := s.db.Order("id").Find(&fixtures).Error; err != nil {
		return engine.Snapshot{}, "", fmt.Errorf("failed to load fixtures: %w", err)
	}
	if err := s.db.Order("id").Find(&gameweeks).Error; err != nil {
		return engine.Snapshot{}, "", fmt.Errorf("failed to load gameweeks: %w", err)
	}

	snapshot := engine.Snapshot{
		Teams:     make([]engine.Team, 0, len(teams)),
		Players:   make([]engine.Player, 0, len(players)),
		Fixtures:  make([]engine.Fixture, 0, len(fixtures)),
		Gameweeks: make([]engine.Gameweek, 0, len(gameweeks)),
	}
	for _, t := range teams {
		snapshot.Teams = append(snapshot.Teams, t.ToEngine())
	}
	for _, p := range players {
		snapshot.Players = append(snapshot.Players, p.ToEngine())
	}
	for _, f := range fixtures {
		snapshot.Fixtures = append(snapshot.Fixtures, f.ToEngine())
	}
	for _, gw := range gameweeks {
		snapshot.Gameweeks = append(snapshot.Gameweeks, gw.ToEngine())
	}

	state, err := s.State()
	if err != nil {
		return engine.Snapshot{}, "", err
	}
	return snapshot, state.Generation, nil
}

// State returns the sync bookkeeping row. A store that has never synced
// returns the zero state rather than an error.
func (s *SnapshotStore) State() (models.SyncState, error) {
	var state models.SyncState
	err := s.db.First(&state, 1).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.SyncState{}, nil
		}
		return models.SyncState{}, fmt.Errorf("failed to load sync state: %w", err)
	}
	return state, nil
}

func (s *SnapshotStore) playerFromFeed(p providers.ElementEntry) models.Player {
	raw, _ := json.Marshal(map[string]interface{}{
		"minutes":   p.Minutes,
		"bonus":     p.BonusPoints,
		"ict_index": p.ICTIndex,
	})

	return models.Player{
		ID:          p.ID,
		TeamID:      p.Team,
		Name:        p.WebName,
		Position:    engine.ParsePosition(p.ElementType).String(),
		Price:       float64(p.NowCost) / 10.0,
		TotalPoints: p.TotalPoints,
		Form:        parseDecimal(p.Form),
		Ownership:   parseDecimal(p.SelectedByPercent),
		RawStats:    datatypes.JSON(raw),
	}
}

// parseDecimal converts the feed's string-encoded decimals. Unparsable
// values coerce to 0: the pipeline favors degraded output over hard failure.
func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
