package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mjsalmon/fpl-edge/internal/engine"
)

// derivedCacheTTL bounds how long memoized engine output lives. Keys rotate
// with the snapshot generation anyway; the TTL just keeps dead generations
// from lingering in redis.
const (
	derivedCacheTTL = 30 * time.Minute
	cacheSetRetries = 3
)

// TeamStrengthEntry is the API-facing strength summary for one team.
type TeamStrengthEntry struct {
	TeamID      int     `json:"team_id"`
	Name        string  `json:"name"`
	ShortName   string  `json:"short_name"`
	Position    int     `json:"position"`
	Strength    float64 `json:"strength"`
	AverageForm float64 `json:"average_form"`
}

// TeamFixtureDifficulty is one team's difficulty entry for a gameweek.
// Teams without a fixture appear as blanks at the dedicated blank tier.
type TeamFixtureDifficulty struct {
	TeamID     int         `json:"team_id"`
	ShortName  string      `json:"short_name"`
	Gameweek   int         `json:"gameweek"`
	HasFixture bool        `json:"has_fixture"`
	OpponentID int         `json:"opponent_id,omitempty"`
	Home       bool        `json:"home"`
	Tier       engine.Tier `json:"tier"`
	Label      string      `json:"label"`
}

// TransferTarget pairs a player's transfer index with the display fields the
// dashboard ranks on.
type TransferTarget struct {
	engine.TransferIndexResult
	Name      string  `json:"name"`
	TeamID    int     `json:"team_id"`
	Position  string  `json:"position"`
	Price     float64 `json:"price"`
	Form      float64 `json:"form"`
	Ownership float64 `json:"ownership"`
}

// TransferTargetOptions filters and tunes a transfer target query.
type TransferTargetOptions struct {
	Position   string
	Limit      int
	FormWeight *float64
}

// AnalyticsService sits between the HTTP layer and the engine: it loads the
// persisted snapshot, builds an engine per generation and memoizes derived
// results in the cache. The engine stays pure; all statefulness lives here.
type AnalyticsService struct {
	store  *SnapshotStore
	cache  Cache
	logger *logrus.Logger
	cfg    engine.Config

	mu        sync.RWMutex
	cachedGen string
	cachedEng *engine.Engine
}

func NewAnalyticsService(store *SnapshotStore, cache Cache, logger *logrus.Logger, cfg engine.Config) *AnalyticsService {
	return &AnalyticsService{
		store:  store,
		cache:  cache,
		logger: logger,
		cfg:    cfg,
	}
}

// engineForCurrentSnapshot returns a ready engine for the live generation,
// rebuilding only when the generation has rotated. Engines are read-only
// after construction, so handing the same instance to concurrent callers is
// safe.
func (s *AnalyticsService) engineForCurrentSnapshot() (*engine.Engine, string, error) {
	state, err := s.store.State()
	if err != nil {
		return nil, "", err
	}
	generation := state.Generation

	s.mu.RLock()
	if s.cachedEng != nil && s.cachedGen == generation {
		eng := s.cachedEng
		s.mu.RUnlock()
		return eng, generation, nil
	}
	s.mu.RUnlock()

	snapshot, loadedGen, err := s.store.LoadSnapshot()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load snapshot: %w", err)
	}
	eng := engine.New(snapshot, s.cfg)

	s.mu.Lock()
	s.cachedGen = loadedGen
	s.cachedEng = eng
	s.mu.Unlock()

	return eng, loadedGen, nil
}

// Standings returns the derived league table.
func (s *AnalyticsService) Standings(ctx context.Context) ([]engine.StandingsRow, error) {
	eng, generation, err := s.engineForCurrentSnapshot()
	if err != nil {
		return nil, err
	}

	var table []engine.StandingsRow
	key := StandingsCacheKey(generation)
	if s.cacheGet(ctx, key, &table) {
		return table, nil
	}

	table = eng.Standings()
	s.cacheSet(ctx, key, table)
	return table, nil
}

// TeamStrengths returns each team's strength summary, strongest first.
func (s *AnalyticsService) TeamStrengths(ctx context.Context) ([]TeamStrengthEntry, error) {
	eng, generation, err := s.engineForCurrentSnapshot()
	if err != nil {
		return nil, err
	}

	var entries []TeamStrengthEntry
	key := StrengthCacheKey(generation)
	if s.cacheGet(ctx, key, &entries) {
		return entries, nil
	}

	snapshot := eng.Snapshot()
	entries = make([]TeamStrengthEntry, 0, len(snapshot.Teams))
	for _, t := range snapshot.Teams {
		entries = append(entries, TeamStrengthEntry{
			TeamID:      t.ID,
			Name:        t.Name,
			ShortName:   t.ShortName,
			Position:    eng.TeamPosition(t.ID),
			Strength:    eng.TeamStrength(t.ID),
			AverageForm: eng.TeamFormAverage(t.ID),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Strength != entries[j].Strength {
			return entries[i].Strength > entries[j].Strength
		}
		return entries[i].TeamID < entries[j].TeamID
	})

	s.cacheSet(ctx, key, entries)
	return entries, nil
}

// DifficultyGrid classifies every team's fixture for the given gameweek (0
// resolves to the next gameweek). Teams without a fixture are reported at
// the blank tier so consumers can sort blanks below everything else.
func (s *AnalyticsService) DifficultyGrid(ctx context.Context, gameweek int) ([]TeamFixtureDifficulty, error) {
	eng, generation, err := s.engineForCurrentSnapshot()
	if err != nil {
		return nil, err
	}

	snapshot := eng.Snapshot()
	if gameweek <= 0 {
		gameweek = snapshot.NextGameweek()
	}

	var grid []TeamFixtureDifficulty
	key := DifficultyCacheKey(generation, gameweek)
	if s.cacheGet(ctx, key, &grid) {
		return grid, nil
	}

	type slot struct {
		opponentID int
		home       bool
	}
	byTeam := make(map[int][]slot)
	for _, f := range snapshot.Fixtures {
		if f.Gameweek != gameweek || f.Played() {
			continue
		}
		byTeam[f.HomeTeamID] = append(byTeam[f.HomeTeamID], slot{opponentID: f.AwayTeamID, home: true})
		byTeam[f.AwayTeamID] = append(byTeam[f.AwayTeamID], slot{opponentID: f.HomeTeamID, home: false})
	}

	grid = make([]TeamFixtureDifficulty, 0, len(snapshot.Teams))
	for _, t := range snapshot.Teams {
		slots := byTeam[t.ID]
		if len(slots) == 0 {
			blank := engine.Blank()
			grid = append(grid, TeamFixtureDifficulty{
				TeamID:    t.ID,
				ShortName: t.ShortName,
				Gameweek:  gameweek,
				Tier:      blank.Tier,
				Label:     blank.Label,
			})
			continue
		}
		for _, sl := range slots {
			result := eng.ClassifyOpponent(sl.opponentID, !sl.home)
			grid = append(grid, TeamFixtureDifficulty{
				TeamID:     t.ID,
				ShortName:  t.ShortName,
				Gameweek:   gameweek,
				HasFixture: true,
				OpponentID: sl.opponentID,
				Home:       sl.home,
				Tier:       result.Tier,
				Label:      result.Label,
			})
		}
	}
	sort.Slice(grid, func(i, j int) bool {
		if grid[i].Tier != grid[j].Tier {
			return grid[i].Tier < grid[j].Tier
		}
		return grid[i].TeamID < grid[j].TeamID
	})

	s.cacheSet(ctx, key, grid)
	return grid, nil
}

// TransferTargets ranks players by the composite transfer index.
func (s *AnalyticsService) TransferTargets(ctx context.Context, opts TransferTargetOptions) ([]TransferTarget, error) {
	eng, generation, err := s.engineForCurrentSnapshot()
	if err != nil {
		return nil, err
	}

	weights := s.cfg.Weights
	if opts.FormWeight != nil {
		weights = engine.Weights{Form: *opts.FormWeight, Fixture: 1 - *opts.FormWeight}
		if err := weights.Validate(); err != nil {
			return nil, err
		}
	}

	var targets []TransferTarget
	key := TransferIndexCacheKey(generation, weights.Form)
	cached := s.cacheGet(ctx, key, &targets)

	if !cached {
		snapshot := eng.Snapshot()
		byID := make(map[int]engine.Player, len(snapshot.Players))
		for _, p := range snapshot.Players {
			byID[p.ID] = p
		}

		ranked := eng.TransferIndex(weights)
		targets = make([]TransferTarget, 0, len(ranked))
		for _, r := range ranked {
			p := byID[r.PlayerID]
			targets = append(targets, TransferTarget{
				TransferIndexResult: r,
				Name:                p.Name,
				TeamID:              p.TeamID,
				Position:            p.Position.String(),
				Price:               p.Price,
				Form:                p.Form,
				Ownership:           p.Ownership,
			})
		}
		s.cacheSet(ctx, key, targets)
	}

	if opts.Position != "" {
		filtered := targets[:0:0]
		for _, t := range targets {
			if t.Position == opts.Position {
				filtered = append(filtered, t)
			}
		}
		targets = filtered
	}
	if opts.Limit > 0 && opts.Limit < len(targets) {
		targets = targets[:opts.Limit]
	}
	return targets, nil
}

// Window reports the gameweek range the transfer index currently covers.
func (s *AnalyticsService) Window() (int, int, error) {
	eng, _, err := s.engineForCurrentSnapshot()
	if err != nil {
		return 0, 0, err
	}
	start, end := eng.Window()
	return start, end, nil
}

func (s *AnalyticsService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	return s.cache.Get(ctx, key, dest) == nil
}

func (s *AnalyticsService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := SetWithRetry(ctx, s.cache, key, value, derivedCacheTTL, cacheSetRetries); err != nil {
		s.logger.Warnf("Failed to cache %s: %v", key, err)
	}
}
