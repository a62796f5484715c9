package engine

// Config bundles the tunable parameters of the pipeline. Zero values fall
// back to the calibrated defaults, so Config{} is always usable.
type Config struct {
	// TopN caps how many of a team's leading players feed its strength.
	TopN int `json:"top_n"`
	// Lookahead is the transfer index window in gameweeks.
	Lookahead int `json:"lookahead"`
	// Weights splits the transfer index between form and fixture ease.
	Weights Weights `json:"weights"`
	// Classifier tunes the difficulty model.
	Classifier ClassifierConfig `json:"classifier"`
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		TopN:       DefaultTopN,
		Lookahead:  DefaultLookahead,
		Weights:    DefaultWeights(),
		Classifier: DefaultClassifierConfig(),
	}
}

func (c Config) withDefaults() Config {
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}
	if c.Lookahead <= 0 {
		c.Lookahead = DefaultLookahead
	}
	if c.Weights.isZero() {
		c.Weights = DefaultWeights()
	}
	return c
}

// Engine evaluates one snapshot. Construction precomputes the standings,
// per-team strength and the fixture window once; every accessor afterwards is
// a read against immutable state, so one Engine can serve concurrent readers
// and independent Engines never interfere.
type Engine struct {
	snapshot   Snapshot
	cfg        Config
	standings  []StandingsRow
	positions  map[int]int
	classifier *Classifier
	aggregator *Aggregator
}

// New builds an engine over the given snapshot.
func New(snapshot Snapshot, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	standings := ComputeStandings(snapshot.Teams, snapshot.Fixtures)
	classifier := NewClassifier(snapshot, cfg.TopN, cfg.Classifier)
	return &Engine{
		snapshot:   snapshot,
		cfg:        cfg,
		standings:  standings,
		positions:  TeamPositions(standings),
		classifier: classifier,
		aggregator: NewAggregator(snapshot, classifier, cfg.Lookahead),
	}
}

// Snapshot returns the snapshot this engine was built over. The slices are
// shared, not copied; callers must treat them as read-only.
func (e *Engine) Snapshot() Snapshot {
	return e.snapshot
}

// Standings returns the derived league table.
func (e *Engine) Standings() []StandingsRow {
	return e.standings
}

// TeamPosition returns a team's 1-based league position, 0 for unknown teams.
func (e *Engine) TeamPosition(teamID int) int {
	return e.positions[teamID]
}

// TeamStrength is the summed top-N form of the given team.
func (e *Engine) TeamStrength(teamID int) float64 {
	return TeamStrength(e.snapshot.Players, teamID, e.cfg.TopN)
}

// TeamFormAverage is the averaged top-N form of the given team.
func (e *Engine) TeamFormAverage(teamID int) float64 {
	return TeamFormAverage(e.snapshot.Players, teamID, e.cfg.TopN)
}

// ClassifyOpponent rates the given opponent from the observer's venue.
func (e *Engine) ClassifyOpponent(opponentID int, away bool) DifficultyResult {
	return e.classifier.ClassifyOpponent(opponentID, away)
}

// Window returns the gameweek range the transfer index covers.
func (e *Engine) Window() (int, int) {
	return e.aggregator.Window()
}

// PlayerIndex computes the transfer index for one player under the engine's
// configured weights.
func (e *Engine) PlayerIndex(p Player) TransferIndexResult {
	return e.aggregator.PlayerIndex(p, e.cfg.Weights)
}

// TransferIndex ranks every player in the snapshot. A non-zero weights
// argument overrides the configured split for this call only.
func (e *Engine) TransferIndex(w Weights) []TransferIndexResult {
	if w.isZero() {
		w = e.cfg.Weights
	}
	return e.aggregator.RankPlayers(e.snapshot.Players, w)
}
