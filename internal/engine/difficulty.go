package engine

// Tier is a discrete fixture difficulty rating. Tiers 1-5 run from very easy
// to very hard; TierBlank marks a gameweek with no fixture at all and sorts
// strictly worse than every populated tier.
type Tier int

const (
	TierVeryEasy Tier = 1
	TierEasy     Tier = 2
	TierAverage  Tier = 3
	TierHard     Tier = 4
	TierVeryHard Tier = 5
	TierBlank    Tier = 6
)

// Label is the semantic name paired with a tier. Presentation code decides how
// to render these; the engine only guarantees the pairing.
func (t Tier) Label() string {
	switch t {
	case TierVeryEasy:
		return "very_easy"
	case TierEasy:
		return "easy"
	case TierAverage:
		return "average"
	case TierHard:
		return "hard"
	case TierVeryHard:
		return "very_hard"
	case TierBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// DifficultyResult is the classification of a single opponent at a venue.
type DifficultyResult struct {
	OpponentID int     `json:"opponent_id"`
	Tier       Tier    `json:"tier"`
	Label      string  `json:"label"`
	Score      float64 `json:"score"`
}

// ClassifierConfig tunes the difficulty model. The base signal is the
// opponent's average top-N form (roughly a 0-10 scale); the table and venue
// terms nudge it without overriding it.
type ClassifierConfig struct {
	// TableWeight scales the centered league-position term. At 0.15 the swing
	// between top and bottom of a 20-team league is about +/-1.4 on the form
	// scale, at most a one-tier shift.
	TableWeight float64 `json:"table_weight"`
	// VenueAdjustment is added when the observing team plays away and
	// subtracted at home.
	VenueAdjustment float64 `json:"venue_adjustment"`
	// Thresholds are the ascending cut points between tiers 1|2, 2|3, 3|4 and
	// 4|5, calibrated so the middle band sits on a league-average opponent.
	Thresholds [4]float64 `json:"thresholds"`
}

// DefaultClassifierConfig returns the tuning calibrated against the observed
// range of average top-12 form across a season.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		TableWeight:     0.15,
		VenueAdjustment: 0.25,
		Thresholds:      [4]float64{2.0, 3.5, 5.0, 6.5},
	}
}

// Classifier converts an opponent into a difficulty tier from the observer's
// point of view. It holds only read-only lookups derived from one snapshot, so
// a single classifier is safe to share across goroutines.
type Classifier struct {
	cfg        ClassifierConfig
	totalTeams int
	positions  map[int]int
	avgForm    map[int]float64
	known      map[int]bool
}

// NewClassifier precomputes per-team average form and league position for the
// given snapshot.
func NewClassifier(snapshot Snapshot, topN int, cfg ClassifierConfig) *Classifier {
	if cfg.TableWeight == 0 && cfg.VenueAdjustment == 0 && cfg.Thresholds == [4]float64{} {
		cfg = DefaultClassifierConfig()
	}
	positions := TeamPositions(ComputeStandings(snapshot.Teams, snapshot.Fixtures))
	avgForm := make(map[int]float64, len(snapshot.Teams))
	known := make(map[int]bool, len(snapshot.Teams))
	for _, t := range snapshot.Teams {
		avgForm[t.ID] = TeamFormAverage(snapshot.Players, t.ID, topN)
		known[t.ID] = true
	}
	return &Classifier{
		cfg:        cfg,
		totalTeams: len(snapshot.Teams),
		positions:  positions,
		avgForm:    avgForm,
		known:      known,
	}
}

// ClassifyOpponent rates the given opponent, with away reporting whether the
// observing team travels for the fixture. Opponent ids missing from the
// snapshot contribute zero strength and are labelled unknown instead of
// failing the computation.
func (c *Classifier) ClassifyOpponent(opponentID int, away bool) DifficultyResult {
	score := c.avgForm[opponentID]
	score += c.tableAdjustment(opponentID)
	if away {
		score += c.cfg.VenueAdjustment
	} else {
		score -= c.cfg.VenueAdjustment
	}

	tier := c.classify(score)
	label := tier.Label()
	if !c.known[opponentID] {
		label = "unknown"
	}
	return DifficultyResult{
		OpponentID: opponentID,
		Tier:       tier,
		Label:      label,
		Score:      score,
	}
}

// Blank is the fixed result for a gameweek with no fixture. It must rank
// strictly worse than any populated fixture in every consumer.
func Blank() DifficultyResult {
	return DifficultyResult{
		Tier:  TierBlank,
		Label: TierBlank.Label(),
		Score: float64(TierBlank),
	}
}

// tableAdjustment derives the centered, scaled league-standing term. A team's
// raw table strength is (totalTeams - position) + 1, so the league leader
// carries the highest value; centering on the league midpoint makes the term
// a nudge in either direction rather than a uniform inflation.
func (c *Classifier) tableAdjustment(teamID int) float64 {
	pos, ok := c.positions[teamID]
	if !ok || c.totalTeams == 0 {
		return 0
	}
	tableStrength := float64(c.totalTeams-pos) + 1
	midpoint := float64(c.totalTeams+1) / 2
	return (tableStrength - midpoint) * c.cfg.TableWeight
}

func (c *Classifier) classify(score float64) Tier {
	switch {
	case score < c.cfg.Thresholds[0]:
		return TierVeryEasy
	case score < c.cfg.Thresholds[1]:
		return TierEasy
	case score < c.cfg.Thresholds[2]:
		return TierAverage
	case score < c.cfg.Thresholds[3]:
		return TierHard
	default:
		return TierVeryHard
	}
}
