package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// flatConfig isolates the form signal: no table or venue terms, default
// thresholds.
var flatConfig = ClassifierConfig{
	TableWeight:     0,
	VenueAdjustment: 0,
	Thresholds:      [4]float64{2.0, 3.5, 5.0, 6.5},
}

// snapshotWithForms builds a snapshot where each team has a single player
// carrying exactly the given form, with no fixtures played.
func snapshotWithForms(forms map[int]float64) Snapshot {
	var s Snapshot
	playerID := 0
	for teamID, form := range forms {
		s.Teams = append(s.Teams, Team{ID: teamID})
		playerID++
		s.Players = append(s.Players, Player{ID: playerID, TeamID: teamID, Form: form})
	}
	return s
}

func TestClassifyTierThresholds(t *testing.T) {
	tests := []struct {
		name     string
		form     float64
		expected Tier
	}{
		{"bottom of scale", 0.0, TierVeryEasy},
		{"just below easy cut", 1.99, TierVeryEasy},
		{"easy band", 2.5, TierEasy},
		{"league average", 4.0, TierAverage},
		{"hard band", 5.5, TierHard},
		{"top of scale", 8.0, TierVeryHard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(snapshotWithForms(map[int]float64{1: tt.form}), DefaultTopN, flatConfig)
			got := c.ClassifyOpponent(1, false)
			assert.Equal(t, tt.expected, got.Tier)
			assert.Equal(t, tt.expected.Label(), got.Label)
		})
	}
}

// TestDifficultyMonotonicity: raising an opponent's average form never lowers
// its tier, all else equal.
func TestDifficultyMonotonicity(t *testing.T) {
	previous := TierVeryEasy
	for form := 0.0; form <= 10.0; form += 0.5 {
		c := NewClassifier(snapshotWithForms(map[int]float64{1: form}), DefaultTopN, flatConfig)
		tier := c.ClassifyOpponent(1, false).Tier
		assert.GreaterOrEqualf(t, int(tier), int(previous), "tier regressed at form %.1f", form)
		previous = tier
	}
}

// TestVenueAdjustment: the same opponent is harder when the observer travels.
func TestVenueAdjustment(t *testing.T) {
	cfg := flatConfig
	cfg.VenueAdjustment = 0.25
	c := NewClassifier(snapshotWithForms(map[int]float64{1: 1.9}), DefaultTopN, cfg)

	home := c.ClassifyOpponent(1, false)
	away := c.ClassifyOpponent(1, true)

	assert.InDelta(t, 0.5, away.Score-home.Score, 1e-9)
	assert.Equal(t, TierVeryEasy, home.Tier)
	assert.Equal(t, TierEasy, away.Tier, "venue nudge should tip a borderline opponent over the cut")
}

// TestTableAdjustmentDirection: with identical form, the side higher up the
// table classifies as the harder opponent.
func TestTableAdjustmentDirection(t *testing.T) {
	s := snapshotWithForms(map[int]float64{1: 4.0, 2: 4.0})
	// Team 1 beats team 2, taking top spot.
	s.Fixtures = []Fixture{result(1, 1, 1, 2, 2, 0)}

	cfg := flatConfig
	cfg.TableWeight = 0.15
	c := NewClassifier(s, DefaultTopN, cfg)

	leader := c.ClassifyOpponent(1, false)
	bottom := c.ClassifyOpponent(2, false)
	assert.Greater(t, leader.Score, bottom.Score)
	assert.InDelta(t, 4.0, (leader.Score+bottom.Score)/2, 1e-9, "centering keeps the league average untouched")
}

// TestTableAdjustmentIsGentle: across a 20-team table the position term stays
// within roughly one tier's width and cannot override the form signal.
func TestTableAdjustmentIsGentle(t *testing.T) {
	forms := make(map[int]float64, 20)
	for id := 1; id <= 20; id++ {
		forms[id] = 4.0
	}
	s := snapshotWithForms(forms)

	cfg := flatConfig
	cfg.TableWeight = 0.15
	c := NewClassifier(s, DefaultTopN, cfg)

	for id := 1; id <= 20; id++ {
		score := c.ClassifyOpponent(id, false).Score
		assert.InDelta(t, 4.0, score, 1.5, "table term must nudge, not dominate")
	}
}

func TestBlankDominance(t *testing.T) {
	blank := Blank()
	assert.Equal(t, TierBlank, blank.Tier)
	assert.Equal(t, "blank", blank.Label)

	for _, tier := range []Tier{TierVeryEasy, TierEasy, TierAverage, TierHard, TierVeryHard} {
		assert.Greater(t, int(blank.Tier), int(tier))
	}
}

// TestUnknownOpponent: ids missing from the snapshot degrade to neutral
// strength and an unknown label rather than an error.
func TestUnknownOpponent(t *testing.T) {
	c := NewClassifier(snapshotWithForms(map[int]float64{1: 5.0}), DefaultTopN, flatConfig)

	got := c.ClassifyOpponent(99, false)
	assert.Equal(t, "unknown", got.Label)
	assert.Equal(t, TierVeryEasy, got.Tier)
	assert.Zero(t, got.Score)
}

// TestClassifierZeroConfig: the zero config falls back to the calibrated
// defaults instead of producing a degenerate all-tier-1 model.
func TestClassifierZeroConfig(t *testing.T) {
	c := NewClassifier(snapshotWithForms(map[int]float64{1: 4.0}), DefaultTopN, ClassifierConfig{})

	home := c.ClassifyOpponent(1, false)
	away := c.ClassifyOpponent(1, true)
	assert.InDelta(t, 2*DefaultClassifierConfig().VenueAdjustment, away.Score-home.Score, 1e-9)
}
