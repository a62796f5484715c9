package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upcoming builds an unplayed fixture in the given gameweek.
func upcoming(id, gw, home, away int) Fixture {
	return Fixture{
		ID:          id,
		Gameweek:    gw,
		HomeTeamID:  home,
		AwayTeamID:  away,
		KickoffTime: time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC).AddDate(0, 0, gw*7).Add(time.Duration(id) * time.Hour),
	}
}

func gameweeks(next, last int) []Gameweek {
	gws := make([]Gameweek, 0, last)
	for id := 1; id <= last; id++ {
		gws = append(gws, Gameweek{ID: id, IsNext: id == next})
	}
	return gws
}

// lookaheadSnapshot: team 1 carries the observed player; team 2 is a tier-1
// opponent (avg form 1.0) and team 3 a tier-2 opponent (avg form 2.5) under
// the flat classifier config.
func lookaheadSnapshot(fixtures []Fixture) Snapshot {
	s := snapshotWithForms(map[int]float64{1: 5.0, 2: 1.0, 3: 2.5})
	s.Fixtures = fixtures
	s.Gameweeks = gameweeks(1, 5)
	return s
}

func flatAggregator(s Snapshot, window int) *Aggregator {
	return NewAggregator(s, NewClassifier(s, DefaultTopN, flatConfig), window)
}

// TestPlayerIndexScenario: form 7.5 against a [1,1,2,1,1] window lands the
// composite near 0.85 under equal weighting.
func TestPlayerIndexScenario(t *testing.T) {
	s := lookaheadSnapshot([]Fixture{
		upcoming(1, 1, 1, 2),
		upcoming(2, 2, 2, 1),
		upcoming(3, 3, 1, 3),
		upcoming(4, 4, 1, 2),
		upcoming(5, 5, 2, 1),
	})
	agg := flatAggregator(s, 5)

	got := agg.PlayerIndex(Player{ID: 10, TeamID: 1, Form: 7.5}, DefaultWeights())

	assert.InDelta(t, 6.0, got.DifficultySum, 1e-9)
	assert.InDelta(t, 0.96, got.FixtureScore, 1e-9)
	assert.InDelta(t, 0.75, got.FormScore, 1e-9)
	assert.InDelta(t, 0.855, got.Index, 1e-9)

	require.Len(t, got.Outlook, 5)
	wantTiers := []Tier{TierVeryEasy, TierVeryEasy, TierEasy, TierVeryEasy, TierVeryEasy}
	for i, entry := range got.Outlook {
		assert.True(t, entry.HasFixture)
		assert.Equal(t, i+1, entry.Gameweek)
		assert.Equal(t, wantTiers[i], entry.Tier)
	}
	assert.True(t, got.Outlook[0].Home)
	assert.False(t, got.Outlook[1].Home)
}

// TestPlayerIndexBlankGameweeks: three blanks in a five-week window drive the
// fixture ease sharply down regardless of form.
func TestPlayerIndexBlankGameweeks(t *testing.T) {
	s := lookaheadSnapshot([]Fixture{
		upcoming(1, 1, 1, 2),
		upcoming(2, 2, 1, 2),
	})
	agg := flatAggregator(s, 5)

	got := agg.PlayerIndex(Player{ID: 10, TeamID: 1, Form: 9.0}, DefaultWeights())

	// 2 tier-1 fixtures + 3 blanks at the tier-6 penalty
	assert.InDelta(t, 20.0, got.DifficultySum, 1e-9)
	assert.InDelta(t, 0.4, got.FixtureScore, 1e-9)

	blanks := 0
	for _, entry := range got.Outlook {
		if !entry.HasFixture {
			blanks++
			assert.Equal(t, TierBlank, entry.Tier)
			assert.Zero(t, entry.OpponentID)
		}
	}
	assert.Equal(t, 3, blanks)
}

// TestPlayerIndexBounds pins both ends of the scale: max form with an
// all-tier-1 window scores exactly 1.0, zero form with an all-blank window
// scores exactly 0.0.
func TestPlayerIndexBounds(t *testing.T) {
	full := lookaheadSnapshot([]Fixture{
		upcoming(1, 1, 1, 2),
		upcoming(2, 2, 1, 2),
		upcoming(3, 3, 1, 2),
		upcoming(4, 4, 1, 2),
		upcoming(5, 5, 1, 2),
	})
	best := flatAggregator(full, 5).PlayerIndex(Player{ID: 1, TeamID: 1, Form: 10.0}, DefaultWeights())
	assert.InDelta(t, 1.0, best.Index, 1e-9)

	empty := lookaheadSnapshot(nil)
	worst := flatAggregator(empty, 5).PlayerIndex(Player{ID: 1, TeamID: 1, Form: 0}, DefaultWeights())
	assert.InDelta(t, 0.0, worst.Index, 1e-9)

	// Outlier form values clamp instead of escaping [0,1].
	spiky := flatAggregator(full, 5).PlayerIndex(Player{ID: 1, TeamID: 1, Form: 14.2}, DefaultWeights())
	assert.LessOrEqual(t, spiky.Index, 1.0)
	assert.InDelta(t, 1.0, spiky.FormScore, 1e-9)
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{"default split", DefaultWeights(), false},
		{"form biased", Weights{Form: 0.7, Fixture: 0.3}, false},
		{"does not sum to one", Weights{Form: 0.6, Fixture: 0.6}, true},
		{"negative component", Weights{Form: 1.5, Fixture: -0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestWeightTradeOff: changing the split moves the index only through the
// form/fixture trade-off; the composite always equals the weighted average of
// the two normalized scores.
func TestWeightTradeOff(t *testing.T) {
	s := lookaheadSnapshot([]Fixture{
		upcoming(1, 1, 1, 3),
		upcoming(2, 2, 1, 3),
		upcoming(3, 3, 1, 3),
		upcoming(4, 4, 1, 3),
		upcoming(5, 5, 1, 3),
	})
	agg := flatAggregator(s, 5)
	player := Player{ID: 1, TeamID: 1, Form: 9.0}

	for _, w := range []Weights{DefaultWeights(), {Form: 0.8, Fixture: 0.2}, {Form: 0.2, Fixture: 0.8}} {
		require.NoError(t, w.Validate())
		got := agg.PlayerIndex(player, w)
		assert.InDelta(t, w.Form*got.FormScore+w.Fixture*got.FixtureScore, got.Index, 1e-9)
	}
}

// TestAggregatorWindowClipping: a window reaching past the final gameweek is
// clipped and the ease normalization adapts to the shorter span.
func TestAggregatorWindowClipping(t *testing.T) {
	s := snapshotWithForms(map[int]float64{1: 5.0, 2: 1.0})
	s.Gameweeks = gameweeks(37, 38)
	s.Fixtures = []Fixture{
		upcoming(1, 37, 1, 2),
		upcoming(2, 38, 1, 2),
	}
	agg := flatAggregator(s, 5)

	start, end := agg.Window()
	assert.Equal(t, 37, start)
	assert.Equal(t, 38, end)

	got := agg.PlayerIndex(Player{ID: 1, TeamID: 1, Form: 10.0}, DefaultWeights())
	assert.InDelta(t, 1.0, got.FixtureScore, 1e-9, "a perfect two-week window still normalizes to 1.0")
}

// TestAggregatorDoubleGameweek: two fixtures in one gameweek both appear in
// the outlook, but only the first counts toward the difficulty sum so the
// normalization bounds hold.
func TestAggregatorDoubleGameweek(t *testing.T) {
	s := snapshotWithForms(map[int]float64{1: 5.0, 2: 1.0, 3: 2.5})
	s.Gameweeks = gameweeks(1, 2)
	s.Fixtures = []Fixture{
		upcoming(1, 1, 1, 2),
		upcoming(2, 1, 3, 1),
		upcoming(3, 2, 1, 2),
	}
	agg := flatAggregator(s, 2)

	got := agg.PlayerIndex(Player{ID: 1, TeamID: 1, Form: 5.0}, DefaultWeights())
	require.Len(t, got.Outlook, 3)
	assert.InDelta(t, 2.0, got.DifficultySum, 1e-9)
	assert.Equal(t, 1, got.Outlook[0].Gameweek)
	assert.Equal(t, 1, got.Outlook[1].Gameweek)
	assert.Equal(t, 2, got.Outlook[2].Gameweek)
}

// TestRankPlayersOrdering: better composite ranks first, exact ties break on
// player id for reproducibility.
func TestRankPlayersOrdering(t *testing.T) {
	s := lookaheadSnapshot([]Fixture{
		upcoming(1, 1, 1, 2),
		upcoming(2, 2, 1, 2),
		upcoming(3, 3, 1, 2),
		upcoming(4, 4, 1, 2),
		upcoming(5, 5, 1, 2),
	})
	agg := flatAggregator(s, 5)

	players := []Player{
		{ID: 3, TeamID: 1, Form: 4.0},
		{ID: 1, TeamID: 1, Form: 4.0},
		{ID: 2, TeamID: 1, Form: 8.0},
	}
	ranked := agg.RankPlayers(players, DefaultWeights())

	require.Len(t, ranked, 3)
	assert.Equal(t, 2, ranked[0].PlayerID)
	assert.Equal(t, 1, ranked[1].PlayerID, "equal scores order by player id")
	assert.Equal(t, 3, ranked[2].PlayerID)
}
