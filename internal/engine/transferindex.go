package engine

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	// DefaultLookahead is how many gameweeks ahead the transfer index looks,
	// starting from the next upcoming gameweek.
	DefaultLookahead = 5
	// FormCeiling is the assumed maximum plausible form value, used to
	// normalize a player's form into [0,1].
	FormCeiling = 10.0
)

// Weights splits the composite transfer index between a player's own form and
// the ease of their fixture window. The two must sum to 1.
type Weights struct {
	Form    float64 `json:"form"`
	Fixture float64 `json:"fixture"`
}

// DefaultWeights is the equal 50/50 split.
func DefaultWeights() Weights {
	return Weights{Form: 0.5, Fixture: 0.5}
}

// Validate rejects negative weights and splits that do not sum to 1.
func (w Weights) Validate() error {
	if w.Form < 0 || w.Fixture < 0 {
		return fmt.Errorf("weights must be non-negative, got form=%.3f fixture=%.3f", w.Form, w.Fixture)
	}
	if math.Abs(w.Form+w.Fixture-1) > 1e-9 {
		return fmt.Errorf("weights must sum to 1, got form=%.3f fixture=%.3f", w.Form, w.Fixture)
	}
	return nil
}

func (w Weights) isZero() bool {
	return w.Form == 0 && w.Fixture == 0
}

// FixtureOutlook is one gameweek's entry in a player's lookahead window. A
// blank gameweek has HasFixture false and no opponent. Double gameweeks
// produce one entry per fixture.
type FixtureOutlook struct {
	Gameweek   int    `json:"gameweek"`
	HasFixture bool   `json:"has_fixture"`
	OpponentID int    `json:"opponent_id,omitempty"`
	Home       bool   `json:"home"`
	Tier       Tier   `json:"tier"`
	Label      string `json:"label"`
}

// TransferIndexResult is the composite ranking output for one player.
type TransferIndexResult struct {
	PlayerID      int              `json:"player_id"`
	Index         float64          `json:"index"`
	FormScore     float64          `json:"form_score"`
	FixtureScore  float64          `json:"fixture_score"`
	DifficultySum float64          `json:"difficulty_sum"`
	Outlook       []FixtureOutlook `json:"outlook"`
}

type fixtureSlot struct {
	opponentID int
	home       bool
	kickoff    time.Time
}

// Aggregator walks a forward fixture window and blends per-fixture difficulty
// with player form into the transfer index. Like the classifier it is built
// once per snapshot and is read-only afterwards.
type Aggregator struct {
	classifier *Classifier
	lookup     map[int]map[int][]fixtureSlot
	startGW    int
	endGW      int
}

// NewAggregator indexes the snapshot's unfinished fixtures inside the window.
// Each fixture registers against both participating teams, so a double
// gameweek simply holds two slots.
func NewAggregator(snapshot Snapshot, classifier *Classifier, window int) *Aggregator {
	if window <= 0 {
		window = DefaultLookahead
	}
	start := snapshot.NextGameweek()
	end := start + window - 1
	if final := snapshot.FinalGameweek(); final > 0 && end > final {
		end = final
	}

	lookup := make(map[int]map[int][]fixtureSlot)
	add := func(teamID, gw, opponentID int, home bool, kickoff time.Time) {
		if lookup[teamID] == nil {
			lookup[teamID] = make(map[int][]fixtureSlot)
		}
		lookup[teamID][gw] = append(lookup[teamID][gw], fixtureSlot{
			opponentID: opponentID,
			home:       home,
			kickoff:    kickoff,
		})
	}
	for _, f := range snapshot.Fixtures {
		if f.Played() || f.Gameweek < start || f.Gameweek > end {
			continue
		}
		add(f.HomeTeamID, f.Gameweek, f.AwayTeamID, true, f.KickoffTime)
		add(f.AwayTeamID, f.Gameweek, f.HomeTeamID, false, f.KickoffTime)
	}
	for _, byGW := range lookup {
		for gw := range byGW {
			slots := byGW[gw]
			sort.SliceStable(slots, func(i, j int) bool { return slots[i].kickoff.Before(slots[j].kickoff) })
			byGW[gw] = slots
		}
	}

	return &Aggregator{
		classifier: classifier,
		lookup:     lookup,
		startGW:    start,
		endGW:      end,
	}
}

// Window returns the inclusive gameweek range covered by the aggregator.
func (a *Aggregator) Window() (int, int) {
	return a.startGW, a.endGW
}

// PlayerIndex computes the transfer index for a single player. Blank
// gameweeks add the full blank penalty to the difficulty sum so players hit
// by blanks rank below comparable players with a full schedule.
func (a *Aggregator) PlayerIndex(p Player, w Weights) TransferIndexResult {
	if w.isZero() {
		w = DefaultWeights()
	}

	var sum float64
	outlook := make([]FixtureOutlook, 0, a.endGW-a.startGW+1)
	for gw := a.startGW; gw <= a.endGW; gw++ {
		slots := a.lookup[p.TeamID][gw]
		if len(slots) == 0 {
			blank := Blank()
			sum += blank.Score
			outlook = append(outlook, FixtureOutlook{
				Gameweek: gw,
				Tier:     blank.Tier,
				Label:    blank.Label,
			})
			continue
		}
		// The earliest fixture of the gameweek carries the difficulty
		// contribution; extra fixtures in a double gameweek are reported in
		// the outlook but not double-counted against the window bounds.
		for i, slot := range slots {
			result := a.classifier.ClassifyOpponent(slot.opponentID, !slot.home)
			if i == 0 {
				sum += float64(result.Tier)
			}
			outlook = append(outlook, FixtureOutlook{
				Gameweek:   gw,
				HasFixture: true,
				OpponentID: slot.opponentID,
				Home:       slot.home,
				Tier:       result.Tier,
				Label:      result.Label,
			})
		}
	}

	ease := a.normalizeEase(sum)
	formScore := clamp01(p.Form / FormCeiling)
	index := clamp01(w.Form*formScore + w.Fixture*ease)

	return TransferIndexResult{
		PlayerID:      p.ID,
		Index:         index,
		FormScore:     formScore,
		FixtureScore:  ease,
		DifficultySum: sum,
		Outlook:       outlook,
	}
}

// RankPlayers computes the index for every player, ordered best first with
// player id as the deterministic tie-break.
func (a *Aggregator) RankPlayers(players []Player, w Weights) []TransferIndexResult {
	results := make([]TransferIndexResult, 0, len(players))
	for _, p := range players {
		results = append(results, a.PlayerIndex(p, w))
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Index != results[j].Index {
			return results[i].Index > results[j].Index
		}
		return results[i].PlayerID < results[j].PlayerID
	})
	return results
}

// normalizeEase maps the accumulated difficulty sum onto [0,1]: an all
// tier-1 window scores 1.0 and an all-blank window scores 0.0. Clamping keeps
// short windows near the season end inside range.
func (a *Aggregator) normalizeEase(sum float64) float64 {
	n := float64(a.endGW - a.startGW + 1)
	if n <= 0 {
		return 0
	}
	minSum := n * float64(TierVeryEasy)
	maxSum := n * float64(TierBlank)
	return clamp01(1 - (sum-minSum)/(maxSum-minSum))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
