// Package engine implements the derived-metrics pipeline behind the fixture
// difficulty grid and transfer target rankings: league standings from results,
// team strength from player form, per-fixture difficulty tiers and the
// composite transfer index. Everything here is a pure function of the snapshot
// passed in; nothing is cached or persisted, and the same snapshot always
// produces the same output. Callers own memoization and concurrency.
package engine

import "time"

// Position is a player's position category.
type Position int

const (
	PositionUnknown Position = iota
	Goalkeeper
	Defender
	Midfielder
	Forward
)

// ParsePosition maps the upstream element type (1-4) to a Position.
func ParsePosition(elementType int) Position {
	switch elementType {
	case 1:
		return Goalkeeper
	case 2:
		return Defender
	case 3:
		return Midfielder
	case 4:
		return Forward
	default:
		return PositionUnknown
	}
}

func (p Position) String() string {
	switch p {
	case Goalkeeper:
		return "GK"
	case Defender:
		return "DEF"
	case Midfielder:
		return "MID"
	case Forward:
		return "FWD"
	default:
		return "UNK"
	}
}

// Team is one club in the league snapshot.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// Player is one player in the league snapshot. Form and Ownership arrive as
// string-encoded decimals from the upstream feed and are parsed to floats once
// at the ingestion boundary; by the time a Player reaches the engine they are
// plain numbers (0 when the feed value was unparsable).
type Player struct {
	ID          int      `json:"id"`
	TeamID      int      `json:"team_id"`
	Name        string   `json:"name"`
	Position    Position `json:"position"`
	Price       float64  `json:"price"`
	TotalPoints int      `json:"total_points"`
	Form        float64  `json:"form"`
	Ownership   float64  `json:"ownership"`
}

// Fixture is one scheduled or completed match.
type Fixture struct {
	ID          int       `json:"id"`
	Gameweek    int       `json:"gameweek"`
	HomeTeamID  int       `json:"home_team_id"`
	AwayTeamID  int       `json:"away_team_id"`
	HomeScore   *int      `json:"home_score,omitempty"`
	AwayScore   *int      `json:"away_score,omitempty"`
	Finished    bool      `json:"finished"`
	KickoffTime time.Time `json:"kickoff_time"`
}

// Played reports whether this fixture counts as a completed result. The feed's
// finished flag and its scorelines are not always consistent, so either signal
// is accepted.
func (f Fixture) Played() bool {
	return f.Finished || (f.HomeScore != nil && f.AwayScore != nil)
}

// HasResult reports whether both scores are present. Standings can only be
// accumulated from fixtures that carry an actual scoreline.
func (f Fixture) HasResult() bool {
	return f.HomeScore != nil && f.AwayScore != nil
}

// Gameweek is one event in the season calendar.
type Gameweek struct {
	ID        int  `json:"id"`
	IsCurrent bool `json:"is_current"`
	IsNext    bool `json:"is_next"`
}

// Snapshot is the immutable league state every computation starts from. The
// caller is responsible for referential integrity between fixtures and teams;
// unknown ids degrade to neutral values rather than failing.
type Snapshot struct {
	Teams     []Team     `json:"teams"`
	Players   []Player   `json:"players"`
	Fixtures  []Fixture  `json:"fixtures"`
	Gameweeks []Gameweek `json:"gameweeks"`
}

// NextGameweek resolves the first gameweek of the lookahead window: the event
// flagged as next, falling back to current+1, then to 1 on an empty calendar.
func (s Snapshot) NextGameweek() int {
	current := 0
	for _, gw := range s.Gameweeks {
		if gw.IsNext {
			return gw.ID
		}
		if gw.IsCurrent {
			current = gw.ID
		}
	}
	if current > 0 {
		return current + 1
	}
	return 1
}

// FinalGameweek returns the last gameweek of the season calendar, falling back
// to the highest gameweek seen on any fixture.
func (s Snapshot) FinalGameweek() int {
	last := 0
	for _, gw := range s.Gameweeks {
		if gw.ID > last {
			last = gw.ID
		}
	}
	if last == 0 {
		for _, f := range s.Fixtures {
			if f.Gameweek > last {
				last = f.Gameweek
			}
		}
	}
	return last
}
