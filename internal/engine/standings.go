package engine

import "sort"

// StandingsRow is one team's derived league record. Rows are recomputed from
// scratch on every call, never incrementally updated.
type StandingsRow struct {
	Position       int `json:"position"`
	TeamID         int `json:"team_id"`
	Played         int `json:"played"`
	Won            int `json:"won"`
	Drawn          int `json:"drawn"`
	Lost           int `json:"lost"`
	GoalsFor       int `json:"goals_for"`
	GoalsAgainst   int `json:"goals_against"`
	GoalDifference int `json:"goal_difference"`
	Points         int `json:"points"`
}

// ComputeStandings derives the league table from completed fixture results.
// Ordering: points desc, goal difference desc, goals scored desc, team id asc.
// Teams never referenced by a fixture still get a zeroed row, so an empty
// fixture list yields a full table ranked by id. Fixtures referencing unknown
// team ids contribute nothing for the missing side.
func ComputeStandings(teams []Team, fixtures []Fixture) []StandingsRow {
	rows := make(map[int]*StandingsRow, len(teams))
	for _, t := range teams {
		rows[t.ID] = &StandingsRow{TeamID: t.ID}
	}

	for _, f := range fixtures {
		if !f.Played() || !f.HasResult() {
			continue
		}
		hs, as := *f.HomeScore, *f.AwayScore

		if home, ok := rows[f.HomeTeamID]; ok {
			home.Played++
			home.GoalsFor += hs
			home.GoalsAgainst += as
			switch {
			case hs > as:
				home.Won++
			case hs < as:
				home.Lost++
			default:
				home.Drawn++
			}
		}
		if away, ok := rows[f.AwayTeamID]; ok {
			away.Played++
			away.GoalsFor += as
			away.GoalsAgainst += hs
			switch {
			case as > hs:
				away.Won++
			case as < hs:
				away.Lost++
			default:
				away.Drawn++
			}
		}
	}

	table := make([]StandingsRow, 0, len(rows))
	for _, r := range rows {
		r.Points = r.Won*3 + r.Drawn
		r.GoalDifference = r.GoalsFor - r.GoalsAgainst
		table = append(table, *r)
	}

	sort.Slice(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].GoalDifference != table[j].GoalDifference {
			return table[i].GoalDifference > table[j].GoalDifference
		}
		if table[i].GoalsFor != table[j].GoalsFor {
			return table[i].GoalsFor > table[j].GoalsFor
		}
		return table[i].TeamID < table[j].TeamID
	})

	for i := range table {
		table[i].Position = i + 1
	}

	return table
}

// TeamPositions flattens a computed table into a team id -> position lookup.
func TeamPositions(table []StandingsRow) map[int]int {
	positions := make(map[int]int, len(table))
	for _, row := range table {
		positions[row.TeamID] = row.Position
	}
	return positions
}
