package engine

import "sort"

// DefaultTopN is the roster cap used when aggregating player form into a team
// strength figure: the leading 12 players carry the signal, fringe players do
// not dilute it.
const DefaultTopN = 12

// topForms returns the form values of a team's top-N players, descending.
// Rosters shorter than n are returned as-is; no zero padding.
func topForms(players []Player, teamID, n int) []float64 {
	if n <= 0 {
		n = DefaultTopN
	}
	forms := make([]float64, 0, n)
	for _, p := range players {
		if p.TeamID == teamID {
			forms = append(forms, p.Form)
		}
	}
	sort.SliceStable(forms, func(i, j int) bool { return forms[i] > forms[j] })
	if len(forms) > n {
		forms = forms[:n]
	}
	return forms
}

// TeamStrength sums the form of a team's top-N players. An empty roster scores
// 0 rather than erroring.
func TeamStrength(players []Player, teamID, topN int) float64 {
	var sum float64
	for _, f := range topForms(players, teamID, topN) {
		sum += f
	}
	return sum
}

// TeamFormAverage is the average form of a team's top-N players. This is the
// strength signal the difficulty classifier works from: averaging keeps the
// thresholds stable regardless of how deep a roster is.
func TeamFormAverage(players []Player, teamID, topN int) float64 {
	forms := topForms(players, teamID, topN)
	if len(forms) == 0 {
		return 0
	}
	var sum float64
	for _, f := range forms {
		sum += f
	}
	return sum / float64(len(forms))
}
