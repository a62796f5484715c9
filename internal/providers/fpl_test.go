package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBreaker(threshold uint32) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "fpl-feed-test",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
}

const bootstrapFixture = `{
	"events": [
		{"id": 1, "name": "Gameweek 1", "is_current": true, "finished": true},
		{"id": 2, "name": "Gameweek 2", "is_next": true}
	],
	"teams": [
		{"id": 1, "name": "Arsenal", "short_name": "ARS"},
		{"id": 2, "name": "Bournemouth", "short_name": "BOU"}
	],
	"elements": [
		{"id": 11, "team": 1, "web_name": "Saka", "element_type": 3, "now_cost": 102,
		 "total_points": 38, "form": "7.5", "selected_by_percent": "45.2"},
		{"id": 12, "team": 2, "web_name": "Brooks", "element_type": 3, "now_cost": 55,
		 "total_points": 4, "form": "", "selected_by_percent": "0.4"}
	]
}`

const fixturesFixture = `[
	{"id": 100, "event": 1, "team_h": 1, "team_a": 2, "team_h_score": 2, "team_a_score": 0,
	 "finished": true, "kickoff_time": "2026-08-15T14:00:00Z"},
	{"id": 101, "event": 2, "team_h": 2, "team_a": 1, "finished": false},
	{"id": 102, "event": null, "team_h": 1, "team_a": 2, "finished": false}
]`

func newTestClient(t *testing.T, handler http.Handler) (*FPLClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewFPLClient(ClientConfig{
		BaseURL:        server.URL,
		RequestsPerSec: 1000, // no pacing in tests
	}, logrus.New())
	return client, server
}

func TestFetchSnapshot(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bootstrap-static/":
			w.Write([]byte(bootstrapFixture))
		case "/fixtures/":
			w.Write([]byte(fixturesFixture))
		default:
			http.NotFound(w, r)
		}
	}))

	snapshot, err := client.FetchSnapshot(context.Background())
	require.NoError(t, err)

	assert.Len(t, snapshot.Teams, 2)
	assert.Len(t, snapshot.Players, 2)
	assert.Len(t, snapshot.Gameweeks, 2)
	assert.Len(t, snapshot.Fixtures, 3)

	saka := snapshot.Players[0]
	assert.Equal(t, "Saka", saka.WebName)
	assert.Equal(t, "7.5", saka.Form, "form stays string-encoded until the store parses it")

	played := snapshot.Fixtures[0]
	require.NotNil(t, played.TeamHScore)
	assert.Equal(t, 2, *played.TeamHScore)
	assert.Nil(t, snapshot.Fixtures[2].Event, "unscheduled fixtures keep a nil event")
}

func TestFetchSnapshotUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))

	_, err := client.FetchSnapshot(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	client.breaker = newTestBreaker(2)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := client.FetchSnapshot(ctx)
		require.Error(t, err)
	}
	callsBefore := calls

	_, err := client.FetchSnapshot(ctx)
	require.Error(t, err)
	assert.Equal(t, callsBefore, calls, "open breaker must fail fast without hitting upstream")
}
