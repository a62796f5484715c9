// Package providers holds clients for the upstream sports-data feeds. The
// analytics engine never imports this package; it only ever sees the typed
// snapshot the services layer builds from these payloads.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public fantasy feed root.
const DefaultBaseURL = "https://fantasy.premierleague.com/api"

// TeamEntry is one team record as published by the bootstrap feed.
type TeamEntry struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// ElementEntry is one player record. Form and ownership are string-encoded
// decimals in the feed; they stay strings here and are parsed once at the
// snapshot store boundary.
type ElementEntry struct {
	ID                int    `json:"id"`
	Team              int    `json:"team"`
	WebName           string `json:"web_name"`
	ElementType       int    `json:"element_type"`
	NowCost           int    `json:"now_cost"`
	TotalPoints       int    `json:"total_points"`
	Form              string `json:"form"`
	SelectedByPercent string `json:"selected_by_percent"`
	Minutes           int    `json:"minutes"`
	BonusPoints       int    `json:"bonus"`
	ICTIndex          string `json:"ict_index"`
}

// EventEntry is one gameweek record.
type EventEntry struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	IsCurrent    bool      `json:"is_current"`
	IsNext       bool      `json:"is_next"`
	Finished     bool      `json:"finished"`
	DeadlineTime time.Time `json:"deadline_time"`
}

// FixtureEntry is one fixture record. Event is nullable for matches not yet
// assigned to a gameweek.
type FixtureEntry struct {
	ID          int        `json:"id"`
	Event       *int       `json:"event"`
	TeamH       int        `json:"team_h"`
	TeamA       int        `json:"team_a"`
	TeamHScore  *int       `json:"team_h_score"`
	TeamAScore  *int       `json:"team_a_score"`
	Finished    bool       `json:"finished"`
	KickoffTime *time.Time `json:"kickoff_time"`
}

type bootstrapResponse struct {
	Events   []EventEntry   `json:"events"`
	Teams    []TeamEntry    `json:"teams"`
	Elements []ElementEntry `json:"elements"`
}

// FeedSnapshot bundles everything one full fetch of the feed returns.
type FeedSnapshot struct {
	Teams     []TeamEntry
	Players   []ElementEntry
	Gameweeks []EventEntry
	Fixtures  []FixtureEntry
	FetchedAt time.Time
}

// FPLClient fetches the public fantasy feed. Requests are paced by a token
// bucket and wrapped in a circuit breaker so a struggling upstream degrades
// to fast failures instead of piling up blocked refreshes.
type FPLClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// ClientConfig tunes the feed client.
type ClientConfig struct {
	BaseURL          string
	Timeout          time.Duration
	RequestsPerSec   float64
	BreakerThreshold uint32
}

// NewFPLClient creates a feed client. Zero config fields get conservative
// defaults.
func NewFPLClient(cfg ClientConfig, logger *logrus.Logger) *FPLClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 2
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "fpl-feed",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &FPLClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		breaker:    breaker,
		logger:     logger,
	}
}

// FetchSnapshot pulls the bootstrap payload and the full fixture list in one
// pass.
func (c *FPLClient) FetchSnapshot(ctx context.Context) (*FeedSnapshot, error) {
	var bootstrap bootstrapResponse
	if err := c.getJSON(ctx, "/bootstrap-static/", &bootstrap); err != nil {
		return nil, fmt.Errorf("failed to fetch bootstrap data: %w", err)
	}

	var fixtures []FixtureEntry
	if err := c.getJSON(ctx, "/fixtures/", &fixtures); err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures: %w", err)
	}

	c.logger.Infof("Fetched feed snapshot: %d teams, %d players, %d fixtures, %d gameweeks",
		len(bootstrap.Teams), len(bootstrap.Elements), len(fixtures), len(bootstrap.Events))

	return &FeedSnapshot{
		Teams:     bootstrap.Teams,
		Players:   bootstrap.Elements,
		Gameweeks: bootstrap.Events,
		Fixtures:  fixtures,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (c *FPLClient) getJSON(ctx context.Context, path string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("feed returned status %d for %s", resp.StatusCode, path)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body.([]byte), dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
