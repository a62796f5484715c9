package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mjsalmon/fpl-edge/internal/providers"
)

// TestStopReturnsWhileRefreshInFlight: stopping the refresher while a
// scheduled refresh is still talking to the upstream must wait for the job
// and return, not hang on the state mutex.
func TestStopReturnsWhileRefreshInFlight(t *testing.T) {
	store := newTestStore(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	logger := logrus.New()
	client := providers.NewFPLClient(providers.ClientConfig{
		BaseURL:        upstream.URL,
		RequestsPerSec: 100,
	}, logger)

	refresher := NewSnapshotRefresher(client, store, nil, logger, 50*time.Millisecond)
	require.NoError(t, refresher.Start(true))

	// Let the cron schedule fire and get mid-fetch against the slow upstream.
	time.Sleep(120 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		refresher.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return while a refresh was in flight")
	}
}

// TestStopIsIdempotent: a second Stop on an already-stopped refresher is a
// no-op.
func TestStopIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	logger := logrus.New()
	client := providers.NewFPLClient(providers.ClientConfig{BaseURL: "http://127.0.0.1:0"}, logger)

	refresher := NewSnapshotRefresher(client, store, nil, logger, time.Minute)
	require.NoError(t, refresher.Start(true))

	refresher.Stop()
	refresher.Stop()
}
