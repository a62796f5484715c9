package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyCache fails the first N sets, then succeeds.
type flakyCache struct {
	failures int
	attempts int
	stored   map[string]interface{}
}

func newFlakyCache(failures int) *flakyCache {
	return &flakyCache{failures: failures, stored: make(map[string]interface{})}
}

func (c *flakyCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.attempts++
	if c.attempts <= c.failures {
		return errors.New("connection reset")
	}
	c.stored[key] = value
	return nil
}

func (c *flakyCache) Get(context.Context, string, interface{}) error {
	return errors.New("key not found")
}

func (c *flakyCache) Delete(context.Context, ...string) error {
	return nil
}

func TestSetWithRetryRecoversFromTransientFailures(t *testing.T) {
	cache := newFlakyCache(2)

	err := SetWithRetry(context.Background(), cache, "standings:g1", "payload", time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, cache.attempts)
	assert.Contains(t, cache.stored, "standings:g1")
}

func TestSetWithRetryGivesUpAfterMaxRetries(t *testing.T) {
	cache := newFlakyCache(10)

	err := SetWithRetry(context.Background(), cache, "standings:g1", "payload", time.Minute, 3)
	assert.Error(t, err)
	assert.Equal(t, 3, cache.attempts)
	assert.Empty(t, cache.stored)
}
