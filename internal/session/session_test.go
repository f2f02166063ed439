package session

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"canvass-map/internal/canvass"
	"canvass-map/internal/render"
	"canvass-map/internal/targets"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	r, err := s.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, r.ID)
	assert.Equal(t, canvass.NewState(), r.State)

	_, err = s.Update(ctx, r.ID, func(rec *Record) error {
		rec.State.ToggleRouteMembership(targets.Target{ID: "a"})
		rec.State.RecordOutcome(canvass.OutcomeDeal)
		rec.Drawn[render.LayerTargets] = "fp"
		return nil
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.State.Route)
	assert.Equal(t, 1, got.State.Tally.Deals)
	assert.Equal(t, "fp", got.Drawn[render.LayerTargets])

	// 返回的是副本
	got.State.Route = append(got.State.Route, "zzz")
	again, _ := s.Get(ctx, r.ID)
	assert.Equal(t, []string{"a"}, again.State.Route)
}

func TestMemoryStoreUnknownAndFailedUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Update(ctx, "nope", func(*Record) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	r, _ := s.Create(ctx)
	boom := errors.New("boom")
	_, err = s.Update(ctx, r.ID, func(rec *Record) error {
		rec.State.RecordOutcome(canvass.OutcomeNotHome)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	got, _ := s.Get(ctx, r.ID)
	assert.Equal(t, 0, got.State.Tally.Doors, "failed update is discarded")
}

func TestMemoryStoreExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	old, _ := s.Create(ctx)
	now = now.Add(2 * time.Minute)
	_, err := s.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _ = s.Create(ctx)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreSerializesUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	r, _ := s.Create(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, r.ID, func(rec *Record) error {
				rec.State.RecordOutcome(canvass.OutcomeCallback)
				return nil
			})
		}()
	}
	wg.Wait()
	got, _ := s.Get(ctx, r.ID)
	assert.Equal(t, canvass.Tally{Doors: 50, Callbacks: 50}, got.State.Tally)
	assert.Equal(t, int64(50), got.Version)
}

func TestVersionAdvancesOnlyOnCommittedUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	r, _ := s.Create(ctx)
	assert.Equal(t, int64(0), r.Version)

	got, err := s.Update(ctx, r.ID, func(*Record) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)

	_, err = s.Update(ctx, r.ID, func(*Record) error { return errors.New("rejected") })
	require.Error(t, err)
	got, _ = s.Get(ctx, r.ID)
	assert.Equal(t, int64(1), got.Version)
}

// 需要本地 Redis：REDIS_TEST_ADDR=127.0.0.1:6379
func TestRedisStoreLifecycle(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	rc := redis.NewClient(&redis.Options{Addr: addr})
	defer rc.Close()
	s := NewRedisStore(rc, time.Minute)

	r, err := s.Create(ctx)
	require.NoError(t, err)
	defer rc.Del(ctx, s.key(r.ID))

	_, err = s.Update(ctx, r.ID, func(rec *Record) error {
		rec.State.ToggleRouteMembership(targets.Target{ID: "a"})
		return nil
	})
	require.NoError(t, err)
	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.State.Route)
	assert.Equal(t, int64(1), got.Version)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
