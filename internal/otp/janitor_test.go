package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trigate/trigate/internal/logging"
)

func TestJanitorSweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Replace(ctx, Challenge{ID: "old", SubjectID: "a", ExpiresAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, store.Replace(ctx, Challenge{ID: "recent", SubjectID: "b", ExpiresAt: now.Add(-30 * time.Minute)}))
	require.NoError(t, store.Replace(ctx, Challenge{ID: "live", SubjectID: "c", ExpiresAt: now.Add(time.Minute)}))

	j := NewJanitor(store, time.Minute, time.Hour, logging.Discard())
	j.now = func() time.Time { return now }

	n, err := j.Sweep(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	require.Equal(t, 2, store.Len())
}

func TestJanitorRunStopsOnCancel(t *testing.T) {
	j := NewJanitor(NewMemoryStore(), time.Millisecond, time.Hour, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
