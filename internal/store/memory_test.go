package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/whack/internal/game"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	e := game.New(game.Config{ID: "abc", Clock: game.NewManualClock()})

	if err := st.Save(ctx, e); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Get(ctx, "abc")
	if err != nil || got != e {
		t.Fatalf("Get: %v, %v", got, err)
	}
	if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v", err)
	}
}

func TestMemoryStoreRejectsAnonymousEngine(t *testing.T) {
	st := NewMemoryStore()
	if err := st.Save(context.Background(), game.New(game.Config{Clock: game.NewManualClock()})); err == nil {
		t.Fatal("Save accepted engine without id")
	}
}

func TestMemoryStoreDeleteStopsRound(t *testing.T) {
	ctx := context.Background()
	clock := game.NewManualClock()
	st := NewMemoryStore()
	e := game.New(game.Config{ID: "r", Clock: clock})
	_ = st.Save(ctx, e)
	e.StartSelected()

	if err := st.Delete(ctx, "r"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if e.Phase() != game.PhaseIdle {
		t.Fatalf("phase after delete: %v", e.Phase())
	}
	if clock.Pending() != 0 {
		t.Fatalf("timers survived delete: %d", clock.Pending())
	}
	if err := st.Delete(ctx, "r"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestMemoryStoreEvictIdle(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := game.NewManualClock()
	st := NewMemoryStoreWithClock(func() time.Time { return base.Add(clock.Now()) })

	stale := game.New(game.Config{ID: "stale", Clock: clock})
	fresh := game.New(game.Config{ID: "fresh", Clock: clock})
	_ = st.Save(ctx, stale)
	_ = st.Save(ctx, fresh)
	stale.StartSelected()

	clock.Advance(400 * time.Millisecond)
	if _, err := st.Get(ctx, "fresh"); err != nil {
		t.Fatalf("Get(fresh): %v", err)
	}
	clock.Advance(200 * time.Millisecond)
	if clock.Pending() == 0 {
		t.Fatal("round timers missing before eviction")
	}

	ids, err := st.EvictIdle(ctx, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("EvictIdle: %v", err)
	}
	if len(ids) != 1 || ids[0] != "stale" {
		t.Fatalf("evicted %v, want [stale]", ids)
	}
	if _, err := st.Get(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(stale) err = %v", err)
	}
	if _, err := st.Get(ctx, "fresh"); err != nil {
		t.Fatalf("fresh session evicted: %v", err)
	}
	if stale.Phase() != game.PhaseIdle || clock.Pending() != 0 {
		t.Fatalf("evicted round still live: phase=%v pending=%d", stale.Phase(), clock.Pending())
	}
}
