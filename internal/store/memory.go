// internal/store/memory.go
//
// In-memory session store: one round engine per player session.
//
// Characteristics:
//   - Stores *game.Engine values keyed by engine ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; only best scores persist.
//   - Delete resets the engine first so no timer outlives its session.
//   - Save and Get stamp the session as seen; EvictIdle drops sessions not
//     seen within the idle window.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/whack/internal/game"
)

// ErrNotFound is returned when no session exists for an ID.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for player sessions.
type Store interface {
	// Save persists or replaces a session's engine.
	Save(ctx context.Context, e *game.Engine) error

	// Get retrieves an engine by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Engine, error)

	// Delete drops a session. Missing IDs are not an error.
	Delete(ctx context.Context, id string) error

	// EvictIdle deletes every session not saved or read within maxIdle and
	// returns their IDs.
	EvictIdle(ctx context.Context, maxIdle time.Duration) ([]string, error)
}

// entry is one stored session and when it was last touched.
type entry struct {
	engine *game.Engine
	seen   time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.Mutex        // guards sessions map
	sessions map[string]*entry // keyed by Engine.ID()
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store on wall-clock time.
func NewMemoryStore() Store { return NewMemoryStoreWithClock(time.Now) }

// NewMemoryStoreWithClock constructs an in-memory Store that reads the time from now.
func NewMemoryStoreWithClock(now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &memory{sessions: make(map[string]*entry), now: now}
}

func (m *memory) Save(ctx context.Context, e *game.Engine) error {
	if e == nil || e.ID() == "" {
		return errors.New("engine without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[e.ID()] = &entry{engine: e, seen: m.now()}
	return nil
}

// Get also refreshes the session's last-seen time.
func (m *memory) Get(ctx context.Context, id string) (*game.Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if en, ok := m.sessions[id]; ok {
		en.seen = m.now()
		return en.engine, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	en, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		en.engine.Reset()
	}
	return nil
}

func (m *memory) EvictIdle(ctx context.Context, maxIdle time.Duration) ([]string, error) {
	m.mu.Lock()
	cutoff := m.now().Add(-maxIdle)
	var (
		ids     []string
		evicted []*game.Engine
	)
	for id, en := range m.sessions {
		if en.seen.Before(cutoff) {
			ids = append(ids, id)
			evicted = append(evicted, en.engine)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, e := range evicted {
		e.Reset()
	}
	return ids, nil
}
