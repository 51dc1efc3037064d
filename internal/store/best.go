// internal/store/best.go
//
// Best-score back ends. Each satisfies game.ScoreStore:
//   - Memory: process-local, for tests and SCORE_BACKEND=memory.
//   - SQLBest: one row per key in the best_scores table (SQLite).
//   - GdataBest: a gdata object property holding a small YAML record.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/whack/internal/game"
)

var (
	_ game.ScoreStore = (*MemoryBest)(nil)
	_ game.ScoreStore = (*SQLBest)(nil)
	_ game.ScoreStore = (*GdataBest)(nil)
)

// MemoryBest keeps the best score in memory.
type MemoryBest struct {
	mu    sync.Mutex
	score int
	set   bool
}

func NewMemoryBest() *MemoryBest { return &MemoryBest{} }

func (m *MemoryBest) LoadBest(ctx context.Context) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score, m.set, nil
}

func (m *MemoryBest) SaveBest(ctx context.Context, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.score, m.set = score, true
	return nil
}

// -----------------------------------------------------------------------------
// SQLite

// SQLBest stores the best score under a key in best_scores.
type SQLBest struct {
	db  *sql.DB
	key string
}

// NewSQLBest expects the best_scores migration to have been applied.
func NewSQLBest(db *sql.DB, key string) *SQLBest { return &SQLBest{db: db, key: key} }

func (s *SQLBest) LoadBest(ctx context.Context) (int, bool, error) {
	var score int
	err := s.db.QueryRowContext(ctx,
		`SELECT score FROM best_scores WHERE key=?`, s.key,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load best score: %w", err)
	}
	return score, true, nil
}

func (s *SQLBest) SaveBest(ctx context.Context, score int) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO best_scores (key, score, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET score=excluded.score, updated_at=excluded.updated_at`,
		s.key, score, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save best score: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// gdata

const scoresObject = "scores"

// bestRecord is the YAML payload saved in gdata.
type bestRecord struct {
	Score     int       `yaml:"score"`
	UpdatedAt time.Time `yaml:"updatedAt"`
}

// GdataBest stores the best score as gdata object "scores", property key.
type GdataBest struct {
	mu  sync.Mutex
	m   *gdata.Manager
	key string
}

func NewGdataBest(m *gdata.Manager, key string) *GdataBest { return &GdataBest{m: m, key: key} }

func (g *GdataBest) LoadBest(ctx context.Context) (int, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.m.ObjectPropExists(scoresObject, g.key) {
		return 0, false, nil
	}
	data, err := g.m.LoadObjectProp(scoresObject, g.key)
	if err != nil {
		return 0, false, fmt.Errorf("load best score: %w", err)
	}
	var rec bestRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return 0, false, fmt.Errorf("decode best score: %w", err)
	}
	return rec.Score, true, nil
}

func (g *GdataBest) SaveBest(ctx context.Context, score int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	data, err := yaml.Marshal(bestRecord{Score: score, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode best score: %w", err)
	}
	if err := g.m.SaveObjectProp(scoresObject, g.key, data); err != nil {
		return fmt.Errorf("save best score: %w", err)
	}
	return nil
}
