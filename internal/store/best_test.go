package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/quasilyte/gdata/v2"

	"github.com/robalobadob/whack/assets"
	"github.com/robalobadob/whack/internal/game"
)

// exerciseScoreStore runs the contract every back end must honour.
func exerciseScoreStore(t *testing.T, s game.ScoreStore) {
	t.Helper()
	ctx := context.Background()

	if score, ok, err := s.LoadBest(ctx); err != nil || ok || score != 0 {
		t.Fatalf("empty LoadBest = %d, %v, %v", score, ok, err)
	}
	if err := s.SaveBest(ctx, 120); err != nil {
		t.Fatalf("SaveBest: %v", err)
	}
	if score, ok, err := s.LoadBest(ctx); err != nil || !ok || score != 120 {
		t.Fatalf("LoadBest = %d, %v, %v", score, ok, err)
	}
	if err := s.SaveBest(ctx, 150); err != nil {
		t.Fatalf("SaveBest overwrite: %v", err)
	}
	if score, _, _ := s.LoadBest(ctx); score != 150 {
		t.Fatalf("overwritten LoadBest = %d", score)
	}
}

func TestMemoryBest(t *testing.T) {
	exerciseScoreStore(t, NewMemoryBest())
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	schema, err := assets.FS.ReadFile("sql/001_best_scores.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func TestSQLBest(t *testing.T) {
	exerciseScoreStore(t, NewSQLBest(openTestDB(t), "global"))
}

func TestSQLBestKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	a, b := NewSQLBest(db, "a"), NewSQLBest(db, "b")
	if err := a.SaveBest(ctx, 10); err != nil {
		t.Fatalf("SaveBest: %v", err)
	}
	if _, ok, _ := b.LoadBest(ctx); ok {
		t.Fatal("key b sees key a's score")
	}
}

func TestSQLBestClosedDBReportsError(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLBest(db, "global")
	db.Close()
	if _, _, err := s.LoadBest(context.Background()); err == nil {
		t.Fatal("LoadBest on closed db returned nil error")
	}
}

func TestGdataBest(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	m, err := gdata.Open(gdata.Config{AppName: "whack_test_best"})
	if err != nil {
		t.Fatalf("gdata.Open: %v", err)
	}
	exerciseScoreStore(t, NewGdataBest(m, "global"))

	// a second handle sees the persisted value
	m2, err := gdata.Open(gdata.Config{AppName: "whack_test_best"})
	if err != nil {
		t.Fatalf("gdata.Open again: %v", err)
	}
	if score, ok, err := NewGdataBest(m2, "global").LoadBest(context.Background()); err != nil || !ok || score != 150 {
		t.Fatalf("reopened LoadBest = %d, %v, %v", score, ok, err)
	}
}

func TestEngineWithSQLBest(t *testing.T) {
	ctx := context.Background()
	scores := NewSQLBest(openTestDB(t), "global")
	if err := scores.SaveBest(ctx, 42); err != nil {
		t.Fatalf("SaveBest: %v", err)
	}
	e := game.New(game.Config{ID: "s", Clock: game.NewManualClock(), Scores: scores})
	if e.Best() != 42 {
		t.Fatalf("engine best: got %d, want 42", e.Best())
	}
}
