package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/whack/assets"
	"github.com/robalobadob/whack/internal/config"
	"github.com/robalobadob/whack/internal/game"
	"github.com/robalobadob/whack/internal/httpserver"
	"github.com/robalobadob/whack/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	catalog, err := loadCatalog(cfg.ProfilesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load difficulty profiles")
	}

	scores, closeScores, err := openScores(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.ScoreBackend).Msg("failed to open best-score store")
	}
	defer closeScores()

	newEngine := func(id string) *game.Engine {
		l := log.With().Str("session", id).Logger()
		return game.New(game.Config{
			ID:       id,
			GridSize: cfg.GridSize,
			Catalog:  catalog,
			Scores:   scores,
			Logger:   &l,
			Renderer: game.RenderFunc(func(s game.Snapshot) {
				l.Trace().
					Stringer("phase", s.Phase).
					Int("score", s.Score).
					Int("timeLeft", s.TimeLeft).
					Int("misses", s.Misses).
					Int("activeCell", s.ActiveCell).
					Msg("frame")
			}),
		})
	}

	srv := httpserver.New(httpserver.Options{
		Store:       store.NewMemoryStore(),
		Catalog:     catalog,
		NewEngine:   newEngine,
		Secret:      cfg.JWTSecret,
		Cookie:      cfg.SessionCookie,
		SessionTTL:  cfg.SessionTTL,
		IdleTimeout: cfg.SessionIdle,
		Secure:      cfg.Production,
		Origin:      cfg.ClientOrigin,
		Logger:      &log.Logger,
	})
	log.Info().
		Str("port", cfg.Port).
		Str("scores", cfg.ScoreBackend).
		Str("defaultProfile", catalog.Default().ID).
		Int("grid", cfg.GridSize).
		Msg("starting whack server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// loadCatalog reads the difficulty catalog from path, or the embedded one when path is empty.
func loadCatalog(path string) (*game.Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = assets.Profiles()
	}
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return game.LoadCatalog(data)
}

// openScores builds the configured best-score backend and its cleanup.
func openScores(cfg config.Config) (game.ScoreStore, func(), error) {
	switch cfg.ScoreBackend {
	case "memory":
		return store.NewMemoryBest(), func() {}, nil
	case "gdata":
		m, err := gdata.Open(gdata.Config{AppName: cfg.GdataApp})
		if err != nil {
			return nil, nil, fmt.Errorf("gdata: %w", err)
		}
		return store.NewGdataBest(m, cfg.ScoreKey), func() {}, nil
	default:
		db, err := openDB(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate(db, assets.Migrations()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return store.NewSQLBest(db, cfg.ScoreKey), func() { db.Close() }, nil
	}
}
