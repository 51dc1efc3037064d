// internal/httpserver/server.go
//
// HTTP server wiring for the whack-a-mole round engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/profiles".
//   - Round endpoints under /round, bound to the caller's session engine.
//
// Notes:
//   - Each browser session owns one engine; the engine keeps running its timers
//     between requests and clients poll GET /round for frames.
//   - CORS is origin-aware and credentials-enabled so the session cookie works.
//   - Start runs a sweeper that evicts sessions idle longer than IdleTimeout.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/robalobadob/whack/internal/game"
	"github.com/robalobadob/whack/internal/store"
)

// Options configures a Server.
type Options struct {
	Store     store.Store
	Catalog   *game.Catalog
	NewEngine func(id string) *game.Engine // builds an idle engine for a new session

	Secret     string        // HS256 key for session tokens
	Cookie     string        // session cookie name
	SessionTTL time.Duration // token + cookie lifetime
	Secure     bool          // Secure/SameSite=None cookies (production)
	Origin     string        // allowed CORS origin

	IdleTimeout   time.Duration // sessions unseen this long are evicted; defaults to SessionTTL
	SweepInterval time.Duration // how often Start sweeps idle sessions
	Logger        *zerolog.Logger
}

const defaultSweepInterval = 5 * time.Minute

// Server bundles the router, session store and engine factory.
type Server struct {
	r         *chi.Mux
	store     store.Store
	catalog   *game.Catalog
	newEngine func(id string) *game.Engine
	sess      sessionConfig
	origin    string
	log       zerolog.Logger

	idle       time.Duration
	sweepEvery time.Duration
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = game.DefaultCatalog()
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.NewEngine == nil {
		cat := opts.Catalog
		opts.NewEngine = func(id string) *game.Engine {
			return game.New(game.Config{ID: id, Catalog: cat})
		}
	}
	s := &Server{
		r:          chi.NewRouter(),
		store:      opts.Store,
		catalog:    opts.Catalog,
		newEngine:  opts.NewEngine,
		sess:       newSessionConfig(opts),
		origin:     opts.Origin,
		log:        zerolog.Nop(),
		idle:       opts.IdleTimeout,
		sweepEvery: opts.SweepInterval,
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	}
	if s.origin == "" {
		s.origin = "http://localhost:5173"
	}
	if s.idle <= 0 {
		s.idle = s.sess.ttl
	}
	if s.sweepEvery <= 0 {
		s.sweepEvery = defaultSweepInterval
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"whack-go","endpoints":["/health","/profiles","GET /round","POST /round/start","POST /round/reset","POST /round/end","POST /round/select","POST /round/difficulty"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/profiles", s.handleProfiles)

	s.mountRound(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr and sweeps idle sessions until it returns.
func (s *Server) Start(addr string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.sweepLoop(ctx)
	return http.ListenAndServe(addr, s.r)
}

// SweepIdle evicts sessions idle longer than the idle timeout, stopping their
// rounds, and returns how many were dropped.
func (s *Server) SweepIdle(ctx context.Context) int {
	ids, err := s.store.EvictIdle(ctx, s.idle)
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep")
	}
	if len(ids) > 0 {
		s.log.Debug().Int("evicted", len(ids)).Dur("idle", s.idle).Msg("idle sessions evicted")
	}
	return len(ids)
}

func (s *Server) sweepLoop(ctx context.Context) {
	t := time.NewTicker(s.sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.SweepIdle(ctx)
		}
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", sessionHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ PROFILES -----------------------------------

type profilesRes struct {
	Default  string         `json:"default"`
	Profiles []game.Profile `json:"profiles"`
}

// handleProfiles lists the difficulty catalog for the selector surface.
func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(profilesRes{
		Default:  s.catalog.Default().ID,
		Profiles: s.catalog.All(),
	})
}
