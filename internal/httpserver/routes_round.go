// internal/httpserver/routes_round.go
//
// HTTP routes for the round engine, mounted under /round:
//   - GET  /round            → current frame
//   - POST /round/start      → start with the selected difficulty
//   - POST /round/reset      → back to idle
//   - POST /round/end        → give up (does not count for the best score)
//   - POST /round/select     → player picks a cell {"cell": n}
//   - POST /round/difficulty → change difficulty {"id": "hard"}
//
// Every route answers with the frame after the operation and whether the
// engine accepted it. Rejected operations are not HTTP errors.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/whack/internal/game"
)

// mountRound registers all /round routes.
func (s *Server) mountRound(r chi.Router) {
	r.Route("/round", func(r chi.Router) {
		r.Use(s.withSession())
		r.Get("/", s.handleSnapshot)
		r.Post("/start", s.handleStart)
		r.Post("/reset", s.handleReset)
		r.Post("/end", s.handleEnd)
		r.Post("/select", s.handleSelect)
		r.Post("/difficulty", s.handleDifficulty)
	})
}

// roundRes is returned by every /round route.
type roundRes struct {
	Accepted bool          `json:"accepted"`
	Round    game.Snapshot `json:"round"`
}

func writeRound(w http.ResponseWriter, e *game.Engine, accepted bool) {
	_ = json.NewEncoder(w).Encode(roundRes{Accepted: accepted, Round: e.Snapshot()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeRound(w, engineFrom(r), true)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	e := engineFrom(r)
	writeRound(w, e, e.StartSelected())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	e := engineFrom(r)
	e.Reset()
	writeRound(w, e, true)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	e := engineFrom(r)
	writeRound(w, e, e.GiveUp())
}

// selectReq is the payload for /round/select.
type selectReq struct {
	Cell *int `json:"cell"`
}

// handleSelect feeds a cell pick to the engine; accepted means it was a hit.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.Cell == nil {
		http.Error(w, `{"error":"missing_cell"}`, http.StatusBadRequest)
		return
	}
	e := engineFrom(r)
	writeRound(w, e, e.HandleSelection(*req.Cell))
}

// difficultyReq is the payload for /round/difficulty.
type difficultyReq struct {
	ID string `json:"id"`
}

func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	var req difficultyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	e := engineFrom(r)
	writeRound(w, e, e.SelectDifficulty(req.ID))
}
