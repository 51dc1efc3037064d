// internal/game/engine.go
//
// Round engine for a single whack-a-mole player.
// Responsibilities:
//   - Lifecycle: idle → running → ended, and back to idle on reset.
//   - Scheduling: 1s countdown and streak-scaled spawn timer.
//   - Hit/miss resolution, scoring and streak tracking.
//   - Difficulty selection and locking, best score hand-off to the store.
//
// Notes:
//   - Every deferred callback carries the epoch it was scheduled under. start,
//     reset and end bump the epoch, so a timer that fires late sees a stale
//     epoch and does nothing.
//   - All state is guarded by one mutex; timer callbacks and player input are
//     serialized through it. Renderers run under that mutex and must not call
//     back into the engine.
//   - Public operations never fail. Outcomes surface as state and Message.

package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	msgReady      = "Press start to play!"
	msgGo         = "Whack away!"
	msgMissed     = "Missed one! Stay calm."
	msgWrongCell  = "Not that one, steady!"
	msgHit        = "Nice! +%d points"
	msgTimeUp     = "Time's up! Well played."
	msgMissLimit  = "%d misses reached. Good effort!"
	msgGaveUp     = "Round abandoned."
	msgLocked     = "Difficulty can't change mid-round."
	msgDifficulty = "Difficulty: %s"
	msgNewRecord  = " New record!"
)

// ScoreStore persists the single best score. ok=false means nothing is stored yet.
type ScoreStore interface {
	LoadBest(ctx context.Context) (score int, ok bool, err error)
	SaveBest(ctx context.Context, score int) error
}

// Renderer receives a snapshot after every state change.
type Renderer interface {
	Render(Snapshot)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(Snapshot)

func (f RenderFunc) Render(s Snapshot) { f(s) }

// Config wires an Engine to its collaborators. Zero fields get defaults.
type Config struct {
	ID       string
	GridSize int
	Catalog  *Catalog
	Clock    Clock
	Rand     Rand
	Scores   ScoreStore
	Renderer Renderer
	Logger   *zerolog.Logger
}

// Engine owns one RoundState and drives it through rounds.
type Engine struct {
	mu sync.Mutex

	id       string
	clock    Clock
	catalog  *Catalog
	scores   ScoreStore
	renderer Renderer
	log      zerolog.Logger

	board    *Board
	phase    Phase
	state    RoundState
	profile  Profile
	selected string
	locked   bool
	best     int
	msg      Message
	outcome  *Outcome

	epoch      uint64
	tickTimer  Timer
	spawnTimer Timer
}

// New builds an idle engine on the catalog's default profile and loads the best score.
func New(cfg Config) *Engine {
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	if cfg.Clock == nil {
		cfg.Clock = WallClock{}
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	e := &Engine{
		id:       cfg.ID,
		clock:    cfg.Clock,
		catalog:  cfg.Catalog,
		scores:   cfg.Scores,
		renderer: cfg.Renderer,
		log:      logger.With().Str("engine", cfg.ID).Logger(),
		board:    NewBoard(cfg.GridSize, cfg.Rand),
		profile:  cfg.Catalog.Default(),
	}
	e.selected = e.profile.ID
	if best, ok := e.loadBest(); ok {
		e.best = best
	}
	e.clearRound()
	e.msg = Message{Text: msgReady, Severity: SeverityInfo}
	return e
}

// ID returns the identifier given in Config.
func (e *Engine) ID() string { return e.id }

// ------------------------------ lifecycle ----------------------------------

// Start begins a round under p. It is rejected (false) while a round is running.
// An invalid profile is replaced by the catalog default.
func (e *Engine) Start(p Profile) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(p)
}

// StartSelected starts a round with the currently selected difficulty.
func (e *Engine) StartSelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(e.selectedProfile())
}

func (e *Engine) startLocked(p Profile) bool {
	if e.phase == PhaseRunning {
		e.log.Debug().Msg("start ignored: round already running")
		return false
	}
	if err := p.Validate(); err != nil {
		e.log.Warn().Err(err).Msg("invalid profile, using default")
		p = e.catalog.Default()
	}
	e.epoch++
	e.cancelTimers()

	e.profile = p
	// a caller-built profile runs once; the selector keeps its catalog choice
	if _, ok := e.catalog.Lookup(p.ID); ok {
		e.selected = p.ID
	}
	e.clearRound()
	e.outcome = nil
	e.phase = PhaseRunning
	e.state.Running = true
	e.locked = true
	e.msg = Message{Text: msgGo, Severity: SeveritySuccess}
	e.log.Info().Str("profile", p.ID).Dur("duration", p.Duration()).Msg("round started")

	e.tickTimer = e.after(TickInterval, e.tick)
	e.spawn(e.epoch)
	return true
}

// Reset cancels any round and returns to idle under the current profile.
// Calling it repeatedly yields the same state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch++
	e.cancelTimers()

	e.phase = PhaseIdle
	e.clearRound()
	e.outcome = nil
	e.locked = false
	e.msg = Message{Text: msgReady, Severity: SeverityInfo}
	e.render()
}

// End finishes the running round. When countsForBest is set and the score
// beats the stored best, the best score is saved and the outcome is a record.
// Outside a running round End is a no-op and reports false.
func (e *Engine) End(reason string, countsForBest bool) (Outcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseRunning {
		return Outcome{}, false
	}
	return e.endLocked(reason, countsForBest), true
}

// GiveUp ends the running round without it counting towards the best score.
func (e *Engine) GiveUp() bool {
	_, ok := e.End(msgGaveUp, false)
	return ok
}

func (e *Engine) endLocked(reason string, countsForBest bool) Outcome {
	e.epoch++
	e.cancelTimers()

	e.phase = PhaseEnded
	e.state.Running = false
	e.state.AwaitingHit = false
	e.state.ActiveCell = NoCell
	e.board.Clear()

	out := Outcome{Reason: reason, Score: e.state.Score, CountsForBest: countsForBest}
	if countsForBest {
		// another engine may have raised the record since we last looked
		if stored, ok := e.loadBest(); ok && stored > e.best {
			e.best = stored
		}
		if e.state.Score > e.best {
			e.best = e.state.Score
			out.NewRecord = true
			e.saveBest(e.best)
		}
	}

	text, sev := reason, SeverityWarning
	if countsForBest {
		sev = SeveritySuccess
	}
	if out.NewRecord {
		text += msgNewRecord
	}
	e.msg = Message{Text: text, Severity: sev}
	e.locked = false
	e.outcome = &out
	e.log.Info().
		Int("score", out.Score).
		Int("misses", e.state.Misses).
		Bool("countsForBest", countsForBest).
		Bool("newRecord", out.NewRecord).
		Msg("round ended")
	e.render()
	return out
}

// ------------------------------ scheduling ---------------------------------

// after schedules fn under the current epoch. fn runs with mu held.
func (e *Engine) after(d time.Duration, fn func(epoch uint64)) Timer {
	epoch := e.epoch
	return e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		fn(epoch)
	})
}

// current reports whether a callback scheduled under epoch may still act.
func (e *Engine) current(epoch uint64) bool {
	return epoch == e.epoch && e.phase == PhaseRunning
}

func (e *Engine) cancelTimers() {
	if e.tickTimer != nil {
		e.tickTimer.Stop()
		e.tickTimer = nil
	}
	e.stopSpawn()
}

func (e *Engine) stopSpawn() {
	if e.spawnTimer != nil {
		e.spawnTimer.Stop()
		e.spawnTimer = nil
	}
}

// tick is the 1s countdown.
func (e *Engine) tick(epoch uint64) {
	if !e.current(epoch) {
		return
	}
	e.state.TimeLeft--
	if e.state.TimeLeft <= 0 {
		e.state.TimeLeft = 0
		e.endLocked(msgTimeUp, true)
		return
	}
	e.tickTimer = e.after(TickInterval, e.tick)
	e.render()
}

// spawn resolves a mole that was never hit, then places the next one.
func (e *Engine) spawn(epoch uint64) {
	if !e.current(epoch) {
		return
	}
	e.spawnTimer = nil

	missed := NoCell
	if e.state.AwaitingHit && e.state.ActiveCell != NoCell {
		missed = e.state.ActiveCell
		if e.registerMiss(missed) {
			return
		}
	}

	next := e.board.PickNext(e.state.ActiveCell)
	e.board.Clear()
	if missed != NoCell {
		e.board.MarkMissed(missed)
	}
	e.board.Activate(next)
	e.state.ActiveCell = next
	e.state.AwaitingHit = true

	e.spawnTimer = e.after(SpawnDelay(e.profile, e.state.Streak), e.spawn)
	e.render()
}

// registerMiss records an unhit mole. It reports true when the miss ended the round.
func (e *Engine) registerMiss(cell int) bool {
	e.board.MarkMissed(cell)
	e.state.AwaitingHit = false
	e.state.Streak = 0
	e.state.Misses++
	e.msg = Message{Text: msgMissed, Severity: SeverityWarning}
	if e.state.Misses >= e.profile.MaxMisses {
		e.endLocked(fmt.Sprintf(msgMissLimit, e.profile.MaxMisses), false)
		return true
	}
	return false
}

// -------------------------------- input ------------------------------------

// HandleSelection applies a player's pick of cell. It reports true on a hit.
// Picks outside a running round, or with no mole up, are ignored. A wrong
// cell only changes the message.
func (e *Engine) HandleSelection(cell int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseRunning || !e.state.AwaitingHit {
		return false
	}
	if cell != e.state.ActiveCell {
		e.msg = Message{Text: msgWrongCell, Severity: SeverityWarning}
		e.render()
		return false
	}

	e.board.Deactivate(cell)
	e.state.AwaitingHit = false
	e.state.Streak++
	points := PointsFor(e.state.Streak)
	e.state.Score += points
	e.msg = Message{Text: fmt.Sprintf(msgHit, points), Severity: SeveritySuccess}

	// the respawn takes over the spawn slot so only one spawn is ever pending
	e.stopSpawn()
	e.spawnTimer = e.after(RespawnDelay, e.spawn)
	e.render()
	return true
}

// SelectDifficulty changes the selected profile. While a round is running the
// change is rejected and the previous selection stays. Otherwise the profile
// is applied at once and timeLeft/misses preview its defaults. Unknown ids
// select the catalog default.
func (e *Engine) SelectDifficulty(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseRunning {
		e.msg = Message{Text: msgLocked, Severity: SeverityWarning}
		e.log.Debug().Str("requested", id).Msg("difficulty change rejected")
		e.render()
		return false
	}
	p, ok := e.catalog.Lookup(id)
	if !ok {
		e.log.Warn().Str("requested", id).Str("using", p.ID).Msg("unknown difficulty")
	}
	e.selected = p.ID
	e.profile = p
	e.state.TimeLeft = p.DurationSeconds
	e.state.Misses = 0
	e.msg = Message{Text: fmt.Sprintf(msgDifficulty, p.Label), Severity: SeverityInfo}
	e.render()
	return true
}

// ApplySelectedDifficulty resolves the selected difficulty id to a profile.
func (e *Engine) ApplySelectedDifficulty() Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedProfile()
}

func (e *Engine) selectedProfile() Profile {
	p, _ := e.catalog.Lookup(e.selected)
	return p
}

// -------------------------------- views ------------------------------------

// Snapshot returns the current render payload.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// State returns a copy of the round state.
func (e *Engine) State() RoundState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Profile returns the profile in effect.
func (e *Engine) Profile() Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

func (e *Engine) Best() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.best
}

// DifficultyLocked reports whether the selector must refuse changes.
func (e *Engine) DifficultyLocked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locked
}

// LastOutcome returns how the last round ended, if it has ended since the last start/reset.
func (e *Engine) LastOutcome() (Outcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.outcome == nil {
		return Outcome{}, false
	}
	return *e.outcome, true
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		Phase:            e.phase,
		Score:            e.state.Score,
		Streak:           e.state.Streak,
		Misses:           e.state.Misses,
		MaxMisses:        e.profile.MaxMisses,
		TimeLeft:         e.state.TimeLeft,
		Best:             e.best,
		Message:          e.msg,
		Cells:            e.board.Cells(),
		ActiveCell:       e.state.ActiveCell,
		AwaitingHit:      e.state.AwaitingHit,
		Difficulty:       e.profile.ID,
		DifficultyLabel:  e.profile.Label,
		DifficultyLocked: e.locked,
	}
	if e.outcome != nil {
		out := *e.outcome
		s.Outcome = &out
	}
	return s
}

// ------------------------------- helpers -----------------------------------

// clearRound resets the round state to the current profile's defaults.
func (e *Engine) clearRound() {
	e.state = RoundState{TimeLeft: e.profile.DurationSeconds, ActiveCell: NoCell}
	e.board.Clear()
}

func (e *Engine) render() {
	if e.renderer != nil {
		e.renderer.Render(e.snapshotLocked())
	}
}

// loadBest reads the stored best. Storage failures count as "nothing stored".
func (e *Engine) loadBest() (int, bool) {
	if e.scores == nil {
		return 0, false
	}
	best, ok, err := e.scores.LoadBest(context.Background())
	if err != nil {
		e.log.Warn().Err(err).Msg("best score unavailable")
		return 0, false
	}
	return best, ok
}

func (e *Engine) saveBest(score int) {
	if e.scores == nil {
		return
	}
	if err := e.scores.SaveBest(context.Background(), score); err != nil {
		e.log.Warn().Err(err).Int("score", score).Msg("best score not saved")
	}
}
