// internal/game/types.go
//
// Core type definitions for the round engine.
// Defines:
//   - Phase: lifecycle state of a round (idle/running/ended).
//   - Severity/Message: user-facing feedback shown by the render surface.
//   - RoundState: the mutable per-round aggregate.
//   - Snapshot/Outcome: read-only views handed to collaborators.

package game

import "fmt"

// NoCell marks the absence of an active cell index.
const NoCell = -1

// Phase is the lifecycle state of the engine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	default:
		return "idle"
	}
}

// MarshalText lets Phase encode as its name in JSON.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText accepts the names produced by MarshalText.
func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*p = PhaseIdle
	case "running":
		*p = PhaseRunning
	case "ended":
		*p = PhaseEnded
	default:
		return fmt.Errorf("unknown phase %q", b)
	}
	return nil
}

// Severity classifies a message for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// Message is the single line of feedback the render surface displays.
type Message struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// RoundState holds the mutable state of one round.
//
// AwaitingHit is true only while ActiveCell is set and the mole there has
// been neither hit nor missed. ActiveCell keeps the last resolved index so the
// next draw can avoid it.
type RoundState struct {
	Running     bool `json:"running"`
	Score       int  `json:"score"`
	Misses      int  `json:"misses"`
	TimeLeft    int  `json:"timeLeft"`
	Streak      int  `json:"streak"`
	ActiveCell  int  `json:"activeCell"`
	AwaitingHit bool `json:"awaitingHit"`
}

// Outcome describes how a round ended.
type Outcome struct {
	Reason        string `json:"reason"`
	Score         int    `json:"score"`
	CountsForBest bool   `json:"countsForBest"`
	NewRecord     bool   `json:"newRecord"`
}

// Snapshot is everything a render surface needs for one frame.
type Snapshot struct {
	Phase            Phase    `json:"phase"`
	Score            int      `json:"score"`
	Streak           int      `json:"streak"`
	Misses           int      `json:"misses"`
	MaxMisses        int      `json:"maxMisses"`
	TimeLeft         int      `json:"timeLeft"`
	Best             int      `json:"best"`
	Message          Message  `json:"message"`
	Cells            []Cell   `json:"cells"`
	ActiveCell       int      `json:"activeCell"`
	AwaitingHit      bool     `json:"awaitingHit"`
	Difficulty       string   `json:"difficulty"`
	DifficultyLabel  string   `json:"difficultyLabel"`
	DifficultyLocked bool     `json:"difficultyLocked"`
	Outcome          *Outcome `json:"outcome,omitempty"`
}
