// internal/game/board.go
//
// Board model: a fixed set of cells, at most one of which holds the mole.
// Cells are created once and only their flags change afterwards.

package game

import "math/rand/v2"

// DefaultGridSize is the side length of the default 3×3 board.
const DefaultGridSize = 3

// Cell is the per-cell flag set handed to the render surface.
// Missed is display-only and carries no game logic.
type Cell struct {
	Active bool `json:"active"`
	Missed bool `json:"missed"`
}

// Rand is the randomness the board draws from. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the math/rand/v2 top-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Board tracks the cells of a size×size grid.
type Board struct {
	cells []Cell
	rng   Rand
}

// NewBoard builds a size×size board. Sizes below 2 use DefaultGridSize, since
// a single cell leaves PickNext no index distinct from the current one.
func NewBoard(size int, rng Rand) *Board {
	if size < 2 {
		size = DefaultGridSize
	}
	if rng == nil {
		rng = globalRand{}
	}
	return &Board{cells: make([]Cell, size*size), rng: rng}
}

// Len returns the total number of cells.
func (b *Board) Len() int { return len(b.cells) }

// Valid reports whether i indexes a cell.
func (b *Board) Valid(i int) bool { return i >= 0 && i < len(b.cells) }

// Clear drops every active and missed flag.
func (b *Board) Clear() {
	for i := range b.cells {
		b.cells[i] = Cell{}
	}
}

// Activate highlights cell i.
func (b *Board) Activate(i int) {
	if b.Valid(i) {
		b.cells[i].Active = true
		b.cells[i].Missed = false
	}
}

// Deactivate removes the highlight from cell i.
func (b *Board) Deactivate(i int) {
	if b.Valid(i) {
		b.cells[i].Active = false
	}
}

// MarkMissed flags cell i as a mole that got away.
func (b *Board) MarkMissed(i int) {
	if b.Valid(i) {
		b.cells[i].Active = false
		b.cells[i].Missed = true
	}
}

// PickNext draws the next mole position. A draw equal to current is moved to
// the following index (mod Len), which favours that neighbour slightly; play
// feel depends on it, so the draw is not made uniform.
func (b *Board) PickNext(current int) int {
	n := len(b.cells)
	next := b.rng.IntN(n)
	if next == current {
		next = (next + 1) % n
	}
	return next
}

// Cells returns a copy of the cell flags.
func (b *Board) Cells() []Cell {
	out := make([]Cell, len(b.cells))
	copy(out, b.cells)
	return out
}
