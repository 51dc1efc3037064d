package game

import "testing"

func TestNewBoardSize(t *testing.T) {
	cases := []struct {
		size int
		want int
	}{
		{3, 9},
		{4, 16},
		{2, 4},
		{1, 9},
		{0, 9},
		{-2, 9},
	}
	for _, tc := range cases {
		if got := NewBoard(tc.size, nil).Len(); got != tc.want {
			t.Errorf("NewBoard(%d).Len() = %d, want %d", tc.size, got, tc.want)
		}
	}
}

func TestPickNextCollisionAdvances(t *testing.T) {
	b := NewBoard(3, &seqRand{vals: []int{8, 2, 5}})
	if got := b.PickNext(8); got != 0 {
		t.Fatalf("collision on last cell: got %d, want 0", got)
	}
	if got := b.PickNext(4); got != 2 {
		t.Fatalf("no collision: got %d, want 2", got)
	}
	if got := b.PickNext(NoCell); got != 5 {
		t.Fatalf("no current cell: got %d, want 5", got)
	}
}

func TestPickNextNeverRepeats(t *testing.T) {
	b := NewBoard(3, nil)
	cur := NoCell
	for i := 0; i < 500; i++ {
		next := b.PickNext(cur)
		if next == cur {
			t.Fatalf("draw %d repeated cell %d", i, cur)
		}
		if !b.Valid(next) {
			t.Fatalf("draw %d out of range: %d", i, next)
		}
		cur = next
	}
}

func TestCellFlags(t *testing.T) {
	b := NewBoard(2, nil)
	b.Activate(1)
	b.MarkMissed(3)
	cells := b.Cells()
	if !cells[1].Active || !cells[3].Missed || cells[3].Active {
		t.Fatalf("flags: %+v", cells)
	}

	// copies must not alias the board
	cells[1].Active = false
	if !b.Cells()[1].Active {
		t.Fatal("Cells() returned shared slice")
	}

	b.Deactivate(1)
	b.Activate(-1)
	b.Activate(99)
	b.Clear()
	for i, c := range b.Cells() {
		if c.Active || c.Missed {
			t.Fatalf("cell %d not cleared: %+v", i, c)
		}
	}
}
