package game

import (
	"testing"
	"time"
)

func TestPointsFor(t *testing.T) {
	cases := []struct {
		streak int
		want   int
	}{
		{1, 10},
		{2, 12},
		{3, 14},
		{5, 18},
		{0, 10},
	}
	for _, tc := range cases {
		if got := PointsFor(tc.streak); got != tc.want {
			t.Errorf("PointsFor(%d) = %d, want %d", tc.streak, got, tc.want)
		}
	}
}

func TestSpawnDelayRamp(t *testing.T) {
	for _, p := range DefaultCatalog().All() {
		t.Run(p.ID, func(t *testing.T) {
			floor := time.Duration(p.MinSpawnDelayMs) * time.Millisecond
			if got := SpawnDelay(p, 0); got != time.Duration(p.BaseSpawnDelayMs)*time.Millisecond {
				t.Fatalf("streak 0: got %v", got)
			}
			prev := SpawnDelay(p, 0)
			for streak := 1; streak <= 100; streak++ {
				d := SpawnDelay(p, streak)
				if d > prev {
					t.Fatalf("delay increased at streak %d: %v > %v", streak, d, prev)
				}
				if d < floor {
					t.Fatalf("delay %v below floor %v at streak %d", d, floor, streak)
				}
				prev = d
			}
			if prev != floor {
				t.Fatalf("long streak did not reach floor: %v", prev)
			}
		})
	}
}

func TestSpawnDelayNormalValues(t *testing.T) {
	p, _ := DefaultCatalog().Lookup("normal")
	if got := SpawnDelay(p, 5); got != 875*time.Millisecond {
		t.Fatalf("streak 5: got %v, want 875ms", got)
	}
	if got := SpawnDelay(p, 40); got != 420*time.Millisecond {
		t.Fatalf("streak 40: got %v, want 420ms", got)
	}
}
