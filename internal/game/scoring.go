package game

import "time"

// Scoring and timing constants shared by every profile.
const (
	BasePoints       = 10
	StreakBonus      = 2
	SpeedUpPerStreak = 35 // ms shaved off the spawn delay per streak step

	TickInterval = time.Second
	RespawnDelay = 220 * time.Millisecond
)

// PointsFor returns the points earned by the hit that brought the streak to
// streak. The first hit of a streak is worth BasePoints.
func PointsFor(streak int) int {
	if streak < 1 {
		streak = 1
	}
	return BasePoints + (streak-1)*StreakBonus
}

// SpawnDelay is the time until the next mole for the given streak,
// floored at the profile's minimum.
func SpawnDelay(p Profile, streak int) time.Duration {
	ms := p.BaseSpawnDelayMs - streak*SpeedUpPerStreak
	if ms < p.MinSpawnDelayMs {
		ms = p.MinSpawnDelayMs
	}
	return time.Duration(ms) * time.Millisecond
}
