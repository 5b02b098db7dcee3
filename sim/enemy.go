package sim

import (
	"math"

	"github.com/levelforge/levelforge/level"
)

// EnemyRectAt returns the enemy's hitbox at the given tick. Patrols follow
// a triangle wave over [0, Range] so the position is a pure function of
// the tick, keeping replays deterministic.
func EnemyRectAt(e *level.Enemy, tick int) level.Rect {
	r := level.Rect{X: e.Pos.X, Y: e.Pos.Y, W: EnemyWidth, H: EnemyHeight}
	if e.Range <= 0 || e.Speed <= 0 {
		return r
	}

	travel := e.Speed * float64(tick) * Dt
	cycle := math.Mod(travel, 2*e.Range)
	offset := cycle
	if cycle > e.Range {
		offset = 2*e.Range - cycle
	}

	switch e.Pattern {
	case level.PatrolVertical:
		r.Y += offset
	default:
		r.X += offset
	}
	return r
}
