package sim

import (
	"math"
	"testing"

	"github.com/levelforge/levelforge/level"
)

func TestEnemyTriangleWave(t *testing.T) {
	e := &level.Enemy{
		ID:      "walker",
		Pos:     level.Point{X: 100, Y: 200},
		Speed:   60, // one pixel per tick
		Pattern: level.PatrolHorizontal,
		Range:   48,
	}

	cases := []struct {
		tick  int
		wantX float64
	}{
		{0, 100},
		{24, 124},
		{48, 148},  // far end of the patrol
		{72, 124},  // turning back
		{96, 100},  // full cycle
		{120, 124}, // second cycle
	}
	for _, c := range cases {
		r := EnemyRectAt(e, c.tick)
		if math.Abs(r.X-c.wantX) > 1e-6 {
			t.Errorf("Tick %d: expected x %g, got %g", c.tick, c.wantX, r.X)
		}
		if r.Y != 200 {
			t.Errorf("Tick %d: horizontal patrol must not move y, got %g", c.tick, r.Y)
		}
	}
}

func TestEnemyVerticalPatrol(t *testing.T) {
	e := &level.Enemy{
		ID:      "floater",
		Pos:     level.Point{X: 300, Y: 100},
		Speed:   60,
		Pattern: level.PatrolVertical,
		Range:   30,
	}

	r := EnemyRectAt(e, 30)
	if math.Abs(r.Y-130) > 1e-6 {
		t.Errorf("Expected y 130 at the far end, got %g", r.Y)
	}
	if r.X != 300 {
		t.Errorf("Vertical patrol must not move x, got %g", r.X)
	}
}

func TestEnemyStationary(t *testing.T) {
	e := &level.Enemy{ID: "statue", Pos: level.Point{X: 50, Y: 60}, Pattern: level.PatrolHorizontal}
	for _, tick := range []int{0, 17, 500} {
		r := EnemyRectAt(e, tick)
		if r.X != 50 || r.Y != 60 {
			t.Errorf("Tick %d: stationary enemy moved to (%g,%g)", tick, r.X, r.Y)
		}
	}
	if r := EnemyRectAt(e, 0); r.W != EnemyWidth || r.H != EnemyHeight {
		t.Errorf("Expected %gx%g hitbox, got %gx%g", EnemyWidth, EnemyHeight, r.W, r.H)
	}
}
