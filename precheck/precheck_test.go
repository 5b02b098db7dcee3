package precheck

import (
	"math"
	"testing"

	"github.com/levelforge/levelforge/diag"
	"github.com/levelforge/levelforge/level"
)

// twoTileLevel builds two ground strips separated by the given gap.
func twoTileLevel(gap float64) *level.Definition {
	return &level.Definition{
		Name: "precheck-test",
		Tiles: []level.Tile{
			{ID: "a", Kind: level.Walkable, Rect: level.Rect{X: 0, Y: 400, W: 200, H: 32}},
			{ID: "b", Kind: level.Walkable, Rect: level.Rect{X: 200 + gap, Y: 400, W: 200, H: 32}},
		},
		Exit:       level.Point{X: 360 + gap, Y: 386},
		Difficulty: level.Band{Min: 0, Max: 10},
	}
}

func TestMaxJumpDistance(t *testing.T) {
	base := MaxJumpDistance(level.AbilitySet{})
	if base < 100 || base > 140 {
		t.Errorf("Expected base jump range around 120px, got %g", base)
	}

	high := MaxJumpDistance(level.AbilitySet{HighJump: true})
	if high <= base {
		t.Errorf("Expected high jump to extend range, got %g vs %g", high, base)
	}

	fly := MaxJumpDistance(level.AbilitySet{ShortFly: true})
	if fly <= base {
		t.Errorf("Expected short fly to extend range, got %g vs %g", fly, base)
	}

	if !math.IsInf(MaxJumpDistance(level.AbilitySet{Jetpack: true, JetpackFuel: 100}), 1) {
		t.Error("Expected jetpack range to be unbounded")
	}
}

func TestGaps(t *testing.T) {
	def := twoTileLevel(80)
	gaps := Gaps(def)
	if len(gaps) != 1 {
		t.Fatalf("Expected one gap, got %d", len(gaps))
	}
	g := gaps[0]
	if g.FromTileID != "a" || g.ToTileID != "b" {
		t.Errorf("Expected gap a->b, got %s->%s", g.FromTileID, g.ToTileID)
	}
	if g.Width != 80 || g.X1 != 200 || g.X2 != 280 {
		t.Errorf("Unexpected gap geometry: %+v", g)
	}
}

func TestGapsIgnoreOverlap(t *testing.T) {
	def := twoTileLevel(0)
	def.Tiles[1].Rect.X = 150 // overlapping strips
	if gaps := Gaps(def); len(gaps) != 0 {
		t.Errorf("Expected no gaps for overlapping tiles, got %+v", gaps)
	}
}

func TestUnbridgeableGaps(t *testing.T) {
	def := twoTileLevel(300)
	if got := UnbridgeableGaps(def); len(got) != 1 {
		t.Fatalf("Expected one unbridgeable gap, got %d", len(got))
	}

	def.Abilities = level.AbilitySet{Jetpack: true, JetpackFuel: 100}
	if got := UnbridgeableGaps(def); len(got) != 0 {
		t.Errorf("Expected jetpack to bridge everything, got %+v", got)
	}
}

func TestCheckPasses(t *testing.T) {
	if d := Check(twoTileLevel(80)); d != nil {
		t.Fatalf("Expected clean precheck, got %s", d)
	}
}

func TestCheckNoSpawn(t *testing.T) {
	def := &level.Definition{
		Name: "hazards-only",
		Tiles: []level.Tile{
			{ID: "spikes", Kind: level.Hazard, Rect: level.Rect{X: 0, Y: 400, W: 100, H: 32}},
		},
	}
	d := Check(def)
	if d == nil || d.Reason != diag.NoSpawn {
		t.Fatalf("Expected no_spawn, got %s", d)
	}
}

func TestCheckGapTooWide(t *testing.T) {
	d := Check(twoTileLevel(300))
	if d == nil || d.Reason != diag.GapTooWide {
		t.Fatalf("Expected gap_too_wide, got %s", d)
	}
	if d.Gap == nil || d.Gap.FromTileID != "a" || d.Gap.ToTileID != "b" || d.Gap.Width != 300 {
		t.Errorf("Unexpected gap detail: %+v", d.Gap)
	}
}

func TestCheckHazardNoWindow(t *testing.T) {
	def := twoTileLevel(80)
	// Sitting in the standing band of both tiles, no way past.
	def.Tiles = append(def.Tiles, level.Tile{
		ID: "spikes", Kind: level.Hazard,
		Rect: level.Rect{X: 100, Y: 372, W: 40, H: 28},
	})
	d := Check(def)
	if d == nil || d.Reason != diag.HazardNoWindow {
		t.Fatalf("Expected hazard_no_window, got %s", d)
	}
	if d.Hazard == nil || d.Hazard.TileID != "spikes" {
		t.Errorf("Unexpected hazard detail: %+v", d.Hazard)
	}
}

func TestCheckHazardWithClearance(t *testing.T) {
	def := twoTileLevel(80)
	// High enough above the standing band to walk under.
	def.Tiles = append(def.Tiles, level.Tile{
		ID: "ceiling-spikes", Kind: level.Hazard,
		Rect: level.Rect{X: 100, Y: 300, W: 40, H: 28},
	})
	if d := Check(def); d != nil {
		t.Fatalf("Expected clearance to pass, got %s", d)
	}
}

func TestCheckUnreachableHazardPasses(t *testing.T) {
	def := twoTileLevel(80)
	// Far from every walkable tile, pure decoration.
	def.Tiles = append(def.Tiles, level.Tile{
		ID: "decoration", Kind: level.Hazard,
		Rect: level.Rect{X: 2000, Y: 372, W: 40, H: 28},
	})
	if d := Check(def); d != nil {
		t.Fatalf("Expected unreachable hazard to pass, got %s", d)
	}
}

func TestCheckMovingHazardWindow(t *testing.T) {
	def := twoTileLevel(80)
	vent := level.Tile{
		ID: "vent", Kind: level.MovingHazard,
		Rect:     level.Rect{X: 100, Y: 372, W: 40, H: 28},
		Schedule: &level.HazardSchedule{PeriodTicks: 180, OpenTicks: 90},
	}
	def.Tiles = append(def.Tiles, vent)
	if d := Check(def); d != nil {
		t.Fatalf("Expected generous open window to pass, got %s", d)
	}

	// An open window too short to cross fails like a static blocker.
	short := def.Clone()
	short.TileByID("vent").Schedule.OpenTicks = 5
	d := Check(short)
	if d == nil || d.Reason != diag.HazardNoWindow {
		t.Fatalf("Expected hazard_no_window for a too-short window, got %s", d)
	}
}

func TestMinOpenTicks(t *testing.T) {
	vent := &level.Tile{Rect: level.Rect{W: 40}}
	// (40 + 20px player) / (160px/s / 60Hz) rounds up to 23 ticks.
	if got := MinOpenTicks(vent); got != 23 {
		t.Errorf("Expected 23 ticks to cross a 40px hazard, got %d", got)
	}
}
