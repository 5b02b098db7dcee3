package replay

import (
	"testing"

	"github.com/levelforge/levelforge/diag"
	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/pathfind"
	"github.com/levelforge/levelforge/sim"
)

func createTestLevel() *level.Definition {
	return &level.Definition{
		Name: "replay-test-flat",
		Tiles: []level.Tile{
			{ID: "ground", Kind: level.Walkable, Rect: level.Rect{X: 0, Y: 400, W: 800, H: 32}},
		},
		Exit:       level.Point{X: 700, Y: 386},
		Difficulty: level.Band{Min: 0, Max: 10},
	}
}

// rightStream holds right for the given number of input samples.
func rightStream(samples int) []sim.InputDelta {
	buttons := make([]sim.Buttons, samples)
	for i := range buttons {
		buttons[i] = sim.Buttons{Right: true}
	}
	return sim.EncodeStream(buttons, sim.InputTicks)
}

func TestRunValidatesSearchResult(t *testing.T) {
	def := createTestLevel()
	res := pathfind.Search(def, pathfind.Options{})
	if !res.OK {
		t.Fatalf("Search failed: %s", res.Reason)
	}

	out := Run(def, res.Commands, 0)
	if !out.OK {
		t.Fatalf("Replay rejected a search result: %s", out.Diagnosis)
	}
	if out.Ticks == 0 {
		t.Error("Expected a non-zero tick count")
	}
	if !sim.ExitReached(def, out.Final) {
		t.Errorf("Expected the final state inside the exit sensor, got x=%g", out.Final.X)
	}
}

func TestRunIdleNeverFinishes(t *testing.T) {
	def := createTestLevel()
	out := Run(def, nil, 0)
	if out.OK {
		t.Fatal("Expected an idle replay to fail")
	}
	if out.Diagnosis == nil || out.Diagnosis.Reason != diag.NoPath {
		t.Errorf("Expected no_path, got %s", out.Diagnosis)
	}
}

func TestRunHazardContact(t *testing.T) {
	def := createTestLevel()
	def.Tiles = append(def.Tiles, level.Tile{
		ID: "spikes", Kind: level.Hazard,
		Rect: level.Rect{X: 60, Y: 372, W: 40, H: 28},
	})

	out := Run(def, rightStream(60), 0)
	if out.OK {
		t.Fatal("Expected the run to fail on the spikes")
	}
	d := out.Diagnosis
	if d == nil || d.Reason != diag.HazardContact {
		t.Fatalf("Expected hazard diagnosis, got %s", d)
	}
	if d.Hazard == nil || d.Hazard.TileID != "spikes" {
		t.Errorf("Expected the offending tile named, got %+v", d.Hazard)
	}
	if out.Ticks == 0 || out.Ticks > 60 {
		t.Errorf("Expected contact within the first 60 ticks, got %d", out.Ticks)
	}
}

func TestRunEnemyContact(t *testing.T) {
	def := createTestLevel()
	def.Enemies = []level.Enemy{
		{ID: "sentry", Pos: level.Point{X: 100, Y: 376}, Pattern: level.PatrolHorizontal},
	}

	out := Run(def, rightStream(120), 0)
	if out.OK {
		t.Fatal("Expected the run to fail on the sentry")
	}
	d := out.Diagnosis
	if d == nil || d.Reason != diag.EnemyUnavoidable {
		t.Fatalf("Expected enemy_unavoidable, got %s", d)
	}
	if d.Enemy == nil || d.Enemy.EnemyID != "sentry" {
		t.Errorf("Expected the offending enemy named, got %+v", d.Enemy)
	}
}

func TestRunSpawnOnExit(t *testing.T) {
	def := createTestLevel()
	def.Exit = level.Point{X: sim.SpawnInset + sim.PlayerWidth/2, Y: 386}

	out := Run(def, nil, 0)
	if !out.OK || out.Ticks != 0 {
		t.Errorf("Expected immediate success at tick 0, got ok=%v ticks=%d", out.OK, out.Ticks)
	}
}

func TestRunFallsOffTheWorld(t *testing.T) {
	def := createTestLevel()
	def.Tiles[0].Rect.W = 50 // short ledge, long fall

	out := Run(def, rightStream(200), 0)
	if out.OK {
		t.Fatal("Expected the run to be lost below the kill plane")
	}
	if out.Diagnosis == nil || out.Diagnosis.Reason != diag.NoPath {
		t.Errorf("Expected no_path after falling out, got %s", out.Diagnosis)
	}
	if out.Final.Y <= sim.KillPlaneY(def) {
		t.Errorf("Expected the final state below the kill plane, got y=%g", out.Final.Y)
	}
}

func TestMaxTicksFor(t *testing.T) {
	stream := rightStream(10) // single delta at tick 0
	want := sim.InputTicks + ExitGraceTicks
	if got := MaxTicksFor(stream); got != want {
		t.Errorf("Expected budget %d, got %d", want, got)
	}
}
