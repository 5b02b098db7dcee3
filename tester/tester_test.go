package tester

import (
	"testing"

	"github.com/levelforge/levelforge/diag"
	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/pathfind"
)

func createTestLevel() *level.Definition {
	return &level.Definition{
		Name: "tester-test-flat",
		Tiles: []level.Tile{
			{ID: "ground", Kind: level.Walkable, Rect: level.Rect{X: 0, Y: 400, W: 800, H: 32}},
		},
		Exit:       level.Point{X: 700, Y: 386},
		Difficulty: level.Band{Min: 0, Max: 10},
	}
}

func TestRunValidatesFlatLevel(t *testing.T) {
	tr := New(pathfind.Options{}, nil)
	report := tr.Run(createTestLevel(), 3)

	if !report.OK {
		t.Fatalf("Expected a validated level, got reason %s", report.Reason)
	}
	if len(report.Commands) == 0 {
		t.Error("Expected a command stream in the report")
	}
	if report.Rounds != 1 {
		t.Errorf("Expected success in one round, got %d", report.Rounds)
	}
	if len(report.Patches) != 0 {
		t.Errorf("Expected no patches, got %d", len(report.Patches))
	}
	if !report.Score.WithinBand {
		t.Errorf("Expected the score inside the band, got %+v", report.Score)
	}
}

func TestRunRepairsMissingSpawn(t *testing.T) {
	def := &level.Definition{
		Name:       "tester-test-empty",
		Exit:       level.Point{X: 48, Y: -14},
		Difficulty: level.Band{Min: 0, Max: 10},
	}

	tr := New(pathfind.Options{}, nil)
	report := tr.Run(def, 3)

	if !report.OK {
		t.Fatalf("Expected repair then success, got reason %s", report.Reason)
	}
	if report.Rounds != 2 {
		t.Errorf("Expected two rounds, got %d", report.Rounds)
	}
	if len(report.Patches) != 1 || report.Patches[0].Op != "synthesize_spawn" {
		t.Errorf("Expected a single synthesize_spawn patch, got %+v", report.Patches)
	}
	if len(def.Tiles) != 0 {
		t.Error("Run mutated the input level")
	}
	if len(report.Level.Tiles) != 1 {
		t.Errorf("Expected the report to carry the patched level, got %d tiles", len(report.Level.Tiles))
	}
}

func TestRunRepairsWideGap(t *testing.T) {
	def := &level.Definition{
		Name: "tester-test-chasm",
		Tiles: []level.Tile{
			{ID: "a", Kind: level.Walkable, Rect: level.Rect{X: 0, Y: 400, W: 200, H: 32}},
			{ID: "b", Kind: level.Walkable, Rect: level.Rect{X: 500, Y: 400, W: 200, H: 32}},
		},
		Exit:       level.Point{X: 660, Y: 386},
		Difficulty: level.Band{Min: 0, Max: 10},
	}

	tr := New(pathfind.Options{}, nil)
	report := tr.Run(def, 6)

	if report.Reason == diag.GapTooWide {
		t.Errorf("Expected the gap repaired within the round budget, got %+v", report)
	}
	if len(report.Patches) == 0 {
		t.Error("Expected at least one patch")
	}
}

func TestRunExhaustsRounds(t *testing.T) {
	def := &level.Definition{
		Name:       "tester-test-empty",
		Exit:       level.Point{X: 48, Y: -14},
		Difficulty: level.Band{Min: 0, Max: 10},
	}

	tr := New(pathfind.Options{}, nil)
	report := tr.Run(def, 0)

	if report.OK {
		t.Fatal("Expected failure with a zero round budget")
	}
	if report.Reason != diag.NoSpawn {
		t.Errorf("Expected no_spawn to survive, got %s", report.Reason)
	}
	if report.Rounds != 1 {
		t.Errorf("Expected a single round, got %d", report.Rounds)
	}
}
