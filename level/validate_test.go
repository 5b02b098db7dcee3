package level

import (
	"strings"
	"testing"
)

// createTestDefinition returns a minimal valid level.
func createTestDefinition() *Definition {
	return &Definition{
		Name: "validate-test",
		Tiles: []Tile{
			{ID: "ground", Kind: Walkable, Rect: Rect{X: 0, Y: 400, W: 800, H: 32}},
			{ID: "vent", Kind: MovingHazard, Rect: Rect{X: 200, Y: 352, W: 32, H: 48},
				Schedule: &HazardSchedule{PeriodTicks: 120, OpenTicks: 60}},
		},
		Enemies: []Enemy{
			{ID: "walker", Pos: Point{X: 300, Y: 376}, Speed: 40, Pattern: PatrolHorizontal, Range: 64},
		},
		Exit:       Point{X: 760, Y: 386},
		Difficulty: Band{Min: 1, Max: 5},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := Validate(createTestDefinition()); err != nil {
		t.Fatalf("Expected valid definition, got %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Definition)
		wantErr string
	}{
		{"missing name", func(d *Definition) { d.Name = "" }, "name is required"},
		{"empty tile id", func(d *Definition) { d.Tiles[0].ID = "" }, "has no id"},
		{"duplicate tile id", func(d *Definition) { d.Tiles[1].ID = "ground" }, "duplicate tile id"},
		{"unknown tile kind", func(d *Definition) { d.Tiles[0].Kind = "lava" }, "unknown kind"},
		{"tile too small", func(d *Definition) { d.Tiles[0].Rect.W = 2 }, "must be at least"},
		{"moving hazard without schedule", func(d *Definition) { d.Tiles[1].Schedule = nil }, "requires a schedule"},
		{"schedule period too short", func(d *Definition) { d.Tiles[1].Schedule.PeriodTicks = 1 }, "period must be at least"},
		{"open window exceeds period", func(d *Definition) { d.Tiles[1].Schedule.OpenTicks = 200 }, "open window"},
		{"schedule on static tile", func(d *Definition) {
			d.Tiles[0].Schedule = &HazardSchedule{PeriodTicks: 10, OpenTicks: 5}
		}, "not a moving hazard"},
		{"duplicate enemy id", func(d *Definition) {
			d.Enemies = append(d.Enemies, d.Enemies[0])
		}, "duplicate enemy id"},
		{"enemy speed out of range", func(d *Definition) { d.Enemies[0].Speed = 900 }, "speed must be within"},
		{"negative patrol range", func(d *Definition) { d.Enemies[0].Range = -1 }, "must be non-negative"},
		{"unknown patrol pattern", func(d *Definition) { d.Enemies[0].Pattern = "diagonal" }, "unknown pattern"},
		{"jetpack without fuel", func(d *Definition) { d.Abilities.Jetpack = true }, "requires positive fuel"},
		{"inverted difficulty band", func(d *Definition) { d.Difficulty = Band{Min: 5, Max: 1} }, "exceeds max"},
		{"negative target duration", func(d *Definition) { d.TargetDurationSec = -1 }, "must be non-negative"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			def := createTestDefinition()
			c.mutate(def)
			err := Validate(def)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), c.wantErr) {
				t.Errorf("Expected error containing %q, got %q", c.wantErr, err.Error())
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatal("Expected error for nil definition")
	}
}

func TestCloneIndependence(t *testing.T) {
	def := createTestDefinition()
	clone := def.Clone()

	clone.Tiles[0].Rect.W = 5
	clone.Tiles[1].Schedule.OpenTicks = 1
	clone.Enemies[0].Speed = 599
	clone.Tiles = append(clone.Tiles, Tile{ID: "extra", Kind: Walkable, Rect: Rect{W: 10, H: 10}})

	if def.Tiles[0].Rect.W != 800 {
		t.Error("Mutating the clone's tile changed the original")
	}
	if def.Tiles[1].Schedule.OpenTicks != 60 {
		t.Error("Mutating the clone's schedule changed the original")
	}
	if def.Enemies[0].Speed != 40 {
		t.Error("Mutating the clone's enemy changed the original")
	}
	if len(def.Tiles) != 2 {
		t.Error("Appending to the clone changed the original")
	}
}

func TestHazardScheduleOpenAt(t *testing.T) {
	s := HazardSchedule{PeriodTicks: 100, OpenTicks: 40, PhaseTicks: 10}

	// phase (tick+10) % 100 < 40
	cases := []struct {
		tick int
		open bool
	}{
		{0, true},
		{29, true},
		{30, false},
		{89, false},
		{90, true},
	}
	for _, c := range cases {
		if got := s.OpenAt(c.tick); got != c.open {
			t.Errorf("Tick %d: expected open=%v, got %v", c.tick, c.open, got)
		}
	}

	var zero HazardSchedule
	if zero.OpenAt(0) {
		t.Error("Zero-period schedule must never be open")
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	if !a.Intersects(Rect{X: 5, Y: 5, W: 10, H: 10}) {
		t.Error("Expected overlapping rects to intersect")
	}
	// Shared edges have zero overlap area.
	if a.Intersects(Rect{X: 10, Y: 0, W: 10, H: 10}) {
		t.Error("Expected edge-adjacent rects not to intersect")
	}
	if a.Intersects(Rect{X: 0, Y: 10, W: 10, H: 10}) {
		t.Error("Expected stacked rects not to intersect")
	}
}
