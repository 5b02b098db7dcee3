package level

import "fmt"

// Validate checks a level definition for structural correctness. It is a
// schema check only: geometry that is structurally sound but unplayable
// (no spawn tile, uncrossable gaps) is the precheck gate's concern.
func Validate(d *Definition) error {
	if d == nil {
		return fmt.Errorf("level validation: definition is nil")
	}
	if d.Name == "" {
		return fmt.Errorf("level validation: name is required")
	}
	if len(d.Tiles) > MaxTiles {
		return fmt.Errorf("level validation: at most %d tiles allowed, got %d", MaxTiles, len(d.Tiles))
	}
	if len(d.Enemies) > MaxEnemies {
		return fmt.Errorf("level validation: at most %d enemies allowed, got %d", MaxEnemies, len(d.Enemies))
	}

	seen := make(map[string]bool, len(d.Tiles))
	for i := range d.Tiles {
		t := &d.Tiles[i]
		if t.ID == "" {
			return fmt.Errorf("level validation: tile %d has no id", i)
		}
		if seen[t.ID] {
			return fmt.Errorf("level validation: duplicate tile id %q", t.ID)
		}
		seen[t.ID] = true

		switch t.Kind {
		case Walkable, Hazard, MovingHazard:
		default:
			return fmt.Errorf("level validation: tile %q has unknown kind %q", t.ID, t.Kind)
		}

		if t.Rect.W < MinTileSize || t.Rect.H < MinTileSize {
			return fmt.Errorf("level validation: tile %q must be at least %gx%g, got %gx%g",
				t.ID, MinTileSize, MinTileSize, t.Rect.W, t.Rect.H)
		}

		if t.Kind == MovingHazard {
			if t.Schedule == nil {
				return fmt.Errorf("level validation: moving hazard %q requires a schedule", t.ID)
			}
			if t.Schedule.PeriodTicks < MinSchedulePeriod {
				return fmt.Errorf("level validation: moving hazard %q period must be at least %d ticks, got %d",
					t.ID, MinSchedulePeriod, t.Schedule.PeriodTicks)
			}
			if t.Schedule.OpenTicks < 0 || t.Schedule.OpenTicks > t.Schedule.PeriodTicks {
				return fmt.Errorf("level validation: moving hazard %q open window must be within [0,%d], got %d",
					t.ID, t.Schedule.PeriodTicks, t.Schedule.OpenTicks)
			}
		} else if t.Schedule != nil {
			return fmt.Errorf("level validation: tile %q carries a schedule but is not a moving hazard", t.ID)
		}
	}

	seenEnemy := make(map[string]bool, len(d.Enemies))
	for i := range d.Enemies {
		e := &d.Enemies[i]
		if e.ID == "" {
			return fmt.Errorf("level validation: enemy %d has no id", i)
		}
		if seenEnemy[e.ID] {
			return fmt.Errorf("level validation: duplicate enemy id %q", e.ID)
		}
		seenEnemy[e.ID] = true

		if e.Speed < 0 || e.Speed > MaxEnemySpeed {
			return fmt.Errorf("level validation: enemy %q speed must be within [0,%g], got %g", e.ID, MaxEnemySpeed, e.Speed)
		}
		if e.Range < 0 {
			return fmt.Errorf("level validation: enemy %q patrol range must be non-negative, got %g", e.ID, e.Range)
		}
		switch e.Pattern {
		case PatrolHorizontal, PatrolVertical:
		default:
			return fmt.Errorf("level validation: enemy %q has unknown pattern %q", e.ID, e.Pattern)
		}
	}

	if d.Abilities.Jetpack && d.Abilities.JetpackFuel <= 0 {
		return fmt.Errorf("level validation: jetpack ability requires positive fuel capacity, got %g", d.Abilities.JetpackFuel)
	}
	if d.Difficulty.Min > d.Difficulty.Max {
		return fmt.Errorf("level validation: difficulty band min (%g) exceeds max (%g)", d.Difficulty.Min, d.Difficulty.Max)
	}
	if d.TargetDurationSec < 0 {
		return fmt.Errorf("level validation: target duration must be non-negative, got %g", d.TargetDurationSec)
	}

	return nil
}
