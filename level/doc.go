// Package level defines the level data model shared by the whole
// validation pipeline.
//
// A Definition describes one candidate 2D platformer level: walkable and
// hazard tiles, enemies, the exit point, the ability set granted to the
// player, and the target difficulty band. Definitions are treated as
// immutable inputs; the tuner produces fresh definitions via Clone rather
// than editing the one it was handed.
//
// Core Types:
//
// Tile carries level geometry, with an optional HazardSchedule for moving
// hazards. Enemy positions are a pure function of the simulation tick.
// AbilitySet is the explicit capability flag set consumed by the action
// library and the precheck gate.
//
// Usage:
//
//	def, err := store.Load("meadow")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := level.Validate(def); err != nil {
//		log.Fatal(err)
//	}
//	patched := def.Clone()
//
// Validation:
//
// Validate performs the structural schema check: tile dimensions, unique
// IDs, schedule sanity, enemy parameters, and ability constraints. It is
// run when levels are loaded from disk and again on every level the tuner
// emits. Playability (spawn presence, crossable gaps, hazard clearance) is
// the precheck package's job.
package level
