// Package sim implements the deterministic kinematic simulator the whole
// validation pipeline is built on.
//
// The simulator steps at a fixed 60 Hz; input is sampled at 30 Hz and held
// between samples. Each tick resolves horizontal movement against solid
// tiles, applies gravity and the ability-gated vertical mechanics (buffered
// jumps with coyote grace, the one-shot short fly clamp, continuous jetpack
// thrust), resolves vertical movement, and finally tests the player
// rectangle against hazards and the exit sensor.
//
// Determinism:
//
// Step is a pure function of (level, state, input). There is no hidden
// state, no randomness, and no wall-clock dependence, so a command stream
// replayed against the same level always reproduces the identical run.
// That property is what lets the pathfinder's result be independently
// re-validated and lets a downstream rendering client reproduce the run
// from the delta-encoded stream alone.
//
// Usage:
//
//	state := sim.Spawn(def)
//	cursor := sim.NewCursor(commands)
//	for tick := 0; tick < maxTicks; tick++ {
//		var hit bool
//		state, hit = sim.Step(def, state, cursor.ButtonsAt(tick))
//		if hit || sim.ExitReached(def, state) {
//			break
//		}
//	}
package sim
