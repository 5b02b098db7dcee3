// Package replay independently re-simulates a command stream end-to-end
// through the simulator, bypassing every search heuristic and pruning
// rule. A pathfinder result only counts as a validated run after it
// survives this replay, which guards against search false positives and
// produces the exact-frame diagnosis the tuner consumes.
package replay

import (
	"github.com/levelforge/levelforge/diag"
	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/sim"
)

// ExitGraceTicks extends the replay past the final command so a run whose
// last input leaves the player drifting into the sensor still completes.
const ExitGraceTicks = 120

// Outcome is the result of one replay.
type Outcome struct {
	OK        bool            `json:"ok"`
	Ticks     int             `json:"ticks"`
	Final     sim.PlayerState `json:"final_state"`
	Diagnosis *diag.Diagnosis `json:"diagnosis,omitempty"`
}

// MaxTicksFor returns a replay budget for a command stream: the stream's
// span plus the exit grace window.
func MaxTicksFor(commands []sim.InputDelta) int {
	return sim.LastTick(commands) + sim.InputTicks + ExitGraceTicks
}

// Run replays the command stream against the level for at most maxTicks
// ticks. Hazard contact fails the run at the offending frame with the
// offending tile or enemy; enemy contact is classified enemy_unavoidable,
// tile contact hazard. Never reaching the exit sensor yields no_path at
// the final position.
func Run(def *level.Definition, commands []sim.InputDelta, maxTicks int) Outcome {
	if maxTicks <= 0 {
		maxTicks = MaxTicksFor(commands)
	}

	state := sim.Spawn(def)
	cursor := sim.NewCursor(commands)
	killY := sim.KillPlaneY(def)

	if sim.ExitReached(def, state) {
		return Outcome{OK: true, Final: state}
	}

	for tick := 0; tick < maxTicks; tick++ {
		var hit bool
		state, hit = sim.Step(def, state, cursor.ButtonsAt(tick))

		if hit {
			contact, _ := sim.ContactAt(def, state)
			return Outcome{
				Ticks:     state.Tick,
				Final:     state,
				Diagnosis: contactDiagnosis(state, contact),
			}
		}
		if sim.ExitReached(def, state) {
			return Outcome{OK: true, Ticks: state.Tick, Final: state}
		}
		if state.Y > killY {
			break
		}
	}

	return Outcome{
		Ticks: state.Tick,
		Final: state,
		Diagnosis: &diag.Diagnosis{
			Reason: diag.NoPath,
			X:      state.X,
			Y:      state.Y,
		},
	}
}

func contactDiagnosis(s sim.PlayerState, c sim.Contact) *diag.Diagnosis {
	d := &diag.Diagnosis{X: s.X, Y: s.Y}
	if c.EnemyID != "" {
		d.Reason = diag.EnemyUnavoidable
		d.Enemy = &diag.EnemyDetail{EnemyID: c.EnemyID}
	} else {
		d.Reason = diag.HazardContact
		d.Hazard = &diag.HazardDetail{TileID: c.TileID}
	}
	return d
}
