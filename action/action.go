// Package action enumerates the macro-actions legal for an ability set.
//
// A macro-action is a fixed input vector held for MacroTicks simulation
// ticks. Searching over macros instead of raw per-tick inputs shrinks the
// branching factor while keeping every meaningful maneuver expressible.
package action

import (
	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/sim"
)

// MacroTicks is how many simulation ticks each macro-action is held for.
// It matches the simulator's input sample rate, so one macro is exactly
// one input sample.
const MacroTicks = sim.InputTicks

// Macro is one branching unit of the search: a named input vector.
type Macro struct {
	Name    string
	Buttons sim.Buttons
}

// Macros returns the legal macro-actions for an ability set. The base set
// covers grounded movement and jumps; short-fly and jetpack variants are
// appended only when the ability set grants them, so the pathfinder never
// wastes expansions on inputs the simulator would ignore.
func Macros(ab level.AbilitySet) []Macro {
	macros := []Macro{
		{Name: "idle", Buttons: sim.Buttons{}},
		{Name: "left", Buttons: sim.Buttons{Left: true}},
		{Name: "right", Buttons: sim.Buttons{Right: true}},
		{Name: "jump", Buttons: sim.Buttons{Jump: true}},
		{Name: "left+jump", Buttons: sim.Buttons{Left: true, Jump: true}},
		{Name: "right+jump", Buttons: sim.Buttons{Right: true, Jump: true}},
	}

	if ab.ShortFly {
		macros = append(macros,
			Macro{Name: "fly", Buttons: sim.Buttons{Fly: true}},
			Macro{Name: "left+fly", Buttons: sim.Buttons{Left: true, Fly: true}},
			Macro{Name: "right+fly", Buttons: sim.Buttons{Right: true, Fly: true}},
		)
	}
	if ab.Jetpack {
		macros = append(macros,
			Macro{Name: "thrust", Buttons: sim.Buttons{Thrust: true}},
			Macro{Name: "left+thrust", Buttons: sim.Buttons{Left: true, Thrust: true}},
			Macro{Name: "right+thrust", Buttons: sim.Buttons{Right: true, Thrust: true}},
		)
	}
	return macros
}

// Direction reports the horizontal direction of a macro: -1 for left,
// +1 for right, 0 otherwise. The pathfinder's anti-oscillation guard
// compares directions across consecutive macros.
func (m Macro) Direction() int {
	switch {
	case m.Buttons.Left && !m.Buttons.Right:
		return -1
	case m.Buttons.Right && !m.Buttons.Left:
		return 1
	default:
		return 0
	}
}
