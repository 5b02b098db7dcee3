package pathfind

import (
	"container/heap"
	"math"
	"time"

	"github.com/levelforge/levelforge/action"
	"github.com/levelforge/levelforge/diag"
	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/precheck"
	"github.com/levelforge/levelforge/sim"
)

// Default search budgets. The search checks both every main-loop iteration,
// so it always terminates within its configured ceiling.
const (
	DefaultMaxNodes = 200000
	DefaultTimeout  = 5 * time.Second
)

// Options bounds one search.
type Options struct {
	MaxNodes int
	Timeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Result is the outcome of one search. On success, Commands holds the
// delta-encoded input stream that reaches the exit with zero hazard
// contact. On failure, Reason is one of timeout, node_limit, or no_path,
// and BestX/BestY locate the furthest frontier the search reached, which
// the tuner uses to place conservative bridges.
type Result struct {
	OK            bool             `json:"ok"`
	Commands      []sim.InputDelta `json:"action_sequence,omitempty"`
	Reason        diag.Reason      `json:"failure_reason,omitempty"`
	NodesExpanded int              `json:"nodes_expanded"`
	ElapsedMs     int64            `json:"elapsed_ms"`
	BestX         float64          `json:"best_x"`
	BestY         float64          `json:"best_y"`
}

// Search runs A* over the simulator's state space from the spawn point to
// the exit sensor. Edges are macro-actions of uniform cost; the heuristic
// is the remaining straight-line x distance in macro units, admissible
// because no macro out-travels an unobstructed full-speed run.
func Search(def *level.Definition, opts Options) Result {
	opts = opts.withDefaults()
	start := time.Now()

	macros := action.Macros(def.Abilities)
	phaseBuckets := phaseBucketsFor(def)
	caps := def.Abilities.Mask()
	killY := sim.KillPlaneY(def)
	gaps := precheck.UnbridgeableGaps(def)
	exitX := def.Exit.X

	root := &node{state: sim.Spawn(def), action: -1}
	root.f = heuristic(root.state, exitX)

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, root)
	best := map[stateKey]int{makeKey(root.state, phaseBuckets, caps): 0}

	result := Result{Reason: diag.NoPath, BestX: root.state.X, BestY: root.state.Y}
	fail := func(reason diag.Reason) Result {
		result.Reason = reason
		result.ElapsedMs = time.Since(start).Milliseconds()
		return result
	}

	for open.Len() > 0 {
		if result.NodesExpanded >= opts.MaxNodes {
			return fail(diag.NodeLimit)
		}
		if time.Since(start) > opts.Timeout {
			return fail(diag.Timeout)
		}

		cur := heap.Pop(open).(*node)
		result.NodesExpanded++
		if cur.state.X > result.BestX {
			result.BestX = cur.state.X
			result.BestY = cur.state.Y
		}

		if sim.ExitReached(def, cur.state) {
			result.OK = true
			result.Reason = ""
			result.Commands = reconstruct(cur, macros)
			result.ElapsedMs = time.Since(start).Milliseconds()
			return result
		}

		for i, m := range macros {
			next, hit := advance(def, cur.state, m.Buttons)
			if hit {
				continue
			}
			if next.Y > killY {
				continue
			}
			if next.FurthestX-next.X > BacktrackTolerance {
				continue
			}
			if oscillates(cur, m.Direction(), next.X) {
				continue
			}
			if crossesUnbridgeable(def.Abilities, gaps, cur.state, next) {
				continue
			}

			g := cur.g + 1
			key := makeKey(next, phaseBuckets, caps)
			if prev, ok := best[key]; ok && prev <= g {
				continue
			}
			best[key] = g

			succ := &node{
				state:  next,
				g:      g,
				f:      float64(g) + heuristic(next, exitX),
				parent: cur,
				action: i,
				dir:    m.Direction(),
			}
			heap.Push(open, succ)
		}
	}

	return fail(diag.NoPath)
}

// advance holds one macro's buttons for MacroTicks simulator steps,
// reporting hazard contact on any intermediate frame.
func advance(def *level.Definition, s sim.PlayerState, b sim.Buttons) (sim.PlayerState, bool) {
	for t := 0; t < action.MacroTicks; t++ {
		var hit bool
		s, hit = sim.Step(def, s, b)
		if hit {
			return s, true
		}
	}
	return s, false
}

// heuristic is the remaining x distance in macro-tick units, assuming an
// unobstructed full-speed run. Never overestimates, so A* stays admissible.
func heuristic(s sim.PlayerState, exitX float64) float64 {
	remaining := exitX - (s.X + sim.PlayerWidth/2)
	if remaining <= 0 {
		return 0
	}
	return remaining / (sim.MaxRunSpeed * sim.Dt * float64(action.MacroTicks))
}

// oscillates discards a direction reversal that made negligible net
// progress over the last few macros. It deliberately rejects some
// valid-but-unusual wiggle maneuvers to keep the search tractable.
func oscillates(cur *node, dir int, nextX float64) bool {
	if dir == 0 || cur.dir != -dir {
		return false
	}
	anc := cur
	for i := 0; i < OscillationWindow && anc.parent != nil; i++ {
		anc = anc.parent
	}
	return math.Abs(nextX-anc.state.X) < OscillationMinProgress
}

// crossesUnbridgeable blocks exploration over gaps wider than the jump
// range. Jetpack levels precompute no such gaps, so sustained flight is
// never blocked.
func crossesUnbridgeable(ab level.AbilitySet, gaps []precheck.Gap, from, to sim.PlayerState) bool {
	if ab.Jetpack || len(gaps) == 0 {
		return false
	}
	cx := to.X + sim.PlayerWidth/2
	for _, g := range gaps {
		if cx > g.X1 && cx < g.X2 {
			return true
		}
	}
	return false
}

// reconstruct walks parent pointers to the root, then delta-encodes the
// macro sequence into a timestamped command stream.
func reconstruct(n *node, macros []action.Macro) []sim.InputDelta {
	var actions []int
	for cur := n; cur.parent != nil; cur = cur.parent {
		actions = append(actions, cur.action)
	}
	// Reverse into root-first order.
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}

	samples := make([]sim.Buttons, len(actions))
	for i, a := range actions {
		samples[i] = macros[a].Buttons
	}
	return sim.EncodeStream(samples, action.MacroTicks)
}
