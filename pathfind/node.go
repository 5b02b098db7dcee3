package pathfind

import (
	"math"

	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/sim"
)

// Quantization and pruning constants. These are empirically tuned
// tractability tradeoffs: coarser grids dedup more aggressively and may
// reject rare valid maneuvers, finer grids explode the state space.
const (
	PosQuantum  = 8.0
	VelQuantum  = 40.0
	FuelQuantum = 10.0

	// BacktrackTolerance bounds how far behind the furthest-x reached a
	// successor may regress before it is discarded.
	BacktrackTolerance = 96.0
	// OscillationWindow and OscillationMinProgress discard direction
	// reversals that made negligible net progress over a short window.
	OscillationWindow      = 4
	OscillationMinProgress = 6.0

	// phaseBucketsTimed is the frame-phase discretization used when the
	// level carries timing-sensitive elements (schedules or enemies).
	phaseBucketsTimed = 8
)

// node is one search state. Nodes are owned exclusively by the search and
// discarded after path reconstruction.
type node struct {
	state  sim.PlayerState
	g      int
	f      float64
	parent *node
	action int // macro index taken to reach this node, -1 at the root
	dir    int // horizontal direction of that macro
	index  int // heap bookkeeping
}

// stateKey quantizes a player state for best-cost-seen deduplication.
type stateKey struct {
	x, y     int32
	vx, vy   int16
	phase    uint8
	fuel     uint16
	onGround bool
	shortFly bool
	caps     uint8
}

func makeKey(s sim.PlayerState, phaseBuckets int, caps uint8) stateKey {
	phase := 0
	if phaseBuckets > 1 {
		phase = (s.Tick / sim.InputTicks) % phaseBuckets
	}
	// Fuel capacity is only validated as positive, so huge tanks would
	// wrap the bucket and alias unrelated fuel states.
	fuel := math.Round(s.Fuel / FuelQuantum)
	if fuel > math.MaxUint16 {
		fuel = math.MaxUint16
	}
	return stateKey{
		x:        int32(math.Floor(s.X / PosQuantum)),
		y:        int32(math.Floor(s.Y / PosQuantum)),
		vx:       int16(math.Round(s.VX / VelQuantum)),
		vy:       int16(math.Round(s.VY / VelQuantum)),
		phase:    uint8(phase),
		fuel:     uint16(fuel),
		onGround: s.OnGround,
		shortFly: s.ShortFlyAvailable,
		caps:     caps,
	}
}

// phaseBucketsFor returns the frame-phase discretization for a level:
// timing matters only when something in the level moves on its own.
func phaseBucketsFor(def *level.Definition) int {
	if len(def.Enemies) > 0 {
		return phaseBucketsTimed
	}
	for i := range def.Tiles {
		if def.Tiles[i].Kind == level.MovingHazard {
			return phaseBucketsTimed
		}
	}
	return 1
}

// openHeap is a binary min-heap on f = g + h.
type openHeap []*node

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h openHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *openHeap) Push(x interface{}) { n := x.(*node); n.index = len(*h); *h = append(*h, n) }
func (h *openHeap) Pop() interface{} {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return n
}
