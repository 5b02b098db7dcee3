// Package precheck runs cheap O(tiles) static feasibility checks on level
// geometry before the expensive state-space search. A level that fails
// here is structurally infeasible and would only burn search budget.
package precheck

import (
	"math"
	"sort"

	"github.com/levelforge/levelforge/diag"
	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/sim"
)

const (
	// SafeGapFactor discounts the theoretical jump range; levels are only
	// accepted with gaps that leave this much slack.
	SafeGapFactor = 0.9
	// ShortFlyRangeFactor extends jump range when the short-fly charge is
	// available; it is a single mid-air boost, not sustained flight.
	ShortFlyRangeFactor = 1.5
	// HazardAdjacencySlack is how far (in px) from a hazard's x-range a
	// walkable tile still counts as adjacent.
	HazardAdjacencySlack = 64.0
	// ClearanceSlack is extra head room beyond the player height required
	// for a hazard clearance window.
	ClearanceSlack = 8.0
)

// Gap is a horizontal gap between two adjacent walkable tiles, ordered
// left to right.
type Gap struct {
	FromTileID string
	ToTileID   string
	X1, X2     float64
	Width      float64
}

// MaxJumpDistance returns the ability-adjusted horizontal distance a
// player can clear from a running jump. Jetpack levels report +Inf since
// sustained thrust bridges any gap while fuel lasts.
func MaxJumpDistance(ab level.AbilitySet) float64 {
	if ab.Jetpack {
		return math.Inf(1)
	}
	impulse := sim.JumpImpulse
	if ab.HighJump {
		impulse *= sim.HighJumpFactor
	}
	airtime := 2 * impulse / sim.Gravity
	dist := sim.MaxRunSpeed * airtime
	if ab.ShortFly {
		dist *= ShortFlyRangeFactor
	}
	return dist
}

// MinOpenTicks is the shortest open window that still lets a player cross
// a timed hazard at full run speed.
func MinOpenTicks(h *level.Tile) int {
	crossing := (h.Rect.W + sim.PlayerWidth) / (sim.MaxRunSpeed * sim.Dt)
	return int(math.Ceil(crossing))
}

// SafeGapWidth is the widest gap the tuner aims for when repairing
// gap_too_wide failures: the jump range discounted by SafeGapFactor.
func SafeGapWidth(ab level.AbilitySet) float64 {
	return MaxJumpDistance(ab) * SafeGapFactor
}

// Gaps returns the horizontal gaps between adjacent walkable tiles,
// scanning left to right. Overlapping or abutting tiles produce no gap.
func Gaps(def *level.Definition) []Gap {
	tiles := def.WalkableTiles()
	if len(tiles) < 2 {
		return nil
	}
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].Rect.X < tiles[j].Rect.X })

	var gaps []Gap
	rightmost := tiles[0]
	for _, t := range tiles[1:] {
		edge := rightmost.Rect.Right()
		if t.Rect.X > edge {
			gaps = append(gaps, Gap{
				FromTileID: rightmost.ID,
				ToTileID:   t.ID,
				X1:         edge,
				X2:         t.Rect.X,
				Width:      t.Rect.X - edge,
			})
		}
		if t.Rect.Right() > rightmost.Rect.Right() {
			rightmost = t
		}
	}
	return gaps
}

// UnbridgeableGaps returns the gaps wider than the ability-adjusted jump
// range. The pathfinder refuses to explore across them unless the ability
// set grants sustained flight.
func UnbridgeableGaps(def *level.Definition) []Gap {
	maxJump := MaxJumpDistance(def.Abilities)
	var out []Gap
	for _, g := range Gaps(def) {
		if g.Width > maxJump {
			out = append(out, g)
		}
	}
	return out
}

// Check runs the static gate and returns a diagnosis for the first failed
// check, or nil when the level passes. Checks, in order: a spawn tile
// exists, no adjacent-walkable gap exceeds the jump range, and every
// hazard near walkable ground leaves a clearance window.
func Check(def *level.Definition) *diag.Diagnosis {
	walkable := def.WalkableTiles()
	if len(walkable) == 0 {
		return &diag.Diagnosis{Reason: diag.NoSpawn}
	}

	maxJump := MaxJumpDistance(def.Abilities)
	for _, g := range Gaps(def) {
		if g.Width > maxJump {
			gap := g
			return &diag.Diagnosis{
				Reason: diag.GapTooWide,
				X:      (g.X1 + g.X2) / 2,
				Y:      def.TileByID(g.FromTileID).Rect.Y,
				Gap: &diag.GapDetail{
					FromTileID: gap.FromTileID,
					ToTileID:   gap.ToTileID,
					Width:      gap.Width,
				},
			}
		}
	}

	for _, h := range def.HazardTiles() {
		if d := hazardWindow(def, h); d != nil {
			return d
		}
	}
	return nil
}

// hazardWindow checks that the hazard leaves a passage: a moving hazard
// needs an open window long enough to cross it at full speed, a static
// hazard needs at least one adjacent walkable tile whose standing band it
// does not block. Hazards with no walkable tile nearby are unreachable
// decoration and pass.
func hazardWindow(def *level.Definition, h *level.Tile) *diag.Diagnosis {
	if h.Kind == level.MovingHazard && h.Schedule != nil && h.Schedule.OpenTicks >= MinOpenTicks(h) {
		return nil
	}

	adjacent := false
	for _, w := range def.WalkableTiles() {
		if w.Rect.Right() < h.Rect.X-HazardAdjacencySlack || w.Rect.X > h.Rect.Right()+HazardAdjacencySlack {
			continue
		}
		adjacent = true
		band := standingBand(w)
		if !h.Rect.Intersects(band) {
			return nil
		}
	}
	if !adjacent {
		return nil
	}
	return &diag.Diagnosis{
		Reason: diag.HazardNoWindow,
		X:      h.Rect.CenterX(),
		Y:      h.Rect.Y,
		Hazard: &diag.HazardDetail{TileID: h.ID},
	}
}

// standingBand is the space a player occupies while standing on a tile.
func standingBand(w *level.Tile) level.Rect {
	height := sim.PlayerHeight + ClearanceSlack
	return level.Rect{X: w.Rect.X, Y: w.Rect.Y - height, W: w.Rect.W, H: height}
}
