// Package tuner maps a structured failure diagnosis to a single structural
// level patch. Repair is a pure function: it clones the level it is given,
// applies one edit chosen by the diagnosis reason code, and re-validates
// the result against the level schema. An unrepairable diagnosis yields no
// level at all, never a best-effort invalid one.
package tuner

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/levelforge/levelforge/diag"
	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/precheck"
	"github.com/levelforge/levelforge/sim"
)

// Repair strategy constants. Fixed offsets keep patches predictable and
// every strategy monotonic: repeated rounds move a level strictly toward
// feasibility.
const (
	// HazardDropOffset opens a clearance band above a static hazard.
	HazardDropOffset = sim.PlayerHeight + 12.0
	// EnemySlowFactor scales an unavoidable enemy's speed down.
	EnemySlowFactor = 0.6
	// MinSpeedDelta below which slowing is negligible and the enemy is
	// displaced instead.
	MinSpeedDelta = 5.0
	// EnemyDisplacement is how far an enemy spawn moves from the failure.
	EnemyDisplacement = 96.0
	// MaxTileExtension caps how far a tile is stretched before an
	// intermediate platform is inserted instead.
	MaxTileExtension = 96.0
	// HelperPlatformWidth/Height size synthesized platforms.
	HelperPlatformWidth  = 96.0
	HelperPlatformHeight = 16.0
	// SpawnTileWidth/Height size the ground tile synthesized for levels
	// with no walkable tile at all.
	SpawnTileWidth  = 96.0
	SpawnTileHeight = 32.0
	// OpenWindowMargin scales the minimum crossing time into the repaired
	// open window of a moving hazard.
	OpenWindowMargin = 2
)

// Patch records the single structural edit a repair applied.
type Patch struct {
	ID          string            `json:"id"`
	Op          string            `json:"op"`
	Params      map[string]string `json:"params,omitempty"`
	Description string            `json:"description"`
}

// Repair selects a strategy by the diagnosis reason code and applies it to
// a private deep copy of the level. It returns ok=false when no strategy
// applies or the patched level fails schema validation, meaning further
// repair rounds will not help.
func Repair(def *level.Definition, d *diag.Diagnosis) (*level.Definition, *Patch, bool) {
	if def == nil || d == nil {
		return nil, nil, false
	}

	patched := def.Clone()
	var patch *Patch

	switch d.Reason {
	case diag.GapTooWide:
		patch = repairGap(patched, d)
	case diag.HazardNoWindow, diag.HazardContact:
		patch = repairHazard(patched, d)
	case diag.EnemyUnavoidable:
		patch = repairEnemy(patched, d)
	case diag.NoSpawn:
		patch = synthesizeSpawn(patched)
	case diag.NoPath, diag.Timeout, diag.NodeLimit:
		patch = bridgeToward(patched, d)
	default:
		return nil, nil, false
	}

	if patch == nil {
		return nil, nil, false
	}
	if err := level.Validate(patched); err != nil {
		return nil, nil, false
	}
	return patched, patch, true
}

// repairGap shrinks the offending gap under the safe threshold by
// extending the upstream tile, or inserts a centered intermediate platform
// when the extension would be unreasonably long.
func repairGap(def *level.Definition, d *diag.Diagnosis) *Patch {
	if d.Gap == nil {
		return nil
	}
	from := def.TileByID(d.Gap.FromTileID)
	if from == nil {
		return nil
	}

	safe := precheck.SafeGapWidth(def.Abilities)
	if math.IsInf(safe, 1) {
		return nil
	}
	excess := d.Gap.Width - safe
	if excess <= 0 {
		return nil
	}

	if excess <= MaxTileExtension {
		from.Rect.W += excess
		return newPatch("extend_tile",
			fmt.Sprintf("extended tile %s by %.0fpx to close gap to %s", from.ID, excess, d.Gap.ToTileID),
			map[string]string{"tile": from.ID, "extension": fmt.Sprintf("%.0f", excess)})
	}

	mid := from.Rect.Right() + d.Gap.Width/2
	tile := helperTile(mid, from.Rect.Y)
	def.Tiles = append(def.Tiles, tile)
	return newPatch("insert_platform",
		fmt.Sprintf("inserted platform %s centered in gap %s->%s", tile.ID, d.Gap.FromTileID, d.Gap.ToTileID),
		map[string]string{"tile": tile.ID})
}

// repairHazard opens a clearance window: static hazards shift down by a
// fixed offset, moving hazards get their open window lengthened to the
// minimum required crossing time.
func repairHazard(def *level.Definition, d *diag.Diagnosis) *Patch {
	if d.Hazard == nil {
		return nil
	}
	h := def.TileByID(d.Hazard.TileID)
	if h == nil {
		return nil
	}

	if h.Kind == level.MovingHazard && h.Schedule != nil {
		crossTicks := OpenWindowMargin * precheck.MinOpenTicks(h)
		if crossTicks <= h.Schedule.OpenTicks {
			crossTicks = h.Schedule.OpenTicks + sim.TicksPerSecond/2
		}
		h.Schedule.OpenTicks = crossTicks
		if h.Schedule.PeriodTicks < 2*crossTicks {
			h.Schedule.PeriodTicks = 2 * crossTicks
		}
		return newPatch("widen_hazard_window",
			fmt.Sprintf("lengthened hazard %s open window to %d ticks (period %d)", h.ID, h.Schedule.OpenTicks, h.Schedule.PeriodTicks),
			map[string]string{"tile": h.ID, "open_ticks": fmt.Sprintf("%d", h.Schedule.OpenTicks)})
	}

	h.Rect.Y += HazardDropOffset
	return newPatch("drop_hazard",
		fmt.Sprintf("shifted hazard %s down by %.0fpx to open a clearance band", h.ID, HazardDropOffset),
		map[string]string{"tile": h.ID, "offset": fmt.Sprintf("%.0f", HazardDropOffset)})
}

// repairEnemy slows the offending enemy, or displaces its spawn away from
// the failure location when slowing changes nothing meaningful.
func repairEnemy(def *level.Definition, d *diag.Diagnosis) *Patch {
	if d.Enemy == nil {
		return nil
	}
	e := def.EnemyByID(d.Enemy.EnemyID)
	if e == nil {
		return nil
	}

	slowed := e.Speed * EnemySlowFactor
	if e.Speed-slowed >= MinSpeedDelta {
		e.Speed = slowed
		return newPatch("slow_enemy",
			fmt.Sprintf("scaled enemy %s speed down to %.0f", e.ID, e.Speed),
			map[string]string{"enemy": e.ID, "speed": fmt.Sprintf("%.0f", e.Speed)})
	}

	if e.Pos.X >= d.X {
		e.Pos.X += EnemyDisplacement
	} else {
		e.Pos.X -= EnemyDisplacement
	}
	return newPatch("displace_enemy",
		fmt.Sprintf("moved enemy %s spawn %.0fpx away from the failure", e.ID, EnemyDisplacement),
		map[string]string{"enemy": e.ID, "x": fmt.Sprintf("%.0f", e.Pos.X)})
}

// synthesizeSpawn adds a minimal ground tile at the world origin.
func synthesizeSpawn(def *level.Definition) *Patch {
	tile := level.Tile{
		ID:   patchTileID(),
		Kind: level.Walkable,
		Rect: level.Rect{X: 0, Y: 0, W: SpawnTileWidth, H: SpawnTileHeight},
	}
	def.Tiles = append(def.Tiles, tile)
	return newPatch("synthesize_spawn",
		fmt.Sprintf("synthesized ground tile %s at the world origin", tile.ID),
		map[string]string{"tile": tile.ID})
}

// bridgeToward inserts a helper platform near the gap closest to the
// search frontier, falling back to a conservative platform just past the
// last known failure position.
func bridgeToward(def *level.Definition, d *diag.Diagnosis) *Patch {
	var nearest *precheck.Gap
	bestDist := math.Inf(1)
	gaps := precheck.Gaps(def)
	for i := range gaps {
		mid := (gaps[i].X1 + gaps[i].X2) / 2
		if dist := math.Abs(mid - d.X); dist < bestDist {
			bestDist = dist
			nearest = &gaps[i]
		}
	}

	if nearest != nil {
		from := def.TileByID(nearest.FromTileID)
		tile := helperTile((nearest.X1+nearest.X2)/2, from.Rect.Y)
		def.Tiles = append(def.Tiles, tile)
		return newPatch("bridge_gap",
			fmt.Sprintf("inserted helper platform %s over gap %s->%s", tile.ID, nearest.FromTileID, nearest.ToTileID),
			map[string]string{"tile": tile.ID})
	}

	tile := helperTile(d.X+HelperPlatformWidth/2, d.Y+sim.PlayerHeight+HelperPlatformHeight)
	def.Tiles = append(def.Tiles, tile)
	return newPatch("insert_platform",
		fmt.Sprintf("inserted helper platform %s at the last failure position", tile.ID),
		map[string]string{"tile": tile.ID})
}

// helperTile builds a walkable platform horizontally centered on centerX
// with its top at y.
func helperTile(centerX, y float64) level.Tile {
	return level.Tile{
		ID:   patchTileID(),
		Kind: level.Walkable,
		Rect: level.Rect{
			X: centerX - HelperPlatformWidth/2,
			Y: y,
			W: HelperPlatformWidth,
			H: HelperPlatformHeight,
		},
	}
}

func patchTileID() string {
	return "patch-" + uuid.NewString()[:8]
}

func newPatch(op, description string, params map[string]string) *Patch {
	return &Patch{
		ID:          uuid.NewString(),
		Op:          op,
		Params:      params,
		Description: description,
	}
}
