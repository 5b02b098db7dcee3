// Package diag defines the closed set of failure reason codes and the
// structured diagnosis passed from the precheck gate, pathfinder, and
// replay validator to the tuner. Failures in the pipeline are values of
// this package, never errors.
package diag

import "fmt"

// Reason is a closed failure code. No component ever invents codes outside
// this set.
type Reason string

const (
	NoSpawn          Reason = "no_spawn"
	GapTooWide       Reason = "gap_too_wide"
	HazardNoWindow   Reason = "hazard_no_window"
	EnemyUnavoidable Reason = "enemy_unavoidable"
	HazardContact    Reason = "hazard"
	Timeout          Reason = "timeout"
	NodeLimit        Reason = "node_limit"
	NoPath           Reason = "no_path"
)

// GapDetail describes the offending gap for a gap_too_wide diagnosis.
type GapDetail struct {
	FromTileID string  `json:"from_tile_id"`
	ToTileID   string  `json:"to_tile_id"`
	Width      float64 `json:"width"`
}

// HazardDetail references the offending hazard tile.
type HazardDetail struct {
	TileID string `json:"tile_id"`
}

// EnemyDetail references the offending enemy.
type EnemyDetail struct {
	EnemyID string `json:"enemy_id"`
}

// Diagnosis is a reason code plus the failure location and reason-specific
// structured detail. At most one detail field is set.
type Diagnosis struct {
	Reason Reason  `json:"reason"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`

	Gap    *GapDetail    `json:"gap,omitempty"`
	Hazard *HazardDetail `json:"hazard,omitempty"`
	Enemy  *EnemyDetail  `json:"enemy,omitempty"`
}

// String renders the diagnosis for logs and CLI output.
func (d *Diagnosis) String() string {
	switch {
	case d == nil:
		return "<nil>"
	case d.Gap != nil:
		return fmt.Sprintf("%s at (%.0f,%.0f): gap %s->%s width %.0f",
			d.Reason, d.X, d.Y, d.Gap.FromTileID, d.Gap.ToTileID, d.Gap.Width)
	case d.Hazard != nil:
		return fmt.Sprintf("%s at (%.0f,%.0f): hazard %s", d.Reason, d.X, d.Y, d.Hazard.TileID)
	case d.Enemy != nil:
		return fmt.Sprintf("%s at (%.0f,%.0f): enemy %s", d.Reason, d.X, d.Y, d.Enemy.EnemyID)
	default:
		return fmt.Sprintf("%s at (%.0f,%.0f)", d.Reason, d.X, d.Y)
	}
}
