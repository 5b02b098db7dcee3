// Package score computes a continuous difficulty score for a level and
// tests it against a target band.
//
// The score is a weighted sum of static difficulty factors; it is
// deterministic and monotonic in every factor. The weights are heuristic,
// not derived from a model, so they live in an exported Weights struct
// rather than being baked in as one canonical tuning.
package score

import (
	"math"

	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/precheck"
	"github.com/levelforge/levelforge/sim"
)

// Normalization constants map raw level measurements onto comparable
// unit-ish scales before weighting.
const (
	GapNormal      = 128.0
	SpreadNormal   = 64.0
	HazardNormal   = 256.0
	EnemySpeedNorm = 100.0

	// BandTolerance expands the target band by this fraction on each side
	// before testing membership.
	BandTolerance = 0.10
)

// Weights holds the factor weights of the difficulty score.
type Weights struct {
	MaxGap          float64 `json:"max_gap"`
	MeanGap         float64 `json:"mean_gap"`
	MovingHazards   float64 `json:"moving_hazards"`
	Enemies         float64 `json:"enemies"`
	EnemySpeed      float64 `json:"enemy_speed"`
	VerticalSpread  float64 `json:"vertical_spread"`
	HazardWidth     float64 `json:"hazard_width"`
	TimingTightness float64 `json:"timing_tightness"`
}

// DefaultWeights is the baseline tuning. Callers may adjust individual
// weights; Compute never mutates the struct it is given.
var DefaultWeights = Weights{
	MaxGap:          2.0,
	MeanGap:         1.0,
	MovingHazards:   1.5,
	Enemies:         1.0,
	EnemySpeed:      1.0,
	VerticalSpread:  0.8,
	HazardWidth:     1.2,
	TimingTightness: 2.0,
}

// Result pairs a score with its band membership.
type Result struct {
	Score      float64 `json:"score"`
	WithinBand bool    `json:"within_band"`
}

// Compute returns the difficulty score of a level under the given weights.
func Compute(def *level.Definition, w Weights) float64 {
	gaps := precheck.Gaps(def)
	var maxGap, sumGap float64
	for _, g := range gaps {
		sumGap += g.Width
		if g.Width > maxGap {
			maxGap = g.Width
		}
	}
	meanGap := 0.0
	if len(gaps) > 0 {
		meanGap = sumGap / float64(len(gaps))
	}

	movingHazards := 0
	hazardWidth := 0.0
	tightness := 0.0
	for _, h := range def.HazardTiles() {
		hazardWidth += h.Rect.W
		if h.Kind != level.MovingHazard {
			continue
		}
		movingHazards++
		if h.Schedule != nil && h.Schedule.PeriodTicks > 0 {
			t := 1 - float64(h.Schedule.OpenTicks)/float64(h.Schedule.PeriodTicks)
			if t > tightness {
				tightness = t
			}
		}
	}

	// Speeds are summed, not averaged: adding an enemy must never lower
	// the score, however slow it patrols.
	sumSpeed := 0.0
	for i := range def.Enemies {
		sumSpeed += def.Enemies[i].Speed
	}

	return w.MaxGap*(maxGap/GapNormal) +
		w.MeanGap*(meanGap/GapNormal) +
		w.MovingHazards*float64(movingHazards) +
		w.Enemies*float64(len(def.Enemies)) +
		w.EnemySpeed*(sumSpeed/EnemySpeedNorm) +
		w.VerticalSpread*(verticalSpread(def)/SpreadNormal) +
		w.HazardWidth*(hazardWidth/HazardNormal) +
		w.TimingTightness*tightness
}

// Evaluate computes the score and tests it against the band expanded by
// BandTolerance on each side.
func Evaluate(def *level.Definition, band level.Band, w Weights) Result {
	s := Compute(def, w)
	slack := (band.Max - band.Min) * BandTolerance
	return Result{
		Score:      s,
		WithinBand: s >= band.Min-slack && s <= band.Max+slack,
	}
}

// verticalSpread is the standard deviation of walkable tile top heights.
// Hitbox-scale spread barely registers; multi-platform towers dominate.
func verticalSpread(def *level.Definition) float64 {
	tiles := def.WalkableTiles()
	if len(tiles) < 2 {
		return 0
	}
	mean := 0.0
	for _, t := range tiles {
		mean += t.Rect.Y
	}
	mean /= float64(len(tiles))

	variance := 0.0
	for _, t := range tiles {
		d := t.Rect.Y - mean
		variance += d * d
	}
	variance /= float64(len(tiles))
	return math.Sqrt(variance)
}

// TargetTicks converts a level's target duration to simulation ticks.
func TargetTicks(def *level.Definition) int {
	return int(def.TargetDurationSec * float64(sim.TicksPerSecond))
}
