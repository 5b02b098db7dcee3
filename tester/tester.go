// Package tester wires the precheck gate, pathfinder, replay validator,
// and tuner into a bounded repair loop. It is thin glue: every hard
// decision lives in the component packages, and the caller owns the
// repair-round ceiling.
package tester

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/levelforge/levelforge/diag"
	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/pathfind"
	"github.com/levelforge/levelforge/precheck"
	"github.com/levelforge/levelforge/replay"
	"github.com/levelforge/levelforge/score"
	"github.com/levelforge/levelforge/sim"
	"github.com/levelforge/levelforge/tuner"
)

// Phase is one state of the validation loop.
type Phase string

const (
	PhaseGenerated        Phase = "generated"
	PhasePrechecked       Phase = "prechecked"
	PhaseSearching        Phase = "searching"
	PhaseValidatedSuccess Phase = "validated_success"
	PhaseValidatedFailure Phase = "validated_failure"
	PhasePatched          Phase = "patched"
	PhaseExhausted        Phase = "exhausted"
)

// Report is the terminal outcome of one validation run: either a validated
// command stream with its difficulty score, or the failure reason that
// survived every repair round the caller allowed.
type Report struct {
	OK            bool              `json:"ok"`
	Level         *level.Definition `json:"level"`
	Commands      []sim.InputDelta  `json:"action_sequence,omitempty"`
	Reason        diag.Reason       `json:"failure_reason,omitempty"`
	Patches       []tuner.Patch     `json:"patches,omitempty"`
	Rounds        int               `json:"rounds"`
	NodesExpanded int               `json:"nodes_expanded"`
	ElapsedMs     int64             `json:"elapsed_ms"`
	Score         score.Result      `json:"score"`
}

// Tester runs the validation pipeline. Zero value is not usable; construct
// with New.
type Tester struct {
	search  pathfind.Options
	weights score.Weights
	logger  *log.Logger
}

// New creates a tester with the given search budgets. A nil logger
// silences per-round logging.
func New(search pathfind.Options, logger *log.Logger) *Tester {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Tester{
		search:  search,
		weights: score.DefaultWeights,
		logger:  logger,
	}
}

// SetWeights overrides the difficulty weights used for the final score.
func (t *Tester) SetWeights(w score.Weights) { t.weights = w }

// Run validates the level, repairing and retrying up to maxRounds times.
// Each round walks Prechecked -> Searching -> Validated, and a failure at
// any stage feeds its diagnosis to the tuner. The input level is never
// mutated: every repair round works on a fresh copy.
func (t *Tester) Run(def *level.Definition, maxRounds int) Report {
	report := Report{Level: def, Reason: diag.NoPath}
	current := def

	for round := 0; ; round++ {
		report.Rounds = round + 1
		report.Level = current

		if d := precheck.Check(current); d != nil {
			t.logger.Info("precheck rejected level", "round", round, "diagnosis", d.String())
			if !t.patch(&report, &current, d, round, maxRounds) {
				return report
			}
			continue
		}

		res := pathfind.Search(current, t.search)
		report.NodesExpanded += res.NodesExpanded
		report.ElapsedMs += res.ElapsedMs
		if !res.OK {
			d := &diag.Diagnosis{Reason: res.Reason, X: res.BestX, Y: res.BestY}
			t.logger.Info("search failed", "round", round, "reason", res.Reason, "nodes", res.NodesExpanded)
			if !t.patch(&report, &current, d, round, maxRounds) {
				return report
			}
			continue
		}

		maxTicks := replay.MaxTicksFor(res.Commands)
		if target := 2 * score.TargetTicks(current); target > maxTicks {
			maxTicks = target
		}
		out := replay.Run(current, res.Commands, maxTicks)
		if !out.OK {
			t.logger.Info("replay rejected candidate", "round", round, "diagnosis", out.Diagnosis.String())
			if !t.patch(&report, &current, out.Diagnosis, round, maxRounds) {
				return report
			}
			continue
		}

		report.OK = true
		report.Reason = ""
		report.Commands = res.Commands
		report.Score = score.Evaluate(current, current.Difficulty, t.weights)
		t.logger.Info("level validated",
			"round", round,
			"ticks", out.Ticks,
			"score", report.Score.Score,
			"within_band", report.Score.WithinBand)
		return report
	}
}

// patch applies one repair round. It returns false when the loop must
// terminate: either the round budget is spent or the tuner gave up.
func (t *Tester) patch(report *Report, current **level.Definition, d *diag.Diagnosis, round, maxRounds int) bool {
	report.Reason = d.Reason
	if round >= maxRounds {
		t.logger.Warn("repair rounds exhausted", "rounds", round, "reason", d.Reason)
		return false
	}

	patched, patch, ok := tuner.Repair(*current, d)
	if !ok {
		t.logger.Warn("tuner cannot repair", "reason", d.Reason)
		return false
	}

	report.Patches = append(report.Patches, *patch)
	*current = patched
	t.logger.Info("applied repair", "round", round, "op", patch.Op, "patch", patch.Description)
	return true
}
