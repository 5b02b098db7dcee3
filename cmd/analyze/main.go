// Command analyze prints quick, human-readable heuristics about the level
// files in a directory. It summarizes geometry, gap widths against the
// ability-adjusted jump range, hazard and enemy counts, the difficulty
// score, and the precheck verdict. Handy when eyeballing a batch of
// generated levels before running the full pipeline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/level/store"
	"github.com/levelforge/levelforge/precheck"
	"github.com/levelforge/levelforge/score"
)

func main() {
	dir := flag.String("dir", "levels", "directory containing level files")
	flag.Parse()

	mgr, err := store.NewManager(*dir)
	if err != nil {
		fmt.Printf("Error opening level directory: %v\n", err)
		os.Exit(1)
	}

	infos, err := mgr.List()
	if err != nil {
		fmt.Printf("Error listing levels: %v\n", err)
		os.Exit(1)
	}
	if len(infos) == 0 {
		fmt.Printf("No level files found in %s\n", *dir)
		os.Exit(1)
	}

	for _, info := range infos {
		fmt.Printf("\n=== Analyzing %s ===\n", info.Filename)
		def, err := mgr.Load(info.LevelID)
		if err != nil {
			fmt.Printf("Error loading level: %v\n", err)
			continue
		}
		analyzeLevel(def)
	}
}

func analyzeLevel(def *level.Definition) {
	fmt.Printf("Name: %s\n", def.Name)
	fmt.Printf("Tiles: %d walkable, %d hazard\n", len(def.WalkableTiles()), len(def.HazardTiles()))
	fmt.Printf("Enemies: %d\n", len(def.Enemies))
	fmt.Printf("Exit: (%.0f, %.0f)\n", def.Exit.X, def.Exit.Y)

	maxJump := precheck.MaxJumpDistance(def.Abilities)
	fmt.Printf("Jump range: %.0fpx (high_jump=%v short_fly=%v jetpack=%v)\n",
		maxJump, def.Abilities.HighJump, def.Abilities.ShortFly, def.Abilities.Jetpack)

	gaps := precheck.Gaps(def)
	fmt.Printf("Gaps: %d\n", len(gaps))
	for _, g := range gaps {
		marker := ""
		if g.Width > maxJump {
			marker = "  ⚠️  UNBRIDGEABLE"
		}
		fmt.Printf("  %s -> %s: %.0fpx%s\n", g.FromTileID, g.ToTileID, g.Width, marker)
	}

	result := score.Evaluate(def, def.Difficulty, score.DefaultWeights)
	fmt.Printf("Score: %.2f (band [%.1f,%.1f], within=%v)\n",
		result.Score, def.Difficulty.Min, def.Difficulty.Max, result.WithinBand)

	if d := precheck.Check(def); d != nil {
		fmt.Printf("Precheck: ❌ %s\n", d.String())
	} else {
		fmt.Println("Precheck: ✅ pass")
	}
}
