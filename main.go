// Command levelforge validates, repairs, scores, and replays procedurally
// generated 2D platformer levels.
//
// Subcommands:
//
//	list     list the level files in a directory
//	check    run the full validation pipeline (precheck, search, replay, repair loop)
//	score    compute the difficulty score and band membership
//	repair   run the repair loop and write the patched level back out
//	replay   re-simulate a command stream, optionally streaming frames over WebSocket
//
// Flags control the level directory, search budgets, repair-round ceiling,
// and debug logging. A .env file in the working directory is honored for
// LEVEL_DIR.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/level/store"
	"github.com/levelforge/levelforge/pathfind"
	"github.com/levelforge/levelforge/replay"
	"github.com/levelforge/levelforge/score"
	"github.com/levelforge/levelforge/sim"
	"github.com/levelforge/levelforge/tester"
	"github.com/levelforge/levelforge/transport/replayws"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "levelforge"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

// defaultLevelDir honors the LEVEL_DIR environment variable, then falls
// back to "levels".
func defaultLevelDir() string {
	if dir := os.Getenv("LEVEL_DIR"); dir != "" {
		return dir
	}
	return "levels"
}

func main() {
	// Load .env if present; a missing file is not an error.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded environment variables from .env file")
	}

	cmd := &cli.Command{
		Name:    AppName,
		Usage:   "validate, repair, and score 2D platformer levels",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: defaultLevelDir(), Usage: "directory containing level files"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				logger.SetLevel(log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			listCommand(),
			checkCommand(),
			scoreCommand(),
			repairCommand(),
			replayCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Fatal(err)
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list the level files in the level directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mgr, err := store.NewManager(cmd.String("dir"))
			if err != nil {
				return err
			}
			infos, err := mgr.List()
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Printf("%-20s %-24s tiles=%-4d enemies=%-3d band=[%.1f,%.1f]\n",
					info.LevelID, info.Name, info.Tiles, info.Enemies, info.BandMin, info.BandMax)
			}
			return nil
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "run the full validation pipeline on a level",
		ArgsUsage: "<level-id>",
		Flags:     pipelineFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			def, err := loadLevelArg(cmd)
			if err != nil {
				return err
			}
			report := newTester(cmd).Run(def, int(cmd.Int("rounds")))
			return printJSON(report)
		},
	}
}

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "compute the difficulty score of a level",
		ArgsUsage: "<level-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			def, err := loadLevelArg(cmd)
			if err != nil {
				return err
			}
			return printJSON(score.Evaluate(def, def.Difficulty, score.DefaultWeights))
		},
	}
}

func repairCommand() *cli.Command {
	flags := append(pipelineFlags(),
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "id to save the repaired level under (defaults to <level-id>-repaired)"},
	)
	return &cli.Command{
		Name:      "repair",
		Usage:     "run the repair loop and save the patched level",
		ArgsUsage: "<level-id>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mgr, err := store.NewManager(cmd.String("dir"))
			if err != nil {
				return err
			}
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("level id is required")
			}
			def, err := mgr.Load(id)
			if err != nil {
				return err
			}

			report := newTester(cmd).Run(def, int(cmd.Int("rounds")))
			if !report.OK {
				return fmt.Errorf("level could not be repaired: %s", report.Reason)
			}
			if len(report.Patches) == 0 {
				logger.Info("level already valid, nothing to save", "level", id)
				return printJSON(report)
			}

			out := cmd.String("out")
			if out == "" {
				out = id + "-repaired"
			}
			if err := mgr.Save(out, report.Level); err != nil {
				return err
			}
			logger.Info("saved repaired level", "level", out, "patches", len(report.Patches))
			return printJSON(report)
		},
	}
}

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "re-simulate a command stream against a level",
		ArgsUsage: "<level-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "commands", Required: true, Usage: "JSON file holding the delta-encoded command stream"},
			&cli.StringFlag{Name: "serve", Usage: "address to stream frames on over WebSocket (e.g. :8080)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			def, err := loadLevelArg(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(cmd.String("commands"))
			if err != nil {
				return fmt.Errorf("failed to read command stream: %w", err)
			}
			var commands []sim.InputDelta
			if err := json.Unmarshal(data, &commands); err != nil {
				return fmt.Errorf("failed to parse command stream: %w", err)
			}

			if addr := cmd.String("serve"); addr != "" {
				return serveReplay(addr, def, commands)
			}
			return printJSON(replay.Run(def, commands, 0))
		},
	}
}

// serveReplay runs a WebSocket hub that re-streams the replay to every
// rendering client that connects on /ws.
func serveReplay(addr string, def *level.Definition, commands []sim.InputDelta) error {
	hub := replayws.NewHub(logger)
	go hub.Run()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, def.Name)
		hub.StreamOnce(def.Name, def, commands, replay.MaxTicksFor(commands), true)
	})

	logger.Info("streaming replay", "addr", addr, "level", def.Name)
	return http.ListenAndServe(addr, nil)
}

func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "rounds", Value: 5, Usage: "maximum repair rounds"},
		&cli.IntFlag{Name: "max-nodes", Value: pathfind.DefaultMaxNodes, Usage: "search node-expansion ceiling"},
		&cli.DurationFlag{Name: "timeout", Value: pathfind.DefaultTimeout, Usage: "search wall-clock budget"},
	}
}

func newTester(cmd *cli.Command) *tester.Tester {
	return tester.New(pathfind.Options{
		MaxNodes: int(cmd.Int("max-nodes")),
		Timeout:  cmd.Duration("timeout"),
	}, logger)
}

func loadLevelArg(cmd *cli.Command) (*level.Definition, error) {
	id := cmd.Args().First()
	if id == "" {
		return nil, fmt.Errorf("level id is required")
	}
	mgr, err := store.NewManager(cmd.String("dir"))
	if err != nil {
		return nil, err
	}
	return mgr.Load(id)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
