package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"breach-tactics/server/config"
	"breach-tactics/server/engine"
	"breach-tactics/server/scenario"
)

func main() {
	var (
		levelPath  string
		configPath string
		turns      int
		asJSON     bool
		quiet      bool
	)
	flag.StringVar(&levelPath, "level", "levels/level1.txt", "scenario file to run")
	flag.StringVar(&configPath, "config", "", "path to a YAML config file (optional)")
	flag.IntVar(&turns, "turns", 20, "maximum number of turns")
	flag.BoolVar(&asJSON, "json", false, "print each turn report as a JSON line")
	flag.BoolVar(&quiet, "quiet", false, "print only the final state")
	flag.Parse()

	if turns <= 0 {
		fmt.Println("error: -turns must be > 0")
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	e, err := scenario.LoadFile(levelPath, cfg.Rules)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outcome := run(e, turns, os.Stdout, asJSON, quiet)
	if outcome != engine.OutcomeWon {
		os.Exit(1)
	}
}

// run ends turns without moving any mech until the game is decided or the
// turn limit is reached, printing each state
func run(e *engine.Engine, turns int, w io.Writer, asJSON, quiet bool) engine.Outcome {
	enc := json.NewEncoder(w)
	if !quiet && !asJSON {
		fmt.Fprintf(w, "== start ==\n%s\n", e)
	}
	for e.Outcome() == engine.OutcomeOngoing && e.Turn() < turns {
		report := e.EndTurn()
		switch {
		case quiet:
		case asJSON:
			_ = enc.Encode(report)
		default:
			fmt.Fprintf(w, "== turn %d: %d hits, %d deaths, %d moves ==\n%s\n",
				report.Turn, len(report.Hits), len(report.Deaths), len(report.Moves), e)
		}
	}
	outcome := e.Outcome()
	if quiet {
		fmt.Fprintf(w, "%s\n", e)
	}
	fmt.Fprintf(w, "outcome: %s after %d turns\n", outcome, e.Turn())
	return outcome
}
