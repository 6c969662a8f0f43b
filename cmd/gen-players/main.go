package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/rankview/internal/fixtures"
	"github.com/okian/rankview/pkg/logger"
)

// Default configuration constants.
const (
	defaultRanked  = 5000
	defaultVanilla = 2000
	defaultTimeout = 10 * time.Second
	runTimeout     = 5 * time.Minute
)

func main() {
	var (
		ranked    = flag.Int("ranked", defaultRanked, "Players in the ranked leaderboard")
		vanilla   = flag.Int("vanilla", defaultVanilla, "Players in the vanilla leaderboard")
		malformed = flag.Float64("malformed", 0, "Fraction of records with one damaged field")
		seed      = flag.Uint64("seed", 0, "Generator seed; 0 picks one from the clock")
		output    = flag.String("output", "players.json", "Dataset file")
		baseURL   = flag.String("url", "", "Probe a running service after writing")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP timeout for the probe")
		verbose   = flag.Bool("verbose", false, "Log the top player of each leaderboard")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fixtures.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	config := &fixtures.Config{
		Ranked:     max(0, *ranked),
		Vanilla:    max(0, *vanilla),
		Malformed:  min(1, max(0, *malformed)),
		Seed:       *seed,
		OutputFile: *output,
		BaseURL:    *baseURL,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	if _, err := fixtures.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
