package fixtures

import "os"

// ShowHelp prints usage information for the player generator.
func ShowHelp() {
	os.Stdout.WriteString(`rankview player generator
=========================

Writes a synthetic {"ranked":[...],"vanilla":[...]} dataset for the
leaderboard service and terminal client.

Usage:
  go run ./cmd/gen-players [options]

Options:
  -ranked int
        Players in the ranked leaderboard (default 5000)
  -vanilla int
        Players in the vanilla leaderboard (default 2000)
  -malformed float
        Fraction of records with one damaged field (default 0)
  -seed uint
        Generator seed; 0 picks one from the clock
  -output string
        Dataset file (default "players.json")
  -url string
        Probe a running service after writing, e.g. http://localhost:9080
  -timeout duration
        HTTP timeout for the probe (default 10s)
  -verbose
        Log the top player of each leaderboard
  -help
        Show this help message

Examples:
  # Large demo dataset with a few broken rows
  go run ./cmd/gen-players -ranked 50000 -malformed 0.01

  # Regenerate, reload a running service and check it
  go run ./cmd/gen-players -seed 7 -output data/players.json && kill -HUP $(pgrep rankview)
  go run ./cmd/gen-players -seed 7 -output data/players.json -url http://localhost:9080
`)
}
