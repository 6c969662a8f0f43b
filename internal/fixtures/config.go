// Package fixtures generates, encodes and verifies synthetic leaderboard
// datasets for demos and load tests.
package fixtures

import "time"

// Config holds configuration for a generation run.
type Config struct {
	Ranked     int           // players in the ranked channel
	Vanilla    int           // players in the vanilla channel
	Malformed  float64       // fraction of records with a damaged field, in [0,1]
	Seed       uint64        // zero picks a time-based seed
	OutputFile string        // dataset file to write
	BaseURL    string        // optional running service to probe after writing
	Timeout    time.Duration // HTTP timeout for the probe
	Verbose    bool          // log per-channel details
}

// Stats holds run statistics.
type Stats struct {
	Generated int
	Malformed int
	Bytes     int
	Probed    bool
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
