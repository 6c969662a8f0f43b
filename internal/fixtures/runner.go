package fixtures

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/rankview/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o644
)

// Run generates, verifies and writes a dataset, then probes BaseURL when set.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	gen := NewGenerator(seed)

	logger.Get().Info(ctx, "generating players",
		logger.Int("ranked", config.Ranked),
		logger.Int("vanilla", config.Vanilla),
		logger.Float64("malformed", config.Malformed),
		logger.Any("seed", seed),
		logger.String("output", config.OutputFile))

	ds, err := gen.Dataset(ctx, config.Ranked, config.Vanilla)
	if err != nil {
		return stats, fmt.Errorf("generation failed: %w", err)
	}
	if err := Verify(ds); err != nil {
		return stats, fmt.Errorf("verification failed: %w", err)
	}
	stats.Generated = config.Ranked + config.Vanilla
	logDataset(ctx, ds, config.Verbose)

	doc, damaged, err := gen.Encode(ds, config.Malformed)
	if err != nil {
		return stats, fmt.Errorf("encoding failed: %w", err)
	}
	if err := VerifyDocument(doc, ds); err != nil {
		return stats, fmt.Errorf("document verification failed: %w", err)
	}
	stats.Malformed = damaged
	stats.Bytes = len(doc)

	if err := writeFile(config.OutputFile, doc); err != nil {
		return stats, err
	}
	logger.Get().Info(ctx, "dataset saved to file", logger.String("filename", config.OutputFile))

	if config.BaseURL != "" {
		if err := Probe(ctx, config.BaseURL, config.Timeout, ds); err != nil {
			return stats, err
		}
		stats.Probed = true
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func writeFile(filename string, data []byte) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("malformed", stats.Malformed),
		logger.Int("bytes", stats.Bytes),
		logger.Bool("probed", stats.Probed),
		logger.Duration("duration", stats.Duration))
}
