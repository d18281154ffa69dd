package plotserver

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultRetention is how long a plot artifact survives after its
	// last modification.
	DefaultRetention = time.Hour

	// DefaultSweepInterval is how often the janitor scans the
	// directory.
	DefaultSweepInterval = 5 * time.Minute
)

// Janitor deletes expired plot artifacts from the shared directory.
// It only ever touches files matching plot_*.png.
type Janitor struct {
	dir       string
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

// NewJanitor creates a janitor for dir. Zero durations select the
// defaults.
func NewJanitor(dir string, retention, interval time.Duration, logger *slog.Logger) *Janitor {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Janitor{dir: dir, retention: retention, interval: interval, logger: logger}
}

// Run sweeps on the configured interval until ctx is cancelled. An
// immediate first sweep clears leftovers from earlier runs.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep(time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			j.sweep(now)
		}
	}
}

// sweep removes artifacts whose mtime is older than the retention
// window. Per-file failures are logged and skipped.
func (j *Janitor) sweep(now time.Time) {
	matches, err := filepath.Glob(filepath.Join(j.dir, "plot_*.png"))
	if err != nil {
		j.logger.Warn("plot sweep failed", "error", err)
		return
	}

	cutoff := now.Add(-j.retention)
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			j.logger.Warn("failed to remove old plot", "file", filepath.Base(path), "error", err)
			continue
		}
		j.logger.Info("removed old plot", "file", filepath.Base(path))
	}
}
