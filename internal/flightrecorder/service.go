// Package flightrecorder keeps a rolling runtime trace in memory and writes it to disk when a remote
// push times out.
package flightrecorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync/atomic"
	"time"
)

const (
	defaultMinAge   = time.Minute
	defaultMaxBytes = 16 << 20
	defaultCooldown = 10 * time.Minute
)

var errInvalidConfig = errors.New("invalid flight recorder config")

// Recorder captures the recent trace window on demand, at most once per cooldown.
type Recorder struct {
	logger      *slog.Logger
	recorder    *trace.FlightRecorder
	dir         string
	cooldown    time.Duration
	now         func() time.Time
	lastCapture atomic.Int64
}

// Config configures a Recorder. Zero durations and sizes fall back to the defaults.
type Config struct {
	Logger   *slog.Logger
	MinAge   time.Duration
	MaxBytes uint64
	Cooldown time.Duration
	// Directory receives the trace files. It is created when missing.
	Directory string
	// Now replaces time.Now.
	Now func() time.Time
}

// New creates a stopped Recorder.
func New(cfg Config) (*Recorder, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("%w: logger is required", errInvalidConfig)
	}
	if cfg.Directory == "" {
		return nil, fmt.Errorf("%w: directory is required", errInvalidConfig)
	}
	if err := os.MkdirAll(cfg.Directory, 0o700); err != nil {
		return nil, fmt.Errorf("create traces directory: %w", err)
	}
	if cfg.MinAge == 0 {
		cfg.MinAge = defaultMinAge
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = defaultCooldown
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Recorder{
		logger:      cfg.Logger,
		recorder:    trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: cfg.MinAge, MaxBytes: cfg.MaxBytes}),
		dir:         cfg.Directory,
		cooldown:    cfg.Cooldown,
		now:         cfg.Now,
		lastCapture: atomic.Int64{},
	}, nil
}

// Start begins recording.
func (r *Recorder) Start(ctx context.Context) error {
	if err := r.recorder.Start(); err != nil {
		return fmt.Errorf("start flight recorder: %w", err)
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("directory", r.dir), slog.Duration("cooldown", r.cooldown))
	return nil
}

// Stop ends recording.
func (r *Recorder) Stop(ctx context.Context) {
	r.recorder.Stop()
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// CapturePushTimeout writes the recorded window to push-timeout-<timestamp>.trace. It returns the
// file path, or "" when the capture was skipped or failed.
func (r *Recorder) CapturePushTimeout(ctx context.Context) string {
	now := r.now()
	last := r.lastCapture.Load()
	if last != 0 && now.Sub(time.Unix(0, last)) < r.cooldown {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture during cooldown",
			slog.Time("last_capture", time.Unix(0, last)))
		return ""
	}
	if !r.lastCapture.CompareAndSwap(last, now.UnixNano()) {
		return ""
	}

	path := filepath.Join(r.dir, "push-timeout-"+now.UTC().Format("20060102-150405.000")+".trace")
	f, err := os.Create(path)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "failed to create trace file",
			slog.String("file", path), slog.Any("error", err))
		return ""
	}
	n, err := r.recorder.WriteTo(f)
	if err = errors.Join(err, f.Close()); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "failed to write trace",
			slog.String("file", path), slog.Any("error", err))
		return ""
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, "captured push timeout trace",
		slog.String("file", path), slog.Int64("bytes", n))
	return path
}
