package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/mulhim/planner/internal/catalog"
	"github.com/mulhim/planner/internal/coach"
	"github.com/mulhim/planner/internal/envstruct"
	"github.com/mulhim/planner/internal/errors"
	"github.com/mulhim/planner/internal/flightrecorder"
	"github.com/mulhim/planner/internal/i18n"
	"github.com/mulhim/planner/internal/logging"
	"github.com/mulhim/planner/internal/remote"
	"github.com/mulhim/planner/internal/sqlite"
	"github.com/mulhim/planner/internal/workout"
)

type config struct {
	// SqliteURL is the path to the local database. ":memory:" keeps everything in memory for one command.
	SqliteURL string `env:"PLANNER_SQLITE_URL" envDefault:"./planner.sqlite3"`
	// PostgresURL enables remote sync when set.
	PostgresURL string `env:"PLANNER_POSTGRES_URL" envDefault:""`
	UserID      string `env:"PLANNER_USER_ID" envDefault:"local"`
	Language    string `env:"PLANNER_LANGUAGE" envDefault:"en"`
	// SyncSchedule is the cron spec of the outbox flush run by the daemon command.
	SyncSchedule string `env:"PLANNER_SYNC_SCHEDULE" envDefault:"@every 5m"`
	// Seed makes exercise selection reproducible. 0 picks a random seed.
	Seed        int64         `env:"PLANNER_SEED" envDefault:"0"`
	PushTimeout time.Duration `env:"PLANNER_PUSH_TIMEOUT" envDefault:"10s"`
	// TracesDir enables the flight recorder. A runtime trace is written there when a push times out.
	TracesDir string `env:"PLANNER_TRACES_DIR" envDefault:""`
}

var errUnsupportedLanguage = errors.NewSentinel("unsupported language")

// app bundles what the commands need.
type app struct {
	logger  *slog.Logger
	service *coach.Service
	cfg     config
	lang    i18n.Language
	stdout  io.Writer
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool), args []string,
	stdout io.Writer) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	if lookupEnv, err = withDotenv(lookupEnv); err != nil {
		return errors.Wrap(err, "load .env")
	}
	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}
	lang := i18n.Language(cfg.Language)
	if !i18n.IsSupported(lang) {
		return errors.Wrap(errUnsupportedLanguage, "check language", slog.String("language", cfg.Language))
	}

	cmd, err := lookupCommand(args)
	if err != nil {
		return err
	}
	ctx = logging.WithUser(logging.WithAttrs(ctx, slog.String("command", cmd.name)), cfg.UserID)

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "failed to close db", errors.SlogError(closeErr))
		}
	}()

	genOpts := []workout.Option{workout.WithLanguage(lang), workout.WithLogger(logger)}
	if cfg.Seed != 0 {
		genOpts = append(genOpts, workout.WithSeed(uint64(cfg.Seed))) //nolint:gosec // any bit pattern is a seed.
	}
	svcOpts := []coach.Option{
		coach.WithLogger(logger),
		coach.WithLanguage(lang),
		coach.WithUserID(cfg.UserID),
		coach.WithPushTimeout(cfg.PushTimeout),
	}
	if cfg.TracesDir != "" {
		recorder, frErr := flightrecorder.New(flightrecorder.Config{Logger: logger, Directory: cfg.TracesDir})
		if frErr != nil {
			return errors.Wrap(frErr, "create flight recorder")
		}
		if frErr = recorder.Start(ctx); frErr != nil {
			return errors.Wrap(frErr, "start flight recorder")
		}
		defer recorder.Stop(ctx)
		svcOpts = append(svcOpts, coach.WithPushTimeoutHook(func(ctx context.Context) {
			recorder.CapturePushTimeout(ctx)
		}))
	}
	if cfg.PostgresURL != "" {
		store, openErr := remote.Open(ctx, cfg.PostgresURL, logger)
		if openErr != nil {
			// Documents stay in the outbox until the remote store is reachable again.
			logger.LogAttrs(ctx, slog.LevelWarn, "remote store unavailable", errors.SlogError(openErr))
		} else {
			defer store.Close()
			svcOpts = append(svcOpts, coach.WithSyncer(store))
		}
	}

	service := coach.New(db, workout.NewGenerator(catalog.Default(), genOpts...), svcOpts...)
	defer service.Close()
	if err = service.Load(ctx); err != nil {
		return errors.Wrap(err, "load state")
	}

	a := &app{logger: logger, service: service, cfg: cfg, lang: lang, stdout: stdout}
	if err = cmd.run(ctx, a, args[1:]); err != nil {
		return errors.Wrap(err, cmd.name)
	}
	return nil
}

// withDotenv falls back to the variables of the file named by PLANNER_ENV_FILE, ".env" by default.
// Variables already set in the environment win. A missing file is ignored.
func withDotenv(lookupEnv func(string) (string, bool)) (func(string) (string, bool), error) {
	path, ok := lookupEnv("PLANNER_ENV_FILE")
	if !ok {
		path = ".env"
	}
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return lookupEnv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return func(key string) (string, bool) {
		if v, found := lookupEnv(key); found {
			return v, true
		}
		v, found := vars[key]
		return v, found
	}, nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelInfo,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv, os.Args[1:], os.Stdout); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "command failed", errors.SlogError(err))
		os.Exit(1)
	}
}
