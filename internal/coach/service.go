// Package coach owns the current plan state of one user.
//
// Service is the single writer: each mutation applies a pure function from the workout or nutrition
// package to the held snapshot, swaps the snapshot, writes it to SQLite together with an outbox row,
// and kicks off a background push of the outbox to the remote store. Local write and push failures are
// logged and never undo the in-memory change.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron"
	"golang.org/x/sync/errgroup"

	"github.com/mulhim/planner/internal/i18n"
	"github.com/mulhim/planner/internal/nutrition"
	"github.com/mulhim/planner/internal/profile"
	"github.com/mulhim/planner/internal/remote"
	"github.com/mulhim/planner/internal/sqlite"
	"github.com/mulhim/planner/internal/workout"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNoPlan       = errors.New("no plan")
	ErrSyncDisabled = errors.New("remote sync is not configured")
	ErrClosed       = errors.New("service closed")
)

// DefaultUserID owns the documents when no user is configured.
const DefaultUserID = "local"

const defaultPushTimeout = 10 * time.Second

// Syncer pushes a document to the remote store.
type Syncer interface {
	Push(ctx context.Context, doc remote.Document) error
}

// Service holds the plan state. All methods are safe for concurrent use.
type Service struct {
	repo        *sqliteRepository
	gen         *workout.Generator
	syncer      Syncer
	logger      *slog.Logger
	lang        i18n.Language
	userID      string
	now         func() time.Time
	pushTimeout time.Duration
	onTimeout   func(context.Context)

	mu            sync.Mutex
	closed        bool
	profile       *profile.FitnessProfile
	plan          *workout.WeeklyPlan
	assessment    *nutrition.NutritionAssessment
	nutritionPlan *nutrition.NutritionPlan
	mealPlan      *nutrition.WeeklyMealPlan
	groceries     *nutrition.GroceryList

	// flushMu serializes outbox flushes.
	flushMu  sync.Mutex
	pushes   sync.WaitGroup
	baseCtx  context.Context //nolint:containedctx // scopes background pushes to the service lifetime.
	cancel   context.CancelFunc
	schedule *cron.Cron
}

// Option configures a Service.
type Option func(*Service)

// WithSyncer enables pushing the outbox to s. Without a syncer documents stay queued.
func WithSyncer(s Syncer) Option {
	return func(svc *Service) { svc.syncer = s }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(svc *Service) { svc.logger = logger }
}

// WithLanguage sets the language of generated recommendations.
func WithLanguage(lang i18n.Language) Option {
	return func(svc *Service) { svc.lang = lang }
}

// WithUserID sets the owner of the stored documents.
func WithUserID(id string) Option {
	return func(svc *Service) { svc.userID = id }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// WithPushTimeout bounds a single remote push.
func WithPushTimeout(d time.Duration) Option {
	return func(svc *Service) { svc.pushTimeout = d }
}

// WithPushTimeoutHook registers fn to run when a push exceeds the push timeout.
func WithPushTimeoutHook(fn func(ctx context.Context)) Option {
	return func(svc *Service) { svc.onTimeout = fn }
}

// New creates a Service storing documents in db and generating workouts with gen.
// Call Load to restore the persisted state and Close to wait for background pushes.
func New(db *sqlite.Database, gen *workout.Generator, opts ...Option) *Service {
	svc := &Service{
		gen:         gen,
		logger:      slog.New(slog.DiscardHandler),
		lang:        i18n.DefaultLanguage,
		userID:      DefaultUserID,
		now:         time.Now,
		pushTimeout: defaultPushTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	svc.repo = newSQLiteRepository(db, svc.userID, svc.logger)
	svc.baseCtx, svc.cancel = context.WithCancel(context.Background())
	return svc
}

// Load restores every stored document. Documents that fail to decode or validate are logged and
// treated as absent.
func (s *Service) Load(ctx context.Context) error {
	payloads := make([][]byte, len(allKinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range allKinds {
		g.Go(func() error {
			data, err := s.repo.load(gctx, kind)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			payloads[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, kind := range allKinds {
		if payloads[i] == nil {
			continue
		}
		if err := s.restore(kind, payloads[i]); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "ignoring malformed stored document",
				slog.String("kind", string(kind)), slog.Any("error", err))
		}
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "loaded plan state",
		slog.Bool("profile", s.profile != nil), slog.Bool("week_plan", s.plan != nil),
		slog.Bool("meal_plan", s.mealPlan != nil))
	return nil
}

func (s *Service) restore(kind Kind, data []byte) error {
	switch kind {
	case KindProfile:
		p, err := decode(data, profile.FitnessProfile.Validate)
		if err != nil {
			return err
		}
		s.profile = &p
	case KindWeekPlan:
		p, err := decode(data, workout.WeeklyPlan.Validate)
		if err != nil {
			return err
		}
		s.plan = &p
	case KindNutritionAssessment:
		a, err := decode(data, func(nutrition.NutritionAssessment) error { return nil })
		if err != nil {
			return err
		}
		s.assessment = &a
	case KindNutritionPlan:
		p, err := decode(data, func(nutrition.NutritionPlan) error { return nil })
		if err != nil {
			return err
		}
		s.nutritionPlan = &p
	case KindMealPlan:
		p, err := decode(data, func(nutrition.WeeklyMealPlan) error { return nil })
		if err != nil {
			return err
		}
		p = p.Normalize()
		s.mealPlan = &p
	case KindGroceryList:
		l, err := decode(data, func(nutrition.GroceryList) error { return nil })
		if err != nil {
			return err
		}
		s.groceries = &l
	default:
		return fmt.Errorf("unknown document kind %q", kind)
	}
	return nil
}

func decode[T any](data []byte, validate func(T) error) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode: %w", err)
	}
	if err := validate(v); err != nil {
		return v, fmt.Errorf("validate: %w", err)
	}
	return v, nil
}

// persist writes v locally and queues it for the remote store. It must be called with s.mu held.
func (s *Service) persist(ctx context.Context, kind Kind, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to encode document",
			slog.String("kind", string(kind)), slog.Any("error", err))
		return
	}
	if err = s.repo.save(ctx, kind, payload, s.now()); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to save document locally",
			slog.String("kind", string(kind)), slog.Any("error", err))
		return
	}
	s.kick()
}

// kick flushes the outbox in the background. It must be called with s.mu held.
func (s *Service) kick() {
	if s.syncer == nil || s.closed {
		return
	}
	s.pushes.Go(func() {
		if _, err := s.FlushOutbox(s.baseCtx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.LogAttrs(s.baseCtx, slog.LevelDebug, "background push incomplete", slog.Any("error", err))
		}
	})
}

// StartSchedule flushes the outbox on the given cron spec until Close.
func (s *Service) StartSchedule(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.schedule != nil {
		return errors.New("schedule already started")
	}
	c := cron.New()
	if err := c.AddFunc(spec, func() {
		if _, err := s.FlushOutbox(s.baseCtx); err != nil && !errors.Is(err, ErrSyncDisabled) {
			s.logger.LogAttrs(s.baseCtx, slog.LevelWarn, "scheduled flush incomplete", slog.Any("error", err))
		}
	}); err != nil {
		return fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	c.Start()
	s.schedule = c
	s.logger.LogAttrs(s.baseCtx, slog.LevelInfo, "started outbox schedule", slog.String("schedule", spec))
	return nil
}

// Close stops the schedule and waits for in-flight pushes. Queued documents stay in the outbox.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	schedule := s.schedule
	s.mu.Unlock()
	if schedule != nil {
		schedule.Stop()
	}
	s.pushes.Wait()
	s.cancel()
}

// FlushOutbox pushes every queued document. Failed pushes stay queued with their attempt count raised.
// It returns the number of documents pushed and the joined push errors.
func (s *Service) FlushOutbox(ctx context.Context) (int, error) {
	if s.syncer == nil {
		return 0, ErrSyncDisabled
	}
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	entries, err := s.repo.pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list outbox: %w", err)
	}
	var (
		pushed  int
		pushErr error
	)
	for _, e := range entries {
		if err = s.push(ctx, e); err != nil {
			if ctx.Err() != nil {
				return pushed, errors.Join(pushErr, ctx.Err())
			}
			if errors.Is(err, context.DeadlineExceeded) && s.onTimeout != nil {
				s.onTimeout(ctx)
			}
			s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to push document",
				slog.String("kind", string(e.Kind)),
				slog.Int("attempts", e.Attempts+1),
				slog.Any("error", err))
			if recErr := s.repo.recordFailure(ctx, e, err); recErr != nil {
				return pushed, errors.Join(pushErr, err, recErr)
			}
			pushErr = errors.Join(pushErr, fmt.Errorf("push %s: %w", e.Kind, err))
			continue
		}
		if err = s.repo.acknowledge(ctx, e); err != nil {
			return pushed, errors.Join(pushErr, err)
		}
		pushed++
	}
	if pushed > 0 {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "pushed documents", slog.Int("count", pushed))
	}
	return pushed, pushErr
}

func (s *Service) push(ctx context.Context, e outboxEntry) error {
	ctx, cancel := context.WithTimeout(ctx, s.pushTimeout)
	defer cancel()
	return s.syncer.Push(ctx, remote.Document{
		UserID:    s.userID,
		Kind:      string(e.Kind),
		Payload:   e.Payload,
		UpdatedAt: e.UpdatedAt,
	})
}

// Pending returns the kinds waiting in the outbox.
func (s *Service) Pending(ctx context.Context) ([]Kind, error) {
	entries, err := s.repo.pending(ctx)
	if err != nil {
		return nil, err
	}
	kinds := make([]Kind, len(entries))
	for i, e := range entries {
		kinds[i] = e.Kind
	}
	return kinds, nil
}
