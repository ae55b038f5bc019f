package coach

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mulhim/planner/internal/profile"
	"github.com/mulhim/planner/internal/workout"
)

// SaveProfile normalizes and validates p and makes it the current profile.
func (s *Service) SaveProfile(ctx context.Context, p profile.FitnessProfile) (profile.FitnessProfile, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return profile.FitnessProfile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
	s.persist(ctx, KindProfile, p)
	return p, nil
}

// Profile returns the current profile.
func (s *Service) Profile() (profile.FitnessProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return profile.FitnessProfile{}, false
	}
	return *s.profile, true
}

// WeeklyPlan returns a copy of the current workout plan.
func (s *Service) WeeklyPlan() (workout.WeeklyPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil {
		return workout.WeeklyPlan{}, false
	}
	return s.plan.Clone(), true
}

// GenerateWeeklyPlan replaces the current plan with a fresh one for this week.
// Without a profile it does nothing and returns nil.
func (s *Service) GenerateWeeklyPlan(ctx context.Context) (*workout.WeeklyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateLocked(ctx), nil
}

// EnsureWeeklyPlan returns the current plan when it covers this week and generates one otherwise.
// Without a profile it returns the stored plan, possibly nil.
func (s *Service) EnsureWeeklyPlan(ctx context.Context) (*workout.WeeklyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start, _ := workout.WeekBounds(s.now())
	if s.plan != nil && (s.plan.StartDate == start.Format(time.DateOnly) || s.profile == nil) {
		p := s.plan.Clone()
		return &p, nil
	}
	return s.generateLocked(ctx), nil
}

func (s *Service) generateLocked(ctx context.Context) *workout.WeeklyPlan {
	if s.profile == nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "no profile, skipping plan generation")
		return nil
	}
	plan := s.gen.WeeklyPlan(ctx, *s.profile, s.now())
	if s.plan != nil && s.plan.StartDate < plan.StartDate {
		plan.WeekNumber = s.plan.WeekNumber + 1
	} else if s.plan != nil {
		plan.WeekNumber = s.plan.WeekNumber
	}
	s.plan = &plan
	s.persist(ctx, KindWeekPlan, plan)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated weekly plan",
		slog.Int("week", plan.WeekNumber), slog.Int("sessions", len(plan.Sessions)))
	out := plan.Clone()
	return &out
}

// updateSession applies fn to one session of the current plan and persists the result.
func (s *Service) updateSession(
	ctx context.Context,
	sessionID string,
	fn func(workout.WorkoutSession) (workout.WorkoutSession, error),
) (workout.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil {
		return workout.WorkoutSession{}, ErrNoPlan
	}
	next, err := s.plan.UpdateSession(sessionID, fn)
	if err != nil {
		return workout.WorkoutSession{}, err
	}
	s.plan = &next
	s.persist(ctx, KindWeekPlan, next)
	sess, _ := next.Session(sessionID)
	return sess, nil
}

// ToggleExerciseCompletion flips an exercise's completion mark.
func (s *Service) ToggleExerciseCompletion(ctx context.Context, sessionID, exerciseID string) (
	workout.WorkoutSession, error) {
	now := s.now()
	return s.updateSession(ctx, sessionID, func(sess workout.WorkoutSession) (workout.WorkoutSession, error) {
		return workout.ToggleExerciseCompletion(sess, exerciseID, now)
	})
}

// ToggleSessionCompletion marks a session done with all its exercises, or reopens it.
func (s *Service) ToggleSessionCompletion(ctx context.Context, sessionID string) (workout.WorkoutSession, error) {
	now := s.now()
	return s.updateSession(ctx, sessionID, func(sess workout.WorkoutSession) (workout.WorkoutSession, error) {
		return workout.ToggleSessionCompletion(sess, now), nil
	})
}

// UpdateExercise changes the prescription of one exercise.
func (s *Service) UpdateExercise(ctx context.Context, sessionID, exerciseID string, u workout.ExerciseUpdate) (
	workout.WorkoutSession, error) {
	return s.updateSession(ctx, sessionID, func(sess workout.WorkoutSession) (workout.WorkoutSession, error) {
		return workout.UpdateExercise(sess, exerciseID, u)
	})
}

// AddExercise inserts a copy of e, such as a favorite, before the cool-down.
func (s *Service) AddExercise(ctx context.Context, sessionID string, e workout.WorkoutExercise) (
	workout.WorkoutSession, error) {
	return s.updateSession(ctx, sessionID, func(sess workout.WorkoutSession) (workout.WorkoutSession, error) {
		return workout.AddExercise(sess, e, s.gen.NewID())
	})
}

// AddCatalogExercise prescribes the catalog exercise for the current profile and inserts it.
func (s *Service) AddCatalogExercise(ctx context.Context, sessionID, catalogID string) (
	workout.WorkoutSession, error) {
	p, ok := s.Profile()
	if !ok {
		return workout.WorkoutSession{}, fmt.Errorf("%w: profile", ErrNotFound)
	}
	e, ok := s.gen.Catalog().Lookup(catalogID)
	if !ok {
		return workout.WorkoutSession{}, fmt.Errorf("%w: %s", workout.ErrExerciseNotFound, catalogID)
	}
	return s.updateSession(ctx, sessionID, func(sess workout.WorkoutSession) (workout.WorkoutSession, error) {
		return workout.AddExercise(sess, s.gen.FromCatalog(e, p), s.gen.NewID())
	})
}

// DeleteExercise removes a main exercise.
func (s *Service) DeleteExercise(ctx context.Context, sessionID, exerciseID string) (workout.WorkoutSession, error) {
	now := s.now()
	return s.updateSession(ctx, sessionID, func(sess workout.WorkoutSession) (workout.WorkoutSession, error) {
		return workout.DeleteExercise(sess, exerciseID, now)
	})
}

// RegenerateSession draws a new main block for the session.
func (s *Service) RegenerateSession(ctx context.Context, sessionID string) (workout.WorkoutSession, error) {
	p, ok := s.Profile()
	if !ok {
		return workout.WorkoutSession{}, fmt.Errorf("%w: profile", ErrNotFound)
	}
	return s.updateSession(ctx, sessionID, func(sess workout.WorkoutSession) (workout.WorkoutSession, error) {
		return s.gen.RegenerateSession(ctx, sess, p), nil
	})
}
