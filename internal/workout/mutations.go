package workout

import (
	"fmt"
	"slices"
	"time"

	"github.com/mulhim/planner/internal/catalog"
	"github.com/mulhim/planner/internal/ptr"
)

// ExerciseUpdate holds the fields of an exercise a user may edit. Nil fields are left unchanged.
type ExerciseUpdate struct {
	Sets           *int
	Reps           *catalog.Reps
	Rest           *int
	AssignedWeight *string
}

// ToggleExerciseCompletion flips the completion mark of one exercise. The session counts as completed
// once every exercise is marked, and CompletedAt follows that state.
func ToggleExerciseCompletion(s WorkoutSession, exerciseID string, now time.Time) (WorkoutSession, error) {
	if s.indexOf(exerciseID) < 0 {
		return WorkoutSession{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, exerciseID)
	}
	out := s.Clone()
	if i := slices.Index(out.CompletedExercises, exerciseID); i >= 0 {
		out.CompletedExercises = slices.Delete(out.CompletedExercises, i, i+1)
	} else {
		out.CompletedExercises = append(out.CompletedExercises, exerciseID)
	}
	out.refreshCompletion(now)
	return out, nil
}

// ToggleSessionCompletion marks every exercise done, or clears all marks when the session was completed.
func ToggleSessionCompletion(s WorkoutSession, now time.Time) WorkoutSession {
	out := s.Clone()
	out.Completed = !s.Completed
	if out.Completed {
		out.CompletedExercises = make([]string, len(out.Exercises))
		for i, e := range out.Exercises {
			out.CompletedExercises[i] = e.ID
		}
		at := now
		out.CompletedAt = &at
		return out
	}
	out.CompletedExercises = []string{}
	out.CompletedAt = nil
	return out
}

// UpdateExercise merges the non-nil fields of u into the exercise. Sets must stay positive, reps valid
// and rest non-negative.
func UpdateExercise(s WorkoutSession, exerciseID string, u ExerciseUpdate) (WorkoutSession, error) {
	i := s.indexOf(exerciseID)
	if i < 0 {
		return WorkoutSession{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, exerciseID)
	}
	out := s.Clone()
	e := &out.Exercises[i]
	e.Sets = ptr.Deref(u.Sets, e.Sets)
	e.Reps = ptr.Deref(u.Reps, e.Reps)
	e.Rest = ptr.Deref(u.Rest, e.Rest)
	e.AssignedWeight = ptr.Deref(u.AssignedWeight, e.AssignedWeight)
	if err := validatePrescription(*e); err != nil {
		return WorkoutSession{}, err
	}
	return out, nil
}

// AddExercise inserts e at the end of the main block under a fresh id. Fixed-block exercises are rejected.
func AddExercise(s WorkoutSession, e WorkoutExercise, newID string) (WorkoutSession, error) {
	if e.Protected() {
		return WorkoutSession{}, fmt.Errorf("%w: %s", ErrProtectedExercise, e.Name)
	}
	if err := validatePrescription(e); err != nil {
		return WorkoutSession{}, err
	}
	out := s.Clone()
	e = e.clone()
	e.ID = newID
	at := len(out.Exercises)
	for at > 0 && out.Exercises[at-1].CoolDown() {
		at--
	}
	out.Exercises = slices.Insert(out.Exercises, at, e)
	if out.Completed {
		out.Completed = false
		out.CompletedAt = nil
	}
	return out, nil
}

// DeleteExercise removes a main-block exercise and its completion mark.
func DeleteExercise(s WorkoutSession, exerciseID string, now time.Time) (WorkoutSession, error) {
	i := s.indexOf(exerciseID)
	if i < 0 {
		return WorkoutSession{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, exerciseID)
	}
	if s.Exercises[i].Protected() {
		return WorkoutSession{}, fmt.Errorf("%w: %s", ErrProtectedExercise, s.Exercises[i].Name)
	}
	out := s.Clone()
	out.Exercises = slices.Delete(out.Exercises, i, i+1)
	out.CompletedExercises = slices.DeleteFunc(out.CompletedExercises, func(id string) bool { return id == exerciseID })
	out.refreshCompletion(now)
	return out, nil
}

// refreshCompletion derives Completed from the marks and stamps CompletedAt on the transition to done.
func (s *WorkoutSession) refreshCompletion(now time.Time) {
	done := len(s.Exercises) > 0 && len(s.CompletedExercises) == len(s.Exercises)
	switch {
	case done && !s.Completed:
		at := now
		s.CompletedAt = &at
	case !done:
		s.CompletedAt = nil
	}
	s.Completed = done
}

func validatePrescription(e WorkoutExercise) error {
	switch {
	case e.Sets < 1:
		return fmt.Errorf("%w: sets %d", ErrInvalidPrescription, e.Sets)
	case !e.Reps.Valid():
		return fmt.Errorf("%w: reps %q", ErrInvalidPrescription, e.Reps)
	case e.Rest < 0:
		return fmt.Errorf("%w: rest %d", ErrInvalidPrescription, e.Rest)
	}
	return nil
}

// UpdateSession applies fn to the session with the given id and returns the new plan.
// The plan is left untouched when fn fails.
func (p WeeklyPlan) UpdateSession(id string, fn func(WorkoutSession) (WorkoutSession, error)) (WeeklyPlan, error) {
	i := slices.IndexFunc(p.Sessions, func(s WorkoutSession) bool { return s.ID == id })
	if i < 0 {
		return WeeklyPlan{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	updated, err := fn(p.Sessions[i].Clone())
	if err != nil {
		return WeeklyPlan{}, err
	}
	out := p.Clone()
	out.Sessions[i] = updated
	return out, nil
}

// Validate checks that ids are unique across the plan, fixed blocks frame every session and
// completion marks refer to existing exercises.
func (p WeeklyPlan) Validate() error {
	if p.StartDate == "" || p.EndDate == "" {
		return fmt.Errorf("%w: missing week bounds", ErrInvalidPlan)
	}
	sessionIDs := make(map[string]bool, len(p.Sessions))
	exerciseIDs := make(map[string]bool)
	for _, s := range p.Sessions {
		if s.ID == "" || sessionIDs[s.ID] {
			return fmt.Errorf("%w: session id %q empty or repeated", ErrInvalidPlan, s.ID)
		}
		sessionIDs[s.ID] = true
		if err := validateOrder(s); err != nil {
			return err
		}
		for _, e := range s.Exercises {
			if e.ID == "" || exerciseIDs[e.ID] {
				return fmt.Errorf("%w: exercise id %q empty or repeated", ErrInvalidPlan, e.ID)
			}
			exerciseIDs[e.ID] = true
			if err := validatePrescription(e); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidPlan, e.ID, err)
			}
		}
		for _, id := range s.CompletedExercises {
			if s.indexOf(id) < 0 {
				return fmt.Errorf("%w: session %s marks unknown exercise %s", ErrInvalidPlan, s.ID, id)
			}
		}
	}
	return nil
}

func validateOrder(s WorkoutSession) error {
	n := len(s.Exercises)
	if n < 2*fixedBlockSize {
		return fmt.Errorf("%w: session %s has %d exercises", ErrInvalidPlan, s.ID, n)
	}
	for i, e := range s.Exercises {
		head := i < fixedBlockSize
		tail := i >= n-fixedBlockSize
		if e.WarmUp() != head || e.CoolDown() != tail {
			return fmt.Errorf("%w: session %s has %q at position %d", ErrInvalidPlan, s.ID, e.Name, i)
		}
	}
	return nil
}
