package workout

import (
	"errors"
	"slices"
	"time"

	"github.com/mulhim/planner/internal/catalog"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrExerciseNotFound    = errors.New("exercise not found")
	ErrProtectedExercise   = errors.New("warm-up and cool-down exercises cannot be changed this way")
	ErrInvalidPrescription = errors.New("invalid prescription")
	ErrInvalidPlan         = errors.New("invalid plan")
)

const (
	weightBodyweight   = "-"
	weightNotAvailable = "N/A"
	fixedBlockSize     = 2
)

// WorkoutExercise is a catalog exercise materialized into a session.
//
// ID identifies this instance and is unique within a plan. ExerciseID is the catalog slug it came from.
type WorkoutExercise struct {
	ID             string              `json:"id"`
	ExerciseID     string              `json:"exerciseId"`
	Name           string              `json:"name"`
	Sets           int                 `json:"sets"`
	Reps           catalog.Reps        `json:"reps"`
	Rest           int                 `json:"rest"`
	MuscleGroup    string              `json:"muscleGroup"`
	Equipment      []catalog.Equipment `json:"equipment"`
	AssignedWeight string              `json:"assignedWeight,omitempty"`
	VideoURL       string              `json:"videoUrl,omitempty"`
}

// DisplayWeight renders the assigned weight, "-" for bodyweight exercises and "N/A" when a loaded
// exercise has no recommendation.
func (e WorkoutExercise) DisplayWeight() string {
	switch {
	case e.AssignedWeight != "":
		return e.AssignedWeight
	case len(e.Equipment) == 0:
		return weightBodyweight
	default:
		return weightNotAvailable
	}
}

// WarmUp reports whether the exercise belongs to the opening block.
func (e WorkoutExercise) WarmUp() bool { return e.MuscleGroup == catalog.WarmUpGroup }

// CoolDown reports whether the exercise belongs to the closing block.
func (e WorkoutExercise) CoolDown() bool { return e.MuscleGroup == catalog.CoolDownGroup }

// Protected reports whether the exercise is part of a fixed block.
func (e WorkoutExercise) Protected() bool { return e.WarmUp() || e.CoolDown() }

func (e WorkoutExercise) clone() WorkoutExercise {
	e.Equipment = slices.Clone(e.Equipment)
	return e
}

// WorkoutSession is one training day. Exercises are ordered warm-up block, main block, cool-down block.
type WorkoutSession struct {
	ID                 string            `json:"id"`
	Day                string            `json:"day"`
	Name               string            `json:"name"`
	Exercises          []WorkoutExercise `json:"exercises"`
	Duration           int               `json:"duration"`
	Completed          bool              `json:"completed"`
	CompletedExercises []string          `json:"completedExercises"`
	CompletedAt        *time.Time        `json:"completedAt,omitempty"`
	RestNote           string            `json:"restNote,omitempty"`
}

// Clone returns a deep copy.
func (s WorkoutSession) Clone() WorkoutSession {
	exercises := make([]WorkoutExercise, len(s.Exercises))
	for i, e := range s.Exercises {
		exercises[i] = e.clone()
	}
	s.Exercises = exercises
	s.CompletedExercises = slices.Clone(s.CompletedExercises)
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		s.CompletedAt = &at
	}
	return s
}

// Exercise finds an exercise instance by id.
func (s WorkoutSession) Exercise(id string) (WorkoutExercise, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return WorkoutExercise{}, false
	}
	return s.Exercises[i].clone(), true
}

// IsExerciseCompleted reports whether the exercise instance is marked done.
func (s WorkoutSession) IsExerciseCompleted(id string) bool {
	return slices.Contains(s.CompletedExercises, id)
}

// MainExercises returns the exercises between the warm-up and cool-down blocks.
func (s WorkoutSession) MainExercises() []WorkoutExercise {
	var main []WorkoutExercise
	for _, e := range s.Exercises {
		if !e.Protected() {
			main = append(main, e.clone())
		}
	}
	return main
}

func (s WorkoutSession) indexOf(id string) int {
	return slices.IndexFunc(s.Exercises, func(e WorkoutExercise) bool { return e.ID == id })
}

// WeeklyPlan is the generated training week. Dates are ISO calendar dates and the week starts on Sunday.
type WeeklyPlan struct {
	WeekNumber int              `json:"weekNumber"`
	StartDate  string           `json:"startDate"`
	EndDate    string           `json:"endDate"`
	Sessions   []WorkoutSession `json:"sessions"`
}

// Clone returns a deep copy.
func (p WeeklyPlan) Clone() WeeklyPlan {
	sessions := make([]WorkoutSession, len(p.Sessions))
	for i, s := range p.Sessions {
		sessions[i] = s.Clone()
	}
	p.Sessions = sessions
	return p
}

// Session finds a session by id.
func (p WeeklyPlan) Session(id string) (WorkoutSession, bool) {
	for _, s := range p.Sessions {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return WorkoutSession{}, false
}

// Progress returns the number of completed sessions and the total.
func (p WeeklyPlan) Progress() (int, int) {
	done := 0
	for _, s := range p.Sessions {
		if s.Completed {
			done++
		}
	}
	return done, len(p.Sessions)
}
