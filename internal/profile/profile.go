// Package profile defines the user attributes plan generation is derived from.
package profile

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile is returned by Validate when a profile cannot drive plan generation.
var ErrInvalidProfile = errors.New("invalid profile")

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

type Goal string

const (
	FatLoss        Goal = "fat_loss"
	MuscleGain     Goal = "muscle_gain"
	GeneralFitness Goal = "general_fitness"
)

type FitnessLevel string

const (
	Beginner     FitnessLevel = "beginner"
	Intermediate FitnessLevel = "intermediate"
	Advanced     FitnessLevel = "advanced"
)

type ActivityLevel string

const (
	ActivityNone     ActivityLevel = "none"
	ActivityLight    ActivityLevel = "light"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
)

type TrainingLocation string

const (
	Gym              TrainingLocation = "gym"
	Home             TrainingLocation = "home"
	MinimalEquipment TrainingLocation = "minimal_equipment"
)

const maxAvailableDays = 7

// FitnessProfile holds the attributes a weekly plan and a nutrition plan are derived from.
type FitnessProfile struct {
	Gender           Gender           `json:"gender"`
	Age              int              `json:"age"`
	Height           float64          `json:"height"`
	Weight           float64          `json:"weight"`
	Goal             Goal             `json:"goal"`
	FitnessLevel     FitnessLevel     `json:"fitnessLevel,omitempty"`
	ActivityLevel    ActivityLevel    `json:"activityLevel"`
	AvailableDays    int              `json:"availableDays"`
	TrainingLocation TrainingLocation `json:"trainingLocation"`
	// SessionDuration in minutes.
	SessionDuration int `json:"sessionDuration"`
	// Injuries is free text. Plan generation matches keywords in it.
	Injuries string `json:"injuries,omitempty"`
}

// Normalize returns a copy of p with the fitness level derived from the activity level when it is missing.
func (p FitnessProfile) Normalize() FitnessProfile {
	if p.FitnessLevel != "" {
		return p
	}
	switch p.ActivityLevel {
	case ActivityNone, ActivityLight:
		p.FitnessLevel = Beginner
	case ActivityModerate:
		p.FitnessLevel = Intermediate
	case ActivityHigh:
		p.FitnessLevel = Advanced
	default:
		p.FitnessLevel = Advanced
	}
	return p
}

// Validate reports every problem with the profile, each wrapping ErrInvalidProfile.
func (p FitnessProfile) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidProfile, fmt.Sprintf(format, args...)))
	}

	switch p.Gender {
	case Male, Female:
	default:
		invalid("gender %q", p.Gender)
	}
	switch p.Goal {
	case FatLoss, MuscleGain, GeneralFitness:
	default:
		invalid("goal %q", p.Goal)
	}
	switch p.FitnessLevel {
	case "", Beginner, Intermediate, Advanced:
	default:
		invalid("fitness level %q", p.FitnessLevel)
	}
	switch p.ActivityLevel {
	case ActivityNone, ActivityLight, ActivityModerate, ActivityHigh:
	default:
		invalid("activity level %q", p.ActivityLevel)
	}
	switch p.TrainingLocation {
	case Gym, Home, MinimalEquipment:
	default:
		invalid("training location %q", p.TrainingLocation)
	}
	if p.Age <= 0 {
		invalid("age %d", p.Age)
	}
	if p.Height <= 0 {
		invalid("height %g", p.Height)
	}
	if p.Weight <= 0 {
		invalid("weight %g", p.Weight)
	}
	if p.AvailableDays < 0 || p.AvailableDays > maxAvailableDays {
		invalid("available days %d", p.AvailableDays)
	}
	if p.SessionDuration < 0 {
		invalid("session duration %d", p.SessionDuration)
	}

	return errors.Join(errs...)
}

// BMI returns the body mass index, weight in kg over height in metres squared.
func (p FitnessProfile) BMI() float64 {
	if p.Height <= 0 {
		return 0
	}
	m := p.Height / 100 //nolint:mnd // cm to m
	return p.Weight / (m * m)
}
