package workout

import (
	"slices"
	"strings"

	"github.com/mulhim/planner/internal/catalog"
	"github.com/mulhim/planner/internal/profile"
)

// Prescription adjustment bounds.
const (
	fatLossMaxSets    = 5
	fatLossMinRest    = 45
	fatLossRepsLow    = 2
	fatLossRepsHigh   = 5
	gainRepsDrop      = 2
	gainRepsFloorLow  = 6
	gainRepsFloorHigh = 8
	gainExtraRest     = 15
	fatLossRestCut    = 15
	fullBodyMaxDays   = 3
	upperLowerDays    = 4
	splitMinimumDays  = 5
)

// SelectTemplate picks the split for a profile. Only the activity level, the available days and
// the fitness level take part in the decision.
func SelectTemplate(p profile.FitnessProfile) catalog.TemplateKind {
	switch {
	case p.ActivityLevel == profile.ActivityNone:
		return catalog.FullBody
	case p.AvailableDays <= fullBodyMaxDays:
		return catalog.FullBody
	case p.AvailableDays == upperLowerDays:
		return catalog.UpperLower
	case p.AvailableDays >= splitMinimumDays &&
		p.FitnessLevel == profile.Advanced && p.ActivityLevel == profile.ActivityHigh:
		return catalog.PushPullLegs
	default:
		return catalog.UpperLower
	}
}

//nolint:gochecknoglobals // fixed equipment whitelist.
var minimalEquipment = []catalog.Equipment{catalog.Dumbbells, catalog.ResistanceBands, catalog.PullupBar}

// FilterByLocation keeps the exercises that can be done at the training location.
// Home keeps bodyweight exercises only, minimal equipment also allows dumbbells, bands and a pull-up bar.
func FilterByLocation(exercises []catalog.Exercise, loc profile.TrainingLocation) []catalog.Exercise {
	switch loc {
	case profile.Home:
		return slices.DeleteFunc(slices.Clone(exercises), func(e catalog.Exercise) bool {
			return !e.Bodyweight()
		})
	case profile.MinimalEquipment:
		return slices.DeleteFunc(slices.Clone(exercises), func(e catalog.Exercise) bool {
			for _, eq := range e.Equipment {
				if !slices.Contains(minimalEquipment, eq) {
					return true
				}
			}
			return false
		})
	case profile.Gym:
		return exercises
	default:
		return exercises
	}
}

type injuryRule struct {
	keyword  string
	excluded []string
}

//nolint:gochecknoglobals // fixed rule table.
var injuryRules = []injuryRule{
	{keyword: "knee", excluded: []string{"squat", "lunge"}},
	{keyword: "back", excluded: []string{"deadlift", "row"}},
	{keyword: "shoulder", excluded: []string{"press", "raise"}},
}

// FilterByInjuries drops exercises whose catalog id matches a movement the injury text warns about.
// Matching is by substring on both sides, so it approximates rather than classifies.
func FilterByInjuries(exercises []catalog.Exercise, injuries string) []catalog.Exercise {
	if injuries == "" {
		return exercises
	}
	text := strings.ToLower(injuries)
	return slices.DeleteFunc(slices.Clone(exercises), func(e catalog.Exercise) bool {
		for _, rule := range injuryRules {
			if !strings.Contains(text, rule.keyword) {
				continue
			}
			for _, fragment := range rule.excluded {
				if strings.Contains(e.ID, fragment) {
					return true
				}
			}
		}
		return false
	})
}

// ExerciseCount is how many exercises each muscle group contributes to a session.
func ExerciseCount(level profile.FitnessLevel) int {
	switch level {
	case profile.Beginner:
		return 2 //nolint:mnd // beginner volume
	case profile.Intermediate:
		return 3 //nolint:mnd // intermediate volume
	case profile.Advanced:
		return 4 //nolint:mnd // advanced volume
	default:
		return 4 //nolint:mnd // advanced volume
	}
}

// Prescribe adjusts sets, reps and rest to the goal and assigns the recommended weight.
// The returned exercise has no instance id.
//
// Fat loss adds a set (at most 5), shifts rep ranges up by 2 and 5 and cuts rest by 15 s down to 45 s.
// Muscle gain keeps sets, shifts rep ranges down by 2 with floors of 6 and 8 and adds 15 s of rest.
// Fixed counts and timed holds keep their reps.
func Prescribe(e catalog.Exercise, p profile.FitnessProfile) WorkoutExercise {
	w := WorkoutExercise{
		ID:             "",
		ExerciseID:     e.ID,
		Name:           e.Name,
		Sets:           e.Sets,
		Reps:           e.Reps,
		Rest:           e.Rest,
		MuscleGroup:    e.MuscleGroup,
		Equipment:      slices.Clone(e.Equipment),
		AssignedWeight: e.RecommendedWeight.Lookup(p.Gender, p.FitnessLevel),
		VideoURL:       e.VideoURL,
	}

	switch p.Goal {
	case profile.FatLoss:
		w.Sets = min(e.Sets+1, fatLossMaxSets)
		if e.Reps.IsRange() {
			w.Reps = catalog.Range(e.Reps.Min+fatLossRepsLow, e.Reps.Max+fatLossRepsHigh)
		}
		w.Rest = max(e.Rest-fatLossRestCut, fatLossMinRest)
	case profile.MuscleGain:
		if e.Reps.IsRange() {
			w.Reps = catalog.Range(
				max(e.Reps.Min-gainRepsDrop, gainRepsFloorLow),
				max(e.Reps.Max-gainRepsDrop, gainRepsFloorHigh),
			)
		}
		w.Rest = e.Rest + gainExtraRest
	case profile.GeneralFitness:
	}
	return w
}
