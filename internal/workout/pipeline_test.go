package workout_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mulhim/planner/internal/catalog"
	"github.com/mulhim/planner/internal/profile"
	"github.com/mulhim/planner/internal/workout"
)

func TestSelectTemplate(t *testing.T) {
	tests := []struct {
		name     string
		activity profile.ActivityLevel
		level    profile.FitnessLevel
		days     int
		want     catalog.TemplateKind
	}{
		{"sedentary always full body", profile.ActivityNone, profile.Advanced, 6, catalog.FullBody},
		{"one day", profile.ActivityModerate, profile.Intermediate, 1, catalog.FullBody},
		{"three days", profile.ActivityHigh, profile.Advanced, 3, catalog.FullBody},
		{"five days advanced high", profile.ActivityHigh, profile.Advanced, 5, catalog.PushPullLegs},
		{"seven days advanced high", profile.ActivityHigh, profile.Advanced, 7, catalog.PushPullLegs},
		{"six days intermediate", profile.ActivityHigh, profile.Intermediate, 6, catalog.UpperLower},
		{"five days advanced moderate", profile.ActivityModerate, profile.Advanced, 5, catalog.UpperLower},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile()
			p.ActivityLevel = tt.activity
			p.FitnessLevel = tt.level
			p.AvailableDays = tt.days
			for range 3 {
				if got := workout.SelectTemplate(p); got != tt.want {
					t.Fatalf("SelectTemplate() = %q, want %q", got, tt.want)
				}
			}
		})
	}
}

func TestSelectTemplate_FourDaysIsUpperLower(t *testing.T) {
	activities := []profile.ActivityLevel{profile.ActivityLight, profile.ActivityModerate, profile.ActivityHigh}
	levels := []profile.FitnessLevel{profile.Beginner, profile.Intermediate, profile.Advanced}
	for _, a := range activities {
		for _, l := range levels {
			p := testProfile()
			p.AvailableDays = 4
			p.ActivityLevel = a
			p.FitnessLevel = l
			if got := workout.SelectTemplate(p); got != catalog.UpperLower {
				t.Errorf("SelectTemplate(%s, %s) = %q, want upper_lower", a, l, got)
			}
		}
	}
}

func exerciseIDs(exercises []catalog.Exercise) []string {
	ids := make([]string, len(exercises))
	for i, e := range exercises {
		ids[i] = e.ID
	}
	return ids
}

func TestFilterByLocation(t *testing.T) {
	group := []catalog.Exercise{
		{ID: "pushups", Equipment: nil},
		{ID: "barbell-bench-press", Equipment: []catalog.Equipment{catalog.Barbell, catalog.Bench}},
		{ID: "dumbbell-press", Equipment: []catalog.Equipment{catalog.Dumbbells}},
		{ID: "cable-fly", Equipment: []catalog.Equipment{catalog.CableMachine}},
		{ID: "diamond-pushups", Equipment: []catalog.Equipment{}},
	}
	tests := []struct {
		loc  profile.TrainingLocation
		want []string
	}{
		{profile.Home, []string{"pushups", "diamond-pushups"}},
		{profile.MinimalEquipment, []string{"pushups", "dumbbell-press", "diamond-pushups"}},
		{profile.Gym, exerciseIDs(group)},
	}
	for _, tt := range tests {
		t.Run(string(tt.loc), func(t *testing.T) {
			got := exerciseIDs(workout.FilterByLocation(group, tt.loc))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterByLocation() mismatch (-want +got):\n%s", diff)
			}
		})
	}
	if len(group) != 5 || group[1].ID != "barbell-bench-press" {
		t.Error("FilterByLocation modified its input")
	}
}

func TestFilterByInjuries(t *testing.T) {
	group := []catalog.Exercise{
		{ID: "barbell-back-squat"}, {ID: "lunges"}, {ID: "barbell-deadlift"}, {ID: "dumbbell-rows"},
		{ID: "overhead-press"}, {ID: "lateral-raises"}, {ID: "plank"},
	}
	tests := []struct {
		injuries string
		want     []string
	}{
		{"", exerciseIDs(group)},
		{"Left KNEE surgery", []string{"barbell-deadlift", "dumbbell-rows", "overhead-press", "lateral-raises", "plank"}},
		{"lower back pain", []string{"barbell-back-squat", "lunges", "overhead-press", "lateral-raises", "plank"}},
		{"shoulder and knee", []string{"barbell-deadlift", "dumbbell-rows", "plank"}},
		{"sprained wrist", exerciseIDs(group)},
	}
	for _, tt := range tests {
		t.Run(tt.injuries, func(t *testing.T) {
			got := exerciseIDs(workout.FilterByInjuries(group, tt.injuries))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterByInjuries() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterPipeline_CanEmptyAGroup(t *testing.T) {
	legs := catalog.Default().Exercises("legs")
	p := testProfile()
	p.TrainingLocation = profile.Home
	got := workout.FilterByInjuries(workout.FilterByLocation(legs, p.TrainingLocation), "knee")
	for _, e := range got {
		if !e.Bodyweight() {
			t.Errorf("%s needs equipment", e.ID)
		}
		if slices.ContainsFunc([]string{"squat", "lunge"}, func(s string) bool { return containsFold(e.ID, s) }) {
			t.Errorf("%s should be excluded for knee injuries", e.ID)
		}
	}
}

func TestPrescribe(t *testing.T) {
	base := catalog.Exercise{
		ID: "barbell-bench-press", Name: "Barbell Bench Press", Sets: 4, Reps: catalog.Range(8, 12), Rest: 90,
		MuscleGroup: "Chest", Equipment: []catalog.Equipment{catalog.Barbell},
		RecommendedWeight: catalog.WeightTable{
			profile.Male:   {profile.Intermediate: "60 kg"},
			profile.Female: {profile.Intermediate: "30 kg"},
		},
	}
	tests := []struct {
		name      string
		goal      profile.Goal
		gender    profile.Gender
		mutate    func(e *catalog.Exercise)
		wantSets  int
		wantReps  catalog.Reps
		wantRest  int
		wantWeigh string
	}{
		{"fat loss", profile.FatLoss, profile.Male, nil, 5, catalog.Range(10, 17), 75, "60 kg"},
		{"fat loss caps sets", profile.FatLoss, profile.Male, func(e *catalog.Exercise) { e.Sets = 5 }, 5,
			catalog.Range(10, 17), 75, "60 kg"},
		{"fat loss floors rest", profile.FatLoss, profile.Female, func(e *catalog.Exercise) { e.Rest = 50 }, 5,
			catalog.Range(10, 17), 45, "30 kg"},
		{"fat loss keeps timed reps", profile.FatLoss, profile.Male,
			func(e *catalog.Exercise) { e.Reps = catalog.Timed(45, "sec") }, 5, catalog.Timed(45, "sec"), 75, "60 kg"},
		{"muscle gain", profile.MuscleGain, profile.Male, nil, 4, catalog.Range(6, 10), 105, "60 kg"},
		{"muscle gain floors reps", profile.MuscleGain, profile.Male,
			func(e *catalog.Exercise) { e.Reps = catalog.Range(5, 8) }, 4, catalog.Range(6, 8), 105, "60 kg"},
		{"muscle gain keeps fixed reps", profile.MuscleGain, profile.Female,
			func(e *catalog.Exercise) { e.Reps = catalog.Count(10) }, 4, catalog.Count(10), 105, "30 kg"},
		{"general fitness", profile.GeneralFitness, profile.Male, nil, 4, catalog.Range(8, 12), 90, "60 kg"},
		{"no weight table", profile.GeneralFitness, profile.Male,
			func(e *catalog.Exercise) { e.RecommendedWeight = nil }, 4, catalog.Range(8, 12), 90, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			if tt.mutate != nil {
				tt.mutate(&e)
			}
			p := testProfile()
			p.Goal = tt.goal
			p.Gender = tt.gender
			p.FitnessLevel = profile.Intermediate
			got := workout.Prescribe(e, p)
			if got.Sets != tt.wantSets || got.Reps != tt.wantReps || got.Rest != tt.wantRest {
				t.Errorf("Prescribe() = %d x %s rest %d, want %d x %s rest %d",
					got.Sets, got.Reps, got.Rest, tt.wantSets, tt.wantReps, tt.wantRest)
			}
			if got.AssignedWeight != tt.wantWeigh {
				t.Errorf("AssignedWeight = %q, want %q", got.AssignedWeight, tt.wantWeigh)
			}
			if got.ExerciseID != e.ID || got.ID != "" {
				t.Errorf("ids = %q/%q, want catalog id and no instance id", got.ExerciseID, got.ID)
			}
		})
	}
}

func TestExerciseCount(t *testing.T) {
	want := map[profile.FitnessLevel]int{profile.Beginner: 2, profile.Intermediate: 3, profile.Advanced: 4}
	for level, n := range want {
		if got := workout.ExerciseCount(level); got != n {
			t.Errorf("ExerciseCount(%s) = %d, want %d", level, got, n)
		}
	}
}
