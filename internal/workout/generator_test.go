package workout_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mulhim/planner/internal/catalog"
	"github.com/mulhim/planner/internal/i18n"
	"github.com/mulhim/planner/internal/profile"
	"github.com/mulhim/planner/internal/testhelpers"
	"github.com/mulhim/planner/internal/workout"
)

// wednesday is 2025-06-11. The week around it starts on Sunday 2025-06-08.
var wednesday = time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC)

func testProfile() profile.FitnessProfile {
	return profile.FitnessProfile{
		Gender:           profile.Male,
		Age:              30,
		Height:           180,
		Weight:           80,
		Goal:             profile.GeneralFitness,
		FitnessLevel:     profile.Intermediate,
		ActivityLevel:    profile.ActivityModerate,
		AvailableDays:    4,
		TrainingLocation: profile.Gym,
		SessionDuration:  60,
		Injuries:         "",
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

// sequentialIDs returns an id source producing prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestGenerator(t *testing.T, opts ...workout.Option) *workout.Generator {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	base := []workout.Option{workout.WithSeed(42), workout.WithIDFunc(sequentialIDs("ex")), workout.WithLogger(logger)}
	return workout.NewGenerator(catalog.Default(), append(base, opts...)...)
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		today     time.Time
		wantStart string
		wantEnd   string
	}{
		{wednesday, "2025-06-08", "2025-06-14"},
		{time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), "2025-06-08", "2025-06-14"},
		{time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC), "2025-06-08", "2025-06-14"},
		{time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), "2024-12-29", "2025-01-04"},
	}
	for _, tt := range tests {
		start, end := workout.WeekBounds(tt.today)
		if start.Weekday() != time.Sunday {
			t.Errorf("start %s is a %s", start, start.Weekday())
		}
		if got := start.Format(time.DateOnly); got != tt.wantStart {
			t.Errorf("WeekBounds(%s) start = %s, want %s", tt.today, got, tt.wantStart)
		}
		if got := end.Format(time.DateOnly); got != tt.wantEnd {
			t.Errorf("WeekBounds(%s) end = %s, want %s", tt.today, got, tt.wantEnd)
		}
	}
}

func TestGenerator_WeeklyPlanInvariants(t *testing.T) {
	ctx := t.Context()
	locations := []profile.TrainingLocation{profile.Gym, profile.Home, profile.MinimalEquipment}
	levels := []profile.FitnessLevel{profile.Beginner, profile.Intermediate, profile.Advanced}
	c := catalog.Default()

	for days := 1; days <= 7; days++ {
		for _, loc := range locations {
			for _, level := range levels {
				name := fmt.Sprintf("%d days %s %s", days, loc, level)
				t.Run(name, func(t *testing.T) {
					p := testProfile()
					p.AvailableDays = days
					p.TrainingLocation = loc
					p.FitnessLevel = level
					p.ActivityLevel = profile.ActivityHigh
					p.Injuries = "bad knee"

					plan := workout.NewGenerator(c, workout.WithSeed(uint64(days))).WeeklyPlan(ctx, p, wednesday)

					if len(plan.Sessions) != days {
						t.Fatalf("sessions = %d, want %d", len(plan.Sessions), days)
					}
					if err := plan.Validate(); err != nil {
						t.Fatalf("Validate(): %v", err)
					}
					if plan.WeekNumber != 1 || plan.StartDate != "2025-06-08" || plan.EndDate != "2025-06-14" {
						t.Errorf("header = %d %s..%s", plan.WeekNumber, plan.StartDate, plan.EndDate)
					}

					tmpl, _ := c.Template(workout.SelectTemplate(p))
					for i, s := range plan.Sessions {
						groups := tmpl.Days[i%len(tmpl.Days)].MuscleGroups
						assertMainBlockFromCandidates(t, s, groups, p)
						if s.Duration != p.SessionDuration || s.Completed || len(s.CompletedExercises) != 0 {
							t.Errorf("session %d not fresh: %+v", i, s)
						}
					}
				})
			}
		}
	}
}

// assertMainBlockFromCandidates checks that every main exercise passed the filters for one of the
// day's groups and that each group contributes at most ExerciseCount exercises.
func assertMainBlockFromCandidates(t *testing.T, s workout.WorkoutSession, groups []string, p profile.FitnessProfile) {
	t.Helper()
	c := catalog.Default()
	perGroup := make(map[string]int)
	for _, e := range s.MainExercises() {
		group := strings.ToLower(e.MuscleGroup)
		perGroup[group]++
		candidates := workout.FilterByInjuries(workout.FilterByLocation(c.Exercises(group), p.TrainingLocation),
			p.Injuries)
		found := false
		for _, cand := range candidates {
			found = found || cand.ID == e.ExerciseID
		}
		if !found {
			t.Errorf("%s is not a filtered candidate of %s", e.ExerciseID, group)
		}
	}
	for group, n := range perGroup {
		if n > workout.ExerciseCount(p.FitnessLevel) {
			t.Errorf("group %s contributed %d exercises", group, n)
		}
		inDay := false
		for _, g := range groups {
			inDay = inDay || g == group
		}
		if !inDay {
			t.Errorf("group %s is not part of the template day %v", group, groups)
		}
	}
}

func TestGenerator_WeeklyPlanIsReproducibleWithSeed(t *testing.T) {
	p := testProfile()
	a := newTestGenerator(t).WeeklyPlan(t.Context(), p, wednesday)
	b := newTestGenerator(t).WeeklyPlan(t.Context(), p, wednesday)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different plans (-a +b):\n%s", diff)
	}
}

func TestGenerator_GymIntermediateUpperLower(t *testing.T) {
	plan := newTestGenerator(t).WeeklyPlan(t.Context(), testProfile(), wednesday)

	wantNames := []string{"Upper Body A", "Lower Body A", "Upper Body B", "Lower Body B"}
	wantDays := []string{"Monday", "Tuesday", "Wednesday", "Thursday"}
	for i, s := range plan.Sessions {
		if s.Name != wantNames[i] || s.Day != wantDays[i] {
			t.Errorf("session %d = %s on %s, want %s on %s", i, s.Name, s.Day, wantNames[i], wantDays[i])
		}
	}
	// Upper A has three groups with three exercises each plus the four fixed entries.
	if got := len(plan.Sessions[0].Exercises); got != 13 {
		t.Errorf("upper A exercises = %d, want 13", got)
	}
	if got := len(plan.Sessions[1].Exercises); got != 10 {
		t.Errorf("lower A exercises = %d, want 10", got)
	}
}

func TestGenerator_ArabicLabels(t *testing.T) {
	p := testProfile()
	p.AvailableDays = 2
	plan := newTestGenerator(t, workout.WithLanguage(i18n.Arabic)).WeeklyPlan(t.Context(), p, wednesday)
	if plan.Sessions[0].Day != "الاثنين" {
		t.Errorf("day = %q, want الاثنين", plan.Sessions[0].Day)
	}
	if plan.Sessions[0].Name != "تمرين كامل الجسم A" {
		t.Errorf("name = %q", plan.Sessions[0].Name)
	}
}

func TestGenerator_RestNotes(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *profile.FitnessProfile)
		wantKeys map[int]string
	}{
		{
			name: "beginner six days",
			mutate: func(p *profile.FitnessProfile) {
				p.FitnessLevel, p.AvailableDays, p.ActivityLevel = profile.Beginner, 6, profile.ActivityLight
			},
			wantKeys: map[int]string{2: "rest.recovery", 5: "rest.recovery"},
		},
		{
			name: "sedentary five days",
			mutate: func(p *profile.FitnessProfile) {
				p.ActivityLevel, p.AvailableDays = profile.ActivityNone, 5
			},
			wantKeys: map[int]string{2: "rest.optional", 4: "rest.optional"},
		},
		{
			name: "beginner fat loss every day",
			mutate: func(p *profile.FitnessProfile) {
				p.FitnessLevel, p.AvailableDays, p.Goal = profile.Beginner, 7, profile.FatLoss
				p.ActivityLevel = profile.ActivityLight
			},
			wantKeys: map[int]string{2: "rest.recovery", 3: "rest.active", 5: "rest.recovery"},
		},
		{
			name: "high activity never",
			mutate: func(p *profile.FitnessProfile) {
				p.FitnessLevel, p.AvailableDays, p.ActivityLevel = profile.Beginner, 7, profile.ActivityHigh
			},
			wantKeys: map[int]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile()
			tt.mutate(&p)
			plan := newTestGenerator(t).WeeklyPlan(t.Context(), p, wednesday)
			for i, s := range plan.Sessions {
				want := ""
				if key, ok := tt.wantKeys[i]; ok {
					want = i18n.Translate(i18n.English, key)
				}
				if s.RestNote != want {
					t.Errorf("session %d rest note = %q, want %q", i, s.RestNote, want)
				}
			}
		})
	}
}

func TestGenerator_HomeVideos(t *testing.T) {
	c := catalog.Default()
	for _, loc := range []profile.TrainingLocation{profile.Home, profile.Gym} {
		p := testProfile()
		p.TrainingLocation = loc
		pushups, _ := c.Lookup("pushups")
		got := newTestGenerator(t).FromCatalog(pushups, p)
		want, _ := c.HomeVideoURL("pushups")
		if loc == profile.Gym {
			want = ""
		}
		if got.VideoURL != want {
			t.Errorf("%s: video = %q, want %q", loc, got.VideoURL, want)
		}
		if got.ID == "" {
			t.Errorf("%s: FromCatalog did not assign an id", loc)
		}
	}
}

func TestGenerator_ZeroDays(t *testing.T) {
	p := testProfile()
	p.AvailableDays = 0
	plan := newTestGenerator(t).WeeklyPlan(t.Context(), p, wednesday)
	if len(plan.Sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(plan.Sessions))
	}
}

func TestGenerator_RegenerateSession(t *testing.T) {
	gen := newTestGenerator(t)
	p := testProfile()
	plan := gen.WeeklyPlan(t.Context(), p, wednesday)
	s := plan.Sessions[1]
	s, err := workout.ToggleExerciseCompletion(s, s.Exercises[2].ID, wednesday)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	got := gen.RegenerateSession(t.Context(), s, p)

	if got.ID != s.ID || got.Day != s.Day || got.Name != s.Name {
		t.Errorf("identity changed: %s/%s/%s", got.ID, got.Day, got.Name)
	}
	if got.Completed || len(got.CompletedExercises) != 0 || got.CompletedAt != nil {
		t.Errorf("completion not reset: %+v", got.CompletedExercises)
	}
	if diff := cmp.Diff(s.Exercises[:2], got.Exercises[:2]); diff != "" {
		t.Errorf("warm-up changed (-want +got):\n%s", diff)
	}
	n := len(got.Exercises)
	if diff := cmp.Diff(s.Exercises[len(s.Exercises)-2:], got.Exercises[n-2:]); diff != "" {
		t.Errorf("cool-down changed (-want +got):\n%s", diff)
	}
	plan.Sessions[1] = got
	if err = plan.Validate(); err != nil {
		t.Errorf("Validate() after regenerate: %v", err)
	}
	assertMainBlockFromCandidates(t, got, []string{"legs", "core"}, p)
	for _, e := range got.MainExercises() {
		if s.IsExerciseCompleted(e.ID) {
			t.Errorf("regenerated exercise reused id %s", e.ID)
		}
	}
}
