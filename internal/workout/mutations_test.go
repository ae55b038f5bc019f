package workout_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mulhim/planner/internal/catalog"
	"github.com/mulhim/planner/internal/ptr"
	"github.com/mulhim/planner/internal/workout"
)

func testSession(t *testing.T) workout.WorkoutSession {
	t.Helper()
	return newTestGenerator(t).WeeklyPlan(t.Context(), testProfile(), wednesday).Sessions[0]
}

func TestToggleExerciseCompletion_Pairing(t *testing.T) {
	s := testSession(t)
	for _, e := range s.Exercises {
		once, err := workout.ToggleExerciseCompletion(s, e.ID, wednesday)
		if err != nil {
			t.Fatalf("toggle %s: %v", e.ID, err)
		}
		if !once.IsExerciseCompleted(e.ID) {
			t.Errorf("%s not marked after first toggle", e.ID)
		}
		twice, err := workout.ToggleExerciseCompletion(once, e.ID, wednesday)
		if err != nil {
			t.Fatalf("toggle %s: %v", e.ID, err)
		}
		if diff := cmp.Diff(s, twice); diff != "" {
			t.Errorf("toggle twice changed session (-want +got):\n%s", diff)
		}
	}
	if s.IsExerciseCompleted(s.Exercises[0].ID) {
		t.Error("input session was modified")
	}
}

func TestToggleExerciseCompletion_CompletesSession(t *testing.T) {
	s := testSession(t)
	var err error
	for i, e := range s.Exercises {
		if s.Completed {
			t.Fatalf("completed after %d of %d exercises", i, len(s.Exercises))
		}
		if s, err = workout.ToggleExerciseCompletion(s, e.ID, wednesday); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	if !s.Completed || s.CompletedAt == nil || !s.CompletedAt.Equal(wednesday) {
		t.Fatalf("session should be completed at %s, got %v %v", wednesday, s.Completed, s.CompletedAt)
	}

	later := wednesday.Add(time.Hour)
	s, err = workout.ToggleExerciseCompletion(s, s.Exercises[3].ID, later)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if s.Completed || s.CompletedAt != nil {
		t.Errorf("unmarking one exercise should reopen the session")
	}

	if _, err = workout.ToggleExerciseCompletion(s, "missing", later); !errors.Is(err, workout.ErrExerciseNotFound) {
		t.Errorf("unknown id error = %v, want ErrExerciseNotFound", err)
	}
}

func TestToggleSessionCompletion(t *testing.T) {
	s := testSession(t)
	done := workout.ToggleSessionCompletion(s, wednesday)
	if !done.Completed || len(done.CompletedExercises) != len(s.Exercises) || done.CompletedAt == nil {
		t.Fatalf("session not fully completed: %+v", done)
	}
	for _, e := range s.Exercises {
		if !done.IsExerciseCompleted(e.ID) {
			t.Errorf("%s not marked", e.ID)
		}
	}
	undone := workout.ToggleSessionCompletion(done, wednesday)
	if undone.Completed || len(undone.CompletedExercises) != 0 || undone.CompletedAt != nil {
		t.Errorf("session not cleared: %+v", undone)
	}
}

func TestUpdateExercise(t *testing.T) {
	s := testSession(t)
	id := s.MainExercises()[0].ID
	tests := []struct {
		name    string
		update  workout.ExerciseUpdate
		wantErr error
		check   func(t *testing.T, e workout.WorkoutExercise)
	}{
		{
			name: "merge fields",
			update: workout.ExerciseUpdate{
				Sets: ptr.Ref(5), Reps: ptr.Ref(catalog.Range(6, 8)), Rest: ptr.Ref(120),
				AssignedWeight: ptr.Ref("62.5 kg"),
			},
			check: func(t *testing.T, e workout.WorkoutExercise) {
				t.Helper()
				if e.Sets != 5 || e.Reps != catalog.Range(6, 8) || e.Rest != 120 || e.AssignedWeight != "62.5 kg" {
					t.Errorf("not merged: %+v", e)
				}
			},
		},
		{
			name:   "partial keeps other fields",
			update: workout.ExerciseUpdate{Sets: ptr.Ref(2)},
			check: func(t *testing.T, e workout.WorkoutExercise) {
				t.Helper()
				orig, _ := s.Exercise(id)
				if e.Sets != 2 || e.Reps != orig.Reps || e.Rest != orig.Rest {
					t.Errorf("unexpected change: %+v", e)
				}
			},
		},
		{name: "zero sets", update: workout.ExerciseUpdate{Sets: ptr.Ref(0)}, wantErr: workout.ErrInvalidPrescription},
		{name: "negative rest", update: workout.ExerciseUpdate{Rest: ptr.Ref(-15)}, wantErr: workout.ErrInvalidPrescription},
		{
			name:    "inverted range",
			update:  workout.ExerciseUpdate{Reps: &catalog.Reps{Min: 12, Max: 8}},
			wantErr: workout.ErrInvalidPrescription,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := workout.UpdateExercise(s, id, tt.update)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateExercise() error = %v, want %v", err, tt.wantErr)
			}
			if tt.check != nil {
				e, _ := got.Exercise(id)
				tt.check(t, e)
			}
		})
	}

	if _, err := workout.UpdateExercise(s, "missing", workout.ExerciseUpdate{}); !errors.Is(err, workout.ErrExerciseNotFound) {
		t.Errorf("unknown id error = %v", err)
	}
}

func TestAddAndDeleteExercise_KeepOrdering(t *testing.T) {
	gen := newTestGenerator(t)
	plan := gen.WeeklyPlan(t.Context(), testProfile(), wednesday)
	c := catalog.Default()
	plank, _ := c.Lookup("plank")
	warmUp, _ := c.Lookup("warmup-cardio")

	s := plan.Sessions[0]
	var err error
	for range 3 {
		if s, err = workout.AddExercise(s, gen.FromCatalog(plank, testProfile()), gen.NewID()); err != nil {
			t.Fatalf("AddExercise: %v", err)
		}
	}
	n := len(s.Exercises)
	if s.Exercises[n-3].ExerciseID != "plank" || !s.Exercises[n-2].CoolDown() {
		t.Errorf("added exercise not placed before the cool-down block")
	}

	for _, e := range s.MainExercises()[:2] {
		if s, err = workout.DeleteExercise(s, e.ID, wednesday); err != nil {
			t.Fatalf("DeleteExercise: %v", err)
		}
	}

	if _, err = workout.DeleteExercise(s, s.Exercises[0].ID, wednesday); !errors.Is(err, workout.ErrProtectedExercise) {
		t.Errorf("deleting warm-up error = %v, want ErrProtectedExercise", err)
	}
	if _, err = workout.DeleteExercise(s, s.Exercises[len(s.Exercises)-1].ID, wednesday); !errors.Is(err,
		workout.ErrProtectedExercise) {
		t.Errorf("deleting cool-down error = %v, want ErrProtectedExercise", err)
	}
	if _, err = workout.AddExercise(s, gen.FromCatalog(warmUp, testProfile()), gen.NewID()); !errors.Is(err,
		workout.ErrProtectedExercise) {
		t.Errorf("adding warm-up error = %v, want ErrProtectedExercise", err)
	}

	plan.Sessions[0] = s
	if err = plan.Validate(); err != nil {
		t.Errorf("Validate() after mutations: %v", err)
	}
}

func TestAddExercise_FreshIDAndReopensSession(t *testing.T) {
	s := workout.ToggleSessionCompletion(testSession(t), wednesday)
	favorite := s.MainExercises()[0]

	got, err := workout.AddExercise(s, favorite, "fresh-id")
	if err != nil {
		t.Fatalf("AddExercise: %v", err)
	}
	if _, ok := got.Exercise("fresh-id"); !ok {
		t.Fatal("added exercise not found under its fresh id")
	}
	if got.Completed || got.CompletedAt != nil {
		t.Error("adding an exercise should reopen a completed session")
	}
	ids := make([]string, 0, len(got.Exercises))
	for _, e := range got.Exercises {
		ids = append(ids, e.ID)
	}
	slices.Sort(ids)
	if len(slices.Compact(ids)) != len(got.Exercises) {
		t.Error("duplicate exercise ids after adding a favorite")
	}
}

func TestDeleteExercise_CompletesRemaining(t *testing.T) {
	s := testSession(t)
	main := s.MainExercises()
	var err error
	for _, e := range s.Exercises {
		if e.ID == main[0].ID {
			continue
		}
		if s, err = workout.ToggleExerciseCompletion(s, e.ID, wednesday); err != nil {
			t.Fatal(err)
		}
	}
	if s.Completed {
		t.Fatal("session completed too early")
	}
	if s, err = workout.DeleteExercise(s, main[0].ID, wednesday); err != nil {
		t.Fatal(err)
	}
	if !s.Completed || s.CompletedAt == nil {
		t.Error("deleting the only open exercise should complete the session")
	}
}

func TestWeeklyPlan_UpdateSession(t *testing.T) {
	plan := newTestGenerator(t).WeeklyPlan(t.Context(), testProfile(), wednesday)
	id := plan.Sessions[2].ID

	got, err := plan.UpdateSession(id, func(s workout.WorkoutSession) (workout.WorkoutSession, error) {
		return workout.ToggleSessionCompletion(s, wednesday), nil
	})
	if err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	if done, total := got.Progress(); done != 1 || total != 4 {
		t.Errorf("Progress() = %d/%d, want 1/4", done, total)
	}
	if done, _ := plan.Progress(); done != 0 {
		t.Error("original plan was modified")
	}

	if _, err = plan.UpdateSession("missing", nil); !errors.Is(err, workout.ErrSessionNotFound) {
		t.Errorf("missing session error = %v", err)
	}
	wantErr := errors.New("boom")
	_, err = plan.UpdateSession(id, func(workout.WorkoutSession) (workout.WorkoutSession, error) {
		return workout.WorkoutSession{}, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("fn error = %v, want %v", err, wantErr)
	}
}

func TestWeeklyPlan_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *workout.WeeklyPlan)
	}{
		{"duplicate exercise id", func(p *workout.WeeklyPlan) { p.Sessions[1].Exercises[3].ID = p.Sessions[0].Exercises[3].ID }},
		{"duplicate session id", func(p *workout.WeeklyPlan) { p.Sessions[1].ID = p.Sessions[0].ID }},
		{"warm-up moved", func(p *workout.WeeklyPlan) {
			ex := p.Sessions[0].Exercises
			ex[0], ex[3] = ex[3], ex[0]
		}},
		{"cool-down missing", func(p *workout.WeeklyPlan) {
			p.Sessions[0].Exercises = p.Sessions[0].Exercises[:len(p.Sessions[0].Exercises)-1]
		}},
		{"unknown completion mark", func(p *workout.WeeklyPlan) {
			p.Sessions[0].CompletedExercises = []string{"ghost"}
		}},
		{"invalid sets", func(p *workout.WeeklyPlan) { p.Sessions[0].Exercises[2].Sets = 0 }},
		{"missing dates", func(p *workout.WeeklyPlan) { p.StartDate = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := newTestGenerator(t).WeeklyPlan(t.Context(), testProfile(), wednesday)
			tt.mutate(&plan)
			if err := plan.Validate(); !errors.Is(err, workout.ErrInvalidPlan) {
				t.Errorf("Validate() = %v, want ErrInvalidPlan", err)
			}
		})
	}
}

func TestWorkoutExercise_DisplayWeight(t *testing.T) {
	tests := []struct {
		e    workout.WorkoutExercise
		want string
	}{
		{workout.WorkoutExercise{AssignedWeight: "20 kg", Equipment: []catalog.Equipment{catalog.Dumbbells}}, "20 kg"},
		{workout.WorkoutExercise{Equipment: nil}, "-"},
		{workout.WorkoutExercise{Equipment: []catalog.Equipment{catalog.PullupBar}}, "N/A"},
	}
	for _, tt := range tests {
		if got := tt.e.DisplayWeight(); got != tt.want {
			t.Errorf("DisplayWeight() = %q, want %q", got, tt.want)
		}
	}
}
