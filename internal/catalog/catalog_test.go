package catalog_test

import (
	"testing"

	"github.com/mulhim/planner/internal/catalog"
	"github.com/mulhim/planner/internal/profile"
)

func TestDefault_Integrity(t *testing.T) {
	c := catalog.Default()
	seen := make(map[string]bool)
	for _, group := range c.MuscleGroups() {
		exercises := c.Exercises(group)
		if len(exercises) == 0 {
			t.Errorf("group %q has no exercises", group)
		}
		for _, ex := range exercises {
			if seen[ex.ID] {
				t.Errorf("duplicate exercise id %q", ex.ID)
			}
			seen[ex.ID] = true
			if ex.Group() != group {
				t.Errorf("%s: filed under %q but muscle group is %q", ex.ID, group, ex.MuscleGroup)
			}
			if ex.Sets < 1 || !ex.Reps.Valid() || ex.Rest < 0 {
				t.Errorf("%s: invalid prescription %d x %s rest %d", ex.ID, ex.Sets, ex.Reps, ex.Rest)
			}
			if !ex.Bodyweight() && ex.RecommendedWeight == nil && ex.Equipment[0] != catalog.PullupBar &&
				ex.Equipment[0] != catalog.ResistanceBands {
				t.Errorf("%s: loaded exercise without a weight table", ex.ID)
			}
		}
	}
}

func TestDefault_TemplatesReferenceKnownGroups(t *testing.T) {
	c := catalog.Default()
	for _, kind := range []catalog.TemplateKind{catalog.FullBody, catalog.UpperLower, catalog.PushPullLegs} {
		tmpl, ok := c.Template(kind)
		if !ok {
			t.Fatalf("template %q missing", kind)
		}
		for _, day := range tmpl.Days {
			for _, group := range day.MuscleGroups {
				if len(c.Exercises(group)) == 0 {
					t.Errorf("template %q references unknown group %q", kind, group)
				}
			}
		}
	}
	if _, ok := c.Template("bro_split"); ok {
		t.Error("unexpected template bro_split")
	}
}

func TestCatalog_ExercisesReturnsCopy(t *testing.T) {
	c := catalog.Default()
	first := c.Exercises("Chest")
	if len(first) == 0 {
		t.Fatal("expected chest exercises with a mixed-case lookup")
	}
	first[0].Sets = 99
	first[0].Name = "changed"
	if again := c.Exercises("chest"); again[0].Sets == 99 || again[0].Name == "changed" {
		t.Error("mutating the returned slice changed the catalog")
	}
}

func TestCatalog_Lookup(t *testing.T) {
	c := catalog.Default()
	bench, ok := c.Lookup("barbell-bench-press")
	if !ok {
		t.Fatal("barbell-bench-press not found")
	}
	if got := bench.RecommendedWeight.Lookup(profile.Female, profile.Advanced); got != "45 kg" {
		t.Errorf("recommended weight = %q, want 45 kg", got)
	}
	if _, ok = c.Lookup("warmup-cardio"); !ok {
		t.Error("warm-up stub should be resolvable")
	}
	if _, ok = c.Lookup("does-not-exist"); ok {
		t.Error("unexpected hit for unknown id")
	}
	if u, ok := c.HomeVideoURL("pushups"); !ok || u == "" {
		t.Error("pushups should have a home video")
	}
}

func TestFixedBlocks(t *testing.T) {
	for _, e := range catalog.WarmUp() {
		if e.MuscleGroup != catalog.WarmUpGroup || !e.Bodyweight() || e.Rest != 0 {
			t.Errorf("warm-up %s malformed: %+v", e.ID, e)
		}
	}
	for _, e := range catalog.CoolDown() {
		if e.MuscleGroup != catalog.CoolDownGroup || !e.Bodyweight() || e.Rest != 0 {
			t.Errorf("cool-down %s malformed: %+v", e.ID, e)
		}
	}
}
