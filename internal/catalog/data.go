package catalog

import (
	"strconv"
	"sync"

	"github.com/mulhim/planner/internal/profile"
)

// kg builds a weight table from male then female values for beginner, intermediate and advanced.
func kg(mb, mi, ma, fb, fi, fa float64) WeightTable {
	s := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) + " kg" }
	return WeightTable{
		profile.Male:   {profile.Beginner: s(mb), profile.Intermediate: s(mi), profile.Advanced: s(ma)},
		profile.Female: {profile.Beginner: s(fb), profile.Intermediate: s(fi), profile.Advanced: s(fa)},
	}
}

func ex(id, name string, sets int, reps string, rest int, group string, weights WeightTable,
	equipment ...Equipment) Exercise {
	return Exercise{
		ID:                id,
		Name:              name,
		Sets:              sets,
		Reps:              MustParseReps(reps),
		Rest:              rest,
		MuscleGroup:       group,
		Equipment:         equipment,
		RecommendedWeight: weights,
		VideoURL:          "",
	}
}

//nolint:funlen // reference data.
func defaultExercises() map[string][]Exercise {
	return map[string][]Exercise{
		"chest": {
			ex("pushups", "Push-Ups", 3, "10-15", 60, "Chest", nil),
			ex("wide-pushups", "Wide Push-Ups", 3, "10-15", 60, "Chest", nil),
			ex("diamond-pushups", "Diamond Push-Ups", 3, "8-12", 60, "Chest", nil),
			ex("decline-pushups", "Decline Push-Ups", 3, "8-12", 60, "Chest", nil),
			ex("barbell-bench-press", "Barbell Bench Press", 4, "8-12", 90, "Chest",
				kg(40, 60, 80, 20, 30, 45), Barbell, Bench),
			ex("dumbbell-press", "Dumbbell Chest Press", 3, "8-12", 75, "Chest",
				kg(12.5, 20, 27.5, 6, 10, 14), Dumbbells),
			ex("incline-dumbbell-press", "Incline Dumbbell Press", 3, "8-12", 75, "Chest",
				kg(10, 17.5, 25, 5, 8, 12), Dumbbells, Bench),
			ex("cable-fly", "Cable Fly", 3, "12-15", 60, "Chest",
				kg(7.5, 12.5, 17.5, 5, 7.5, 10), CableMachine),
		},
		"back": {
			ex("pullups", "Pull-Ups", 3, "6-10", 90, "Back", nil, PullupBar),
			ex("chin-ups", "Chin-Ups", 3, "6-10", 90, "Back", nil, PullupBar),
			ex("inverted-rows", "Inverted Rows", 3, "8-12", 60, "Back", nil),
			ex("superman", "Superman", 3, "12-15", 45, "Back", nil),
			ex("reverse-snow-angels", "Reverse Snow Angels", 3, "12-15", 45, "Back", nil),
			ex("dumbbell-rows", "One-Arm Dumbbell Rows", 3, "8-12", 60, "Back",
				kg(15, 22.5, 32.5, 7.5, 12.5, 17.5), Dumbbells),
			ex("barbell-deadlift", "Barbell Deadlift", 4, "5-8", 120, "Back",
				kg(60, 100, 140, 35, 55, 80), Barbell),
			ex("lat-pulldown", "Lat Pulldown", 3, "10-12", 75, "Back",
				kg(35, 50, 65, 20, 30, 40), CableMachine),
			ex("seated-cable-row", "Seated Cable Row", 3, "10-12", 75, "Back",
				kg(30, 45, 60, 20, 27.5, 37.5), CableMachine),
		},
		"legs": {
			ex("bodyweight-squats", "Bodyweight Squats", 3, "15-20", 45, "Legs", nil),
			ex("bulgarian-split-squat", "Bulgarian Split Squat", 3, "8-12", 60, "Legs", nil),
			ex("jump-squats", "Jump Squats", 3, "10-15", 60, "Legs", nil),
			ex("wall-sit", "Wall Sit", 3, "45 sec", 45, "Legs", nil),
			ex("glute-bridges", "Glute Bridges", 3, "12-15", 45, "Legs", nil),
			ex("single-leg-deadlift", "Single-Leg Deadlift", 3, "10-12", 60, "Legs", nil),
			ex("lunges", "Walking Lunges", 3, "10-12", 60, "Legs", nil),
			ex("goblet-squats", "Goblet Squats", 3, "10-12", 60, "Legs",
				kg(16, 24, 32, 8, 12, 16), Dumbbells),
			ex("barbell-back-squat", "Barbell Back Squat", 4, "6-10", 120, "Legs",
				kg(50, 80, 110, 30, 45, 65), Barbell),
			ex("leg-press", "Leg Press", 3, "10-12", 90, "Legs",
				kg(80, 120, 180, 50, 80, 110), Machine),
			ex("romanian-deadlift", "Romanian Deadlift", 3, "8-12", 90, "Legs",
				kg(40, 60, 90, 25, 40, 55), Barbell),
		},
		"shoulders": {
			ex("pike-pushups", "Pike Push-Ups", 3, "8-12", 60, "Shoulders", nil),
			ex("handstand-pushups", "Wall Handstand Push-Ups", 3, "5-8", 90, "Shoulders", nil),
			ex("lateral-raises", "Lateral Raises", 3, "12-15", 45, "Shoulders",
				kg(5, 8, 12, 3, 5, 7), Dumbbells),
			ex("dumbbell-shoulder-press", "Dumbbell Shoulder Press", 3, "8-12", 75, "Shoulders",
				kg(10, 16, 22, 5, 8, 12), Dumbbells),
			ex("overhead-press", "Barbell Overhead Press", 4, "6-10", 90, "Shoulders",
				kg(25, 40, 55, 15, 22.5, 30), Barbell),
			ex("face-pulls", "Face Pulls", 3, "12-15", 60, "Shoulders",
				kg(10, 15, 20, 5, 10, 12.5), CableMachine),
			ex("band-pull-aparts", "Band Pull-Aparts", 3, "15-20", 45, "Shoulders", nil, ResistanceBands),
		},
		"arms": {
			ex("bench-dips", "Bench Dips", 3, "10-15", 60, "Arms", nil),
			ex("close-grip-pushups", "Close-Grip Push-Ups", 3, "8-12", 60, "Arms", nil),
			ex("tricep-dips", "Tricep Dips", 3, "8-12", 60, "Arms", nil),
			ex("bicep-curls", "Dumbbell Bicep Curls", 3, "10-12", 60, "Arms",
				kg(8, 12, 16, 4, 6, 9), Dumbbells),
			ex("hammer-curls", "Hammer Curls", 3, "10-12", 60, "Arms",
				kg(8, 12, 16, 4, 6, 9), Dumbbells),
			ex("barbell-curl", "Barbell Curl", 3, "8-12", 60, "Arms",
				kg(15, 25, 35, 10, 15, 20), Barbell),
			ex("cable-tricep-pushdown", "Cable Tricep Pushdown", 3, "10-15", 60, "Arms",
				kg(15, 25, 35, 10, 15, 20), CableMachine),
		},
		"core": {
			ex("plank", "Plank", 3, "45 sec", 45, "Core", nil),
			ex("crunches", "Crunches", 3, "15-20", 45, "Core", nil),
			ex("mountain-climbers", "Mountain Climbers", 3, "30 sec", 45, "Core", nil),
			ex("leg-raises", "Lying Leg Raises", 3, "10-15", 45, "Core", nil),
			ex("russian-twists", "Russian Twists", 3, "15-20", 45, "Core", nil),
			ex("dead-bug", "Dead Bug", 3, "10-12", 45, "Core", nil),
			ex("hanging-knee-raises", "Hanging Knee Raises", 3, "10-15", 60, "Core", nil, PullupBar),
			ex("kettlebell-swings", "Kettlebell Swings", 3, "12-15", 60, "Core",
				kg(12, 16, 24, 8, 12, 16), Kettlebell),
		},
	}
}

func defaultTemplates() []Template {
	return []Template{
		{
			Kind: FullBody,
			Days: []TemplateDay{
				{NameKey: "template.fullbody", Variant: "A", MuscleGroups: []string{"chest", "back", "legs"}},
				{NameKey: "template.fullbody", Variant: "B", MuscleGroups: []string{"shoulders", "legs", "core"}},
				{NameKey: "template.fullbody", Variant: "C", MuscleGroups: []string{"chest", "back", "arms"}},
			},
		},
		{
			Kind: UpperLower,
			Days: []TemplateDay{
				{NameKey: "template.upper", Variant: "A", MuscleGroups: []string{"chest", "back", "shoulders"}},
				{NameKey: "template.lower", Variant: "A", MuscleGroups: []string{"legs", "core"}},
				{NameKey: "template.upper", Variant: "B", MuscleGroups: []string{"back", "chest", "arms"}},
				{NameKey: "template.lower", Variant: "B", MuscleGroups: []string{"legs", "core"}},
			},
		},
		{
			Kind: PushPullLegs,
			Days: []TemplateDay{
				{NameKey: "template.push", Variant: "", MuscleGroups: []string{"chest", "shoulders", "arms"}},
				{NameKey: "template.pull", Variant: "", MuscleGroups: []string{"back", "arms"}},
				{NameKey: "template.legs", Variant: "", MuscleGroups: []string{"legs", "core"}},
			},
		},
	}
}

func defaultHomeVideos() map[string]string {
	return map[string]string{
		"pushups":               "https://www.youtube.com/watch?v=IODxDxX7oi4",
		"wide-pushups":          "https://www.youtube.com/watch?v=KYIPC75rSQg",
		"diamond-pushups":       "https://www.youtube.com/watch?v=J0DnG1_S92I",
		"decline-pushups":       "https://www.youtube.com/watch?v=SKPab2YC8BE",
		"bodyweight-squats":     "https://www.youtube.com/watch?v=aclHkVaku9U",
		"bulgarian-split-squat": "https://www.youtube.com/watch?v=2C-uNgKwPLE",
		"jump-squats":           "https://www.youtube.com/watch?v=A-cFYWvaHr0",
		"wall-sit":              "https://www.youtube.com/watch?v=y-wV4Venusw",
		"glute-bridges":         "https://www.youtube.com/watch?v=wPM8icPu6H8",
		"single-leg-deadlift":   "https://www.youtube.com/watch?v=Zfr6wizR8rs",
		"pullups":               "https://www.youtube.com/watch?v=eGo4IYlbE5g",
		"chin-ups":              "https://www.youtube.com/watch?v=brhWuCQ17FI",
		"inverted-rows":         "https://www.youtube.com/watch?v=hXTc1mDnZCw",
		"superman":              "https://www.youtube.com/watch?v=cc6UVRS7PW4",
		"reverse-snow-angels":   "https://www.youtube.com/watch?v=4Z3BM3JnZuo",
		"pike-pushups":          "https://www.youtube.com/watch?v=x4YNjHHyqn8",
		"handstand-pushups":     "https://www.youtube.com/watch?v=tQhrk6WMcKw",
		"bench-dips":            "https://www.youtube.com/watch?v=0326dy_-CzM",
		"close-grip-pushups":    "https://www.youtube.com/watch?v=bTsCz0kCNJI",
		"dumbbell-rows":         "https://www.youtube.com/watch?v=pYcpY20QaE8",
		"goblet-squats":         "https://www.youtube.com/watch?v=MeIiIdhvXT4",
		"lunges":                "https://www.youtube.com/watch?v=QOVaHwm-Q6U",
		"dumbbell-press":        "https://www.youtube.com/watch?v=qEwKCR5JCog",
		"lateral-raises":        "https://www.youtube.com/watch?v=3VcKaXpzqRo",
		"bicep-curls":           "https://www.youtube.com/watch?v=ykJmrZ5v0Oo",
		"tricep-dips":           "https://www.youtube.com/watch?v=2z8JmcrW-As",
	}
}

//nolint:gochecknoglobals // the default catalog is built once and shared read-only.
var defaultCatalog = sync.OnceValue(func() *Catalog {
	return New(defaultExercises(), defaultTemplates(), defaultHomeVideos())
})

// Default returns the bundled catalog.
func Default() *Catalog {
	return defaultCatalog()
}
