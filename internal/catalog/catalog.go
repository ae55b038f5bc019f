// Package catalog holds the static exercise and workout template reference data.
//
// Exercises are grouped by lower-cased muscle group. All lookups return copies so that callers
// may adjust prescriptions without touching the shared reference data.
package catalog

import (
	"maps"
	"slices"
	"strings"

	"github.com/mulhim/planner/internal/profile"
)

// Equipment is a tag naming something an exercise needs. An exercise without equipment is bodyweight.
type Equipment string

const (
	Barbell         Equipment = "barbell"
	Dumbbells       Equipment = "dumbbells"
	Bench           Equipment = "bench"
	CableMachine    Equipment = "cable-machine"
	Machine         Equipment = "machine"
	PullupBar       Equipment = "pullup-bar"
	ResistanceBands Equipment = "resistance-bands"
	Kettlebell      Equipment = "kettlebell"
)

// Muscle group tags for the fixed blocks that open and close every session.
const (
	WarmUpGroup   = "Warm-up"
	CoolDownGroup = "Cool-down"
)

// WeightTable maps gender and fitness level to a recommended working weight such as "20 kg".
type WeightTable map[profile.Gender]map[profile.FitnessLevel]string

// Lookup returns the recommended weight or "" when the table has no entry.
func (w WeightTable) Lookup(g profile.Gender, l profile.FitnessLevel) string {
	if w == nil {
		return ""
	}
	return w[g][l]
}

// Exercise is a catalog entry.
type Exercise struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Sets              int         `json:"sets"`
	Reps              Reps        `json:"reps"`
	Rest              int         `json:"rest"`
	MuscleGroup       string      `json:"muscleGroup"`
	Equipment         []Equipment `json:"equipment"`
	RecommendedWeight WeightTable `json:"recommendedWeight,omitempty"`
	VideoURL          string      `json:"videoUrl,omitempty"`
}

// Bodyweight reports whether the exercise needs no equipment.
func (e Exercise) Bodyweight() bool {
	return len(e.Equipment) == 0
}

// Group returns the lower-cased muscle group key the exercise is filed under.
func (e Exercise) Group() string {
	return strings.ToLower(e.MuscleGroup)
}

func (e Exercise) clone() Exercise {
	e.Equipment = slices.Clone(e.Equipment)
	return e
}

// TemplateKind names a workout split.
type TemplateKind string

const (
	FullBody     TemplateKind = "full_body"
	UpperLower   TemplateKind = "upper_lower"
	PushPullLegs TemplateKind = "push_pull_legs"
)

// TemplateDay is one day of a split. NameKey is an i18n key, Variant an optional suffix such as "A".
type TemplateDay struct {
	NameKey      string
	Variant      string
	MuscleGroups []string
}

// Template is an ordered list of days.
type Template struct {
	Kind TemplateKind
	Days []TemplateDay
}

// Catalog is the read-only exercise and template reference.
type Catalog struct {
	exercises map[string][]Exercise
	byID      map[string]Exercise
	templates map[TemplateKind]Template
	videos    map[string]string
}

// New builds a catalog from grouped exercises and templates. Group keys are lower-cased.
func New(exercises map[string][]Exercise, templates []Template, homeVideos map[string]string) *Catalog {
	c := &Catalog{
		exercises: make(map[string][]Exercise, len(exercises)),
		byID:      make(map[string]Exercise),
		templates: make(map[TemplateKind]Template, len(templates)),
		videos:    maps.Clone(homeVideos),
	}
	for group, list := range exercises {
		key := strings.ToLower(group)
		for _, ex := range list {
			c.exercises[key] = append(c.exercises[key], ex.clone())
			c.byID[ex.ID] = ex.clone()
		}
	}
	for _, ex := range slices.Concat(WarmUp(), CoolDown()) {
		c.byID[ex.ID] = ex
	}
	for _, t := range templates {
		c.templates[t.Kind] = t
	}
	return c
}

// Exercises returns a copy of the exercises of a muscle group. Unknown groups yield nil.
func (c *Catalog) Exercises(group string) []Exercise {
	list := c.exercises[strings.ToLower(group)]
	if len(list) == 0 {
		return nil
	}
	out := make([]Exercise, len(list))
	for i, ex := range list {
		out[i] = ex.clone()
	}
	return out
}

// Lookup finds an exercise by its catalog id, including the warm-up and cool-down stubs.
func (c *Catalog) Lookup(id string) (Exercise, bool) {
	ex, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return ex.clone(), true
}

// MuscleGroups lists the group keys in sorted order.
func (c *Catalog) MuscleGroups() []string {
	return slices.Sorted(maps.Keys(c.exercises))
}

// Template returns the split of the given kind. The second result is false for unknown kinds.
func (c *Catalog) Template(kind TemplateKind) (Template, bool) {
	t, ok := c.templates[kind]
	return t, ok
}

// HomeVideoURL returns the home-friendly demonstration video for an exercise, if any.
func (c *Catalog) HomeVideoURL(id string) (string, bool) {
	u, ok := c.videos[id]
	return u, ok
}

// WarmUp returns the two fixed warm-up entries.
func WarmUp() []Exercise {
	return []Exercise{
		{
			ID: "warmup-cardio", Name: "General Warm-Up", Sets: 1, Reps: Timed(5, "min"), Rest: 0,
			MuscleGroup: WarmUpGroup, Equipment: nil, RecommendedWeight: nil,
			VideoURL: "https://youtu.be/-p0PA9Zt8zk",
		},
		{
			ID: "warmup-mobility", Name: "Dynamic Mobility", Sets: 1, Reps: Timed(5, "min"), Rest: 0,
			MuscleGroup: WarmUpGroup, Equipment: nil, RecommendedWeight: nil,
			VideoURL: "https://www.youtube.com/watch?v=_kGESn8ArrU",
		},
	}
}

// CoolDown returns the two fixed cool-down entries.
func CoolDown() []Exercise {
	return []Exercise{
		{
			ID: "cooldown-stretch", Name: "Static Stretching", Sets: 1, Reps: Timed(5, "min"), Rest: 0,
			MuscleGroup: CoolDownGroup, Equipment: nil, RecommendedWeight: nil,
			VideoURL: "https://www.youtube.com/watch?v=g_tea8ZNk5A",
		},
		{
			ID: "cooldown-breathing", Name: "Breathing & Recovery", Sets: 1, Reps: Timed(3, "min"), Rest: 0,
			MuscleGroup: CoolDownGroup, Equipment: nil, RecommendedWeight: nil,
			VideoURL: "https://youtu.be/lEzaFx8k7Ew",
		},
	}
}
