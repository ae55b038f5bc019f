// Package workout generates weekly training plans and applies user edits to them.
//
// Generation runs profile → template → filters → prescription → assembly. Every mutation is a pure
// function from a session or plan snapshot to a new snapshot; callers own persistence.
package workout

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mulhim/planner/internal/catalog"
	"github.com/mulhim/planner/internal/i18n"
	"github.com/mulhim/planner/internal/profile"
)

const daysPerWeek = 7

//nolint:gochecknoglobals // Monday-first labels indexed by session position.
var dayKeys = []string{
	"day.monday", "day.tuesday", "day.wednesday", "day.thursday", "day.friday", "day.saturday", "day.sunday",
}

// Generator materializes weekly plans from the catalog. It is not safe for concurrent use.
type Generator struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
	newID   func() string
	lang    i18n.Language
	logger  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand injects the shuffle source. Use a seeded generator for reproducible plans.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithSeed is shorthand for WithRand with a PCG source seeded by seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed))) //nolint:gosec // not security sensitive.
}

// WithIDFunc replaces the instance id source.
func WithIDFunc(f func() string) Option {
	return func(g *Generator) { g.newID = f }
}

// WithLanguage sets the language of day labels, session names and rest notes.
func WithLanguage(lang i18n.Language) Option {
	return func(g *Generator) { g.lang = lang }
}

// WithLogger sets the logger used for filter diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// NewGenerator creates a Generator over c. Without options it shuffles with an unseeded source,
// uses random UUIDs and English strings.
func NewGenerator(c *catalog.Catalog, opts ...Option) *Generator {
	g := &Generator{
		catalog: c,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // not security sensitive.
		newID:   uuid.NewString,
		lang:    i18n.DefaultLanguage,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WeekBounds returns the Sunday on or before today and the Saturday after it.
func WeekBounds(today time.Time) (time.Time, time.Time) {
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, daysPerWeek-1)
}

// WeeklyPlan builds a plan with one session per available day, repeating the template days cyclically.
// The profile is normalized first so that a missing fitness level is derived.
func (g *Generator) WeeklyPlan(ctx context.Context, p profile.FitnessProfile, today time.Time) WeeklyPlan {
	p = p.Normalize()
	start, end := WeekBounds(today)
	kind := SelectTemplate(p)
	tmpl, _ := g.catalog.Template(kind)

	plan := WeeklyPlan{
		WeekNumber: 1,
		StartDate:  start.Format(time.DateOnly),
		EndDate:    end.Format(time.DateOnly),
		Sessions:   make([]WorkoutSession, 0, p.AvailableDays),
	}
	if len(tmpl.Days) == 0 {
		g.logger.LogAttrs(ctx, slog.LevelWarn, "template has no days", slog.String("template", string(kind)))
		return plan
	}

	for i := range p.AvailableDays {
		day := tmpl.Days[i%len(tmpl.Days)]
		exercises := slices.Concat(
			g.materialize(catalog.WarmUp(), p),
			g.mainBlock(ctx, day.MuscleGroups, p),
			g.materialize(catalog.CoolDown(), p),
		)
		plan.Sessions = append(plan.Sessions, WorkoutSession{
			ID:                 g.newID(),
			Day:                i18n.Translate(g.lang, dayKeys[i%daysPerWeek]),
			Name:               g.sessionName(day),
			Exercises:          exercises,
			Duration:           p.SessionDuration,
			Completed:          false,
			CompletedExercises: []string{},
			CompletedAt:        nil,
			RestNote:           g.restNote(i, p),
		})
	}

	g.logger.LogAttrs(ctx, slog.LevelDebug, "generated weekly plan",
		slog.String("template", string(kind)),
		slog.Int("sessions", len(plan.Sessions)),
		slog.String("start", plan.StartDate))
	return plan
}

// RegenerateSession replaces the main block with a fresh selection for the muscle groups it currently
// contains. The fixed blocks, day and name are kept and completion is reset.
func (g *Generator) RegenerateSession(ctx context.Context, s WorkoutSession, p profile.FitnessProfile) WorkoutSession {
	p = p.Normalize()
	var (
		warmUp, coolDown []WorkoutExercise
		groups           []string
	)
	for _, e := range s.Exercises {
		switch {
		case e.WarmUp():
			warmUp = append(warmUp, e.clone())
		case e.CoolDown():
			coolDown = append(coolDown, e.clone())
		default:
			group := strings.ToLower(e.MuscleGroup)
			if !slices.Contains(groups, group) {
				groups = append(groups, group)
			}
		}
	}

	out := s.Clone()
	out.Exercises = slices.Concat(warmUp, g.mainBlock(ctx, groups, p), coolDown)
	out.Completed = false
	out.CompletedExercises = []string{}
	out.CompletedAt = nil
	return out
}

// FromCatalog prescribes a catalog exercise for p and gives it a fresh instance id.
func (g *Generator) FromCatalog(e catalog.Exercise, p profile.FitnessProfile) WorkoutExercise {
	p = p.Normalize()
	w := Prescribe(g.withHomeVideo(e, p), p)
	w.ID = g.newID()
	return w
}

// Catalog returns the catalog the generator draws from.
func (g *Generator) Catalog() *catalog.Catalog {
	return g.catalog
}

// NewID returns a fresh instance id from the generator's id source.
func (g *Generator) NewID() string {
	return g.newID()
}

func (g *Generator) mainBlock(ctx context.Context, groups []string, p profile.FitnessProfile) []WorkoutExercise {
	var main []WorkoutExercise
	count := ExerciseCount(p.FitnessLevel)
	for _, group := range groups {
		candidates := FilterByInjuries(FilterByLocation(g.catalog.Exercises(group), p.TrainingLocation), p.Injuries)
		if len(candidates) == 0 {
			g.logger.LogAttrs(ctx, slog.LevelWarn, "no exercises left after filtering",
				slog.String("muscle_group", group),
				slog.String("location", string(p.TrainingLocation)))
			continue
		}
		candidates = slices.Clone(candidates)
		g.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		for _, e := range candidates[:min(count, len(candidates))] {
			main = append(main, g.FromCatalog(e, p))
		}
	}
	return main
}

func (g *Generator) materialize(block []catalog.Exercise, p profile.FitnessProfile) []WorkoutExercise {
	out := make([]WorkoutExercise, len(block))
	for i, e := range block {
		out[i] = WorkoutExercise{
			ID:             g.newID(),
			ExerciseID:     e.ID,
			Name:           e.Name,
			Sets:           e.Sets,
			Reps:           e.Reps,
			Rest:           e.Rest,
			MuscleGroup:    e.MuscleGroup,
			Equipment:      nil,
			AssignedWeight: e.RecommendedWeight.Lookup(p.Gender, p.FitnessLevel),
			VideoURL:       e.VideoURL,
		}
	}
	return out
}

func (g *Generator) withHomeVideo(e catalog.Exercise, p profile.FitnessProfile) catalog.Exercise {
	if p.TrainingLocation != profile.Home && p.TrainingLocation != profile.MinimalEquipment {
		return e
	}
	if u, ok := g.catalog.HomeVideoURL(e.ID); ok {
		e.VideoURL = u
	}
	return e
}

func (g *Generator) sessionName(day catalog.TemplateDay) string {
	name := i18n.Translate(g.lang, day.NameKey)
	if day.Variant != "" {
		name += " " + day.Variant
	}
	return name
}

// restNote returns an advisory for heavy weeks. High activity users never get one.
func (g *Generator) restNote(index int, p profile.FitnessProfile) string {
	const (
		beginnerHeavyWeek = 6
		sedentaryHeavy    = 5
	)
	key := ""
	switch {
	case p.ActivityLevel == profile.ActivityHigh:
	case p.FitnessLevel == profile.Beginner && p.AvailableDays >= beginnerHeavyWeek && (index == 2 || index == 5):
		key = "rest.recovery"
	case p.ActivityLevel == profile.ActivityNone && p.AvailableDays >= sedentaryHeavy && index > 0 && index%2 == 0:
		key = "rest.optional"
	case p.Goal == profile.FatLoss && p.AvailableDays == daysPerWeek && p.FitnessLevel == profile.Beginner &&
		index == 3:
		key = "rest.active"
	}
	if key == "" {
		return ""
	}
	return i18n.Translate(g.lang, key)
}
