// Package report renders plans as Markdown and converts Markdown to HTML.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/mulhim/planner/internal/i18n"
	"github.com/mulhim/planner/internal/nutrition"
	"github.com/mulhim/planner/internal/workout"
)

// markdown collects the first write error so that rendering code can stay linear.
type markdown struct {
	w    io.Writer
	lang i18n.Language
	err  error
}

func (m *markdown) printf(format string, args ...any) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format, args...)
}

func (m *markdown) t(key string) string {
	return i18n.Translate(m.lang, key)
}

// row writes a table row. Pipes inside cells are escaped.
func (m *markdown) row(cells ...string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	m.printf("| %s |\n", strings.Join(escaped, " | "))
}

func (m *markdown) header(cells ...string) {
	m.row(cells...)
	m.printf("|%s\n", strings.Repeat(" --- |", len(cells)))
}

// WeeklyPlanMarkdown renders one section per session with a table of its exercises.
func WeeklyPlanMarkdown(w io.Writer, p workout.WeeklyPlan, lang i18n.Language) error {
	m := &markdown{w: w, lang: lang, err: nil}
	done, total := p.Progress()
	m.printf("# %s\n\n", i18n.Translatef(lang, "report.week", p.WeekNumber))
	m.printf("%s .. %s\n\n", p.StartDate, p.EndDate)
	m.printf("%s: %d/%d\n", m.t("report.completed"), done, total)

	for _, s := range p.Sessions {
		title := s.Day + ": " + s.Name
		if s.Completed {
			title += " ✓"
		}
		m.printf("\n## %s\n\n", title)
		m.printf("%s: %d min\n\n", m.t("report.duration"), s.Duration)
		m.header(m.t("report.exercise"), m.t("report.sets"), m.t("report.reps"), m.t("report.rest"),
			m.t("report.weight"))
		for _, e := range s.Exercises {
			name := e.Name
			if s.IsExerciseCompleted(e.ID) {
				name = "~~" + name + "~~"
			}
			m.row(name, fmt.Sprint(e.Sets), e.Reps.String(), fmt.Sprintf("%ds", e.Rest), e.DisplayWeight())
		}
		if s.RestNote != "" {
			m.printf("\n> %s\n", s.RestNote)
		}
	}
	return m.err
}

// NutritionPlanMarkdown renders the daily targets, the meal distribution and the recommendations.
func NutritionPlanMarkdown(w io.Writer, p nutrition.NutritionPlan, lang i18n.Language) error {
	m := &markdown{w: w, lang: lang, err: nil}
	m.printf("# %s\n\n", m.t("report.nutrition"))
	m.printf("- %s: %d kcal\n", m.t("report.calories"), p.TargetCalories)
	m.printf("- %s: %s\n", m.t("report.pattern"), p.DietPattern)
	m.printf("- %s: %d g\n", m.t("report.protein"), p.Macros.Protein)
	m.printf("- %s: %d g\n", m.t("report.carbs"), p.Macros.Carbs)
	m.printf("- %s: %d g\n", m.t("report.fats"), p.Macros.Fats)
	m.printf("- %s: %d\n", m.t("report.meals"), p.MealDistribution.MealsCount)
	m.printf("- %s: %d\n", m.t("report.snacks"), p.MealDistribution.SnacksCount)
	m.printf("- %s: %d g\n", m.t("report.protein_per_meal"), p.MealDistribution.ProteinPerMeal)
	if len(p.Recommendations) > 0 {
		m.printf("\n## %s\n\n", m.t("report.recommendations"))
		for _, r := range p.Recommendations {
			m.printf("- %s\n", r)
		}
	}
	return m.err
}

// MealPlanMarkdown renders a table per day and, when groceries is not nil, the grocery list as a task list.
func MealPlanMarkdown(w io.Writer, p nutrition.WeeklyMealPlan, groceries *nutrition.GroceryList,
	lang i18n.Language) error {
	m := &markdown{w: w, lang: lang, err: nil}
	m.printf("# %s (%s)\n", m.t("report.meal_plan"), p.WeekStart)

	for _, d := range p.Days {
		m.printf("\n## %s\n\n", d.Day)
		m.header(m.t("report.meals"), "kcal", m.t("report.protein"), m.t("report.carbs"), m.t("report.fats"))
		slots := []struct {
			key  string
			meal *nutrition.MealSuggestion
			done bool
		}{
			{"report.breakfast", d.Breakfast, d.CompletedMeals.Breakfast},
			{"report.lunch", d.Lunch, d.CompletedMeals.Lunch},
			{"report.dinner", d.Dinner, d.CompletedMeals.Dinner},
		}
		for _, s := range slots {
			if s.meal != nil {
				m.mealRow(m.t(s.key), *s.meal, s.done)
			}
		}
		for i, snack := range d.Snacks {
			m.mealRow(m.t("report.snacks"), snack, i < len(d.CompletedMeals.Snacks) && d.CompletedMeals.Snacks[i])
		}
		m.row("**Σ**", grams(d.TotalCalories), grams(d.TotalProtein), grams(d.TotalCarbs), grams(d.TotalFats))
	}

	if groceries != nil && len(groceries.Items) > 0 {
		m.printf("\n## %s\n\n", m.t("report.groceries"))
		for _, it := range groceries.Items {
			mark := " "
			if it.Checked {
				mark = "x"
			}
			m.printf("- [%s] %s\n", mark, it.Name)
		}
	}
	return m.err
}

func (m *markdown) mealRow(label string, meal nutrition.MealSuggestion, done bool) {
	name := meal.Name
	if m.lang == i18n.Arabic && meal.NameAr != "" {
		name = meal.NameAr
	}
	if done {
		name = "~~" + name + "~~"
	}
	m.row(label+": "+name, grams(meal.Calories), grams(meal.Protein), grams(meal.Carbs), grams(meal.Fats))
}

func grams(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

// HTML converts GitHub flavored Markdown to HTML. Raw HTML in the input is not passed through.
func HTML(w io.Writer, source []byte) error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert(source, w); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	return nil
}
