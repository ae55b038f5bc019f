package nutrition

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

var (
	ErrDayNotFound  = errors.New("day not found")
	ErrMealNotFound = errors.New("meal not found")
	ErrInvalidMeal  = errors.New("invalid meal")
)

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealSuggestion is a meal with its energy and macro values.
type MealSuggestion struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	NameAr        string   `json:"nameAr,omitempty"`
	Type          MealType `json:"type"`
	Calories      float64  `json:"calories"`
	Protein       float64  `json:"protein"`
	Carbs         float64  `json:"carbs"`
	Fats          float64  `json:"fats"`
	Ingredients   []string `json:"ingredients,omitempty"`
	IngredientsAr []string `json:"ingredientsAr,omitempty"`
}

func (m MealSuggestion) clone() MealSuggestion {
	m.Ingredients = slices.Clone(m.Ingredients)
	m.IngredientsAr = slices.Clone(m.IngredientsAr)
	return m
}

// CompletedMeals tracks which meals of a day were eaten. Snacks is index-aligned with DailyMealPlan.Snacks.
type CompletedMeals struct {
	Breakfast bool   `json:"breakfast"`
	Lunch     bool   `json:"lunch"`
	Dinner    bool   `json:"dinner"`
	Snacks    []bool `json:"snacks"`
}

// DailyMealPlan is one day of meals. The totals always equal the sum of the present meals.
type DailyMealPlan struct {
	ID             string           `json:"id"`
	Day            string           `json:"day"`
	Breakfast      *MealSuggestion  `json:"breakfast,omitempty"`
	Lunch          *MealSuggestion  `json:"lunch,omitempty"`
	Dinner         *MealSuggestion  `json:"dinner,omitempty"`
	Snacks         []MealSuggestion `json:"snacks"`
	TotalCalories  float64          `json:"totalCalories"`
	TotalProtein   float64          `json:"totalProtein"`
	TotalCarbs     float64          `json:"totalCarbs"`
	TotalFats      float64          `json:"totalFats"`
	CompletedMeals CompletedMeals   `json:"completedMeals"`
}

func clonePtr(m *MealSuggestion) *MealSuggestion {
	if m == nil {
		return nil
	}
	c := m.clone()
	return &c
}

// Clone returns a deep copy.
func (d DailyMealPlan) Clone() DailyMealPlan {
	d.Breakfast = clonePtr(d.Breakfast)
	d.Lunch = clonePtr(d.Lunch)
	d.Dinner = clonePtr(d.Dinner)
	snacks := make([]MealSuggestion, len(d.Snacks))
	for i, s := range d.Snacks {
		snacks[i] = s.clone()
	}
	d.Snacks = snacks
	d.CompletedMeals.Snacks = slices.Clone(d.CompletedMeals.Snacks)
	return d
}

// Meals returns the present meals in breakfast, lunch, dinner, snacks order.
func (d DailyMealPlan) Meals() []MealSuggestion {
	var meals []MealSuggestion
	for _, m := range []*MealSuggestion{d.Breakfast, d.Lunch, d.Dinner} {
		if m != nil {
			meals = append(meals, *m)
		}
	}
	return append(meals, d.Snacks...)
}

// RecalcDayTotals returns d with its totals summed from the present meals.
func RecalcDayTotals(d DailyMealPlan) DailyMealPlan {
	d.TotalCalories, d.TotalProtein, d.TotalCarbs, d.TotalFats = 0, 0, 0, 0
	for _, m := range d.Meals() {
		d.TotalCalories += m.Calories
		d.TotalProtein += m.Protein
		d.TotalCarbs += m.Carbs
		d.TotalFats += m.Fats
	}
	return d
}

// slot returns the pointer field for a main meal type.
func (d *DailyMealPlan) slot(t MealType) (**MealSuggestion, error) {
	switch t {
	case Breakfast:
		return &d.Breakfast, nil
	case Lunch:
		return &d.Lunch, nil
	case Dinner:
		return &d.Dinner, nil
	case Snack:
		return nil, fmt.Errorf("%w: snacks are addressed by index", ErrInvalidMeal)
	default:
		return nil, fmt.Errorf("%w: meal type %q", ErrInvalidMeal, t)
	}
}

func (d *DailyMealPlan) completedFlag(t MealType) *bool {
	switch t {
	case Breakfast:
		return &d.CompletedMeals.Breakfast
	case Lunch:
		return &d.CompletedMeals.Lunch
	case Dinner:
		return &d.CompletedMeals.Dinner
	case Snack:
		return nil
	default:
		return nil
	}
}

// alignSnackCompletion pads or trims the snack completion marks to the number of snacks.
func (d *DailyMealPlan) alignSnackCompletion() {
	marks := d.CompletedMeals.Snacks
	for len(marks) < len(d.Snacks) {
		marks = append(marks, false)
	}
	d.CompletedMeals.Snacks = marks[:len(d.Snacks)]
}

// WeeklyMealPlan is a week of daily meal plans.
type WeeklyMealPlan struct {
	ID        string          `json:"id"`
	WeekStart string          `json:"weekStart"`
	Days      []DailyMealPlan `json:"days"`
}

// Clone returns a deep copy.
func (p WeeklyMealPlan) Clone() WeeklyMealPlan {
	days := make([]DailyMealPlan, len(p.Days))
	for i, d := range p.Days {
		days[i] = d.Clone()
	}
	p.Days = days
	return p
}

// Normalize recomputes every day's totals and aligns the snack completion marks.
func (p WeeklyMealPlan) Normalize() WeeklyMealPlan {
	out := p.Clone()
	for i := range out.Days {
		out.Days[i].alignSnackCompletion()
		out.Days[i] = RecalcDayTotals(out.Days[i])
	}
	return out
}

func (p WeeklyMealPlan) updateDay(dayID string, fn func(d *DailyMealPlan) error) (WeeklyMealPlan, error) {
	i := slices.IndexFunc(p.Days, func(d DailyMealPlan) bool { return d.ID == dayID })
	if i < 0 {
		return WeeklyMealPlan{}, fmt.Errorf("%w: %s", ErrDayNotFound, dayID)
	}
	out := p.Clone()
	if err := fn(&out.Days[i]); err != nil {
		return WeeklyMealPlan{}, err
	}
	out.Days[i].alignSnackCompletion()
	out.Days[i] = RecalcDayTotals(out.Days[i])
	return out, nil
}

// AddMealToDay sets a main meal or appends a snack, then recomputes the day's totals.
func (p WeeklyMealPlan) AddMealToDay(dayID string, meal MealSuggestion, t MealType) (WeeklyMealPlan, error) {
	return p.updateDay(dayID, func(d *DailyMealPlan) error {
		meal = meal.clone()
		meal.Type = t
		if t == Snack {
			d.Snacks = append(d.Snacks, meal)
			d.alignSnackCompletion()
			return nil
		}
		slot, err := d.slot(t)
		if err != nil {
			return err
		}
		*slot = &meal
		return nil
	})
}

// RemoveMealFromDay clears a main meal or drops the snack at snackIndex together with its completion mark.
func (p WeeklyMealPlan) RemoveMealFromDay(dayID string, t MealType, snackIndex int) (WeeklyMealPlan, error) {
	return p.updateDay(dayID, func(d *DailyMealPlan) error {
		if t == Snack {
			if snackIndex < 0 || snackIndex >= len(d.Snacks) {
				return fmt.Errorf("%w: snack %d", ErrMealNotFound, snackIndex)
			}
			d.alignSnackCompletion()
			d.Snacks = slices.Delete(d.Snacks, snackIndex, snackIndex+1)
			d.CompletedMeals.Snacks = slices.Delete(d.CompletedMeals.Snacks, snackIndex, snackIndex+1)
			return nil
		}
		slot, err := d.slot(t)
		if err != nil {
			return err
		}
		if *slot == nil {
			return fmt.Errorf("%w: %s", ErrMealNotFound, t)
		}
		*slot = nil
		*d.completedFlag(t) = false
		return nil
	})
}

// UpdateMealInPlan replaces a main meal or the snack at snackIndex. Completion marks are kept.
func (p WeeklyMealPlan) UpdateMealInPlan(dayID string, t MealType, meal MealSuggestion, snackIndex int) (
	WeeklyMealPlan, error) {
	return p.updateDay(dayID, func(d *DailyMealPlan) error {
		meal = meal.clone()
		meal.Type = t
		if t == Snack {
			if snackIndex < 0 || snackIndex >= len(d.Snacks) {
				return fmt.Errorf("%w: snack %d", ErrMealNotFound, snackIndex)
			}
			d.Snacks[snackIndex] = meal
			return nil
		}
		slot, err := d.slot(t)
		if err != nil {
			return err
		}
		*slot = &meal
		return nil
	})
}

// ToggleMealCompletion flips the eaten mark of a main meal or of the snack at snackIndex.
func (p WeeklyMealPlan) ToggleMealCompletion(dayID string, t MealType, snackIndex int) (WeeklyMealPlan, error) {
	return p.updateDay(dayID, func(d *DailyMealPlan) error {
		if t == Snack {
			if snackIndex < 0 || snackIndex >= len(d.Snacks) {
				return fmt.Errorf("%w: snack %d", ErrMealNotFound, snackIndex)
			}
			d.alignSnackCompletion()
			d.CompletedMeals.Snacks[snackIndex] = !d.CompletedMeals.Snacks[snackIndex]
			return nil
		}
		flag := d.completedFlag(t)
		if flag == nil {
			return fmt.Errorf("%w: meal type %q", ErrInvalidMeal, t)
		}
		*flag = !*flag
		return nil
	})
}

// DayFor returns the day whose label is the English name of weekday.
func (p WeeklyMealPlan) DayFor(weekday time.Weekday) (DailyMealPlan, bool) {
	for _, d := range p.Days {
		if d.Day == weekday.String() {
			return d.Clone(), true
		}
	}
	return DailyMealPlan{}, false
}

// WeeklyCalorieAverage is the rounded mean of the daily calorie totals, 0 for an empty plan.
func (p WeeklyMealPlan) WeeklyCalorieAverage() int {
	if len(p.Days) == 0 {
		return 0
	}
	total := 0.0
	for _, d := range p.Days {
		total += d.TotalCalories
	}
	return int(math.Round(total / float64(len(p.Days))))
}

// CompletionRate is the rounded percentage of present meals marked eaten.
func (p WeeklyMealPlan) CompletionRate() int {
	completed, possible := 0, 0
	count := func(present, done bool) {
		if present {
			possible++
			if done {
				completed++
			}
		}
	}
	for _, d := range p.Days {
		count(d.Breakfast != nil, d.CompletedMeals.Breakfast)
		count(d.Lunch != nil, d.CompletedMeals.Lunch)
		count(d.Dinner != nil, d.CompletedMeals.Dinner)
		for i := range d.Snacks {
			count(true, i < len(d.CompletedMeals.Snacks) && d.CompletedMeals.Snacks[i])
		}
	}
	if possible == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(possible) * 100)) //nolint:mnd // percent
}
