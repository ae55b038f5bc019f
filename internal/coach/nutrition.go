package coach

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mulhim/planner/internal/nutrition"
)

// SaveNutritionAssessment stores the completed survey and regenerates the nutrition plan from it and
// the current profile. Favorite meals are extracted from the diet history when none are given.
func (s *Service) SaveNutritionAssessment(ctx context.Context, a nutrition.NutritionAssessment) (
	nutrition.NutritionPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nutrition.NutritionPlan{}, fmt.Errorf("%w: profile", ErrNotFound)
	}
	a.Completed = true
	if len(a.FavoriteMeals) == 0 {
		a.FavoriteMeals = nutrition.ExtractFavoriteMeals(a.DietHistory, s.gen.NewID)
	}
	plan := nutrition.GeneratePlan(*s.profile, a, s.lang)
	s.assessment = &a
	s.nutritionPlan = &plan
	s.persist(ctx, KindNutritionAssessment, a)
	s.persist(ctx, KindNutritionPlan, plan)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated nutrition plan",
		slog.Int("calories", plan.TargetCalories), slog.String("pattern", string(plan.DietPattern)))
	return plan, nil
}

// NutritionAssessment returns the stored survey.
func (s *Service) NutritionAssessment() (nutrition.NutritionAssessment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assessment == nil {
		return nutrition.NutritionAssessment{}, false
	}
	return *s.assessment, true
}

// NutritionPlan returns the current nutrition plan.
func (s *Service) NutritionPlan() (nutrition.NutritionPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nutritionPlan == nil {
		return nutrition.NutritionPlan{}, false
	}
	return *s.nutritionPlan, true
}

// SaveMealPlan stores p with recomputed totals and rebuilds the grocery list from its ingredients.
func (s *Service) SaveMealPlan(ctx context.Context, p nutrition.WeeklyMealPlan) (nutrition.WeeklyMealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = p.Normalize()
	if p.ID == "" {
		p.ID = s.gen.NewID()
	}
	for i := range p.Days {
		if p.Days[i].ID == "" {
			p.Days[i].ID = s.gen.NewID()
		}
	}
	list := nutrition.GroceryListFromMealPlan(p, s.gen.NewID)
	s.mealPlan = &p
	s.groceries = &list
	s.persist(ctx, KindMealPlan, p)
	s.persist(ctx, KindGroceryList, list)
	return p.Clone(), nil
}

// MealPlan returns a copy of the current meal plan.
func (s *Service) MealPlan() (nutrition.WeeklyMealPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mealPlan == nil {
		return nutrition.WeeklyMealPlan{}, false
	}
	return s.mealPlan.Clone(), true
}

func (s *Service) updateMealPlan(
	ctx context.Context,
	fn func(nutrition.WeeklyMealPlan) (nutrition.WeeklyMealPlan, error),
) (nutrition.WeeklyMealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mealPlan == nil {
		return nutrition.WeeklyMealPlan{}, ErrNoPlan
	}
	next, err := fn(*s.mealPlan)
	if err != nil {
		return nutrition.WeeklyMealPlan{}, err
	}
	s.mealPlan = &next
	s.persist(ctx, KindMealPlan, next)
	return next.Clone(), nil
}

// AddMealToDay sets a main meal or appends a snack. Meals without an id get one.
func (s *Service) AddMealToDay(ctx context.Context, dayID string, meal nutrition.MealSuggestion,
	t nutrition.MealType) (nutrition.WeeklyMealPlan, error) {
	return s.updateMealPlan(ctx, func(p nutrition.WeeklyMealPlan) (nutrition.WeeklyMealPlan, error) {
		if meal.ID == "" {
			meal.ID = s.gen.NewID()
		}
		return p.AddMealToDay(dayID, meal, t)
	})
}

// RemoveMealFromDay clears a main meal or the snack at snackIndex.
func (s *Service) RemoveMealFromDay(ctx context.Context, dayID string, t nutrition.MealType, snackIndex int) (
	nutrition.WeeklyMealPlan, error) {
	return s.updateMealPlan(ctx, func(p nutrition.WeeklyMealPlan) (nutrition.WeeklyMealPlan, error) {
		return p.RemoveMealFromDay(dayID, t, snackIndex)
	})
}

// UpdateMealInPlan replaces a main meal or the snack at snackIndex.
func (s *Service) UpdateMealInPlan(ctx context.Context, dayID string, t nutrition.MealType,
	meal nutrition.MealSuggestion, snackIndex int) (nutrition.WeeklyMealPlan, error) {
	return s.updateMealPlan(ctx, func(p nutrition.WeeklyMealPlan) (nutrition.WeeklyMealPlan, error) {
		return p.UpdateMealInPlan(dayID, t, meal, snackIndex)
	})
}

// ToggleMealCompletion flips the eaten mark of a meal.
func (s *Service) ToggleMealCompletion(ctx context.Context, dayID string, t nutrition.MealType, snackIndex int) (
	nutrition.WeeklyMealPlan, error) {
	return s.updateMealPlan(ctx, func(p nutrition.WeeklyMealPlan) (nutrition.WeeklyMealPlan, error) {
		return p.ToggleMealCompletion(dayID, t, snackIndex)
	})
}

// GroceryList returns the current grocery list.
func (s *Service) GroceryList() (nutrition.GroceryList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.groceries == nil {
		return nutrition.GroceryList{}, false
	}
	return s.groceries.Clone(), true
}

func (s *Service) updateGroceries(ctx context.Context, fn func(nutrition.GroceryList) (nutrition.GroceryList, error)) (
	nutrition.GroceryList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.groceries == nil {
		return nutrition.GroceryList{}, ErrNoPlan
	}
	next, err := fn(*s.groceries)
	if err != nil {
		return nutrition.GroceryList{}, err
	}
	s.groceries = &next
	s.persist(ctx, KindGroceryList, next)
	return next.Clone(), nil
}

// ToggleGroceryItem flips the checked mark of an item.
func (s *Service) ToggleGroceryItem(ctx context.Context, itemID string) (nutrition.GroceryList, error) {
	return s.updateGroceries(ctx, func(l nutrition.GroceryList) (nutrition.GroceryList, error) {
		return l.ToggleGroceryItem(itemID)
	})
}

// AddGroceryItem appends a hand-written item.
func (s *Service) AddGroceryItem(ctx context.Context, name string) (nutrition.GroceryList, error) {
	return s.updateGroceries(ctx, func(l nutrition.GroceryList) (nutrition.GroceryList, error) {
		return l.AddGroceryItem(name, s.gen.NewID())
	})
}
