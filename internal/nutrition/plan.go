package nutrition

import (
	"math"
	"slices"
	"strings"

	"github.com/mulhim/planner/internal/i18n"
	"github.com/mulhim/planner/internal/profile"
)

type MealStructure string

const (
	OneMealSnacks    MealStructure = "1_meal_snacks"
	TwoMeals         MealStructure = "2_meals"
	ThreeMeals       MealStructure = "3_meals"
	ThreeMealsSnacks MealStructure = "3_meals_snacks"
)

// Frequency is a food-frequency questionnaire answer.
type Frequency string

const (
	Daily     Frequency = "daily"
	Often     Frequency = "often"
	Sometimes Frequency = "sometimes"
	Rarely    Frequency = "rarely"
	Never     Frequency = "never"
)

func (f Frequency) low() bool {
	return f == Rarely || f == Never
}

type CarbTiming string

const (
	AroundWorkout     CarbTiming = "around_workout"
	EvenlyDistributed CarbTiming = "evenly_distributed"
)

// proteinPerMealHint is the protein credited to a reported meal that names a protein source.
const proteinPerMealHint = 25

// DietHistory lists the meal names a user reported eating, per meal type.
type DietHistory struct {
	Breakfast []string `json:"breakfast"`
	Lunch     []string `json:"lunch"`
	Dinner    []string `json:"dinner"`
	Snacks    []string `json:"snacks"`
}

func (h DietHistory) all() []string {
	return slices.Concat(h.Breakfast, h.Lunch, h.Dinner, h.Snacks)
}

// FoodFrequency holds the questionnaire answers.
type FoodFrequency struct {
	Vegetables Frequency `json:"vegetables"`
	Fruits     Frequency `json:"fruits"`
	Fish       Frequency `json:"fish"`
	RedMeat    Frequency `json:"redMeat"`
	Dairy      Frequency `json:"dairy"`
	Sweets     Frequency `json:"sweets"`
}

// NutritionAssessment is the dietary intake survey.
type NutritionAssessment struct {
	DietHistory   DietHistory      `json:"dietHistory"`
	FFQ           FoodFrequency    `json:"ffq"`
	MealStructure MealStructure    `json:"mealStructure"`
	Completed     bool             `json:"completed"`
	FavoriteMeals []MealSuggestion `json:"favoriteMeals,omitempty"`
}

// NutritionPlan is the generated daily nutrition target.
type NutritionPlan struct {
	TargetCalories   int               `json:"targetCalories"`
	Macros           MacroDistribution `json:"macros"`
	DietPattern      DietPattern       `json:"dietPattern"`
	Recommendations  []string          `json:"recommendations"`
	ProteinPriority  bool              `json:"proteinPriority"`
	CarbTiming       CarbTiming        `json:"carbTiming"`
	MealDistribution MealDistribution  `json:"mealDistribution"`
}

//nolint:gochecknoglobals // keyword table.
var proteinKeywords = []string{"دجاج", "لحم", "سمك", "بيض", "بروتين", "chicken", "meat", "fish", "egg"}

// EstimateCurrentProtein guesses the daily protein intake in grams: 25 g for every reported meal that
// mentions a protein source.
func EstimateCurrentProtein(h DietHistory) int {
	total := 0
	for _, meal := range h.all() {
		lower := strings.ToLower(meal)
		if slices.ContainsFunc(proteinKeywords, func(k string) bool { return strings.Contains(lower, k) }) {
			total += proteinPerMealHint
		}
	}
	return total
}

// GeneratePlan derives the nutrition plan. Goal-based recommendations come first, a diabetes mention in
// the injuries text forces a moderate low-carb pattern, and questionnaire and protein-gap advice follow.
func GeneratePlan(p profile.FitnessProfile, a NutritionAssessment, lang i18n.Language) NutritionPlan {
	const minDaysForHighProtein = 3
	plan := NutritionPlan{
		TargetCalories:   0,
		Macros:           MacroDistribution{Protein: 0, Carbs: 0, Fats: 0},
		DietPattern:      Balanced,
		Recommendations:  []string{},
		ProteinPriority:  false,
		CarbTiming:       EvenlyDistributed,
		MealDistribution: MealDistribution{MealsCount: 0, SnacksCount: 0, ProteinPerMeal: 0},
	}
	recommend := func(key string, args ...any) {
		plan.Recommendations = append(plan.Recommendations, i18n.Translatef(lang, key, args...))
	}

	switch p.Goal {
	case profile.MuscleGain:
		plan.DietPattern = HighProteinCarbs
		plan.ProteinPriority = true
		plan.CarbTiming = AroundWorkout
		recommend("rec.muscle_gain.surplus")
		recommend("rec.muscle_gain.carbs")
	case profile.FatLoss:
		if p.AvailableDays >= minDaysForHighProtein {
			plan.DietPattern = HighProtein
			plan.CarbTiming = AroundWorkout
			recommend("rec.fat_loss.protein")
		} else {
			plan.DietPattern = ModerateLowCarb
			recommend("rec.fat_loss.carbs")
		}
		plan.ProteinPriority = true
		recommend("rec.fat_loss.deficit")
	case profile.GeneralFitness:
		recommend("rec.balanced")
	default:
		recommend("rec.balanced")
	}

	if strings.Contains(strings.ToLower(p.Injuries), "diabetes") {
		plan.DietPattern = ModerateLowCarb
		recommend("rec.diabetes")
	}

	target := TargetCalories(p)
	plan.TargetCalories = int(math.Round(target))
	plan.Macros = Macros(target, plan.DietPattern, p.Weight)
	plan.MealDistribution = MealDistributionFor(a.MealStructure, plan.Macros.Protein)

	if a.FFQ.Vegetables.low() {
		recommend("rec.vegetables")
	}
	if a.FFQ.Fish.low() {
		recommend("rec.fish")
	}
	if current := EstimateCurrentProtein(a.DietHistory); current < plan.Macros.Protein {
		recommend("rec.protein_gap", current, plan.Macros.Protein)
	}
	return plan
}

// ExtractFavoriteMeals turns the reported meals into suggestions with typical values: 350 kcal for
// breakfast, 500 for lunch and dinner and 150 for snacks, each with 20 g protein, 40 g carbs and 15 g fat.
func ExtractFavoriteMeals(h DietHistory, newID func() string) []MealSuggestion {
	groups := []struct {
		mealType MealType
		names    []string
		calories float64
	}{
		{Breakfast, h.Breakfast, 350},
		{Lunch, h.Lunch, 500},
		{Dinner, h.Dinner, 500},
		{Snack, h.Snacks, 150},
	}
	var favorites []MealSuggestion
	for _, g := range groups {
		for _, name := range g.names {
			favorites = append(favorites, MealSuggestion{
				ID:            newID(),
				Name:          name,
				NameAr:        name,
				Type:          g.mealType,
				Calories:      g.calories,
				Protein:       20, //nolint:mnd // typical meal
				Carbs:         40, //nolint:mnd // typical meal
				Fats:          15, //nolint:mnd // typical meal
				Ingredients:   []string{name},
				IngredientsAr: []string{name},
			})
		}
	}
	return favorites
}
