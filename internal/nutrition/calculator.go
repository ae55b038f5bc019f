// Package nutrition computes energy and macro targets and manages weekly meal plans.
package nutrition

import (
	"math"

	"github.com/mulhim/planner/internal/profile"
)

type DietPattern string

const (
	Balanced         DietPattern = "balanced"
	HighProtein      DietPattern = "high_protein"
	HighProteinCarbs DietPattern = "high_protein_carbs"
	ModerateLowCarb  DietPattern = "moderate_low_carb"
)

// Energy constants.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
	fatLossDeficit     = 500
	muscleGainSurplus  = 300
	defaultMultiplier  = 1.55
	snackMealWeight    = 0.3
)

// MacroDistribution is a daily split in whole grams. Values are never negative.
type MacroDistribution struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fats    int `json:"fats"`
}

// MealDistribution says how the daily protein spreads over meals and snacks.
type MealDistribution struct {
	MealsCount     int `json:"mealsCount"`
	SnacksCount    int `json:"snacksCount"`
	ProteinPerMeal int `json:"proteinPerMeal"`
}

//nolint:gochecknoglobals // lookup table keyed by weekly training days.
var activityMultipliers = map[int]float64{
	0: 1.2, 1: 1.2, 2: 1.375, 3: 1.55, 4: 1.55, 5: 1.725, 6: 1.725, 7: 1.9,
}

type macroRatio struct {
	proteinPerKg float64
	carbShare    float64
	fatShare     float64
}

//nolint:gochecknoglobals // lookup table.
var macroRatios = map[DietPattern]macroRatio{
	Balanced:         {proteinPerKg: 1.6, carbShare: 0.40, fatShare: 0.30},
	HighProteinCarbs: {proteinPerKg: 2.0, carbShare: 0.45, fatShare: 0.25},
	HighProtein:      {proteinPerKg: 1.8, carbShare: 0.35, fatShare: 0.30},
	ModerateLowCarb:  {proteinPerKg: 1.6, carbShare: 0.25, fatShare: 0.40},
}

func ratioFor(pattern DietPattern) macroRatio {
	if r, ok := macroRatios[pattern]; ok {
		return r
	}
	return macroRatios[Balanced]
}

// ProteinPerKg returns the grams of protein per kg of body weight the pattern targets.
func ProteinPerKg(pattern DietPattern) float64 {
	return ratioFor(pattern).proteinPerKg
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal. Anything but male uses the female constant.
func BMR(p profile.FitnessProfile) float64 {
	base := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == profile.Male {
		return base + 5 //nolint:mnd // Mifflin-St Jeor male constant
	}
	return base - 161 //nolint:mnd // Mifflin-St Jeor female constant
}

// TDEE scales the BMR by the multiplier for the weekly training days, 1.55 when out of range.
func TDEE(p profile.FitnessProfile) float64 {
	m, ok := activityMultipliers[p.AvailableDays]
	if !ok {
		m = defaultMultiplier
	}
	return BMR(p) * m
}

// TargetCalories adjusts the TDEE to the goal.
func TargetCalories(p profile.FitnessProfile) float64 {
	tdee := TDEE(p)
	switch p.Goal {
	case profile.FatLoss:
		return tdee - fatLossDeficit
	case profile.MuscleGain:
		return tdee + muscleGainSurplus
	case profile.GeneralFitness:
		return tdee
	default:
		return tdee
	}
}

// Macros splits calories for a diet pattern. Protein comes from body weight and the remaining calories
// are shared between carbs and fats. Remaining calories below zero are clamped so carbs and fats stay at 0.
func Macros(calories float64, pattern DietPattern, weight float64) MacroDistribution {
	r := ratioFor(pattern)
	protein := weight * r.proteinPerKg
	remaining := max(calories-protein*kcalPerGramProtein, 0)
	return MacroDistribution{
		Protein: roundGrams(protein),
		Carbs:   roundGrams(remaining * r.carbShare / kcalPerGramCarbs),
		Fats:    roundGrams(remaining * r.fatShare / kcalPerGramFat),
	}
}

func roundGrams(v float64) int {
	return max(int(math.Round(v)), 0)
}

// MealDistributionFor maps a meal structure to meal and snack counts. Snacks count as 0.3 of a meal
// when spreading protein. Unknown structures mean three meals and no snacks.
func MealDistributionFor(structure MealStructure, totalProtein int) MealDistribution {
	meals, snacks := 3, 0
	switch structure {
	case OneMealSnacks:
		meals, snacks = 1, 4
	case TwoMeals:
		meals, snacks = 2, 3
	case ThreeMeals:
		meals, snacks = 3, 2
	case ThreeMealsSnacks:
		meals, snacks = 3, 3
	}
	return MealDistribution{
		MealsCount:     meals,
		SnacksCount:    snacks,
		ProteinPerMeal: int(math.Round(float64(totalProtein) / (float64(meals) + float64(snacks)*snackMealWeight))),
	}
}
