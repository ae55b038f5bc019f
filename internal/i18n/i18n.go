// Package i18n holds the user-facing strings of the plan engine in English and Arabic.
package i18n

import "fmt"

// Language represents a supported language.
type Language string

const (
	// English is the English language.
	English Language = "en"
	// Arabic is the Arabic language.
	Arabic Language = "ar"
)

// DefaultLanguage is the fallback language.
const DefaultLanguage = Language(English)

// translations maps language codes to translation keys and their values.
//
//nolint:gochecknoglobals // static lookup table.
var translations = map[Language]map[string]string{
	English: {
		"day.monday":    "Monday",
		"day.tuesday":   "Tuesday",
		"day.wednesday": "Wednesday",
		"day.thursday":  "Thursday",
		"day.friday":    "Friday",
		"day.saturday":  "Saturday",
		"day.sunday":    "Sunday",

		"rest.recovery":     "⚠️ Consider resting today, your body needs to recover",
		"rest.optional":     "💡 You can take today off and focus on the other days",
		"rest.active":       "🔥 Active recovery: a light walk or yoga",
		"template.fullbody": "Full Body",
		"template.upper":    "Upper Body",
		"template.lower":    "Lower Body",
		"template.push":     "Push",
		"template.pull":     "Pull",
		"template.legs":     "Legs",

		"rec.muscle_gain.surplus":  "Increase protein and carbohydrates to build muscle",
		"rec.muscle_gain.carbs":    "Eat carbohydrates before and after training",
		"rec.fat_loss.protein":     "High protein preserves muscle while losing weight",
		"rec.fat_loss.carbs":       "Reduce carbohydrates gradually",
		"rec.fat_loss.deficit":     "A calorie deficit burns fat",
		"rec.balanced":             "A balanced diet for general health",
		"rec.diabetes":             "Reduce carbohydrates to manage diabetes",
		"rec.vegetables":           "Increase vegetables gradually",
		"rec.fish":                 "Add fish for omega-3",
		"rec.protein_gap":          "Increase protein from %dg to %dg",
		"report.week":              "Week %d",
		"report.calories":          "Target calories",
		"report.protein":           "Protein",
		"report.carbs":             "Carbs",
		"report.fats":              "Fats",
		"report.exercise":          "Exercise",
		"report.sets":              "Sets",
		"report.reps":              "Reps",
		"report.rest":              "Rest",
		"report.weight":            "Weight",
		"report.pattern":           "Diet pattern",
		"report.meals":             "Meals",
		"report.snacks":            "Snacks",
		"report.protein_per_meal":  "Protein per meal",
		"report.recommendations":   "Recommendations",
		"report.completed":         "Completed",
		"report.nutrition":         "Nutrition plan",
		"report.duration":          "Duration",
		"report.meal_plan":         "Meal plan",
		"report.day":               "Day",
		"report.breakfast":         "Breakfast",
		"report.lunch":             "Lunch",
		"report.dinner":            "Dinner",
		"report.groceries":         "Grocery list",
	},
	Arabic: {
		"day.monday":    "الاثنين",
		"day.tuesday":   "الثلاثاء",
		"day.wednesday": "الأربعاء",
		"day.thursday":  "الخميس",
		"day.friday":    "الجمعة",
		"day.saturday":  "السبت",
		"day.sunday":    "الأحد",

		"rest.recovery":     "⚠️ يُنصح بأخذ استراحة اليوم - الجسم يحتاج للتعافي",
		"rest.optional":     "💡 يمكنك أخذ استراحة اليوم وتركيز الأيام الأخرى",
		"rest.active":       "🔥 استراحة نشطة: مشي خفيف أو يوجا",
		"template.fullbody": "تمرين كامل الجسم",
		"template.upper":    "الجزء العلوي",
		"template.lower":    "الجزء السفلي",
		"template.push":     "دفع",
		"template.pull":     "سحب",
		"template.legs":     "أرجل",

		"rec.muscle_gain.surplus":  "زيادة البروتين والكربوهيدرات لبناء العضلات",
		"rec.muscle_gain.carbs":    "تناول الكربوهيدرات قبل وبعد التمرين",
		"rec.fat_loss.protein":     "بروتين عالي للحفاظ على العضلات أثناء نزول الوزن",
		"rec.fat_loss.carbs":       "تقليل الكربوهيدرات تدريجياً",
		"rec.fat_loss.deficit":     "العجز في السعرات الحرارية لحرق الدهون",
		"rec.balanced":             "نظام متوازن للصحة العامة",
		"rec.diabetes":             "تقليل الكربوهيدرات لمرضى السكري",
		"rec.vegetables":           "زيادة تناول الخضروات تدريجياً",
		"rec.fish":                 "إضافة السمك للحصول على أوميغا 3",
		"rec.protein_gap":          "زيادة البروتين من %dg إلى %dg",
		"report.week":              "الأسبوع %d",
		"report.calories":          "السعرات المستهدفة",
		"report.protein":           "البروتين",
		"report.carbs":             "الكربوهيدرات",
		"report.fats":              "الدهون",
		"report.exercise":          "التمرين",
		"report.sets":              "المجموعات",
		"report.reps":              "التكرارات",
		"report.rest":              "الراحة",
		"report.weight":            "الوزن",
		"report.pattern":           "النمط الغذائي",
		"report.meals":             "الوجبات",
		"report.snacks":            "الوجبات الخفيفة",
		"report.protein_per_meal":  "البروتين لكل وجبة",
		"report.recommendations":   "التوصيات",
		"report.completed":         "مكتمل",
		"report.nutrition":         "الخطة الغذائية",
		"report.duration":          "المدة",
		"report.meal_plan":         "خطة الوجبات",
		"report.day":               "اليوم",
		"report.breakfast":         "الفطور",
		"report.lunch":             "الغداء",
		"report.dinner":            "العشاء",
		"report.groceries":         "قائمة المشتريات",
	},
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{English, Arabic}
}

// IsSupported checks if a language is supported.
func IsSupported(lang Language) bool {
	_, ok := translations[lang]
	return ok
}

// Translate returns the translation for the given key in the specified language.
// If the key is not found, it falls back to the default language.
// If still not found, it returns the key itself.
func Translate(lang Language, key string) string {
	if langTranslations, ok := translations[lang]; ok {
		if translation, ok := langTranslations[key]; ok {
			return translation
		}
	}
	if lang != DefaultLanguage {
		if translation, ok := translations[DefaultLanguage][key]; ok {
			return translation
		}
	}
	return key
}

// Translatef translates key and formats the result with args.
func Translatef(lang Language, key string, args ...any) string {
	return fmt.Sprintf(Translate(lang, key), args...)
}
