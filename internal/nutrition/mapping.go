package nutrition

import "ptrainer/backend/internal/domain"

// Variants maps each canonical macro to the raw nutrient names that carry it,
// in priority order: when a food lists several of them, the earliest wins.
var Variants = map[domain.Macro][]string{
	domain.MacroEnergy: {
		"Energy (Atwater Specific Factors)",
		"Energy (Atwater General Factors)",
		"Energy",
		"energy",
		"ENERGY",
		"Calories",
		"calories",
		"kcal",
	},
	domain.MacroCarbs: {
		"Carbohydrate, by difference",
		"Carbohydrates",
		"carbohydrates",
		"Carbs",
		"carbs",
	},
	domain.MacroProtein: {
		"Protein",
		"protein",
		"PROTEIN",
	},
	domain.MacroFat: {
		"Total lipid (fat)",
		"Fat",
		"fat",
		"Lipids",
		"lipids",
	},
}
