// Package nutrition canonicalizes free-text nutrient rows into the four macro
// keys and scales per-100g values to serving amounts.
package nutrition

import (
	"fmt"
	"math"
	"strings"

	"ptrainer/backend/internal/domain"
)

// KJPerKcal converts kilojoules to kilocalories.
const KJPerKcal = 4.184

// PartialDataError describes a malformed nutrient or reference row. Rows that
// produce it are skipped; the rest of the data is still used.
type PartialDataError struct {
	Subject string
	Reason  string
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("partial data in %s: %s", e.Subject, e.Reason)
}

// Round1 rounds half away from zero to one decimal.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Base extracts the per-100g macros of a food. Macros with no matching fact
// are absent from the result. Malformed facts are skipped and reported.
func Base(food *domain.Food, variants map[domain.Macro][]string) (domain.Nutrition, []error) {
	var problems []error
	byName := make(map[string]domain.NutritionalFact, len(food.NutritionalFacts))
	for _, fact := range food.NutritionalFacts {
		name := strings.TrimSpace(fact.Nutrient)
		if name == "" || math.IsNaN(fact.Value) || math.IsInf(fact.Value, 0) {
			problems = append(problems, &PartialDataError{
				Subject: "food " + food.ID.Hex(),
				Reason:  fmt.Sprintf("unusable nutrient row %q=%v", fact.Nutrient, fact.Value),
			})
			continue
		}
		if _, seen := byName[name]; !seen {
			byName[name] = fact
		}
	}

	base := make(domain.Nutrition)
	for _, macro := range domain.Macros {
		for _, variant := range variants[macro] {
			fact, ok := byName[variant]
			if !ok {
				continue
			}
			value, unit := fact.Value, fact.Unit
			if macro == domain.MacroEnergy {
				if !strings.EqualFold(unit, "kcal") {
					value /= KJPerKcal
				}
				unit = domain.DefaultUnits[domain.MacroEnergy]
			}
			base[macro] = domain.NutritionValue{Value: Round1(value), Unit: unit}
			break
		}
	}
	return base, problems
}

// Scale converts per-100g macros to the given amount in grams. Each macro is
// scaled independently and rounded again.
func Scale(base domain.Nutrition, amount float64) domain.Nutrition {
	if base == nil {
		return nil
	}
	ratio := amount / 100
	scaled := make(domain.Nutrition, len(base))
	for macro, v := range base {
		scaled[macro] = domain.NutritionValue{Value: Round1(v.Value * ratio), Unit: v.Unit}
	}
	return scaled
}

// Totals sums the given nutrition maps into all four macros, rounded to one decimal.
func Totals(items []domain.Nutrition) domain.Nutrition {
	sums := make(map[domain.Macro]float64, len(domain.Macros))
	for _, n := range items {
		for _, macro := range domain.Macros {
			if v, ok := n[macro]; ok {
				sums[macro] += v.Value
			}
		}
	}
	totals := make(domain.Nutrition, len(domain.Macros))
	for _, macro := range domain.Macros {
		totals[macro] = domain.NutritionValue{Value: Round1(sums[macro]), Unit: domain.DefaultUnits[macro]}
	}
	return totals
}
