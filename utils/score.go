package utils

import (
	"math"
	"strings"

	"github.com/Decoding-DataScience/NutridecodeProd/models"
)

// BaseHealthScore is the starting value before any adjustment.
const BaseHealthScore = 65

// HealthScore maps an analysis to a 0-100 integer with fixed
// additive/subtractive rules. This is the persisted score: it is stored
// with the analysis and drives history filtering.
//
// Note: DisplayHealthScore below applies different weights. The two
// heuristics coexist on purpose; see DESIGN.md before unifying them.
func HealthScore(a *models.AnalysisResult) int {
	score := float64(BaseHealthScore)

	if anyIngredientContains(a.Ingredients.List, "rapeseed oil", "olive oil", "sunflower oil") {
		score += 1.5
	}

	if len(a.Allergens.Declared) == 0 && len(a.Allergens.MayContain) == 0 {
		score += 1
	}

	if len(a.Ingredients.Preservatives) > 0 || anyIngredientContains(a.Ingredients.List, "edta") {
		score -= 1
	}

	if a.NutritionalInfo.Per100g.Calories > 300 {
		score -= 1
	}

	if a.Packaging.RecyclingInfo != "" || len(a.Packaging.SustainabilityClaims) > 0 {
		score += 1
	}

	if a.NutritionalInfo.Per100g.Sugar > 5 || a.NutritionalInfo.Per100g.Salt > 1.5 {
		score -= 0.5
	}

	if len(a.Ingredients.List) > 0 && allNonEmpty(a.Ingredients.List) {
		score += 0.5
	}

	return clampScore(score)
}

// DisplayHealthScore is the coarser variant shown on the results view.
// It weighs the same signals with larger steps and reads per-serving
// rather than per-100g values.
func DisplayHealthScore(a *models.AnalysisResult) int {
	score := float64(BaseHealthScore)

	if anyIngredientContains(a.Ingredients.List, "rapeseed oil") {
		score += 15
	}

	if len(a.Ingredients.Preservatives) > 0 {
		score -= 10
	}

	if a.NutritionalInfo.PerServing.Calories > 100 {
		score -= 10
	}

	if anyClaimContains(a.Packaging.SustainabilityClaims, "recycled", "sustainable") {
		score += 10
	}

	if len(a.Packaging.Certifications) > 0 {
		score += 5
	}

	if anyClaimContains(a.HealthClaims, "omega") {
		score += 5
	}

	if a.NutritionalInfo.PerServing.Sugar > 0 {
		score -= 5
	}

	return clampScore(score)
}

func clampScore(score float64) int {
	return int(math.Max(0, math.Min(100, math.Round(score))))
}

func anyIngredientContains(list []string, subs ...string) bool {
	for _, item := range list {
		lower := strings.ToLower(item)
		for _, sub := range subs {
			if strings.Contains(lower, sub) {
				return true
			}
		}
	}
	return false
}

func anyClaimContains(claims []string, subs ...string) bool {
	return anyIngredientContains(claims, subs...)
}

func allNonEmpty(list []string) bool {
	for _, item := range list {
		if strings.TrimSpace(item) == "" {
			return false
		}
	}
	return true
}
