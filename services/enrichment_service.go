package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Decoding-DataScience/NutridecodeProd/models"
	"github.com/Decoding-DataScience/NutridecodeProd/utils"
)

const (
	enrichmentTemperature = 0.4
	ingredientTemperature = 0.3
)

// EnrichmentService cross-references a label analysis against one
// user's stored preferences via a second LLM call.
type EnrichmentService struct {
	openai *OpenAIService
	prefs  *PreferenceService
}

func NewEnrichmentService(openai *OpenAIService, prefs *PreferenceService) *EnrichmentService {
	return &EnrichmentService{openai: openai, prefs: prefs}
}

// AnalyzeWithPreferences produces the four-part preference report and
// merges it into a copy of the analysis. When preferences is nil they
// are fetched for the user; a user with no preferences row fails with
// ErrPreferencesMissing.
func (s *EnrichmentService) AnalyzeWithPreferences(
	ctx context.Context,
	userID uint,
	analysis *models.AnalysisResult,
	preferences *models.UserPreferences,
) (*models.PreferenceBasedAnalysis, error) {
	if preferences == nil {
		fetched, err := s.prefs.Get(userID)
		if err != nil {
			return nil, utils.ErrPreferencesMissing
		}
		preferences = fetched
	}

	prompt := buildPreferencePrompt(analysis, preferences)

	content, err := s.openai.dispatchCompletion(ctx, chatRequest{
		Model:          chatModel,
		Temperature:    enrichmentTemperature,
		MaxTokens:      2000,
		ResponseFormat: &responseFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: "You are a personalized nutrition analysis expert. Analyze food products based on user preferences and provide detailed recommendations."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, &utils.ParseError{Err: fmt.Errorf("empty response content")}
	}

	var report struct {
		PreferencesMatch            models.PreferencesMatch `json:"preferencesMatch"`
		PersonalizedRecommendations []string                `json:"personalizedRecommendations"`
		AlternativeProducts         []string                `json:"alternativeProducts"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(content)), &report); err != nil {
		return nil, &utils.ParseError{Err: err}
	}

	enriched := &models.PreferenceBasedAnalysis{
		AnalysisResult:              *analysis, // copy; the input stays untouched
		PreferencesMatch:            report.PreferencesMatch,
		PersonalizedRecommendations: report.PersonalizedRecommendations,
		AlternativeProducts:         report.AlternativeProducts,
	}
	normalizeMatch(&enriched.PreferencesMatch)
	if enriched.PersonalizedRecommendations == nil {
		enriched.PersonalizedRecommendations = []string{}
	}
	return enriched, nil
}

// GetDetailedIngredientAnalysis returns free-text background on one
// ingredient in the context of the user's preferences.
func (s *EnrichmentService) GetDetailedIngredientAnalysis(ctx context.Context, ingredient string, preferences *models.UserPreferences) (string, error) {
	prefsJSON, _ := json.MarshalIndent(preferences, "", "  ")

	content, err := s.openai.dispatchCompletion(ctx, chatRequest{
		Model:       chatModel,
		Temperature: ingredientTemperature,
		MaxTokens:   500,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a nutrition expert providing personalized ingredient analysis based on user preferences."},
			{Role: "user", Content: fmt.Sprintf(`Analyze this ingredient: %s

User Preferences: %s

Provide detailed information about:
1. What it is and its source
2. Nutritional value and health benefits
3. Any concerns based on user's dietary restrictions or allergens
4. How it aligns with user's health goals
5. Sustainability aspects
6. Alternative ingredients if it doesn't match preferences`, ingredient, prefsJSON)},
		},
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "No detailed analysis available.", nil
	}
	return content, nil
}

func buildPreferencePrompt(analysis *models.AnalysisResult, preferences *models.UserPreferences) string {
	analysisJSON, _ := json.MarshalIndent(analysis, "", "  ")
	prefsJSON, _ := json.MarshalIndent(preferences, "", "  ")

	return fmt.Sprintf(`Analyze this food product based on the following user preferences and provide personalized insights:

Product Analysis:
%s

User Preferences:
%s

Provide a detailed analysis in JSON format with the following structure:
{
  "preferencesMatch": {
    "dietaryCompliance": {
      "compliant": boolean,
      "violations": ["list any violations of dietary restrictions"],
      "warnings": ["list any potential concerns"]
    },
    "allergenSafety": {
      "safe": boolean,
      "detectedAllergens": ["list allergens that match user's alerts"],
      "crossContaminationRisks": ["list potential cross-contamination risks"]
    },
    "nutritionalAlignment": {
      "aligned": boolean,
      "concerns": ["list nutritional concerns based on health goals"],
      "recommendations": ["provide specific recommendations"]
    },
    "sustainabilityMatch": {
      "matches": boolean,
      "positiveAspects": ["list matching sustainability features"],
      "improvements": ["suggest sustainability improvements"]
    }
  },
  "personalizedRecommendations": [
    "List of specific recommendations based on user preferences"
  ],
  "alternativeProducts": [
    "Suggest alternative products if there are significant mismatches"
  ]
}

Allergen matching must be case-insensitive: an alert for "peanuts" matches a declared allergen "PEANUTS".

Focus on:
1. Strict compliance with dietary restrictions
2. Detailed allergen analysis including cross-contamination risks
3. Alignment with health goals and nutritional preferences
4. Sustainability preferences
5. Practical recommendations for alternatives if needed`, analysisJSON, prefsJSON)
}

func normalizeMatch(m *models.PreferencesMatch) {
	fix := func(s *[]string) {
		if *s == nil {
			*s = []string{}
		}
	}
	fix(&m.DietaryCompliance.Violations)
	fix(&m.DietaryCompliance.Warnings)
	fix(&m.AllergenSafety.DetectedAllergens)
	fix(&m.AllergenSafety.CrossContaminationRisks)
	fix(&m.NutritionalAlignment.Concerns)
	fix(&m.NutritionalAlignment.Recommendations)
	fix(&m.SustainabilityMatch.PositiveAspects)
	fix(&m.SustainabilityMatch.Improvements)
}
