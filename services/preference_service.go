package services

import (
	"errors"
	"fmt"

	"github.com/Decoding-DataScience/NutridecodeProd/models"

	"gorm.io/gorm"
)

// PreferenceService manages one preferences row per user. The row is
// created lazily with defaults on first read and merged into on update.
type PreferenceService struct {
	db *gorm.DB
}

func NewPreferenceService(db *gorm.DB) *PreferenceService {
	return &PreferenceService{db: db}
}

// Get returns the user's preferences, creating a default row if this is
// the first access.
func (s *PreferenceService) Get(userID uint) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := s.db.Where("user_id = ?", userID).First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}

	prefs = models.DefaultPreferences(userID)
	if err := s.db.Create(&prefs).Error; err != nil {
		// A concurrent first read may have created the row already.
		var existing models.UserPreferences
		if ferr := s.db.Where("user_id = ?", userID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create default preferences: %w", err)
	}
	return &prefs, nil
}

// PreferencesUpdate carries partial changes; nil fields are left as
// they are.
type PreferencesUpdate struct {
	PreferredLanguage       *string                         `json:"preferred_language"`
	DietaryRestrictions     *[]string                       `json:"dietary_restrictions"`
	PreferredDiets          *[]string                       `json:"preferred_diets"`
	AllergenAlerts          *[]string                       `json:"allergen_alerts"`
	AllergenSensitivity     *string                         `json:"allergen_sensitivity"`
	HealthGoals             *[]string                       `json:"health_goals"`
	DailyCalorieTarget      *int                            `json:"daily_calorie_target"`
	MacroPreferences        *models.MacroPreferences        `json:"macro_preferences"`
	NutrientsToTrack        *[]string                       `json:"nutrients_to_track"`
	NutrientsToAvoid        *[]string                       `json:"nutrients_to_avoid"`
	IngredientsToAvoid      *[]string                       `json:"ingredients_to_avoid"`
	PreferredIngredients    *[]string                       `json:"preferred_ingredients"`
	EcoConscious            *bool                           `json:"eco_conscious"`
	PackagingPreferences    *[]string                       `json:"packaging_preferences"`
	NotificationPreferences *models.NotificationPreferences `json:"notification_preferences"`
}

// Update merges the partial changes into the stored row and returns the
// result.
func (s *PreferenceService) Update(userID uint, changes PreferencesUpdate) (*models.UserPreferences, error) {
	prefs, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if changes.PreferredLanguage != nil {
		prefs.PreferredLanguage = *changes.PreferredLanguage
	}
	if changes.DietaryRestrictions != nil {
		prefs.DietaryRestrictions = *changes.DietaryRestrictions
	}
	if changes.PreferredDiets != nil {
		prefs.PreferredDiets = *changes.PreferredDiets
	}
	if changes.AllergenAlerts != nil {
		prefs.AllergenAlerts = *changes.AllergenAlerts
	}
	if changes.AllergenSensitivity != nil {
		prefs.AllergenSensitivity = *changes.AllergenSensitivity
	}
	if changes.HealthGoals != nil {
		prefs.HealthGoals = *changes.HealthGoals
	}
	if changes.DailyCalorieTarget != nil {
		prefs.DailyCalorieTarget = *changes.DailyCalorieTarget
	}
	if changes.MacroPreferences != nil {
		prefs.MacroPreferences = *changes.MacroPreferences
	}
	if changes.NutrientsToTrack != nil {
		prefs.NutrientsToTrack = *changes.NutrientsToTrack
	}
	if changes.NutrientsToAvoid != nil {
		prefs.NutrientsToAvoid = *changes.NutrientsToAvoid
	}
	if changes.IngredientsToAvoid != nil {
		prefs.IngredientsToAvoid = *changes.IngredientsToAvoid
	}
	if changes.PreferredIngredients != nil {
		prefs.PreferredIngredients = *changes.PreferredIngredients
	}
	if changes.EcoConscious != nil {
		prefs.EcoConscious = *changes.EcoConscious
	}
	if changes.PackagingPreferences != nil {
		prefs.PackagingPreferences = *changes.PackagingPreferences
	}
	if changes.NotificationPreferences != nil {
		prefs.NotificationPreferences = *changes.NotificationPreferences
	}

	if err := s.db.Save(prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return prefs, nil
}
