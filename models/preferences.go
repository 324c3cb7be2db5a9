package models

import "gorm.io/gorm"

type MacroPreferences struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fats    int `json:"fats"`
}

type NotificationPreferences struct {
	AllergenAlerts     bool `json:"allergen_alerts"`
	HealthInsights     bool `json:"health_insights"`
	SustainabilityTips bool `json:"sustainability_tips"`
	WeeklySummary      bool `json:"weekly_summary"`
}

// UserPreferences holds one user's dietary profile. A row is created
// lazily with defaults on first read and only ever merged into, never
// deleted by the application.
type UserPreferences struct {
	gorm.Model
	UserID                  uint                    `gorm:"uniqueIndex;not null" json:"user_id"`
	PreferredLanguage       string                  `gorm:"size:10" json:"preferred_language"`
	DietaryRestrictions     []string                `gorm:"serializer:json" json:"dietary_restrictions"`
	PreferredDiets          []string                `gorm:"serializer:json" json:"preferred_diets"`
	AllergenAlerts          []string                `gorm:"serializer:json" json:"allergen_alerts"`
	AllergenSensitivity     string                  `gorm:"size:10" json:"allergen_sensitivity"` // "low" | "medium" | "high"
	HealthGoals             []string                `gorm:"serializer:json" json:"health_goals"`
	DailyCalorieTarget      int                     `json:"daily_calorie_target"`
	MacroPreferences        MacroPreferences        `gorm:"serializer:json" json:"macro_preferences"`
	NutrientsToTrack        []string                `gorm:"serializer:json" json:"nutrients_to_track"`
	NutrientsToAvoid        []string                `gorm:"serializer:json" json:"nutrients_to_avoid"`
	IngredientsToAvoid      []string                `gorm:"serializer:json" json:"ingredients_to_avoid"`
	PreferredIngredients    []string                `gorm:"serializer:json" json:"preferred_ingredients"`
	EcoConscious            bool                    `json:"eco_conscious"`
	PackagingPreferences    []string                `gorm:"serializer:json" json:"packaging_preferences"`
	NotificationPreferences NotificationPreferences `gorm:"serializer:json" json:"notification_preferences"`
}

// DefaultPreferences is the row created for a user who has never saved
// preferences.
func DefaultPreferences(userID uint) UserPreferences {
	return UserPreferences{
		UserID:               userID,
		PreferredLanguage:    "en",
		DietaryRestrictions:  []string{},
		PreferredDiets:       []string{},
		AllergenAlerts:       []string{},
		AllergenSensitivity:  "medium",
		HealthGoals:          []string{},
		DailyCalorieTarget:   2000,
		MacroPreferences:     MacroPreferences{Protein: 30, Carbs: 40, Fats: 30},
		NutrientsToTrack:     []string{},
		NutrientsToAvoid:     []string{},
		IngredientsToAvoid:   []string{},
		PreferredIngredients: []string{},
		PackagingPreferences: []string{},
		NotificationPreferences: NotificationPreferences{
			AllergenAlerts:     true,
			HealthInsights:     true,
			SustainabilityTips: true,
			WeeklySummary:      true,
		},
	}
}
