package models

import (
	"time"

	"gorm.io/gorm"
)

// AnalysisMetadata describes one round trip to the vision model.
type AnalysisMetadata struct {
	Timestamp        time.Time `json:"timestamp"`
	Temperature      float64   `json:"temperature"`
	Model            string    `json:"model"`
	QueryType        string    `json:"queryType"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
	Error            string    `json:"error,omitempty"`
	Warning          string    `json:"warning,omitempty"`
}

type Ingredients struct {
	List          []string `json:"list"`
	Preservatives []string `json:"preservatives"`
	Additives     []string `json:"additives"`
	Antioxidants  []string `json:"antioxidants"`
	Stabilizers   []string `json:"stabilizers"`
}

type Allergens struct {
	Declared   []string `json:"declared"`
	MayContain []string `json:"mayContain"`
}

type FatBreakdown struct {
	Total     float64 `json:"total"`
	Saturated float64 `json:"saturated"`
}

// NutrientValues is one column of a nutrition table. Absent values stay
// zero so scoring and display never deal with missing numbers.
type NutrientValues struct {
	Calories float64      `json:"calories"`
	Protein  float64      `json:"protein"`
	Carbs    float64      `json:"carbs"`
	Fats     FatBreakdown `json:"fats"`
	Sugar    float64      `json:"sugar"`
	Salt     float64      `json:"salt"`
	Omega3   float64      `json:"omega3"`
}

type NutritionalInfo struct {
	ServingSize string         `json:"servingSize"`
	PerServing  NutrientValues `json:"perServing"`
	Per100g     NutrientValues `json:"per100g"`
}

type Packaging struct {
	Materials            []string `json:"materials"`
	RecyclingInfo        string   `json:"recyclingInfo"`
	SustainabilityClaims []string `json:"sustainabilityClaims"`
	Certifications       []string `json:"certifications"`
}

type StorageInfo struct {
	Instructions []string `json:"instructions"`
	BestBefore   string   `json:"bestBefore"`
}

type Manufacturer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
}

// AnalysisResult is the structured extraction of a single food label.
// Immutable once produced; enrichment returns a superset copy.
type AnalysisResult struct {
	Metadata        AnalysisMetadata `json:"metadata"`
	ProductName     string           `json:"productName"`
	Ingredients     Ingredients      `json:"ingredients"`
	Allergens       Allergens        `json:"allergens"`
	NutritionalInfo NutritionalInfo  `json:"nutritionalInfo"`
	HealthClaims    []string         `json:"healthClaims"`
	Packaging       Packaging        `json:"packaging"`
	Storage         StorageInfo      `json:"storage"`
	Manufacturer    Manufacturer     `json:"manufacturer"`
}

// Normalize replaces nil slices with empty ones so every list field is
// always present in JSON and safe to range over.
func (a *AnalysisResult) Normalize() {
	fix := func(s *[]string) {
		if *s == nil {
			*s = []string{}
		}
	}
	fix(&a.Ingredients.List)
	fix(&a.Ingredients.Preservatives)
	fix(&a.Ingredients.Additives)
	fix(&a.Ingredients.Antioxidants)
	fix(&a.Ingredients.Stabilizers)
	fix(&a.Allergens.Declared)
	fix(&a.Allergens.MayContain)
	fix(&a.HealthClaims)
	fix(&a.Packaging.Materials)
	fix(&a.Packaging.SustainabilityClaims)
	fix(&a.Packaging.Certifications)
	fix(&a.Storage.Instructions)
}

// DietaryCompliance etc. are the four sub-reports the enrichment model
// returns when cross-referencing an analysis against user preferences.
type DietaryCompliance struct {
	Compliant  bool     `json:"compliant"`
	Violations []string `json:"violations"`
	Warnings   []string `json:"warnings"`
}

type AllergenSafety struct {
	Safe                    bool     `json:"safe"`
	DetectedAllergens       []string `json:"detectedAllergens"`
	CrossContaminationRisks []string `json:"crossContaminationRisks"`
}

type NutritionalAlignment struct {
	Aligned         bool     `json:"aligned"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
}

type SustainabilityMatch struct {
	Matches         bool     `json:"matches"`
	PositiveAspects []string `json:"positiveAspects"`
	Improvements    []string `json:"improvements"`
}

type PreferencesMatch struct {
	DietaryCompliance    DietaryCompliance    `json:"dietaryCompliance"`
	AllergenSafety       AllergenSafety       `json:"allergenSafety"`
	NutritionalAlignment NutritionalAlignment `json:"nutritionalAlignment"`
	SustainabilityMatch  SustainabilityMatch  `json:"sustainabilityMatch"`
}

// PreferenceBasedAnalysis is an AnalysisResult annotated with the
// preference report. The embedded analysis is a copy, never the original.
type PreferenceBasedAnalysis struct {
	AnalysisResult
	PreferencesMatch            PreferencesMatch `json:"preferencesMatch"`
	PersonalizedRecommendations []string         `json:"personalizedRecommendations"`
	AlternativeProducts         []string         `json:"alternativeProducts,omitempty"`
}

// FoodAnalysis is the persisted form of an AnalysisResult. Owned by one
// user, written once on save, deletable by its owner, never updated.
type FoodAnalysis struct {
	gorm.Model
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	ProductName string         `gorm:"index" json:"product_name"`
	ImageURL    string         `json:"image_url"`
	HealthScore int            `gorm:"index" json:"health_score"`
	Result      AnalysisResult `gorm:"serializer:json" json:"analysis_result"`
}
