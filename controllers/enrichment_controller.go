package controllers

import (
	"net/http"

	"github.com/Decoding-DataScience/NutridecodeProd/models"
	"github.com/Decoding-DataScience/NutridecodeProd/services"

	"github.com/gin-gonic/gin"
)

type EnrichmentController struct {
	Enrichment  *services.EnrichmentService
	Preferences *services.PreferenceService
	OpenAI      *services.OpenAIService
	Alerts      *services.AlertService
}

func NewEnrichmentController(enrichment *services.EnrichmentService, prefs *services.PreferenceService, openai *services.OpenAIService, alerts *services.AlertService) *EnrichmentController {
	return &EnrichmentController{Enrichment: enrichment, Preferences: prefs, OpenAI: openai, Alerts: alerts}
}

type EnrichInput struct {
	Analysis models.AnalysisResult `json:"analysis" binding:"required"`
}

// Enrich cross-references an analysis against the caller's preferences
// and raises allergen alerts for any tracked allergen it detects.
func (ec *EnrichmentController) Enrich(c *gin.Context) {
	uid := c.GetUint("userID")

	var input EnrichInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := ec.Preferences.Get(uid)
	if err != nil {
		respondError(c, err)
		return
	}

	enriched, err := ec.Enrichment.AnalyzeWithPreferences(c.Request.Context(), uid, &input.Analysis, prefs)
	if err != nil {
		respondError(c, err)
		return
	}

	if ec.Alerts != nil {
		ec.Alerts.EmitAllergenAlerts(uid, input.Analysis.ProductName, enriched, prefs)
	}

	c.JSON(http.StatusOK, enriched)
}

func (ec *EnrichmentController) Ingredient(c *gin.Context) {
	uid := c.GetUint("userID")

	var input struct {
		Ingredient string `json:"ingredient" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := ec.Preferences.Get(uid)
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := ec.Enrichment.GetDetailedIngredientAnalysis(c.Request.Context(), input.Ingredient, prefs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient": input.Ingredient, "analysis": detail})
}

// Summary produces a spoken-style recap of an analysis, suitable for
// the speech endpoints.
func (ec *EnrichmentController) Summary(c *gin.Context) {
	var input struct {
		Analysis models.AnalysisResult `json:"analysis" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := ec.OpenAI.GenerateSummary(c.Request.Context(), &input.Analysis)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (ec *EnrichmentController) Chat(c *gin.Context) {
	var input struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := ec.OpenAI.Chat(c.Request.Context(), input.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
