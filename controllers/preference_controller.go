package controllers

import (
	"net/http"

	"github.com/Decoding-DataScience/NutridecodeProd/services"

	"github.com/gin-gonic/gin"
)

type PreferenceController struct {
	Preferences *services.PreferenceService
}

func NewPreferenceController(prefs *services.PreferenceService) *PreferenceController {
	return &PreferenceController{Preferences: prefs}
}

func (pc *PreferenceController) Get(c *gin.Context) {
	uid := c.GetUint("userID")

	prefs, err := pc.Preferences.Get(uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (pc *PreferenceController) Update(c *gin.Context) {
	uid := c.GetUint("userID")

	var changes services.PreferencesUpdate
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := pc.Preferences.Update(uid, changes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
