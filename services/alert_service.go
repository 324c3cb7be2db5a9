package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Decoding-DataScience/NutridecodeProd/models"

	"gorm.io/gorm"
)

// AlertService stores alerts and fans them out over websocket and push.
// Held by its consumers rather than a package global so tests can wire
// their own.
type AlertService struct {
	db   *gorm.DB
	rt   *RealtimeHub
	push *PushService
}

func NewAlertService(db *gorm.DB, rt *RealtimeHub, push *PushService) *AlertService {
	return &AlertService{db: db, rt: rt, push: push}
}

func (a *AlertService) Emit(userID uint, typ, message string) {
	alert := &models.Alert{UserID: userID, Type: typ, Message: message, CreatedAt: time.Now()}
	_ = a.db.Create(alert).Error

	if a.rt != nil {
		a.rt.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": alert,
		})
	}
	if a.push != nil {
		a.push.PushToUser(userID, "NutriDecode Alert", message, map[string]string{
			"type": typ, "alertId": fmt.Sprintf("%d", alert.ID),
		})
	}
}

// EmitAllergenAlerts raises one alert per allergen the enrichment step
// flagged, honoring the user's notification toggle.
func (a *AlertService) EmitAllergenAlerts(userID uint, productName string, enriched *models.PreferenceBasedAnalysis, prefs *models.UserPreferences) {
	if prefs != nil && !prefs.NotificationPreferences.AllergenAlerts {
		return
	}
	detected := enriched.PreferencesMatch.AllergenSafety.DetectedAllergens
	if len(detected) == 0 {
		return
	}
	msg := fmt.Sprintf("%s contains allergens you track: %s", productName, strings.Join(detected, ", "))
	a.Emit(userID, "allergen", msg)
}

// History returns the user's stored alerts, newest first.
func (a *AlertService) History(userID uint) ([]models.Alert, error) {
	var alerts []models.Alert
	err := a.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}
