package services

import (
	"testing"

	"github.com/Decoding-DataScience/NutridecodeProd/models"
)

func TestGetCreatesDefaultsOnFirstAccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewPreferenceService(db)

	prefs, err := svc.Get(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if prefs.PreferredLanguage != "en" {
		t.Errorf("language = %q, want en", prefs.PreferredLanguage)
	}
	if prefs.AllergenSensitivity != "medium" {
		t.Errorf("sensitivity = %q, want medium", prefs.AllergenSensitivity)
	}
	if prefs.DailyCalorieTarget != 2000 {
		t.Errorf("calorie target = %d, want 2000", prefs.DailyCalorieTarget)
	}
	if prefs.MacroPreferences != (models.MacroPreferences{Protein: 30, Carbs: 40, Fats: 30}) {
		t.Errorf("macros = %+v", prefs.MacroPreferences)
	}
	if !prefs.NotificationPreferences.AllergenAlerts || !prefs.NotificationPreferences.WeeklySummary {
		t.Errorf("notification toggles should default on: %+v", prefs.NotificationPreferences)
	}
	if prefs.DietaryRestrictions == nil || prefs.AllergenAlerts == nil {
		t.Error("list fields must default to empty slices, not nil")
	}

	// A second read returns the same row, not another default.
	again, err := svc.Get(42)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if again.ID != prefs.ID {
		t.Errorf("second read created a new row: %d vs %d", again.ID, prefs.ID)
	}

	var count int64
	db.Model(&models.UserPreferences{}).Where("user_id = ?", 42).Count(&count)
	if count != 1 {
		t.Errorf("rows for user = %d, want 1", count)
	}
}

func TestUpdateMergesPartialChanges(t *testing.T) {
	svc := NewPreferenceService(newTestDB(t))

	if _, err := svc.Get(1); err != nil {
		t.Fatal(err)
	}

	lang := "de"
	alerts := []string{"peanuts", "shellfish"}
	eco := true
	updated, err := svc.Update(1, PreferencesUpdate{
		PreferredLanguage: &lang,
		AllergenAlerts:    &alerts,
		EcoConscious:      &eco,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.PreferredLanguage != "de" {
		t.Errorf("language = %q, want de", updated.PreferredLanguage)
	}
	if len(updated.AllergenAlerts) != 2 {
		t.Errorf("alerts = %v", updated.AllergenAlerts)
	}
	if !updated.EcoConscious {
		t.Error("eco flag not applied")
	}

	// Untouched fields keep their defaults.
	if updated.DailyCalorieTarget != 2000 {
		t.Errorf("calorie target changed unexpectedly: %d", updated.DailyCalorieTarget)
	}
	if updated.AllergenSensitivity != "medium" {
		t.Errorf("sensitivity changed unexpectedly: %q", updated.AllergenSensitivity)
	}

	// The merge persists.
	reread, err := svc.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if reread.PreferredLanguage != "de" || len(reread.AllergenAlerts) != 2 {
		t.Errorf("update did not persist: %+v", reread)
	}
}

func TestUpdateOnFreshUserCreatesThenMerges(t *testing.T) {
	svc := NewPreferenceService(newTestDB(t))

	target := 1800
	updated, err := svc.Update(9, PreferencesUpdate{DailyCalorieTarget: &target})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DailyCalorieTarget != 1800 {
		t.Errorf("calorie target = %d, want 1800", updated.DailyCalorieTarget)
	}
	if updated.PreferredLanguage != "en" {
		t.Errorf("defaults missing on implicit create: %+v", updated)
	}
}

func TestUpdateClearsListWithEmptySlice(t *testing.T) {
	svc := NewPreferenceService(newTestDB(t))

	alerts := []string{"peanuts"}
	if _, err := svc.Update(3, PreferencesUpdate{AllergenAlerts: &alerts}); err != nil {
		t.Fatal(err)
	}

	empty := []string{}
	updated, err := svc.Update(3, PreferencesUpdate{AllergenAlerts: &empty})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.AllergenAlerts) != 0 {
		t.Errorf("expected an explicit empty slice to clear alerts, got %v", updated.AllergenAlerts)
	}
}
