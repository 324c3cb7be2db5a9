package models

import "gorm.io/gorm"

// WaitlistEntry is a pre-registration record. One row per email;
// duplicate submissions are rejected, not overwritten.
type WaitlistEntry struct {
	gorm.Model
	FullName           string   `gorm:"not null" json:"full_name"`
	Email              string   `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber        string   `json:"phone_number,omitempty"`
	Occupation         string   `json:"occupation,omitempty"`
	DietaryPreferences []string `gorm:"serializer:json" json:"dietary_preferences,omitempty"`
	HealthGoals        []string `gorm:"serializer:json" json:"health_goals,omitempty"`
	ReasonForJoining   string   `gorm:"type:text" json:"reason_for_joining,omitempty"`
	HowDidYouHear      string   `json:"how_did_you_hear,omitempty"`
	NewsletterOptIn    bool     `json:"newsletter_opt_in"`
	Status             string   `gorm:"size:20;default:pending" json:"status"`
}
