package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UserID        string `gorm:"uniqueIndex"`
	Email         string `gorm:"uniqueIndex;not null"`
	Password      string `gorm:"not null"`
	FirstName     string
	LastName      string
	Disabled      bool `gorm:"default:false"`
	ResetToken    string
	ResetTokenExp time.Time
}
