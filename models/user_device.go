package models

import "time"

type UserDevice struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	Platform    string `gorm:"size:10"` // "android" | "ios"
	TokenHash   string `gorm:"size:64;index"`
	EndpointARN string
	Enabled     bool `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
