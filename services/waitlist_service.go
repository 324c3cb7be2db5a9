package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Decoding-DataScience/NutridecodeProd/models"
	"github.com/Decoding-DataScience/NutridecodeProd/utils"

	"gorm.io/gorm"
)

// WaitlistService records pre-launch signups, one per email.
type WaitlistService struct {
	db *gorm.DB

	// notify sends the confirmation email; swappable in tests.
	notify func(email, fullName string) error
}

func NewWaitlistService(db *gorm.DB) *WaitlistService {
	return &WaitlistService{db: db, notify: utils.SendWaitlistConfirmation}
}

// Join creates a pending waitlist entry. A second signup with the same
// email fails with ErrDuplicateSubmission. The confirmation email is
// best-effort; a send failure does not undo the signup.
func (s *WaitlistService) Join(entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	entry.Email = strings.ToLower(strings.TrimSpace(entry.Email))
	if entry.Email == "" || entry.FullName == "" {
		return nil, &utils.ValidationError{Reason: "full name and email are required"}
	}
	entry.Status = "pending"

	var count int64
	if err := s.db.Model(&models.WaitlistEntry{}).Where("email = ?", entry.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check waitlist: %w", err)
	}
	if count > 0 {
		return nil, utils.ErrDuplicateSubmission
	}

	if err := s.db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("failed to join waitlist: %w", err)
	}

	if err := s.notify(entry.Email, entry.FullName); err != nil {
		log.Printf("waitlist confirmation email failed for %s: %v", entry.Email, err)
	}
	return entry, nil
}
