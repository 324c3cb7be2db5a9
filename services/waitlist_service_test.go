package services

import (
	"errors"
	"testing"

	"github.com/Decoding-DataScience/NutridecodeProd/models"
	"github.com/Decoding-DataScience/NutridecodeProd/utils"
)

func newTestWaitlist(t *testing.T) (*WaitlistService, *[]string) {
	t.Helper()
	svc := NewWaitlistService(newTestDB(t))
	var sent []string
	svc.notify = func(email, fullName string) error {
		sent = append(sent, email)
		return nil
	}
	return svc, &sent
}

func TestWaitlistJoin(t *testing.T) {
	svc, sent := newTestWaitlist(t)

	saved, err := svc.Join(&models.WaitlistEntry{
		FullName: "Ada Example",
		Email:    "  Ada@Example.com ",
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if saved.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", saved.Email)
	}
	if saved.Status != "pending" {
		t.Errorf("status = %q, want pending", saved.Status)
	}
	if len(*sent) != 1 || (*sent)[0] != "ada@example.com" {
		t.Errorf("confirmation sent to %v", *sent)
	}
}

func TestWaitlistJoinRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestWaitlist(t)

	if _, err := svc.Join(&models.WaitlistEntry{FullName: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Join(&models.WaitlistEntry{FullName: "Ada Again", Email: "ADA@example.com"})
	if !errors.Is(err, utils.ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
	}
}

func TestWaitlistJoinValidatesInput(t *testing.T) {
	svc, _ := newTestWaitlist(t)

	var ve *utils.ValidationError
	if _, err := svc.Join(&models.WaitlistEntry{Email: "no-name@example.com"}); !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for missing name, got %v", err)
	}
	if _, err := svc.Join(&models.WaitlistEntry{FullName: "No Email"}); !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for missing email, got %v", err)
	}
}
