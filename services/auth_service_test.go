package services

import (
	"testing"
	"time"

	"github.com/Decoding-DataScience/NutridecodeProd/models"
	"github.com/Decoding-DataScience/NutridecodeProd/utils"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	svc := NewAuthService(db)

	if err := svc.Register("ada@example.com", "s3cret-pass", "Ada", "Example"); err != nil {
		t.Fatalf("register: %v", err)
	}

	var user models.User
	if err := db.Where("email = ?", "ada@example.com").First(&user).Error; err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if user.Password == "s3cret-pass" {
		t.Error("password stored in plaintext")
	}
	if !utils.CheckPasswordHash("s3cret-pass", user.Password) {
		t.Error("stored hash does not verify")
	}

	token, err := svc.Authenticate("ada@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if token == "" {
		t.Error("expected a JWT")
	}

	if _, err := svc.Authenticate("ada@example.com", "wrong"); err == nil {
		t.Error("wrong password must fail")
	}
	if _, err := svc.Authenticate("nobody@example.com", "s3cret-pass"); err == nil {
		t.Error("unknown email must fail")
	}
}

func TestAuthenticateDisabledUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	svc := NewAuthService(db)

	if err := svc.Register("gone@example.com", "s3cret-pass", "Gone", ""); err != nil {
		t.Fatal(err)
	}
	db.Model(&models.User{}).Where("email = ?", "gone@example.com").Update("disabled", true)

	if _, err := svc.Authenticate("gone@example.com", "s3cret-pass"); err == nil {
		t.Error("disabled users must not authenticate")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	svc := NewAuthService(db)

	if err := svc.Register("ada@example.com", "old-password", "Ada", ""); err != nil {
		t.Fatal(err)
	}

	// Seed the reset state directly rather than going through SES.
	token := "abc123"
	db.Model(&models.User{}).Where("email = ?", "ada@example.com").Updates(map[string]any{
		"reset_token":     token,
		"reset_token_exp": time.Now().Add(15 * time.Minute),
	})

	if err := svc.ResetPassword("ada@example.com", "wrong-code", "new-password1"); err == nil {
		t.Error("wrong code must fail")
	}

	if err := svc.ResetPassword("ada@example.com", token, "new-password1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, err := svc.Authenticate("ada@example.com", "old-password"); err == nil {
		t.Error("old password must stop working")
	}
	if _, err := svc.Authenticate("ada@example.com", "new-password1"); err != nil {
		t.Errorf("new password: %v", err)
	}

	// The code is single-use.
	if err := svc.ResetPassword("ada@example.com", token, "another-pass"); err == nil {
		t.Error("reset code must be cleared after use")
	}
}

func TestResetPasswordExpiredCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	if err := svc.Register("ada@example.com", "old-password", "Ada", ""); err != nil {
		t.Fatal(err)
	}
	db.Model(&models.User{}).Where("email = ?", "ada@example.com").Updates(map[string]any{
		"reset_token":     "expired1",
		"reset_token_exp": time.Now().Add(-time.Minute),
	})

	if err := svc.ResetPassword("ada@example.com", "expired1", "new-password1"); err == nil {
		t.Error("expired code must fail")
	}
}
