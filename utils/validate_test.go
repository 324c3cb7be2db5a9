package utils

import (
	"encoding/base64"
	"strings"
	"testing"
)

func dataURI(mime, payload string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want bool
	}{
		{"jpeg accepted", dataURI("image/jpeg", "fake-jpeg-bytes"), true},
		{"png accepted", dataURI("image/png", "fake-png-bytes"), true},
		{"heif accepted", dataURI("image/heif", "fake-heif-bytes"), true},
		{"gif rejected", dataURI("image/gif", "fake-gif-bytes"), false},
		{"webp rejected", dataURI("image/webp", "fake-webp-bytes"), false},
		{"not a data uri", "https://example.com/label.jpg", false},
		{"missing payload", "data:image/jpeg;base64,", false},
		{"non-image data uri", dataURI("text/plain", "hello"), false},
		{"empty string", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateImage(tt.uri); got != tt.want {
				t.Errorf("ValidateImage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateImageSizeCeiling(t *testing.T) {
	// 10MB of decoded payload is the limit; build a base64 body just
	// over it without decoding anything.
	over := "data:image/jpeg;base64," + strings.Repeat("A", (maxImageBytes/3+2)*4)
	if ValidateImage(over) {
		t.Error("expected an oversized image to be rejected")
	}

	under := dataURI("image/jpeg", strings.Repeat("x", 1024))
	if !ValidateImage(under) {
		t.Error("expected a small image to be accepted")
	}
}

func TestDecodeImageDataURI(t *testing.T) {
	contentType, data, err := DecodeImageDataURI(dataURI("image/png", "label"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("contentType = %q, want image/png", contentType)
	}
	if string(data) != "label" {
		t.Errorf("data = %q, want label", data)
	}

	if _, _, err := DecodeImageDataURI("not-a-uri"); err == nil {
		t.Error("expected an error for a malformed URI")
	}
	if _, _, err := DecodeImageDataURI("data:image/png;base64,!!!"); err == nil {
		t.Error("expected an error for invalid base64")
	}
}
