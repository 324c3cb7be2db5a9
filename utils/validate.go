package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const maxImageBytes = 10 * 1024 * 1024 // 10 MB

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/heif": true,
}

// ValidateImage reports whether a data-URI encoded label image is
// acceptable: a data:image/ URI, one of the supported MIME types, and
// under the size ceiling.
func ValidateImage(dataURI string) bool {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return false
	}

	parts := strings.SplitN(dataURI, ",", 2)
	if len(parts) != 2 || parts[1] == "" {
		return false
	}

	mimeType := strings.SplitN(strings.TrimPrefix(parts[0], "data:"), ";", 2)[0]
	if !supportedImageTypes[mimeType] {
		return false
	}

	// Estimate decoded size from base64 length without decoding.
	if len(parts[1])*3/4 > maxImageBytes {
		return false
	}

	return true
}

// DecodeImageDataURI splits a data URI into its MIME type and decoded
// bytes.
func DecodeImageDataURI(dataURI string) (contentType string, data []byte, err error) {
	parts := strings.SplitN(dataURI, ",", 2)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "data:") {
		return "", nil, fmt.Errorf("invalid data URI")
	}
	contentType = strings.SplitN(strings.TrimPrefix(parts[0], "data:"), ";", 2)[0]
	data, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return contentType, data, nil
}
