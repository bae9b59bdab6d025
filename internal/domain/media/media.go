// Package media validates images carried inline in documents. There is no
// blob storage: an image is either empty, an http(s) URL or a base64 data URL.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MaxInlineBytes is the largest decoded payload accepted in a data URL.
const MaxInlineBytes = 1 << 20

var (
	ErrInvalidImage  = errors.New("image must be an http(s) URL or a base64 image data URL")
	ErrImageTooLarge = fmt.Errorf("inline image exceeds %d bytes", MaxInlineBytes)
)

func Validate(value string) error {
	if value == "" || strings.HasPrefix(value, "https://") || strings.HasPrefix(value, "http://") {
		return nil
	}
	if !strings.HasPrefix(value, "data:image/") {
		return ErrInvalidImage
	}

	header, payload, ok := strings.Cut(value, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return ErrInvalidImage
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxInlineBytes+2 {
		return ErrImageTooLarge
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return ErrInvalidImage
	}
	if len(decoded) > MaxInlineBytes {
		return ErrImageTooLarge
	}
	return nil
}

// ValidateAll checks every named image and reports the first bad field.
func ValidateAll(images map[string]string) error {
	for field, v := range images {
		if err := Validate(v); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	return nil
}
