package library

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/okunevich/biblio/internal/entities"
)

// ValidationError carries per-field failure messages. It maps to 422 with
// the field map as details on the API, and to inline form errors on the
// web surface.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// validateText trims the text and checks the non-empty and length rules
// shared by reviews and annotations. The limit counts characters, not
// bytes, so multibyte text is measured the way a reader would count it.
// Returns the trimmed text and an error message, empty when valid.
func validateText(text string, limit int) (string, string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed, "Text is required."
	}
	if utf8.RuneCountInString(trimmed) > limit {
		return trimmed, fmt.Sprintf("Text must be at most %d characters.", limit)
	}
	return trimmed, ""
}

// validateStars checks the star rating range. Returns an error message,
// empty when valid.
func validateStars(stars int) string {
	if stars < entities.MinStars || stars > entities.MaxStars {
		return "Stars must be an integer between 1 and 5."
	}
	return ""
}
