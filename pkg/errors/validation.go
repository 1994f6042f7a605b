package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateSize checks that a canvas or bar dimension is finite and non-negative.
// The name is used in the error message only.
func ValidateSize(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidSize, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidSize, "%s must be non-negative, got %v", name, v)
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed []string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}

// ValidatePath validates an output or input file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
