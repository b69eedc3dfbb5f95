package errors

import (
	"math"
	"strings"
	"unicode"
)

// Limits applied to incoming layout requests.
const (
	MaxFontSize  = 200
	MaxDimension = 100_000
	MaxLabels    = 10_000
	MaxLabelLen  = 1024
)

// ValidateChartID validates a caller-supplied chart or slice identifier.
// It rejects names that could be used for path traversal or injection attacks
// when identifiers end up in cache keys or file names.
//
// The validation rules are intentionally conservative:
//   - No control characters
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 256 characters
//
// The empty string is allowed: identifiers are optional.
func ValidateChartID(id string) error {
	if len(id) > 256 {
		return New(ErrCodeInvalidChart, "chart id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidChart, "chart id contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidChart, "chart id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateFontSize checks that size is a finite positive pixel size.
func ValidateFontSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return New(ErrCodeInvalidInput, "font size must be a positive number, got %v", size)
	}
	if size > MaxFontSize {
		return New(ErrCodeInvalidInput, "font size too large (max %d)", MaxFontSize)
	}
	return nil
}

// ValidateDimension checks that a pixel length is finite and not absurdly
// large. Zero and negative values are allowed; layout treats them as
// "nothing fits".
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	if math.Abs(v) > MaxDimension {
		return New(ErrCodeInvalidInput, "%s too large (max %d)", name, MaxDimension)
	}
	return nil
}

// ValidateAngle checks that an angle in radians is finite.
func ValidateAngle(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite angle", name)
	}
	return nil
}

// ValidateLabels checks a label list for count and per-label length.
func ValidateLabels(kind string, labels []string) error {
	if len(labels) > MaxLabels {
		return New(ErrCodeInvalidInput, "too many %s (max %d)", kind, MaxLabels)
	}
	for i, l := range labels {
		if len(l) > MaxLabelLen {
			return New(ErrCodeInvalidInput, "%s %d too long (max %d bytes)", kind, i, MaxLabelLen)
		}
		if strings.ContainsRune(l, '\x00') {
			return New(ErrCodeInvalidInput, "%s %d contains a null byte", kind, i)
		}
	}
	return nil
}

// ValidatePath validates a file path from configuration for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
