package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxGridLines bounds row and column indices accepted from documents.
const maxGridLines = 10_000

// ValidateID validates an element identifier.
//
// IDs appear in SVG output and API responses, so the rules are strict:
//   - No empty IDs
//   - No control characters or whitespace
//   - Maximum length of 128 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "element id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "element id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "element id %q contains whitespace or control characters", id)
		}
	}

	return nil
}

// ValidatePlacement validates a grid placement.
func ValidatePlacement(row, column, rowSpan, columnSpan int) error {
	if row < 0 || column < 0 {
		return New(ErrCodeInvalidPlacement, "row and column must be non-negative, got (%d, %d)", row, column)
	}
	if rowSpan < 1 || columnSpan < 1 {
		return New(ErrCodeInvalidPlacement, "spans must be positive, got (%d, %d)", rowSpan, columnSpan)
	}
	if row+rowSpan > maxGridLines || column+columnSpan > maxGridLines {
		return New(ErrCodeInvalidPlacement, "placement exceeds %d rows or columns", maxGridLines)
	}
	return nil
}

// ValidateLength validates a single length: it must be a finite,
// non-negative number.
func ValidateLength(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidHint, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidHint, "%s must be non-negative, got %g", name, v)
	}
	return nil
}

// ValidateHint validates a (minimum, preferred, maximum) triple before
// normalization. A nil maximum means unlimited.
func ValidateHint(minimum, preferred float64, maximum *float64) error {
	if err := ValidateLength("minimum", minimum); err != nil {
		return err
	}
	if err := ValidateLength("preferred", preferred); err != nil {
		return err
	}
	if maximum != nil {
		if err := ValidateLength("maximum", *maximum); err != nil {
			return err
		}
		if *maximum < minimum {
			return New(ErrCodeInvalidHint, "maximum %g is below minimum %g", *maximum, minimum)
		}
	}
	return nil
}

// ValidateSize validates a container size.
func ValidateSize(width, height float64) error {
	for _, dim := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(dim.v) || math.IsInf(dim.v, 0) || dim.v < 0 {
			return New(ErrCodeInvalidSize, "%s must be a finite, non-negative number", dim.name)
		}
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
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

	if strings.ContainsFunc(path, unicode.IsControl) {
		return New(ErrCodeInvalidInput, "path contains invalid characters")
	}

	return nil
}
