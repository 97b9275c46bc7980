package errors

import (
	"math"
	"regexp"
)

// namePattern matches recipe, preset and shape identifiers such as
// "sequential-sine" or "voronoi-lerp".
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]{0,63}$`)

// ValidateName rejects identifiers that are empty, longer than 64 bytes or
// not lower-case kebab case.
func ValidateName(kind, name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidInput, "%s name cannot be empty", kind)
	case !namePattern.MatchString(name):
		return New(ErrCodeInvalidInput, "invalid %s name %q (lower-case letters, digits and dashes, at most 64)", kind, name)
	}
	return nil
}

// ValidateFinite rejects NaN and infinities.
func ValidateFinite(param string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", param, v)
	}
	return nil
}

// ValidatePositive rejects values that are not finite and strictly positive.
func ValidatePositive(param string, v float64) error {
	if err := ValidateFinite(param, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %v", param, v)
	}
	return nil
}
