package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Selection errors
	ErrMixedIndices = errors.New("cannot mix positive and negative indices")
	ErrRegexSpec    = errors.New("regex mode requires a single pattern string")
	ErrBadPredicate = errors.New("predicate selection requires a test function")

	// Argument-processing errors
	ErrOverrideLength   = errors.New("override length mismatch")
	ErrReferenceMissing = errors.New("reference data lacks required variables")
	ErrWeightsLength    = errors.New("weights length mismatch with rows")

	// Group-decomposition errors
	ErrUnknownVariable = errors.New("variable not found in data")
	ErrNoGroups        = errors.New("at least one grouping variable is required")

	// Container errors
	ErrColumnLength    = errors.New("column length mismatch")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrColumnNotFound  = errors.New("column not found")
)

// NewOverrideLengthError reports a center/scale override whose length is
// neither 1 nor the number of selected columns.
func NewOverrideLengthError(arg string, got, want int) error {
	return fmt.Errorf("%w: %s has %d values, expected 1 or %d", ErrOverrideLength, arg, got, want)
}

// NewReferenceError reports selected columns absent from the reference data.
func NewReferenceError(missing []string) error {
	return fmt.Errorf("%w: %s", ErrReferenceMissing, strings.Join(missing, ", "))
}

// NewUnknownVariableError reports unresolved variable names, attaching
// "did you mean" candidates when approximate matches exist.
func NewUnknownVariableError(names []string, suggestions map[string][]string) error {
	var hints []string
	for _, name := range names {
		if cands := suggestions[name]; len(cands) > 0 {
			hints = append(hints, fmt.Sprintf("did you mean %q instead of %q?", strings.Join(cands, `" or "`), name))
		}
	}
	msg := strings.Join(names, ", ")
	if len(hints) > 0 {
		msg += " (" + strings.Join(hints, "; ") + ")"
	}
	return fmt.Errorf("%w: %s", ErrUnknownVariable, msg)
}

// NewValidationError reports a malformed argument with a reason.
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsSelectionError(err error) bool {
	return errors.Is(err, ErrMixedIndices) ||
		errors.Is(err, ErrRegexSpec) ||
		errors.Is(err, ErrBadPredicate)
}

func IsArgumentError(err error) bool {
	return errors.Is(err, ErrOverrideLength) ||
		errors.Is(err, ErrReferenceMissing) ||
		errors.Is(err, ErrWeightsLength)
}
