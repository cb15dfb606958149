// Package validator provides a custom Validator type for accumulating
// field-level validation failures and returning them as an ordered list of
// violations.
package validator

import (
	"fmt"
	"strings"
)

// Violation is a single field-level reason a validation attempt failed.
// Field is a dotted path into the input ("title", "genre.1"); an empty Field
// refers to the input as a whole.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator holds the violations collected so far.
// A Validator with no violations is considered valid.
type Validator struct {
	Violations []Violation
	seen       map[string]struct{}
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{seen: make(map[string]struct{})}
}

// Valid returns true if no violation has been recorded.
func (v *Validator) Valid() bool {
	return len(v.Violations) == 0
}

// AddError records key as failing with the given message.
// If key already has a violation it is not overwritten, so the first
// failure for a field is always the one that is reported.
func (v *Validator) AddError(key, message string) {
	if v.seen == nil {
		v.seen = make(map[string]struct{})
	}
	if _, exists := v.seen[key]; exists {
		return
	}
	v.seen[key] = struct{}{}
	v.Violations = append(v.Violations, Violation{Field: key, Message: message})
}

// Check adds a violation for key with message only when ok is false.
// Use this as a single-line guard:
//
//	v.Check(len(title) > 0, "title", "must be provided")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Err returns nil when the Validator is valid, otherwise a *ValidationError
// holding a copy of the collected violations.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	out := make([]Violation, len(v.Violations))
	copy(out, v.Violations)
	return &ValidationError{Violations: out}
}

// ValidationError is returned by validation functions when the input failed
// one or more checks.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, vi := range e.Violations {
		if vi.Field == "" {
			parts = append(parts, vi.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", vi.Field, vi.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}
