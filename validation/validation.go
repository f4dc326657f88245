// Package validation implements the check the ingestion pipeline runs a
// CachedThought through before its first index write: required-field and
// enum checks via go-playground/validator/v10, plus the domain invariants
// the tag language can't express (vector dimension, the GLOBAL scope_id
// sentinel, a set created_at). created_at is only checked for being set;
// its ordering against other thoughts' timestamps is not checked.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/coreason-ai/archive/archivemodel"
)

var validate = validator.New()

// shadow mirrors CachedThought's struct-tag-checkable fields. A shadow
// struct keeps `validate` tags out of archivemodel, which stays a plain
// domain type with no framework coupling.
type shadow struct {
	Scope      string `validate:"required,oneof=USER PROJECT DEPARTMENT CLIENT GLOBAL"`
	ScopeID    string `validate:"required"`
	PromptText string `validate:"required"`
	TTLSeconds int64  `validate:"required,gte=1"`
}

// Validate checks t against the ingestion invariants, including that its
// vector was embedded at exactly dims dimensions — the width of the
// embedder wired into the system at composition time. A mismatch (an
// embedder swap mid-lifetime, or a bug that truncates/pads a vector) is
// rejected rather than silently corrupting cosine-similarity scoring
// against every other stored vector. Failures wrap
// archivemodel.ErrInvalidThought.
func Validate(t *archivemodel.CachedThought, dims int) error {
	s := shadow{
		Scope:      string(t.Scope),
		ScopeID:    t.ScopeID,
		PromptText: t.PromptText,
		TTLSeconds: t.TTLSeconds,
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", archivemodel.ErrInvalidThought, formatValidationError(err))
	}

	if len(t.Vector) != dims {
		return fmt.Errorf("%w: vector has %d dimensions, want %d", archivemodel.ErrInvalidThought, len(t.Vector), dims)
	}

	if t.Scope == archivemodel.ScopeGlobal && t.ScopeID != archivemodel.GlobalScopeID {
		return fmt.Errorf("%w: GLOBAL scope requires scope_id %q, got %q", archivemodel.ErrInvalidThought, archivemodel.GlobalScopeID, t.ScopeID)
	}

	if t.CreatedAt.IsZero() {
		return fmt.Errorf("%w: created_at must be set", archivemodel.ErrInvalidThought)
	}

	return nil
}

func formatValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	var parts []string
	for _, e := range validationErrors {
		parts = append(parts, formatFieldError(e))
	}
	return strings.Join(parts, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
