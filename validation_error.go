package inertia

import (
	"encoding/gob"
	"net/http"

	"github.com/nytodev/inertia-go/internal/inertiaheader"
)

var (
	_ error = (*validationError)(nil)
	_ error = (*ValidationErrors)(nil)

	_ ValidationError   = (*validationError)(nil)
	_ ValidationErrorer = (*validationError)(nil)
	_ ValidationErrorer = (*ValidationErrors)(nil)
)

// DefaultErrorBag scopes validation errors that were not assigned to a named
// bag.
const DefaultErrorBag = ""

// Validation errors survive the POST, redirect, GET cycle via a gob-encoded
// session cookie.
//
//nolint:gochecknoinits
func init() {
	gob.Register(&validationError{}) //nolint:exhaustruct
	gob.Register(&ValidationErrors{})
}

// ValidationError is a single field validation failure.
type ValidationError interface {
	// Field returns the name of the field that failed validation.
	Field() string

	// Error returns the human-readable message describing the failure.
	Error() string
}

// ValidationErrorer is a collection of validation errors that can be sent to
// the client as the page's errors prop.
type ValidationErrorer interface {
	error

	// ValidationErrors returns all validation errors in the collection.
	ValidationErrors() []ValidationError

	// Len returns the number of validation errors.
	Len() int
}

// Fields are exported with a trailing underscore so the gob codec can reach
// them while the accessors keep the interface's names.
type validationError struct {
	Field_   string //nolint:revive
	Message_ string //nolint:revive
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field string, message string) *validationError { //nolint:revive
	return &validationError{Field_: field, Message_: message}
}

func (err *validationError) Error() string                       { return err.Message_ }
func (err *validationError) Field() string                       { return err.Field_ }
func (err *validationError) ValidationErrors() []ValidationError { return []ValidationError{err} }
func (err *validationError) Len() int                            { return 1 }

// ValidationErrors is a plain slice of validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string                       { return "validation errors" }
func (errs ValidationErrors) ValidationErrors() []ValidationError { return errs }
func (errs ValidationErrors) Len() int                            { return len(errs) }

// ErrorBagFromRequest extracts the error bag name from the
// X-Inertia-Error-Bag header, falling back to DefaultErrorBag when the
// header is absent.
//
// Error bags scope validation errors to one of several forms on a page; see
// https://inertiajs.com/validation#error-bags.
func ErrorBagFromRequest(r *http.Request) string {
	return r.Header.Get(inertiaheader.HeaderXInertiaErrorBag)
}
