// Package inertiavalidationerrors provides ready-made validation error
// collections for handler code to return.
package inertiavalidationerrors

import (
	"maps"
	"slices"

	"github.com/nytodev/inertia-go"
)

var (
	_ error                     = (MapError)(nil)
	_ inertia.ValidationErrorer = (MapError)(nil)
)

// MapError reports validation failures as field name to message pairs.
type MapError map[string]string

// ValidationErrors lists the failures in field name order.
func (m MapError) ValidationErrors() []inertia.ValidationError {
	errors := make([]inertia.ValidationError, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		errors = append(errors, inertia.NewValidationError(k, m[k]))
	}

	return errors
}

func (m MapError) Error() string { return "validation errors" }
func (m MapError) Len() int      { return len(m) }
