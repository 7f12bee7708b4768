// Package inertiaprops provides map-based shorthands for building prop
// collections without reaching for the constructor functions.
package inertiaprops

import (
	"github.com/nytodev/inertia-go"
)

var (
	_ inertia.Proper = (Map)(nil)
	_ inertia.Proper = (AlwaysMap)(nil)
	_ inertia.Proper = (OptionalMap)(nil)
)

// Map holds plain key-value props. Every entry becomes a standard prop:
// included on first render, subject to partial reload filtering.
//
// For merging, lazy resolution or always-include behavior, construct props
// with inertia.NewProp and friends, or tag a struct for inertia.ParseStruct.
type Map map[string]any

func (m Map) Props() []inertia.Prop {
	props := make([]inertia.Prop, 0, len(m))
	for k, v := range m {
		props = append(props, inertia.NewProp(k, v, nil))
	}

	return props
}

func (m Map) Len() int { return len(m) }

// AlwaysMap holds props included in every response for their page, bypassing
// partial reload filters.
type AlwaysMap map[string]any

func (m AlwaysMap) Props() []inertia.Prop {
	props := make([]inertia.Prop, 0, len(m))
	for k, v := range m {
		props = append(props, inertia.NewAlways(k, v))
	}

	return props
}

func (m AlwaysMap) Len() int { return len(m) }

// OptionalMap holds lazily-resolved props, skipped until a partial reload
// whitelists them.
type OptionalMap map[string]inertia.LazyFunc

func (m OptionalMap) Props() []inertia.Prop {
	props := make([]inertia.Prop, 0, len(m))
	for k, fn := range m {
		props = append(props, inertia.NewOptional(k, fn))
	}

	return props
}

func (m OptionalMap) Len() int { return len(m) }
