package inertia

import (
	"cmp"
	"context"
)

var (
	_ Proper = (Props)(nil)
	_ Proper = (*Prop)(nil)
)

// DefaultDeferredGroup is the deferred group props land in when no group is
// named.
const DefaultDeferredGroup = "default"

// A Prop is a single named value passed to a page component. Props control
// visibility under partial reloads, lazy resolution and client-side merging.
//
// Construct props with one of:
//   - NewProp: included on first render and on matching partial reloads
//   - NewAlways: included in every response, bypassing partial filters
//   - NewOptional: resolved only when a partial reload requests it
//   - NewDeferred: announced on first render, fetched by the client afterwards
type Prop struct {
	val        any
	fn         Lazy
	key        string
	group      string
	always     bool
	lazy       bool
	deferred   bool
	mergeable  bool
	concurrent bool
}

type (
	// Lazy is a prop value resolved on demand rather than eagerly. Optional
	// and deferred props carry their values as Lazy so that skipped props
	// cost nothing.
	Lazy interface {
		// Value resolves the prop's value. The result must be
		// JSON-serializable.
		Value(context.Context) (any, error)
	}

	// LazyFunc adapts an ordinary function to the Lazy interface.
	LazyFunc func(context.Context) (any, error)
)

func (fn LazyFunc) Value(ctx context.Context) (any, error) { return fn(ctx) }

// PropOptions configures a standard prop.
type PropOptions struct {
	// Merge makes the client merge the prop's value into its current state
	// on navigation instead of replacing it.
	Merge bool
}

// NewProp creates a standard prop: included on the first render and subject
// to whitelist/blacklist filtering on partial reloads. A nil opts uses the
// defaults.
func NewProp(key string, val any, opts *PropOptions) Prop {
	//nolint:exhaustruct
	prop := Prop{key: key, val: val}

	if opts != nil {
		prop.mergeable = opts.Merge
	}

	return prop
}

// NewAlways creates a prop included in every response for its page,
// bypassing partial reload filters. Use it for data that must never go
// stale, such as authentication state.
func NewAlways(key string, val any) Prop {
	//nolint:exhaustruct
	return Prop{key: key, val: val, always: true}
}

// NewOptional creates a lazily-resolved prop that is skipped on first render
// and resolved only when a partial reload explicitly whitelists it.
func NewOptional(key string, fn Lazy) Prop {
	//nolint:exhaustruct
	return Prop{key: key, fn: fn, lazy: true}
}

// DeferredOptions configures a deferred prop.
type DeferredOptions struct {
	// Group assigns the prop to a named deferred group. The client fetches
	// each group with a single partial reload. Defaults to
	// DefaultDeferredGroup.
	Group string

	// Merge makes the client merge the resolved value instead of replacing
	// it.
	Merge bool

	// Concurrent resolves the prop through the render's bounded worker pool
	// alongside other concurrent props.
	Concurrent bool
}

// NewDeferred creates a prop whose value is skipped on first render and
// announced in the page's deferredProps; the client fetches it with a
// follow-up partial reload. A nil opts uses the defaults.
func NewDeferred(key string, fn Lazy, opts *DeferredOptions) Prop {
	//nolint:exhaustruct
	prop := Prop{
		key:      key,
		fn:       fn,
		group:    DefaultDeferredGroup,
		lazy:     true,
		deferred: true,
	}

	if opts != nil {
		prop.group = cmp.Or(opts.Group, DefaultDeferredGroup)
		prop.mergeable = opts.Merge
		prop.concurrent = opts.Concurrent
	}

	return prop
}

func (p Prop) Props() []Prop { return []Prop{p} }
func (p Prop) Len() int      { return 1 }

// resolve produces the prop's value, consulting the lazy resolver when one
// is attached.
func (p Prop) resolve(ctx context.Context) (any, error) {
	if p.fn != nil {
		v, err := p.fn.Value(ctx)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return v, nil
	}

	return p.val, nil
}

// Proper is a collection of props that can be attached to a render or
// shared across one. Implemented by Prop, Props and inertiaprops.Map.
type Proper interface {
	// Props returns the underlying prop slice.
	Props() []Prop

	// Len returns the number of props in the collection.
	Len() int
}

// Props is a plain slice of props.
type Props []Prop

func (p Props) Len() int      { return len(p) }
func (p Props) Props() []Prop { return p }
