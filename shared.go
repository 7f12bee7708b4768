package inertia

import (
	"net/http"
	"slices"
	"sync"

	"go.inout.gg/foundations/must"
)

type sharedCtxKey struct{}

//nolint:gochecknoglobals
var kSharedCtxKey = sharedCtxKey{}

// sharedStore accumulates props shared across all renders of a single
// request. The middleware seeds a fresh store per request; it is never
// process-global, so concurrent requests cannot observe each other's shared
// props.
type sharedStore struct {
	mu    sync.Mutex
	props []Prop
}

// newSharedStore copies seed into a fresh store so callers can never mutate
// the seed through it.
func newSharedStore(seed []Prop) *sharedStore {
	props := make([]Prop, 0, len(seed))
	props = append(props, seed...)

	//nolint:exhaustruct
	return &sharedStore{props: props}
}

func (s *sharedStore) add(props ...Prop) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.props = append(s.props, props...)
}

func (s *sharedStore) snapshot() []Prop {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.props)
}

// Share adds props to the request's shared prop store. Shared props are
// merged into every page rendered for the request, with page props winning
// on key collision.
//
// It returns ErrNoSharedProps when the middleware is missing from the
// handler chain.
func Share(r *http.Request, props Proper) error {
	store, ok := r.Context().Value(kSharedCtxKey).(*sharedStore)
	if !ok {
		return ErrNoSharedProps
	}

	if props != nil {
		store.add(props.Props()...)
	}

	return nil
}

// MustShare is like Share, but panics if an error occurs.
func MustShare(r *http.Request, props Proper) {
	must.Must1(Share(r, props))
}

// SharedProps returns a snapshot of the props shared with the request so
// far. It reports false when the middleware is missing from the handler
// chain.
func SharedProps(r *http.Request) (Props, bool) {
	store, ok := r.Context().Value(kSharedCtxKey).(*sharedStore)
	if !ok {
		return nil, false
	}

	return store.snapshot(), true
}

// sharedFromRequest returns the request's shared props, or nothing when the
// renderer is used without the middleware.
func sharedFromRequest(r *http.Request) []Prop {
	if store, ok := r.Context().Value(kSharedCtxKey).(*sharedStore); ok {
		return store.snapshot()
	}

	return nil
}
