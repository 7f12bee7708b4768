// Package inertiapartial implements the partial reload semantics of the
// Inertia protocol: computing which prop keys survive a reload that targets
// a subset of a page's data.
//
// See https://inertiajs.com/partial-reloads for the protocol description.
package inertiapartial

import (
	"net/http"
	"slices"
	"strings"

	"github.com/nytodev/inertia-go/internal/inertiaheader"
)

// Request carries the partial reload facts extracted from the inbound
// request headers. It is recomputed per request and never stored.
//
// Only distinguishes an absent whitelist header (nil) from a present but
// empty one (non-nil, length zero): the latter still restricts the rendered
// props to the empty set.
type Request struct {
	// Component the reload targets; empty when the header is absent.
	Component string

	// Only whitelists prop keys. Takes precedence over Except.
	Only []string

	// Except blacklists prop keys.
	Except []string

	// Reset lists prop keys the client wants replaced instead of merged.
	Reset []string
}

// ParseRequest extracts the partial reload facts from r.
//
// Header presence is detected before splitting so that a present but empty
// whitelist header is still treated as a whitelist.
func ParseRequest(r *http.Request) Request {
	//nolint:exhaustruct
	req := Request{
		Component: r.Header.Get(inertiaheader.HeaderXInertiaPartialComponent),
	}

	if list, ok := headerList(r.Header, inertiaheader.HeaderXInertiaPartialData); ok {
		req.Only = list
	}
	if list, ok := headerList(r.Header, inertiaheader.HeaderXInertiaPartialExcept); ok {
		req.Except = list
	}
	if list, ok := headerList(r.Header, inertiaheader.HeaderXInertiaReset); ok {
		req.Reset = list
	}

	return req
}

// Active reports whether req asks for a partial reload of component.
//
// A partial reload requires the target component to match the rendered one
// and at least one usable restriction; a reload aimed at another component
// must not truncate this page's props.
func (req Request) Active(component string) bool {
	if req.Component == "" || req.Component != component {
		return false
	}

	return req.Only != nil || len(req.Except) > 0
}

// Keep reports whether the prop named key survives the filter. The
// whitelist, when present, takes absolute precedence over the blacklist.
func (req Request) Keep(key string) bool {
	if req.Only != nil {
		return slices.Contains(req.Only, key)
	}

	return !slices.Contains(req.Except, key)
}

// Resets reports whether the client asked for the prop named key to be
// replaced rather than merged.
func (req Request) Resets(key string) bool {
	return slices.Contains(req.Reset, key)
}

// Resolve applies the partial reload filter to props rendered for
// component. It returns props unchanged unless req targets component with a
// usable whitelist or blacklist. The filtered result is a fresh map; inputs
// are never mutated.
func Resolve(props map[string]any, req Request, component string) map[string]any {
	if !req.Active(component) {
		return props
	}

	filtered := make(map[string]any, len(props))
	for k, v := range props {
		if req.Keep(k) {
			filtered[k] = v
		}
	}

	return filtered
}

func headerList(h http.Header, key string) ([]string, bool) {
	vals := h.Values(key)
	if len(vals) == 0 {
		return nil, false
	}

	return SplitList(strings.Join(vals, ",")), true
}

// SplitList parses a comma-separated header value into its entries,
// trimming surrounding whitespace and dropping entries left empty by it.
func SplitList(v string) []string {
	parts := strings.Split(v, ",")
	list := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}

	return list
}
