// Package inertiabase holds the page object exchanged with the Inertia
// client on every navigation.
package inertiabase

import "fmt"

// A Page describes a single render: the frontend component to mount, the
// props it receives, the URL the page was served for and the asset version
// active at render time.
//
// A Page is built fresh per render and treated as immutable afterwards;
// derived variants (e.g. filtered props) are new values.
//
// The trailing fields extend the base protocol and are omitted from the
// serialized form when unset, so a plain page marshals to exactly
// {"component":...,"props":...,"url":...,"version":...}.
type Page struct {
	Component      string              `json:"component"`
	Props          map[string]any      `json:"props"`
	URL            string              `json:"url"`
	Version        string              `json:"version"`
	DeferredProps  map[string][]string `json:"deferredProps,omitempty"`
	MergeProps     []string            `json:"mergeProps,omitempty"`
	EncryptHistory bool                `json:"encryptHistory,omitzero"`
	ClearHistory   bool                `json:"clearHistory,omitzero"`
}

// Normalize coerces v into a *Page.
//
// It accepts a *Page, a Page, or a raw map carrying the protocol keys
// ("component", "props", "url", "version"). Keys missing from a raw map keep
// their zero values, so a map without a version normalizes to the empty
// version marker.
func Normalize(v any) (*Page, error) {
	switch p := v.(type) {
	case *Page:
		return p, nil
	case Page:
		return &p, nil
	case map[string]any:
		//nolint:exhaustruct
		page := &Page{}
		if component, ok := p["component"].(string); ok {
			page.Component = component
		}
		if props, ok := p["props"].(map[string]any); ok {
			page.Props = props
		}
		if url, ok := p["url"].(string); ok {
			page.URL = url
		}
		if version, ok := p["version"].(string); ok {
			page.Version = version
		}

		return page, nil
	default:
		return nil, fmt.Errorf("inertia: cannot normalize %T into a page", v)
	}
}
