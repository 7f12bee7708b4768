// Package inertia implements the server side of the Inertia.js protocol on
// top of the standard "net/http" and "html/template" packages.
//
// A Renderer answers a page handler with either a JSON page object (for
// navigations driven by the Inertia client) or a full HTML document (for
// hard loads). NewMiddleware wraps the handler chain to enforce the protocol
// invariants on every response leaving the application: redirect status
// rewriting, asset version invalidation and protocol header injection.
//
// For detailed protocol documentation, visit https://inertiajs.com/the-protocol
package inertia

import (
	"errors"

	"go.inout.gg/foundations/debug"
)

//nolint:gochecknoglobals
var d = debug.Debuglog("inertia")

var (
	// ErrNoRenderer is returned by Render when the request context carries no
	// Renderer, typically because NewMiddleware is missing from the handler
	// chain.
	ErrNoRenderer = errors.New("inertia: renderer not found in request context (is the middleware installed?)")

	// ErrNoSharedProps is returned by Share when the request context carries
	// no shared prop store.
	ErrNoSharedProps = errors.New("inertia: shared props not found in request context (is the middleware installed?)")
)
