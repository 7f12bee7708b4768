// Package inertiaheader declares the HTTP headers and content types that make
// up the Inertia protocol surface.
//
// See https://inertiajs.com/the-protocol for the protocol description.
package inertiaheader

// Headers exchanged with the Inertia client.
const (
	// HeaderXInertia marks a request as issued by the Inertia client when set
	// to the literal "true"; on responses it marks the body as a page object.
	HeaderXInertia = "X-Inertia"

	// HeaderXInertiaVersion carries the asset version: the client sends the
	// version it holds, the server responds with the currently deployed one.
	HeaderXInertiaVersion = "X-Inertia-Version"

	// HeaderXInertiaLocation instructs the client to perform a hard visit to
	// the carried URL, discarding client-side state.
	HeaderXInertiaLocation = "X-Inertia-Location"

	// HeaderXInertiaPartialComponent names the component a partial reload
	// targets.
	HeaderXInertiaPartialComponent = "X-Inertia-Partial-Component"

	// HeaderXInertiaPartialData whitelists prop keys for a partial reload.
	HeaderXInertiaPartialData = "X-Inertia-Partial-Data"

	// HeaderXInertiaPartialExcept blacklists prop keys for a partial reload.
	HeaderXInertiaPartialExcept = "X-Inertia-Partial-Except"

	// HeaderXInertiaReset lists prop keys the client wants replaced rather
	// than merged.
	HeaderXInertiaReset = "X-Inertia-Reset"

	// HeaderXInertiaErrorBag names the bag validation errors are scoped to.
	HeaderXInertiaErrorBag = "X-Inertia-Error-Bag"
)

// Plain HTTP headers the adapter reads or writes.
const (
	HeaderVary        = "Vary"
	HeaderContentType = "Content-Type"
	HeaderLocation    = "Location"
	HeaderReferer     = "Referer"
)

const (
	ContentTypeHTML = "text/html"
	ContentTypeJSON = "application/json"
)
