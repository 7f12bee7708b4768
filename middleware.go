package inertia

import (
	"context"
	"maps"
	"mime"
	"net/http"

	"go.inout.gg/foundations/debug"
	"go.inout.gg/foundations/must"

	"github.com/nytodev/inertia-go/internal/inertiaheader"
)

type rendererCtxKey struct{}

//nolint:gochecknoglobals
var kRendererCtxKey = rendererCtxKey{}

// DefaultEmptyResponseHandler answers 204 No Content when a handler produced
// neither a status code nor a body.
//
//nolint:gochecknoglobals
var DefaultEmptyResponseHandler http.HandlerFunc = func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// DefaultVersionMismatchHandler answers 409 Conflict with an
// X-Inertia-Location header naming the requested URI, instructing the client
// to perform a hard visit that picks up the current asset bundle.
//
//nolint:gochecknoglobals
var DefaultVersionMismatchHandler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(inertiaheader.HeaderXInertiaLocation, r.RequestURI)
	http.Error(w, "Conflict: asset version mismatch", http.StatusConflict)
}

// MiddlewareConfig configures NewMiddleware.
type MiddlewareConfig struct {
	// SharedProps seed every request's shared prop store. The seed is
	// copied into each request, never aliased, so requests cannot observe
	// one another.
	SharedProps Proper

	// EmptyResponseHandler answers requests whose handler produced neither
	// a status code nor a body.
	//
	// Defaults to DefaultEmptyResponseHandler.
	EmptyResponseHandler http.HandlerFunc

	// VersionMismatchHandler answers requests whose asset version differs
	// from the server's. The handler's own response has already been
	// discarded when it runs.
	//
	// Defaults to DefaultVersionMismatchHandler.
	VersionMismatchHandler http.HandlerFunc
}

func (c *MiddlewareConfig) defaults() {
	if c.EmptyResponseHandler == nil {
		c.EmptyResponseHandler = DefaultEmptyResponseHandler
	}

	if c.VersionMismatchHandler == nil {
		c.VersionMismatchHandler = DefaultVersionMismatchHandler
	}
}

// MiddlewareOption configures the middleware.
type MiddlewareOption func(*MiddlewareConfig)

// WithSharedProps seeds every request's shared prop store with props.
func WithSharedProps(props Proper) MiddlewareOption {
	return func(c *MiddlewareConfig) { c.SharedProps = props }
}

// WithEmptyResponseHandler overrides the handler answering empty responses.
func WithEmptyResponseHandler(h http.HandlerFunc) MiddlewareOption {
	return func(c *MiddlewareConfig) { c.EmptyResponseHandler = h }
}

// WithVersionMismatchHandler overrides the handler answering asset version
// mismatches.
func WithVersionMismatchHandler(h http.HandlerFunc) MiddlewareOption {
	return func(c *MiddlewareConfig) { c.VersionMismatchHandler = h }
}

// NewMiddleware wraps a handler chain with the Inertia protocol stage. It
// installs the renderer and a fresh shared prop store into every request
// context, so Render and Share work downstream.
//
// Responses to requests issued by the Inertia client are buffered and
// post-processed before anything reaches the network, in order:
//
//  1. a 302 redirect is rewritten to 303, any method, so the client
//     re-issues the target as a GET instead of replaying the original verb;
//  2. if the X-Inertia-Version request header is present and differs from
//     the renderer's current version, the buffered response is discarded and
//     the VersionMismatchHandler substitutes a 409 forcing a hard visit;
//  3. JSON responses gain the X-Inertia, X-Inertia-Version and Vary
//     headers, whether or not the Renderer produced them;
//  4. an empty response is delegated to the EmptyResponseHandler.
//
// The middleware is the single flush point for the buffered response; mount
// it outside any caching or compression layer so the rewrites above happen
// before status codes are inspected downstream.
func NewMiddleware(renderer *Renderer, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	debug.Assert(renderer != nil, "expected renderer to be defined")

	//nolint:exhaustruct
	config := MiddlewareConfig{}
	for _, opt := range opts {
		opt(&config)
	}

	config.defaults()

	var seed []Prop
	if config.SharedProps != nil {
		seed = config.SharedProps.Props()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = context.WithValue(ctx, kRendererCtxKey, renderer)
			ctx = context.WithValue(ctx, kSharedCtxKey, newSharedStore(seed))
			r = r.WithContext(ctx)

			if !isInertiaRequest(r) {
				next.ServeHTTP(w, r)
				return
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			if rw.statusCode == http.StatusFound {
				d("rewriting 302 to 303: %s %s", r.Method, r.RequestURI)
				rw.WriteHeader(http.StatusSeeOther)
			}

			if version, ok := clientVersion(r); ok && version != renderer.Version() {
				d("asset version mismatch (client %q, server %q): %s",
					version, renderer.Version(), r.RequestURI)
				config.VersionMismatchHandler(w, r)

				return
			}

			if isJSONResponse(rw.header) {
				rw.header.Set(inertiaheader.HeaderXInertia, "true")
				rw.header.Set(inertiaheader.HeaderXInertiaVersion, renderer.Version())
				rw.header.Set(inertiaheader.HeaderVary, inertiaheader.HeaderXInertia)
			}

			if rw.Empty() {
				maps.Copy(w.Header(), rw.header)
				config.EmptyResponseHandler(w, r)

				return
			}

			if err := rw.flush(); err != nil {
				d("failed to flush response: %v", err)
			}
		})
	}
}

// clientVersion extracts the asset version the client holds, reporting
// whether the header was present at all. A request without the header never
// triggers a mismatch.
func clientVersion(r *http.Request) (string, bool) {
	vals := r.Header.Values(inertiaheader.HeaderXInertiaVersion)
	if len(vals) == 0 {
		return "", false
	}

	return vals[0], true
}

// isJSONResponse reports whether the buffered headers declare a JSON body.
func isJSONResponse(h http.Header) bool {
	ct := h.Get(inertiaheader.HeaderContentType)
	if ct == "" {
		return false
	}

	mt, _, err := mime.ParseMediaType(ct)

	return err == nil && mt == inertiaheader.ContentTypeJSON
}

// Render answers the request with the named component through the Renderer
// installed by NewMiddleware. It returns ErrNoRenderer when called outside
// the middleware.
func Render(w http.ResponseWriter, r *http.Request, componentName string, renderCtx RenderContext) error {
	renderer, ok := r.Context().Value(kRendererCtxKey).(*Renderer)
	if !ok {
		return ErrNoRenderer
	}

	return renderer.Render(w, r, componentName, renderCtx)
}

// MustRender is like Render, but panics if an error occurs.
func MustRender(w http.ResponseWriter, r *http.Request, componentName string, renderCtx RenderContext) {
	must.Must1(Render(w, r, componentName, renderCtx))
}

// RendererFromRequest returns the Renderer installed by NewMiddleware. It
// reports false when called outside the middleware.
func RendererFromRequest(r *http.Request) (*Renderer, bool) {
	renderer, ok := r.Context().Value(kRendererCtxKey).(*Renderer)

	return renderer, ok
}
