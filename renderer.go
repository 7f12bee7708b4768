package inertia

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"net/http"
	"runtime"
	"slices"

	"github.com/alitto/pond/v2"
	"github.com/go-json-experiment/json"
	"go.inout.gg/foundations/debug"
	"go.inout.gg/foundations/must"

	"github.com/nytodev/inertia-go/internal/inertiabase"
	"github.com/nytodev/inertia-go/internal/inertiahead"
	"github.com/nytodev/inertia-go/internal/inertiaheader"
	"github.com/nytodev/inertia-go/internal/inertiapartial"
)

const (
	// DefaultRootViewID is the ID of the HTML element the client-side app
	// mounts into.
	DefaultRootViewID = "app"

	// DefaultTemplatePath is the template FromFS loads when no path is given.
	DefaultTemplatePath = "templates/app.html"

	// DefaultVersion is the asset version used when the configuration
	// provides neither a Version nor a VersionProvider.
	DefaultVersion = "1.0.0"
)

// DefaultConcurrency bounds concurrent prop resolution by default.
var DefaultConcurrency = runtime.GOMAXPROCS(0) //nolint:gochecknoglobals

// Page describes a single page render sent to the client.
type Page = inertiabase.Page

// Config configures a Renderer.
type Config struct {
	// VersionProvider computes the asset version on demand. It wins over
	// Version when both are set.
	VersionProvider VersionProvider

	// RootViewAttrs are extra HTML attributes applied to the mount element,
	// rendered in sorted key order. The id and data-page attributes cannot
	// be overridden.
	RootViewAttrs map[string]string

	// Version is a fixed asset version (e.g. a build hash or timestamp).
	//
	// Defaults to DefaultVersion.
	Version string

	// RootViewID is the ID of the HTML element the client-side app mounts
	// into.
	//
	// Defaults to DefaultRootViewID.
	RootViewID string

	// JSONMarshalOptions configures the serialization of pages.
	JSONMarshalOptions []json.Options

	// Concurrency bounds how many props marked concurrent resolve in
	// parallel within one render.
	//
	// Defaults to DefaultConcurrency.
	Concurrency int
}

func (c *Config) defaults() {
	c.Version = cmp.Or(c.Version, DefaultVersion)
	c.RootViewID = cmp.Or(c.RootViewID, DefaultRootViewID)
	c.Concurrency = cmp.Or(c.Concurrency, DefaultConcurrency)

	debug.Assert(c.Version != "", "Version must be a non-empty string")
	debug.Assert(c.RootViewID != "", "RootViewID must be a non-empty string")
}

// Renderer answers page handlers with the response form the Inertia protocol
// calls for: a JSON page object for navigations driven by the client
// runtime, a full HTML document for hard loads.
//
// Create a Renderer with New, FromFS or MustFromFS.
type Renderer struct {
	t                  *template.Template
	versionProvider    VersionProvider
	jsonMarshalOptions []json.Options
	version            string
	rootViewID         string
	rootViewAttrs      []inertiahead.Attr
	concurrency        int
}

// New creates a Renderer rendering HTML responses through t.
//
// A nil config uses the defaults: version DefaultVersion, root view
// DefaultRootViewID, concurrency DefaultConcurrency.
func New(t *template.Template, config *Config) *Renderer {
	if config == nil {
		//nolint:exhaustruct
		config = &Config{}
	}

	config.defaults()

	attrs := make([]inertiahead.Attr, 0, len(config.RootViewAttrs))
	for _, key := range slices.Sorted(maps.Keys(config.RootViewAttrs)) {
		attrs = append(attrs, inertiahead.Attr{Key: key, Value: config.RootViewAttrs[key]})
	}

	r := &Renderer{
		t:                  t,
		versionProvider:    config.VersionProvider,
		jsonMarshalOptions: config.JSONMarshalOptions,
		version:            config.Version,
		rootViewID:         config.RootViewID,
		rootViewAttrs:      attrs,
		concurrency:        config.Concurrency,
	}

	debug.Assert(r.t != nil, "expected t to be defined")

	return r
}

// FromFS creates a Renderer by loading the HTML template at path from fsys.
// An empty path falls back to DefaultTemplatePath.
func FromFS(fsys fs.FS, path string, config *Config) (*Renderer, error) {
	debug.Assert(fsys != nil, "expected fsys to be defined")

	path = cmp.Or(path, DefaultTemplatePath)

	t, err := template.ParseFS(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("inertia: failed to parse template %s: %w", path, err)
	}

	return New(t, config), nil
}

// MustFromFS is like FromFS, but panics if an error occurs.
func MustFromFS(fsys fs.FS, path string, config *Config) *Renderer {
	return must.Must(FromFS(fsys, path, config))
}

// Version returns the current asset version.
func (r *Renderer) Version() string {
	if r.versionProvider != nil {
		return r.versionProvider.Version()
	}

	return r.version
}

// Head renders the <head> contribution of a page: its escaped title, meta
// tags and raw head fragments. v may be a *Page, a Page or a raw map.
func (r *Renderer) Head(v any) (template.HTML, error) {
	return inertiahead.RenderHead(v)
}

// RootView renders the element the client-side app mounts into, carrying
// the serialized page in its data-page attribute. v may be a *Page, a Page
// or a raw map.
func (r *Renderer) RootView(v any) (template.HTML, error) {
	return inertiahead.RenderMount(v, r.rootViewID, r.rootViewAttrs, r.jsonMarshalOptions...)
}

// variant is the response form chosen for a request.
type variant int

const (
	variantHTML variant = iota
	variantJSON
)

// negotiate decides the response variant for r, once per render: JSON for
// requests the Inertia client marked with "X-Inertia: true", HTML otherwise.
func negotiate(r *http.Request) variant {
	if r.Header.Get(inertiaheader.HeaderXInertia) == "true" {
		return variantJSON
	}

	return variantHTML
}

// isInertiaRequest reports whether r was issued by the Inertia client.
func isInertiaRequest(r *http.Request) bool {
	return negotiate(r) == variantJSON
}

// Render answers the request with the named component.
//
// The response form follows the protocol: JSON when the Inertia client
// navigates, HTML on hard loads. Props merge in this order, later entries
// winning on key collision: request-scoped shared props, then
// renderCtx.Props, then the validation errors prop.
func (r *Renderer) Render(
	w http.ResponseWriter,
	req *http.Request,
	componentName string,
	renderCtx RenderContext,
) error {
	renderCtx.Concurrency = max(cmp.Or(renderCtx.Concurrency, r.concurrency), 0)

	page, err := r.newPage(req, componentName, renderCtx)
	if err != nil {
		return err
	}

	switch negotiate(req) {
	case variantJSON:
		d("rendering %s as JSON: %s", componentName, req.RequestURI)
		return r.renderJSON(w, page)
	default:
		d("rendering %s as HTML: %s", componentName, req.RequestURI)
		return r.renderHTML(w, page, renderCtx.T)
	}
}

// renderJSON emits the page object. The page is serialized before anything
// is written, so a marshal failure never leaves partial JSON behind.
func (r *Renderer) renderJSON(w http.ResponseWriter, page *Page) error {
	var buf bytes.Buffer
	if err := json.MarshalWrite(&buf, page, r.jsonMarshalOptions...); err != nil {
		return fmt.Errorf("inertia: failed to encode page: %w", err)
	}

	h := w.Header()
	h.Set(inertiaheader.HeaderXInertia, "true")
	h.Set(inertiaheader.HeaderVary, inertiaheader.HeaderXInertia)
	h.Set(inertiaheader.HeaderContentType, inertiaheader.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("inertia: failed to write JSON response: %w", err)
	}

	return nil
}

// renderHTML executes the root template with the head fragment and mount
// element bound. The document is built before anything is written.
func (r *Renderer) renderHTML(w http.ResponseWriter, page *Page, t any) error {
	head, err := inertiahead.RenderHead(page)
	if err != nil {
		return fmt.Errorf("inertia: failed to render head fragment: %w", err)
	}

	body, err := r.RootView(page)
	if err != nil {
		return fmt.Errorf("inertia: failed to render mount element: %w", err)
	}

	var buf bytes.Buffer

	data := TemplateData{T: t, InertiaHead: head, InertiaBody: body}
	if err := r.t.Execute(&buf, &data); err != nil {
		return fmt.Errorf("inertia: failed to execute HTML template: %w", err)
	}

	w.Header().Set(inertiaheader.HeaderContentType, inertiaheader.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("inertia: failed to write HTML response: %w", err)
	}

	return nil
}

// newPage assembles the page for one render: merged props with the partial
// reload filter applied, deferred group announcements, merge keys, the
// request URL and the current asset version.
func (r *Renderer) newPage(req *http.Request, componentName string, renderCtx RenderContext) (*Page, error) {
	rawProps := make([]Prop, 0, len(renderCtx.Props)+2)
	rawProps = append(rawProps, sharedFromRequest(req)...)
	rawProps = append(rawProps, renderCtx.Props...)

	if errProp, ok := makeValidationErrors(renderCtx.ValidationErrorers, renderCtx.ErrorBag); ok {
		rawProps = append(rawProps, errProp)
	}

	rawProps = dedupeProps(rawProps)
	preq := inertiapartial.ParseRequest(req)

	props, err := resolveProps(req.Context(), preq, componentName, rawProps, renderCtx.Concurrency)
	if err != nil {
		return nil, err
	}

	//nolint:exhaustruct
	page := &Page{
		Component:      componentName,
		Props:          props,
		URL:            req.RequestURI,
		Version:        r.Version(),
		EncryptHistory: renderCtx.EncryptHistory,
		ClearHistory:   renderCtx.ClearHistory,
	}

	// A partial reload's client already holds the deferred group
	// announcements from the first render.
	if !preq.Active(componentName) {
		page.DeferredProps = makeDeferredProps(rawProps)
	}

	page.MergeProps = makeMergeProps(rawProps, preq)

	return page, nil
}

// dedupeProps collapses duplicate keys, the later prop replacing the earlier
// in place. Shared props come first in the input, so page props win.
func dedupeProps(props []Prop) []Prop {
	seen := make(map[string]int, len(props))
	deduped := make([]Prop, 0, len(props))

	for _, prop := range props {
		if i, ok := seen[prop.key]; ok {
			deduped[i] = prop
			continue
		}

		seen[prop.key] = len(deduped)
		deduped = append(deduped, prop)
	}

	return deduped
}

// resolveProps materializes prop values for one render.
//
// On a full render, lazy props (optional, deferred) are skipped. On a
// partial reload, the whitelist/blacklist filter picks the surviving props;
// always-props bypass the filter, and lazy props resolve when they survive.
// Props marked concurrent resolve through a bounded pool.
func resolveProps(
	ctx context.Context,
	preq inertiapartial.Request,
	componentName string,
	props []Prop,
	concurrency int,
) (map[string]any, error) {
	partial := preq.Active(componentName)

	m := make(map[string]any, len(props))
	concurrent := make([]Prop, 0, len(props))

	for _, prop := range props {
		if partial {
			if !prop.always && !preq.Keep(prop.key) {
				continue
			}
		} else if prop.lazy {
			continue
		}

		if prop.concurrent {
			concurrent = append(concurrent, prop)
			continue
		}

		val, err := prop.resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("inertia: failed to resolve prop %s: %w", prop.key, err)
		}

		m[prop.key] = val
	}

	if len(concurrent) > 0 {
		resolved, err := resolveConcurrentProps(ctx, concurrent, concurrency)
		if err != nil {
			return nil, err
		}

		maps.Copy(m, resolved)
	}

	return m, nil
}

// kv carries one resolved prop out of the worker pool.
type kv struct {
	val any
	key string
}

func resolveConcurrentProps(ctx context.Context, props []Prop, concurrency int) (map[string]any, error) {
	pool := pond.NewResultPool[kv](concurrency)
	group := pool.NewGroupContext(ctx)

	for _, prop := range props {
		group.SubmitErr(func() (kv, error) {
			val, err := prop.resolve(ctx)
			if err != nil {
				//nolint:exhaustruct
				return kv{}, fmt.Errorf("inertia: failed to resolve prop %s: %w", prop.key, err)
			}

			return kv{key: prop.key, val: val}, nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("inertia: failed to resolve concurrent props: %w", err)
	}

	m := make(map[string]any, len(results))
	for _, res := range results {
		m[res.key] = res.val
	}

	return m, nil
}

// makeDeferredProps groups the deferred prop keys announced to the client on
// first render.
func makeDeferredProps(props []Prop) map[string][]string {
	var m map[string][]string

	for _, prop := range props {
		if !prop.deferred {
			continue
		}

		if m == nil {
			m = make(map[string][]string)
		}

		m[prop.group] = append(m[prop.group], prop.key)
	}

	return m
}

// makeMergeProps lists the props the client merges instead of replaces,
// honoring the reset keys the client asked for.
func makeMergeProps(props []Prop, preq inertiapartial.Request) []string {
	var keys []string

	for _, prop := range props {
		if !prop.mergeable || preq.Resets(prop.key) {
			continue
		}

		keys = append(keys, prop.key)
	}

	return keys
}

// makeValidationErrors folds the render's validation errors into the errors
// prop, scoped to the error bag when one is named. It reports false when
// there is nothing to attach, keeping plain pages free of an empty errors
// key.
func makeValidationErrors(errorers []ValidationErrorer, errorBag string) (Prop, bool) {
	m := make(map[string]string)

	for _, errorer := range errorers {
		for _, err := range errorer.ValidationErrors() {
			m[err.Field()] = err.Error()
		}
	}

	if len(m) == 0 {
		//nolint:exhaustruct
		return Prop{}, false
	}

	if errorBag != DefaultErrorBag {
		return NewAlways("errors", map[string]map[string]string{errorBag: m}), true
	}

	return NewAlways("errors", m), true
}

// TemplateData is the value the root template executes against.
type TemplateData struct {
	// T is custom application data provided through RenderContext.
	T any

	// InertiaHead is the page's <head> contribution.
	InertiaHead template.HTML

	// InertiaBody is the mount element the client-side app attaches to.
	InertiaBody template.HTML
}
