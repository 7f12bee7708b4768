// Package inertiaframe layers a typed, message-based endpoint API on top of
// the core renderer, abstracting out protocol-level details: request
// decoding, validation, flashed validation errors and redirects.
//
// Mount endpoints on a mux wrapped with inertia.NewMiddleware.
package inertiaframe

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-json-experiment/json"
	"github.com/go-playground/form/v4"
	"go.inout.gg/foundations/debug"
	"go.inout.gg/foundations/http/httperror"
	"go.inout.gg/foundations/http/httpmiddleware"
	"go.inout.gg/foundations/must"

	"github.com/nytodev/inertia-go"
	"github.com/nytodev/inertia-go/internal/inertiaheader"
	"github.com/nytodev/inertia-go/internal/inertiaredirect"
)

var d = debug.Debuglog("inertiaframe") //nolint:gochecknoglobals

// DefaultFormDecoder decodes form and query payloads into request messages.
var DefaultFormDecoder = form.NewDecoder() //nolint:gochecknoglobals

var (
	// ErrEmptyResponse is reported when an endpoint returns neither a
	// response nor an error.
	ErrEmptyResponse = errors.New("inertiaframe: empty response")

	// ErrUnsupportedMediaType is reported when a request body carries a
	// content type the frame cannot decode.
	ErrUnsupportedMediaType = errors.New("inertiaframe: unsupported media type")
)

var (
	_ RawResponseWriter = (*redirectMessage)(nil)
	_ RawResponseWriter = (*redirectBackMessage)(nil)
	_ RawResponseWriter = (*externalRedirectMessage)(nil)
)

// RedirectBack redirects the user back to the page named by the Referer
// header, falling back to the root path when the header is absent.
func RedirectBack(w http.ResponseWriter, r *http.Request) {
	referer := cmp.Or(r.Header.Get(inertiaheader.HeaderReferer), "/")

	d("redirecting back to %s", referer)

	inertiaredirect.Redirect(w, r, referer)
}

// DefaultValidationErrorHandler flashes the validation errors to the session
// cookie and redirects back to the submitting page. The follow-up GET picks
// the flash up and delivers it as the page's errors prop.
func DefaultValidationErrorHandler(w http.ResponseWriter, r *http.Request, errorer inertia.ValidationErrorer) {
	sess, err := sessionFromRequest(r)
	if err != nil {
		d("failed to restore session, starting fresh: %v", err)

		//nolint:exhaustruct
		sess = &session{}
	}

	sess.ErrorBag_ = inertia.ErrorBagFromRequest(r)
	sess.ValidationErrors_ = errorer.ValidationErrors()

	must.Must1(sess.Save(w))

	RedirectBack(w, r)
}

// DefaultErrorHandler routes validation errors through
// DefaultValidationErrorHandler and delegates everything else.
//
//nolint:gochecknoglobals
var DefaultErrorHandler httperror.ErrorHandler = httperror.ErrorHandlerFunc(
	func(w http.ResponseWriter, r *http.Request, err error) {
		var errorer inertia.ValidationErrorer
		if errors.As(err, &errorer) {
			DefaultValidationErrorHandler(w, r, errorer)
			return
		}

		httperror.DefaultErrorHandler(w, r, err)
	},
)

const (
	mediaTypeJSON      = "application/json"
	mediaTypeForm      = "application/x-www-form-urlencoded"
	mediaTypeMultipart = "multipart/form-data"
)

// defaultMaxMultipartMemory mirrors net/http's in-memory cap for multipart
// bodies.
const defaultMaxMultipartMemory = 32 << 20

// Request is a request sent by a client.
type Request[M any] struct {
	// Message is the decoded message sent by the client.
	//
	// A message whose pointer type implements RawRequestExtractor takes
	// over request data extraction.
	Message *M
}

func newRequest[M any](m M) *Request[M] {
	return &Request[M]{Message: &m}
}

// Response is a response sent by a server to a client.
//
// Use NewResponse to create a new response.
type Response struct {
	m              Message
	clearHistory   bool
	encryptHistory bool
	concurrency    int
}

// ResponseConfig configures a Response.
type ResponseConfig struct {
	// ClearHistory instructs the client to clear its history stack.
	ClearHistory bool

	// EncryptHistory instructs the client to encrypt this page's history
	// state.
	EncryptHistory bool

	// Concurrency bounds concurrent prop resolution for this response.
	// Zero uses the renderer's default.
	Concurrency int
}

// NewResponse creates a new response rendering msg.
//
// The msg can be a pointer to a struct with fields tagged for
// inertia.ParseStruct, an inertia.Proper, or a type implementing
// RawResponseWriter for custom response handling. A nil config uses the
// defaults.
func NewResponse(msg Message, config *ResponseConfig) *Response {
	if config == nil {
		//nolint:exhaustruct
		config = &ResponseConfig{}
	}

	return &Response{
		m:              msg,
		clearHistory:   config.ClearHistory,
		encryptHistory: config.EncryptHistory,
		concurrency:    config.Concurrency,
	}
}

type externalRedirectMessage struct{ url string }

func (m *externalRedirectMessage) Component() string { return "" }

func (m *externalRedirectMessage) Write(w http.ResponseWriter, r *http.Request) error {
	inertia.Location(w, r, m.url)
	return nil
}

// NewExternalRedirectResponse creates a response that sends the client to an
// external URL, i.e. any URL not powered by Inertia.
func NewExternalRedirectResponse(url string) *Response {
	//nolint:exhaustruct
	return &Response{m: &externalRedirectMessage{url: url}}
}

type redirectBackMessage struct{}

func (m *redirectBackMessage) Component() string { return "" }

func (m *redirectBackMessage) Write(w http.ResponseWriter, r *http.Request) error {
	RedirectBack(w, r)
	return nil
}

// NewRedirectBackResponse creates a response that redirects the client back
// to the previous page.
func NewRedirectBackResponse() *Response {
	//nolint:exhaustruct
	return &Response{m: &redirectBackMessage{}}
}

type redirectMessage struct{ url string }

func (m *redirectMessage) Component() string { return "" }

func (m *redirectMessage) Write(w http.ResponseWriter, r *http.Request) error {
	inertiaredirect.Redirect(w, r, m.url)
	return nil
}

// NewRedirectResponse creates a response that redirects the client to the
// given URL within the app.
func NewRedirectResponse(url string) *Response {
	//nolint:exhaustruct
	return &Response{m: &redirectMessage{url: url}}
}

// Message is sent to the client at the end of an endpoint: it either names
// the component to render, or takes over response writing entirely by
// implementing RawResponseWriter.
type Message interface {
	// Component returns the component name to be rendered.
	//
	// The frame panics if Component returns an empty string, unless the
	// message implements RawResponseWriter.
	Component() string
}

// RawRequestExtractor takes over request data extraction. When the pointer
// type of a request message implements it, the frame skips body decoding and
// calls Extract instead.
type RawRequestExtractor interface {
	// Extract extracts data from the raw http.Request.
	Extract(*http.Request) error
}

// RawResponseWriter takes over response writing. When a response message
// implements it, the frame skips rendering and calls Write instead.
type RawResponseWriter interface {
	Write(http.ResponseWriter, *http.Request) error
}

// Meta is the metadata of an endpoint.
type Meta struct {
	// Method is the HTTP method of the endpoint.
	Method string

	// Path is the HTTP path of the endpoint. It supports the same path
	// pattern as http.ServeMux.
	Path string
}

// Validator checks a decoded request message before the endpoint runs.
type Validator interface {
	Validate(any) error
}

// Endpoint handles one route with a typed request message.
type Endpoint[M any] interface {
	// Execute executes the endpoint for the given request.
	//
	// A returned error carrying an inertia.ValidationErrorer is flashed to
	// the client and turned into a redirect back by DefaultErrorHandler.
	Execute(context.Context, *Request[M]) (*Response, error)

	// Meta returns the metadata of the endpoint. It is used to mount the
	// endpoint on a mux.
	Meta() *Meta
}

// NewEndpoint adapts a plain function to the Endpoint interface, in the
// spirit of http.HandlerFunc.
func NewEndpoint[M any](meta Meta, fn func(context.Context, *Request[M]) (*Response, error)) Endpoint[M] {
	return &endpointFunc[M]{meta: meta, fn: fn}
}

type endpointFunc[M any] struct {
	fn   func(context.Context, *Request[M]) (*Response, error)
	meta Meta
}

func (e *endpointFunc[M]) Execute(ctx context.Context, r *Request[M]) (*Response, error) {
	return e.fn(ctx, r)
}

func (e *endpointFunc[M]) Meta() *Meta { return &e.meta }

// Mux is a universal interface for routing HTTP requests.
type Mux interface {
	// Handle handles the given HTTP request at the specified path.
	//
	// The pattern is a string following the http.ServeMux format:
	// "<http-method> <path>".
	Handle(pattern string, h http.Handler)
}

// MountOpts configures a mounted endpoint.
type MountOpts struct {
	// Middleware wraps the endpoint's handler.
	Middleware httpmiddleware.Middleware

	// Validator checks decoded request messages. When nil, messages are
	// not validated.
	Validator Validator

	// ErrorHandler answers errors returned by the handler chain.
	//
	// Defaults to DefaultErrorHandler.
	ErrorHandler httperror.ErrorHandler

	// FormDecoder decodes form and query payloads.
	//
	// Defaults to DefaultFormDecoder.
	FormDecoder *form.Decoder

	// JSONUnmarshalOptions configures the decoding of JSON payloads.
	JSONUnmarshalOptions []json.Options
}

// Mount mounts the endpoint on the given mux.
//
// The endpoint must specify its HTTP method and path via Meta. Request
// bodies arrive as JSON, urlencoded or multipart forms; GET requests decode
// their query string instead. The decoded message is checked with the
// validator when one is configured.
func Mount[M any](mux Mux, e Endpoint[M], opts *MountOpts) {
	if opts == nil {
		//nolint:exhaustruct
		opts = &MountOpts{}
	}

	opts.ErrorHandler = cmp.Or(opts.ErrorHandler, DefaultErrorHandler)
	opts.FormDecoder = cmp.Or(opts.FormDecoder, DefaultFormDecoder)

	debug.Assert(e != nil, "expected endpoint to be defined")

	m := e.Meta()

	debug.Assert(m.Method != "", "endpoint must specify the HTTP method")
	debug.Assert(m.Path != "", "endpoint must specify the HTTP path")

	pattern := fmt.Sprintf("%s %s", m.Method, m.Path)

	d("mounting endpoint on pattern: %s", pattern)

	h := newHandler(e, opts.ErrorHandler, opts.Validator, opts.FormDecoder, opts.JSONUnmarshalOptions)
	if opts.Middleware != nil {
		h = opts.Middleware.Middleware(h)
	}

	mux.Handle(pattern, h)
}

// newHandler builds the handler chain of one endpoint: decode, validate,
// execute, respond.
func newHandler[M any](
	endpoint Endpoint[M],
	errorHandler httperror.ErrorHandler,
	validator Validator,
	formDecoder *form.Decoder,
	jsonUnmarshalOptions []json.Options,
) http.Handler {
	handleError := httperror.WithErrorHandler(errorHandler)

	return handleError(httperror.HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		var (
			msg       M
			renderCtx inertia.RenderContext
		)

		ctx := r.Context()

		if err := decodeRequest(r, &msg, formDecoder, jsonUnmarshalOptions); err != nil {
			return err
		}

		if validator != nil {
			if err := validator.Validate(&msg); err != nil {
				d("request validation failed")

				return fmt.Errorf("inertiaframe: failed to validate request: %w", err)
			}
		}

		resp, err := endpoint.Execute(ctx, newRequest(msg))
		if err != nil {
			return fmt.Errorf("inertiaframe: failed to execute: %w", err)
		}

		if resp == nil {
			d("received empty response")

			return ErrEmptyResponse
		}

		if writer, ok := resp.m.(RawResponseWriter); ok {
			if err := writer.Write(w, r); err != nil {
				return fmt.Errorf("inertiaframe: failed to write response: %w", err)
			}

			return nil
		}

		renderCtx.ClearHistory = resp.clearHistory
		renderCtx.EncryptHistory = resp.encryptHistory
		renderCtx.Concurrency = resp.concurrency

		props, err := extractProps(resp.m)
		if err != nil {
			return err
		}

		renderCtx.Props = props

		sess, err := sessionFromRequest(r)
		if err != nil {
			// A corrupt flash cookie must not take the page down.
			d("failed to restore session: %v", err)
		} else if errs := sess.ValidationErrors(); len(errs) > 0 {
			renderCtx.ErrorBag = sess.ErrorBag()
			renderCtx.AddValidationErrorer(inertia.ValidationErrors(errs))

			sess.Clear(w, r)
		}

		componentName := resp.m.Component()
		debug.Assert(componentName != "", "component must not be empty when using non RawResponseWriter")

		if err := inertia.Render(w, r, componentName, renderCtx); err != nil {
			return fmt.Errorf("inertiaframe: failed to render: %w", err)
		}

		return nil
	}))
}

// decodeRequest fills msg from the request: the raw extractor when the
// message implements one, the query string on GET, the body otherwise.
func decodeRequest[M any](
	r *http.Request,
	msg *M,
	formDecoder *form.Decoder,
	jsonUnmarshalOptions []json.Options,
) error {
	if extractor, ok := any(msg).(RawRequestExtractor); ok {
		if err := extractor.Extract(r); err != nil {
			return fmt.Errorf("inertiaframe: failed to extract request data: %w", err)
		}

		return nil
	}

	if r.Method == http.MethodGet {
		if err := formDecoder.Decode(msg, r.URL.Query()); err != nil {
			return fmt.Errorf("inertiaframe: failed to decode query parameters: %w", err)
		}

		return nil
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get(inertiaheader.HeaderContentType))
	if err != nil {
		return fmt.Errorf("inertiaframe: failed to parse Content-Type header: %w", err)
	}

	switch mediaType {
	case mediaTypeJSON:
		d("decoding JSON request")

		if err := json.UnmarshalRead(r.Body, msg, jsonUnmarshalOptions...); err != nil {
			return fmt.Errorf("inertiaframe: failed to decode request: %w", err)
		}
	case mediaTypeForm:
		d("decoding form request")

		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("inertiaframe: failed to parse form data: %w", err)
		}

		if err := formDecoder.Decode(msg, r.Form); err != nil {
			return fmt.Errorf("inertiaframe: failed to decode form data: %w", err)
		}
	case mediaTypeMultipart:
		d("decoding multipart request")

		if err := r.ParseMultipartForm(defaultMaxMultipartMemory); err != nil {
			return fmt.Errorf("inertiaframe: failed to parse multipart form data: %w", err)
		}

		if err := formDecoder.Decode(msg, r.Form); err != nil {
			return fmt.Errorf("inertiaframe: failed to decode form data: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}

	return nil
}

// extractProps converts a message into props: directly when it implements
// inertia.Proper, through its struct tags otherwise.
func extractProps(msg any) (inertia.Props, error) {
	if proper, ok := msg.(inertia.Proper); ok {
		return proper.Props(), nil
	}

	props, err := inertia.ParseStruct(msg)
	if err != nil {
		return nil, fmt.Errorf("inertiaframe: failed to extract props: %w", err)
	}

	return props, nil
}
