package inertia

// RenderContext carries everything page-specific about a single render:
// props, validation errors, history flags and resolution limits.
type RenderContext struct {
	// T is custom application data made available to the HTML template as
	// {{ .T }}.
	T any

	// Props are the values passed to the page component.
	Props []Prop

	// ErrorBag names the bag validation errors are scoped to; see
	// https://inertiajs.com/validation#error-bags.
	ErrorBag string

	// ValidationErrorers contribute the page's errors prop.
	ValidationErrorers []ValidationErrorer

	// EncryptHistory instructs the client to encrypt this page's history
	// state.
	EncryptHistory bool

	// ClearHistory instructs the client to clear its history stack.
	ClearHistory bool

	// Concurrency bounds concurrent prop resolution for this render. Zero
	// uses the renderer's default; negative lifts the bound.
	Concurrency int
}

// NewRenderContext builds a RenderContext from options, applied in order.
func NewRenderContext(opts ...Option) RenderContext {
	//nolint:exhaustruct
	var renderCtx RenderContext
	for _, opt := range opts {
		opt(&renderCtx)
	}

	return renderCtx
}

// AddValidationErrorer appends validation errors to the context. Multiple
// calls accumulate.
func (renderCtx *RenderContext) AddValidationErrorer(errorer ValidationErrorer) {
	renderCtx.ValidationErrorers = append(renderCtx.ValidationErrorers, errorer)
}

// Option configures a RenderContext.
type Option func(*RenderContext)

// WithProps adds props to the page component. Multiple calls append; on key
// collision the later prop wins.
func WithProps(props Proper) Option {
	return func(renderCtx *RenderContext) {
		if props == nil {
			return
		}

		if renderCtx.Props == nil {
			renderCtx.Props = make([]Prop, 0, props.Len())
		}

		renderCtx.Props = append(renderCtx.Props, props.Props()...)
	}
}

// WithValidationErrors attaches validation errors to the page, scoped to
// errorBag. Use DefaultErrorBag when the page hosts a single form.
func WithValidationErrors(errorer ValidationErrorer, errorBag string) Option {
	return func(renderCtx *RenderContext) {
		if errorer == nil {
			return
		}

		renderCtx.AddValidationErrorer(errorer)
		renderCtx.ErrorBag = errorBag
	}
}

// WithClearHistory instructs the client to clear its history stack when this
// page renders.
func WithClearHistory() Option {
	return func(renderCtx *RenderContext) { renderCtx.ClearHistory = true }
}

// WithEncryptHistory instructs the client to encrypt this page's history
// state.
func WithEncryptHistory() Option {
	return func(renderCtx *RenderContext) { renderCtx.EncryptHistory = true }
}

// WithConcurrency bounds concurrent prop resolution for this render. Only
// props marked concurrent are affected. Zero uses the renderer's default;
// negative lifts the bound.
func WithConcurrency(concurrency int) Option {
	return func(renderCtx *RenderContext) { renderCtx.Concurrency = concurrency }
}
