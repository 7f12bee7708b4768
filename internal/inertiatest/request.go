// Package inertiatest provides request builders for exercising the Inertia
// protocol in tests.
package inertiatest

import (
	"cmp"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/nytodev/inertia-go/internal/inertiaheader"
)

// RequestConfig describes the protocol headers attached to a test request.
type RequestConfig struct {
	// Inertia marks the request as issued by the Inertia client.
	Inertia bool

	// Version is the asset version the client claims to hold.
	Version string

	// Component targets a partial reload at the named component.
	Component string

	// Only whitelists prop keys. A non-nil empty slice still sets the
	// header, reproducing a present-but-empty whitelist.
	Only []string

	// Except blacklists prop keys.
	Except []string

	// Reset lists prop keys the client wants replaced instead of merged.
	Reset []string

	// ErrorBag names the bag validation errors are scoped to.
	ErrorBag string
}

// NewRequest builds a request with an empty body and a recorder, with the
// protocol headers derived from config. A nil config yields a plain request.
func NewRequest(
	method string,
	target string,
	config *RequestConfig,
) (*http.Request, *httptest.ResponseRecorder) {
	r := httptest.NewRequest(method, target, nil)

	//nolint:exhaustruct
	config = cmp.Or(config, &RequestConfig{})

	if config.Inertia {
		r.Header.Set(inertiaheader.HeaderXInertia, "true")
	}

	if config.Version != "" {
		r.Header.Set(inertiaheader.HeaderXInertiaVersion, config.Version)
	}

	if config.Component != "" {
		r.Header.Set(inertiaheader.HeaderXInertiaPartialComponent, config.Component)
	}

	if config.Only != nil {
		r.Header.Set(inertiaheader.HeaderXInertiaPartialData, strings.Join(config.Only, ","))
	}

	if len(config.Except) > 0 {
		r.Header.Set(inertiaheader.HeaderXInertiaPartialExcept, strings.Join(config.Except, ","))
	}

	if len(config.Reset) > 0 {
		r.Header.Set(inertiaheader.HeaderXInertiaReset, strings.Join(config.Reset, ","))
	}

	if config.ErrorBag != "" {
		r.Header.Set(inertiaheader.HeaderXInertiaErrorBag, config.ErrorBag)
	}

	return r, httptest.NewRecorder()
}
