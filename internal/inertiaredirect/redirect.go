// Package inertiaredirect implements the redirect rule of the Inertia
// protocol.
//
// See https://inertiajs.com/redirects for the protocol description.
package inertiaredirect

import (
	"net/http"

	"go.inout.gg/foundations/debug"
)

//nolint:gochecknoglobals
var d = debug.Debuglog("inertia/redirect")

// Redirect sends the client to url.
//
// GET requests redirect with 302. Every other method redirects with 303 so
// the client re-issues the target as a GET instead of replaying the original
// verb.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	statusCode := http.StatusSeeOther
	if r.Method == http.MethodGet {
		statusCode = http.StatusFound
	}

	d("redirecting %s %s to %s with status %d", r.Method, r.URL.Path, url, statusCode)

	http.Redirect(w, r, url, statusCode)
}
