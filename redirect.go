package inertia

import (
	"net/http"

	"github.com/nytodev/inertia-go/internal/inertiaheader"
	"github.com/nytodev/inertia-go/internal/inertiaredirect"
)

// Redirect answers the request with a redirect to url. Non-GET requests
// receive 303 See Other so the Inertia client follows up with a GET;
// GET requests receive a plain 302.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	inertiaredirect.Redirect(w, r, url)
}

// Location redirects to an external URL, or to a page outside the Inertia
// app. For requests issued by the Inertia client it answers 409 Conflict
// with an X-Inertia-Location header, which makes the client perform a full
// page visit to url. Anyone else receives an ordinary redirect.
//
// See https://inertiajs.com/redirects#external-redirects.
func Location(w http.ResponseWriter, r *http.Request, url string) {
	if isInertiaRequest(r) {
		h := w.Header()
		h.Del(inertiaheader.HeaderVary)
		h.Del(inertiaheader.HeaderXInertia)
		h.Set(inertiaheader.HeaderXInertiaLocation, url)
		w.WriteHeader(http.StatusConflict)

		return
	}

	inertiaredirect.Redirect(w, r, url)
}

// Back redirects to the URL named by the Referer header, falling back to
// fallbackURL when the header is absent.
func Back(w http.ResponseWriter, r *http.Request, fallbackURL string) {
	url := r.Header.Get(inertiaheader.HeaderReferer)
	if url == "" {
		url = fallbackURL
	}

	Redirect(w, r, url)
}
