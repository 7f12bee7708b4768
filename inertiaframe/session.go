package inertiaframe

import (
	"bytes"
	"encoding/base64"
	"encoding/gob"
	"fmt"
	"net/http"
	"sync"

	"go.inout.gg/foundations/http/httpcookie"

	"github.com/nytodev/inertia-go"
)

const (
	// SessionCookieName is the cookie carrying flashed validation errors
	// across the POST, redirect, GET cycle.
	SessionCookieName = "_inertiaframe"

	// SessionPath scopes the session cookie.
	SessionPath = "/"
)

//nolint:gochecknoglobals
var bufPool = sync.Pool{New: func() any { return bytes.NewBuffer(nil) }}

//nolint:gochecknoinits
func init() {
	gob.Register(&session{}) //nolint:exhaustruct
	gob.Register([]inertia.ValidationError(nil))
}

// session is the flash storage of the frame: validation errors survive one
// redirect as a gob-encoded cookie and are cleared once read.
//
// Fields are exported with a trailing underscore so the gob codec can reach
// them while the accessors keep the natural names.
type session struct {
	ErrorBag_         string                    //nolint:revive
	ValidationErrors_ []inertia.ValidationError //nolint:revive
}

// sessionFromRequest restores the session from the request cookie. A request
// without a session cookie yields an empty session.
func sessionFromRequest(r *http.Request) (*session, error) {
	val := httpcookie.Get(r, SessionCookieName)
	if val == "" {
		//nolint:exhaustruct
		return &session{}, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(val)
	if err != nil {
		return nil, fmt.Errorf("inertiaframe: failed to decode session cookie: %w", err)
	}

	//nolint:exhaustruct
	sess := &session{}
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(sess); err != nil {
		return nil, fmt.Errorf("inertiaframe: failed to decode session: %w", err)
	}

	return sess, nil
}

// ValidationErrors returns the flashed validation errors and clears them
// from the in-memory session (flash behavior).
func (s *session) ValidationErrors() []inertia.ValidationError {
	ret := s.ValidationErrors_
	s.ValidationErrors_ = nil

	return ret
}

// ErrorBag returns the error bag name flashed alongside the validation
// errors, clearing it from the in-memory session.
func (s *session) ErrorBag() string {
	ret := s.ErrorBag_
	s.ErrorBag_ = ""

	return ret
}

// Clear deletes the session cookie from the client.
func (s *session) Clear(w http.ResponseWriter, r *http.Request) {
	httpcookie.Delete(w, r, SessionCookieName)
}

// Save persists the session to a cookie sent to the client. The cookie
// carries no expiry: it lives until Clear deletes it or the browser session
// ends.
func (s *session) Save(w http.ResponseWriter) error {
	buf := bufPool.Get().(*bytes.Buffer) //nolint:forcetypeassert

	defer func() {
		buf.Reset()
		bufPool.Put(buf)
	}()

	if err := gob.NewEncoder(buf).Encode(s); err != nil {
		return fmt.Errorf("inertiaframe: failed to encode session: %w", err)
	}

	//nolint:exhaustruct
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(buf.Bytes()),
		Path:     SessionPath,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}
