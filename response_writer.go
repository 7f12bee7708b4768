package inertia

import (
	"bytes"
	"fmt"
	"maps"
	"net/http"
)

var _ http.ResponseWriter = (*responseWriter)(nil)

// responseWriter buffers a handler's response so the middleware can inspect
// and rewrite it before anything reaches the network.
//
// The header map is shadowed: the handler observes and mutates a private
// copy that is merged onto the real writer only at flush time. WriteHeader
// records the status code without transmitting it, so the middleware may
// overwrite it; the last call before flush wins.
type responseWriter struct {
	w      http.ResponseWriter
	header http.Header
	buf    bytes.Buffer

	// statusCode is zero until the handler calls WriteHeader.
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	//nolint:exhaustruct
	return &responseWriter{w: w, header: make(http.Header)}
}

func (rw *responseWriter) Header() http.Header { return rw.header }

func (rw *responseWriter) Write(b []byte) (int, error) {
	return rw.buf.Write(b)
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
}

// Empty reports whether the handler produced neither a status code nor a
// body. Headers alone do not count as a response.
func (rw *responseWriter) Empty() bool {
	return rw.statusCode == 0 && rw.buf.Len() == 0
}

// flush transmits the buffered response: shadow headers first, then the
// status code, then the body. When the handler never called WriteHeader the
// underlying writer defaults the status to 200 on the first body write.
func (rw *responseWriter) flush() error {
	maps.Copy(rw.w.Header(), rw.header)

	if rw.statusCode != 0 {
		rw.w.WriteHeader(rw.statusCode)
	}

	if rw.buf.Len() == 0 {
		return nil
	}

	if _, err := rw.w.Write(rw.buf.Bytes()); err != nil {
		return fmt.Errorf("inertia: failed to write buffered response: %w", err)
	}

	return nil
}
