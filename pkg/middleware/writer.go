// Package middleware holds the HTTP middleware stack shared by the
// service routers: CORS, panic recovery, request logging, Prometheus
// metrics, OpenTelemetry tracing, and the pprof allowlist.
package middleware

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
)

// statusRecorder captures the status code and body size written by the
// wrapped handler. Flush and Hijack pass through so streaming and
// connection upgrades keep working.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.status = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.status = http.StatusOK
		sr.written = true
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// writeErrJSON emits the service's standard error envelope. Middleware
// cannot use pkg/httputil here without knowing the domain error types,
// so it writes the envelope shape directly.
func writeErrJSON(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": msg},
	})
}
