// Package edge is the HTTP surface in front of the stream session component.
// It maps inbound (path, method) pairs onto stream-open and message-post
// operations, and patches the SSE endpoint advertisement so clients behind a
// fronting proxy POST to an absolute URL.
package edge

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"appcatmcp/internal/domain"
	"appcatmcp/internal/infra/telemetry"
)

// Router routes edge requests to the stream session component. The component
// owns session ids and message dispatch; the router owns path normalization,
// method-dependent aliasing, and the endpoint rewrite.
type Router struct {
	sessions http.Handler
	logger   *zap.Logger
	metrics  *telemetry.Metrics
	promExp  http.Handler
}

func NewRouter(sessions http.Handler, logger *zap.Logger, metrics *telemetry.Metrics) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		sessions: sessions,
		logger:   logger.Named("edge"),
		metrics:  metrics,
		promExp:  promhttp.Handler(),
	}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()
	path := normalizePath(r.URL.Path)

	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	route := rt.route(sw, r, path)

	rt.metrics.ObserveRequest(route, fmt.Sprintf("%d", sw.status), time.Since(start))
	rt.logger.Debug("request served",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", path),
		zap.String("route", route),
		zap.Int("status", sw.status),
		zap.Duration("duration", time.Since(start)))
}

// route evaluates the routing table in order and returns the route label used
// for metrics. PathMCP is deliberately aliased: a GET opens a stream, a POST
// delivers a session message.
func (rt *Router) route(w http.ResponseWriter, r *http.Request, path string) string {
	switch {
	case r.Method == http.MethodGet && (path == domain.PathSSE || path == domain.PathMCP):
		rt.openStream(w, r)
		return "stream_open"
	case r.Method == http.MethodPost && (path == domain.PathSSEMessage || path == domain.PathMCPMessage || path == domain.PathMCP):
		rt.postMessage(w, r)
		return "message_post"
	case path == domain.PathRoot:
		rt.serveCapabilities(w)
		return "root"
	case r.Method == http.MethodGet && path == domain.PathHealthz:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintln(w, "ok")
		return "healthz"
	case r.Method == http.MethodGet && path == domain.PathMetrics:
		rt.promExp.ServeHTTP(w, r)
		return "metrics"
	default:
		rt.logger.Debug("no route",
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.Error(domain.ErrRouteNotFound))
		http.Error(w, "Not Found", http.StatusNotFound)
		return "not_found"
	}
}

// openStream delegates the stream-open handshake. The request is re-aimed at
// the fixed message path before delegation so the session component
// advertises /sse/message regardless of which alias the stream was opened on,
// and the response writer is wrapped so the advertised URL leaves the edge
// absolute.
func (rt *Router) openStream(w http.ResponseWriter, r *http.Request) {
	opened := r.Clone(r.Context())
	opened.URL.Path = domain.PathSSEMessage
	opened.URL.RawPath = ""

	rt.sessions.ServeHTTP(newEndpointRewriter(w, r), opened)
}

// postMessage delegates a session-scoped JSON-RPC message. The session id
// query parameter is accepted in either spelling; the session component reads
// the lowercase form. A missing or unmatched id is an unknown session, never
// a silent success.
func (rt *Router) postMessage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sessionID := query.Get("sessionid")
	if sessionID == "" {
		if alias := query.Get("sessionId"); alias != "" {
			sessionID = alias
			query.Set("sessionid", alias)
			r = r.Clone(r.Context())
			r.URL.RawQuery = query.Encode()
		}
	}
	if sessionID == "" {
		rt.logger.Warn("message post without session id", zap.Error(domain.ErrUnknownSession))
		http.Error(w, domain.ErrUnknownSession.Error(), http.StatusBadRequest)
		return
	}

	rt.sessions.ServeHTTP(w, r)
}

func (rt *Router) serveCapabilities(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "%s %s\nMCP tool server.\nGET %s or %s opens an SSE stream; POST %s delivers session messages.\n",
		domain.ServerName, domain.ServerVersion,
		domain.PathSSE, domain.PathMCP, domain.PathSSEMessage)
}

// normalizePath strips trailing slashes; the root path is preserved.
func normalizePath(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return domain.PathRoot
	}
	return trimmed
}

// statusWriter records the status code for metrics while keeping streaming
// semantics intact.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(p)
}

func (w *statusWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
