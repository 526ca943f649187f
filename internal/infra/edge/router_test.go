package edge

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"appcatmcp/internal/domain"
	"appcatmcp/internal/infra/telemetry"
)

// stubSessions mimics the stream session component: a GET opens a stream and
// advertises a relative message endpoint; a POST is accepted only for the
// session id handed out on open.
type stubSessions struct {
	sessionID  string
	openedPath string
	postedID   string
}

func (s *stubSessions) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.openedPath = r.URL.Path
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "event: endpoint\ndata: %s?sessionid=%s\n\n", r.URL.Path, s.sessionID)
	case http.MethodPost:
		id := r.URL.Query().Get("sessionid")
		s.postedID = id
		if id != s.sessionID {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func newTestRouter(t *testing.T) (*Router, *stubSessions) {
	t.Helper()
	sessions := &stubSessions{sessionID: "abc"}
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	return NewRouter(sessions, zap.NewNop(), metrics), sessions
}

func doRequest(router *Router, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(method, target, nil)
	r.Host = "example.com"
	router.ServeHTTP(rec, r)
	return rec
}

func TestStreamOpenAdvertisesAbsoluteFixedMessagePath(t *testing.T) {
	for _, path := range []string{domain.PathSSE, domain.PathMCP} {
		t.Run(path, func(t *testing.T) {
			router, sessions := newTestRouter(t)
			rec := doRequest(router, http.MethodGet, path)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, domain.PathSSEMessage, sessions.openedPath,
				"stream must be opened against the fixed message path regardless of alias")
			require.Contains(t, rec.Body.String(),
				"data: http://example.com/sse/message?sessionid=abc")
		})
	}
}

func TestTrailingSlashRoutesLikeBarePath(t *testing.T) {
	router, _ := newTestRouter(t)
	bare := doRequest(router, http.MethodGet, domain.PathMCP)
	slashed := doRequest(router, http.MethodGet, domain.PathMCP+"/")

	require.Equal(t, bare.Code, slashed.Code)
	require.Equal(t, bare.Body.String(), slashed.Body.String())
}

func TestMessagePostAliases(t *testing.T) {
	for _, path := range []string{domain.PathSSEMessage, domain.PathMCPMessage, domain.PathMCP} {
		t.Run(path, func(t *testing.T) {
			router, _ := newTestRouter(t)
			rec := doRequest(router, http.MethodPost, path+"?sessionid=abc")
			require.Equal(t, http.StatusAccepted, rec.Code)
		})
	}
}

func TestMessagePostNormalizesSessionIDSpelling(t *testing.T) {
	router, sessions := newTestRouter(t)
	rec := doRequest(router, http.MethodPost, domain.PathSSEMessage+"?sessionId=abc")

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "abc", sessions.postedID)
}

func TestMessagePostUnknownSession(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(router, http.MethodPost, domain.PathSSEMessage+"?sessionId=nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMessagePostMissingSessionID(t *testing.T) {
	router, sessions := newTestRouter(t)
	rec := doRequest(router, http.MethodPost, domain.PathSSEMessage)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, sessions.postedID, "session component must not see an id-less post")
}

func TestRootServesCapabilityDescription(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(router, http.MethodGet, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	require.Contains(t, rec.Body.String(), domain.ServerName)
}

func TestUnknownPathIs404(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusNotFound, doRequest(router, http.MethodPost, "/nope").Code)
	require.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/sse/extra").Code)
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(router, http.MethodGet, domain.PathHealthz)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok\n", rec.Body.String())
}
