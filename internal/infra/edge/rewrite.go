package edge

import (
	"bytes"
	"net/http"
)

var (
	dataPrefix   = []byte("data: ")
	httpPrefix   = []byte("http://")
	httpsPrefix  = []byte("https://")
	carriageByte = []byte("\r")
	newlineByte  = []byte("\n")
)

// endpointRewriter wraps a ResponseWriter carrying an SSE stream and rewrites
// the endpoint-advertisement line of the first chunk so the callback URL is
// absolute. The advertisement is emitted exactly once near the start of the
// stream, so every later chunk passes through byte-for-byte: scanning them
// would be wasted work and risks false-positive rewrites of payload text.
//
// Two states: awaiting the first chunk, then pass-through. The transition
// happens on the first Write regardless of whether anything was rewritten.
type endpointRewriter struct {
	http.ResponseWriter
	origin       string
	awaitingScan bool
}

func newEndpointRewriter(w http.ResponseWriter, r *http.Request) *endpointRewriter {
	return &endpointRewriter{
		ResponseWriter: w,
		origin:         requestOrigin(r),
		awaitingScan:   true,
	}
}

func (w *endpointRewriter) Write(p []byte) (int, error) {
	if !w.awaitingScan {
		return w.ResponseWriter.Write(p)
	}
	w.awaitingScan = false

	rewritten := rewriteEndpointLines(p, w.origin)
	if _, err := w.ResponseWriter.Write(rewritten); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *endpointRewriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *endpointRewriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// rewriteEndpointLines prefixes origin onto every "data: /relative/path" line
// of chunk. Lines already carrying an absolute URL pass through unchanged.
func rewriteEndpointLines(chunk []byte, origin string) []byte {
	if origin == "" || !bytes.Contains(chunk, dataPrefix) {
		return chunk
	}

	lines := bytes.Split(chunk, newlineByte)
	for i, line := range lines {
		rest, ok := bytes.CutPrefix(line, dataPrefix)
		if !ok {
			continue
		}
		value := bytes.TrimSuffix(rest, carriageByte)
		if bytes.HasPrefix(value, httpPrefix) || bytes.HasPrefix(value, httpsPrefix) {
			continue
		}
		if len(value) == 0 || value[0] != '/' {
			continue
		}

		rewritten := make([]byte, 0, len(dataPrefix)+len(origin)+len(rest))
		rewritten = append(rewritten, dataPrefix...)
		rewritten = append(rewritten, origin...)
		rewritten = append(rewritten, rest...)
		lines[i] = rewritten
	}
	return bytes.Join(lines, newlineByte)
}

// requestOrigin derives "<scheme>://<host>" from the inbound request. The
// Host header wins over the URL's host so a fronting proxy's external name is
// preserved; the scheme honours X-Forwarded-Proto for the same reason.
func requestOrigin(r *http.Request) string {
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	if host == "" {
		return ""
	}

	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	return scheme + "://" + host
}
