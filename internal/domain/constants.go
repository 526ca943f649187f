package domain

const (
	ServerName    = "appcat-mcp"
	ServerVersion = "0.1.0"

	DefaultTransport           = "stdio"
	DefaultHTTPListenAddress   = "127.0.0.1:8080"
	DefaultCatalogURL          = "https://res.cdn.office.net/teams-app-catalog/trust-factors.json"
	DefaultCatalogTimeoutSecs  = 30
	DefaultShutdownTimeoutSecs = 5
	DefaultReadHeaderSecs      = 10
)

// Endpoint paths served by the edge router. PathMCP doubles as a stream-open
// alias on GET and a message-post alias on POST.
const (
	PathRoot       = "/"
	PathSSE        = "/sse"
	PathMCP        = "/mcp"
	PathSSEMessage = "/sse/message"
	PathMCPMessage = "/mcp/message"
	PathHealthz    = "/healthz"
	PathMetrics    = "/metrics"
)
