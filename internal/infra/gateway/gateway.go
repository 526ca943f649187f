// Package gateway assembles the MCP server and runs it over one of the two
// transports: stdio (one JSON-RPC message per line on stdin/stdout) or
// HTTP/SSE behind the edge router.
package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"appcatmcp/internal/domain"
	"appcatmcp/internal/infra/edge"
	"appcatmcp/internal/infra/telemetry"
	"appcatmcp/internal/infra/tools"
)

type Gateway struct {
	logger *zap.Logger
	server *mcp.Server
}

func New(registry *tools.Registry, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    domain.ServerName,
		Version: domain.ServerVersion,
	}, &mcp.ServerOptions{
		HasTools: true,
	})
	registry.Install(server)

	return &Gateway{
		logger: logger.Named("gateway"),
		server: server,
	}
}

// Run serves the stdio line transport until ctx is cancelled or the client
// disconnects. Stdout carries protocol messages only; diagnostics go to the
// logger (stderr).
func (g *Gateway) Run(ctx context.Context) error {
	g.logger.Info("gateway starting (stdio transport)")
	return g.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the HTTP/SSE transport on addr until ctx is cancelled. A
// bind failure is returned to the caller and is fatal at startup.
func (g *Gateway) RunHTTP(ctx context.Context, addr string, metrics *telemetry.Metrics) error {
	sessions := mcp.NewSSEHandler(func(*http.Request) *mcp.Server {
		return g.server
	}, nil)
	router := edge.NewRouter(sessions, g.logger, metrics)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return domain.E(domain.CodeUnavailable, "gateway.http",
			"listen "+addr, err)
	}

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: domain.DefaultReadHeaderSecs * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), domain.DefaultShutdownTimeoutSecs*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			g.logger.Warn("http shutdown", zap.Error(err))
		}
	}()

	g.logger.Info("gateway starting (sse transport)", zap.String("addr", listener.Addr().String()))
	err = httpServer.Serve(listener)
	<-shutdownDone
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
