package gateway

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"appcatmcp/internal/domain"
	"appcatmcp/internal/infra/tools"
)

type staticSource struct {
	entries []domain.CatalogEntry
}

func (s *staticSource) Get(context.Context) ([]domain.CatalogEntry, error) {
	return s.entries, nil
}

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	registry := tools.NewRegistry(zap.NewNop(), nil)
	source := &staticSource{entries: []domain.CatalogEntry{
		{TrustFactors: []string{"soc2"}, TeamsAppID: "teams-1"},
	}}
	for _, d := range []tools.Descriptor{
		tools.AddTool(),
		tools.CalculateTool(),
		tools.AppsWithTrustFilterTool(source),
	} {
		require.NoError(t, registry.Register(d))
	}
	return New(registry, zap.NewNop())
}

func connectClient(t *testing.T, ctx context.Context, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ct, st := mcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	return session
}

func TestGatewayListsRegisteredTools(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	session := connectClient(t, ctx, gw.server)
	defer session.Close()

	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{"add", "calculate", "get-appsWithTrustFilter"}, names)
}

func TestGatewayCallToolEndToEnd(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	session := connectClient(t, ctx, gw.server)
	defer session.Close()

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"add", "add", map[string]any{"a": 2, "b": 3}, "5"},
		{"calculate multiply", "calculate", map[string]any{"operation": "multiply", "a": -2, "b": 3}, "-6"},
		{"divide by zero", "calculate", map[string]any{"operation": "divide", "a": 7, "b": 0}, "Error: Cannot divide by zero"},
		{"trust filter", "get-appsWithTrustFilter", map[string]any{"trustFactorKey": "soc2"}, "Apps with trust factor soc2:\nteams-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: tt.tool, Arguments: tt.args})
			require.NoError(t, err)
			require.Len(t, res.Content, 1)
			require.Equal(t, tt.want, res.Content[0].(*mcp.TextContent).Text)
		})
	}
}
