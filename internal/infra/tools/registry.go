// Package tools holds the tool registry and the builtin tool handlers. The
// registry is the single dispatch path for every transport: the stdio line
// transport and the HTTP/SSE transport both funnel calls through Dispatch.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"appcatmcp/internal/domain"
	"appcatmcp/internal/infra/telemetry"
)

// Handler runs a validated tool call and returns the text payload of the
// result. A returned error is surfaced as a protocol-level failure; handlers
// that want a user-visible domain error (divide by zero) return it as the
// text of a successful result instead.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Descriptor binds a tool name to its input schema and handler.
type Descriptor struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Handler     Handler
}

type registeredTool struct {
	descriptor Descriptor
	resolved   *jsonschema.Resolved
}

type Registry struct {
	logger  *zap.Logger
	metrics *telemetry.Metrics

	mu    sync.RWMutex
	tools map[string]*registeredTool
	order []string
}

func NewRegistry(logger *zap.Logger, metrics *telemetry.Metrics) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger:  logger.Named("tool_registry"),
		metrics: metrics,
		tools:   make(map[string]*registeredTool),
	}
}

func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return domain.E(domain.CodeInvalidArgument, "tools.register", "tool name is required", nil)
	}
	if d.Handler == nil {
		return domain.E(domain.CodeInvalidArgument, "tools.register",
			fmt.Sprintf("tool %q has no handler", d.Name), nil)
	}

	if d.InputSchema == nil {
		return domain.E(domain.CodeInvalidArgument, "tools.register",
			fmt.Sprintf("tool %q has no input schema", d.Name), nil)
	}
	resolved, err := d.InputSchema.Resolve(nil)
	if err != nil {
		return domain.E(domain.CodeInvalidArgument, "tools.register",
			fmt.Sprintf("tool %q schema: %v", d.Name, err), nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[d.Name]; exists {
		return domain.E(domain.CodeAlreadyExists, "tools.register",
			fmt.Sprintf("tool %q", d.Name), domain.ErrDuplicateTool)
	}
	r.tools[d.Name] = &registeredTool{descriptor: d, resolved: resolved}
	r.order = append(r.order, d.Name)
	return nil
}

// Dispatch validates rawArgs against the tool's schema, runs the handler, and
// wraps its text into the protocol content envelope.
func (r *Registry) Dispatch(ctx context.Context, name string, rawArgs json.RawMessage) (*mcp.CallToolResult, error) {
	result, err := r.dispatch(ctx, name, rawArgs)
	r.metrics.ObserveDispatch(name, err)
	return result, err
}

func (r *Registry) dispatch(ctx context.Context, name string, rawArgs json.RawMessage) (*mcp.CallToolResult, error) {
	r.mu.RLock()
	reg, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.E(domain.CodeNotFound, "tools.dispatch",
			fmt.Sprintf("tool %q", name), domain.ErrUnknownTool)
	}

	args := map[string]any{}
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return nil, domain.E(domain.CodeInvalidArgument, "tools.dispatch",
				fmt.Sprintf("tool %q: arguments are not a JSON object: %v", name, err),
				domain.ErrInvalidArguments)
		}
	}

	if reg.resolved != nil {
		if err := reg.resolved.Validate(args); err != nil {
			return nil, domain.E(domain.CodeInvalidArgument, "tools.dispatch",
				fmt.Sprintf("tool %q: %v", name, err), domain.ErrInvalidArguments)
		}
	}

	text, err := reg.descriptor.Handler(ctx, args)
	if err != nil {
		return nil, domain.Wrap(domain.CodeInternal, "tools.dispatch", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil
}

// Install binds every registered tool onto the MCP server in registration
// order. The SDK-facing handler delegates to Dispatch so both transports see
// identical validation and error semantics.
func (r *Registry) Install(server *mcp.Server) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		reg := r.tools[name]
		tool := &mcp.Tool{
			Name:        reg.descriptor.Name,
			Description: reg.descriptor.Description,
			InputSchema: reg.descriptor.InputSchema,
		}
		server.AddTool(tool, r.sdkHandler(reg.descriptor.Name))
		r.logger.Debug("tool installed", zap.String("tool", name))
	}
}

func (r *Registry) sdkHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := json.RawMessage(req.Params.Arguments)
		return r.Dispatch(ctx, name, args)
	}
}
