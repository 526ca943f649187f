package tools

import (
	"context"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"

	"appcatmcp/internal/domain"
)

// AddTool sums two numbers.
func AddTool() Descriptor {
	return Descriptor{
		Name:        "add",
		Description: "Add two numbers",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"a": {Type: "number", Description: "First operand"},
				"b": {Type: "number", Description: "Second operand"},
			},
			Required: []string{"a", "b"},
		},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			a, b := number(args["a"]), number(args["b"])
			return formatNumber(a + b), nil
		},
	}
}

// CalculateTool performs one of the four basic operations. Divide by zero and
// the defensive unmatched-operation branch are user-visible error texts in a
// successful result, never transport-level failures.
func CalculateTool() Descriptor {
	operations := make([]any, 0, len(domain.Operations()))
	for _, op := range domain.Operations() {
		operations = append(operations, string(op))
	}
	return Descriptor{
		Name:        "calculate",
		Description: "Perform basic arithmetic on two numbers",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"operation": {Type: "string", Enum: operations, Description: "Operation to perform"},
				"a":         {Type: "number", Description: "First operand"},
				"b":         {Type: "number", Description: "Second operand"},
			},
			Required: []string{"operation", "a", "b"},
		},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			op, _ := domain.ParseOperation(stringArg(args["operation"]))
			a, b := number(args["a"]), number(args["b"])
			switch op {
			case domain.OperationAdd:
				return formatNumber(a + b), nil
			case domain.OperationSubtract:
				return formatNumber(a - b), nil
			case domain.OperationMultiply:
				return formatNumber(a * b), nil
			case domain.OperationDivide:
				if b == 0 {
					return "Error: Cannot divide by zero", nil
				}
				return formatNumber(a / b), nil
			default:
				// Unreachable after schema validation.
				return "Unknown operation", nil
			}
		},
	}
}

func number(v any) float64 {
	f, _ := v.(float64)
	return f
}

func stringArg(v any) string {
	s, _ := v.(string)
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
