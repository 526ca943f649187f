package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddTool(t *testing.T) {
	registry := newTestRegistry(t, AddTool())

	require.Equal(t, "5", dispatchText(t, registry, "add", map[string]any{"a": 2.0, "b": 3.0}))
	require.Equal(t, "-1.5", dispatchText(t, registry, "add", map[string]any{"a": 1.0, "b": -2.5}))
}

func TestCalculateTool(t *testing.T) {
	registry := newTestRegistry(t, CalculateTool())

	tests := []struct {
		name      string
		operation string
		a, b      float64
		want      string
	}{
		{"add", "add", 2, 3, "5"},
		{"subtract", "subtract", 2, 3, "-1"},
		{"multiply negative", "multiply", -2, 3, "-6"},
		{"divide", "divide", 10, 4, "2.5"},
		{"divide by zero", "divide", 7, 0, "Error: Cannot divide by zero"},
		{"divide zero by zero", "divide", 0, 0, "Error: Cannot divide by zero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dispatchText(t, registry, "calculate", map[string]any{
				"operation": tt.operation,
				"a":         tt.a,
				"b":         tt.b,
			})
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFormatNumberTrimsTrailingZeros(t *testing.T) {
	require.Equal(t, "5", formatNumber(5))
	require.Equal(t, "-6", formatNumber(-6))
	require.Equal(t, "2.5", formatNumber(2.5))
	require.Equal(t, "0.1", formatNumber(0.1))
}
