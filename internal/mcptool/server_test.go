package mcptool

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

type toolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, h toolHandler, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := h(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	})
	if err != nil {
		t.Fatalf("tool call: %v", err)
	}
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(result.Content))
	}
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("expected text content, got %T", result.Content[0])
	return ""
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(t, result)), &v); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	return v
}

func TestPressKeysSharesOneMachine(t *testing.T) {
	tools := newTools(zap.NewNop())

	first := decode[MachineView](t, call(t, tools.pressKeys, map[string]any{"keys": "3 + 4 ×"}))
	if first.Display != "7" || first.Operator != "×" || !first.AwaitingOperand {
		t.Fatalf("unexpected view %+v", first)
	}
	if first.Previous == nil || *first.Previous != "7" {
		t.Fatalf("expected previous 7, got %v", first.Previous)
	}

	second := decode[MachineView](t, call(t, tools.pressKeys, map[string]any{"keys": []any{"2", "="}}))
	if second.Display != "14" || second.Presses != 6 || second.Previous != nil {
		t.Fatalf("unexpected view %+v", second)
	}
	if len(second.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(second.Steps))
	}

	shown := decode[MachineView](t, call(t, tools.display, nil))
	if shown.Display != "14" || len(shown.Steps) != 0 {
		t.Fatalf("unexpected display view %+v", shown)
	}
}

func TestEvaluateLeavesSharedMachineAlone(t *testing.T) {
	tools := newTools(nil)
	call(t, tools.pressKeys, map[string]any{"keys": "9"})

	res := decode[EvaluateResult](t, call(t, tools.evaluate, map[string]any{"keys": "1÷3="}))
	if res.Display != "0.3333333333333333" {
		t.Fatalf("expected one third, got %q", res.Display)
	}
	if len(res.Steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(res.Steps))
	}

	shown := decode[MachineView](t, call(t, tools.display, nil))
	if shown.Display != "9" {
		t.Fatalf("expected shared display %q, got %q", "9", shown.Display)
	}
}

func TestKeyErrors(t *testing.T) {
	tools := newTools(nil)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "missing", args: nil, want: "keys is required"},
		{name: "unknown label", args: map[string]any{"keys": "1 + sqrt"}, want: "unknown key"},
		{name: "non-string label", args: map[string]any{"keys": []any{"1", 2.0}}, want: "key 1: expected a string"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := call(t, tools.pressKeys, tc.args)
			if !result.IsError {
				t.Fatal("expected tool error")
			}
			if text := resultText(t, result); !strings.Contains(text, tc.want) {
				t.Fatalf("expected error containing %q, got %q", tc.want, text)
			}
		})
	}

	shown := decode[MachineView](t, call(t, tools.display, nil))
	if shown.Presses != 0 {
		t.Fatalf("expected rejected calls to press nothing, got %d presses", shown.Presses)
	}
}

func TestCalculate(t *testing.T) {
	tools := newTools(nil)

	tests := []struct {
		op   string
		a, b float64
		name string
		want string
	}{
		{op: "+", a: 2, b: 3, name: "add", want: "5"},
		{op: "-", a: 2, b: 3, name: "subtract", want: "-1"},
		{op: "*", a: 0.1, b: 3, name: "multiply", want: "0.30000000000000004"},
		{op: "÷", a: 1, b: 0, name: "divide", want: "Infinity"},
		{op: "/", a: 0, b: 0, name: "divide", want: "NaN"},
	}

	for _, tc := range tests {
		t.Run(tc.op, func(t *testing.T) {
			res := decode[CalculateResult](t, call(t, tools.calculate, map[string]any{
				"a": tc.a, "b": tc.b, "operator": tc.op,
			}))
			if res.Operation != tc.name || res.Result != tc.want {
				t.Fatalf("expected %s = %q, got %+v", tc.name, tc.want, res)
			}
		})
	}
}

func TestCalculateRejectsBadArguments(t *testing.T) {
	tools := newTools(nil)

	for _, args := range []map[string]any{
		{"b": 1.0, "operator": "+"},
		{"a": 1.0, "operator": "+"},
		{"a": 1.0, "b": 1.0},
		{"a": 1.0, "b": 1.0, "operator": "%"},
		{"a": 1.0, "b": 1.0, "operator": "^"},
	} {
		if result := call(t, tools.calculate, args); !result.IsError {
			t.Fatalf("expected tool error for %v", args)
		}
	}
}

func TestServerListsTools(t *testing.T) {
	s := NewServer("calculator", "test", nil)
	ctx := context.Background()

	s.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`))
	resp := s.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("encoding response: %v", err)
	}
	for _, name := range []string{"press_keys", "evaluate", "calculate", "display"} {
		if !strings.Contains(string(out), `"`+name+`"`) {
			t.Fatalf("expected tool %q in %s", name, out)
		}
	}
}
