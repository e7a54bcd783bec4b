// Package mcptool exposes the calculator as Model Context Protocol tools.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// MachineView describes the shared calculator.
type MachineView struct {
	Display         string            `json:"display"`
	Previous        *string           `json:"previous,omitempty"`
	Operator        string            `json:"operator,omitempty"`
	AwaitingOperand bool              `json:"awaiting_operand"`
	Presses         int               `json:"presses"`
	Steps           []calculator.Step `json:"steps,omitempty"`
}

// EvaluateResult is the result of replaying keys from a fresh calculator.
type EvaluateResult struct {
	Display string            `json:"display"`
	Steps   []calculator.Step `json:"steps"`
}

// CalculateResult is the result of a single binary operation.
type CalculateResult struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    string  `json:"result"`
}

type tools struct {
	machine *session.Session
	logger  *zap.Logger
}

// NewServer returns an MCP server whose tools drive one shared calculator.
func NewServer(name, version string, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	newTools(logger).register(s)
	return s
}

func newTools(logger *zap.Logger) *tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tools{machine: session.New(), logger: logger}
}

func (t *tools) register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("press_keys",
		mcp.WithDescription("Press keys on the shared calculator and return its state. Keys are button labels such as \"12+3=\" or \"1 2 × 3 =\"; C clears, ± or +/- toggles the sign."),
		mcp.WithString("keys",
			mcp.Required(),
			mcp.Description("Key labels to press in order"),
		),
	), t.pressKeys)

	s.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Replay keys on a fresh calculator and return the display after every key. The shared calculator is untouched."),
		mcp.WithString("keys",
			mcp.Required(),
			mcp.Description("Key labels to press in order"),
		),
	), t.evaluate)

	s.AddTool(mcp.NewTool("calculate",
		mcp.WithDescription("Apply one operator to two numbers without operator precedence"),
		mcp.WithNumber("a",
			mcp.Required(),
			mcp.Description("Left operand"),
		),
		mcp.WithNumber("b",
			mcp.Required(),
			mcp.Description("Right operand"),
		),
		mcp.WithString("operator",
			mcp.Required(),
			mcp.Description("One of + - × ÷ (also * x /)"),
		),
	), t.calculate)

	s.AddTool(mcp.NewTool("display",
		mcp.WithDescription("Return the shared calculator's state without pressing anything"),
	), t.display)
}

func (t *tools) pressKeys(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := keysArgument(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap := t.machine.Press(events...)
	t.logger.Debug("keys pressed",
		zap.Int("keys", len(events)),
		zap.String("display", snap.State.Display),
	)
	return textResult(newMachineView(snap))
}

func (t *tools) evaluate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := keysArgument(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	final, steps := calculator.Trace(calculator.New(), events)
	return textResult(EvaluateResult{Display: final.Display, Steps: steps})
}

func (t *tools) calculate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	a, ok := args["a"].(float64)
	if !ok {
		return mcp.NewToolResultError("a is required"), nil
	}
	b, ok := args["b"].(float64)
	if !ok {
		return mcp.NewToolResultError("b is required"), nil
	}
	label, ok := args["operator"].(string)
	if !ok {
		return mcp.NewToolResultError("operator is required"), nil
	}

	e, err := calculator.ParseKey(label)
	if err != nil || !e.Operator.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("operator must be one of + - × ÷, got %q", label)), nil
	}

	return textResult(CalculateResult{
		Operation: e.Operator.Name(),
		A:         a,
		B:         b,
		Result:    calculator.FormatNumber(calculator.Calculate(a, b, e.Operator)),
	})
}

func (t *tools) display(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(newMachineView(t.machine.Snapshot()))
}

// keysArgument accepts keys as free-form text or as a list of labels.
func keysArgument(args map[string]any) ([]calculator.Event, error) {
	switch keys := args["keys"].(type) {
	case string:
		return calculator.ParseInput(keys)
	case []any:
		labels := make([]string, 0, len(keys))
		for i, k := range keys {
			label, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("key %d: expected a string, got %T", i, k)
			}
			labels = append(labels, label)
		}
		return calculator.ParseKeys(labels)
	default:
		return nil, fmt.Errorf("keys is required")
	}
}

func newMachineView(snap session.Snapshot) MachineView {
	view := MachineView{
		Display:         snap.State.Display,
		Operator:        string(snap.State.Operator),
		AwaitingOperand: snap.State.AwaitingOperand,
		Presses:         snap.Presses,
		Steps:           snap.Steps,
	}
	if snap.State.HasPrevious {
		prev := calculator.FormatNumber(snap.State.Previous)
		view.Previous = &prev
	}
	return view
}

func textResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}
