package api

import (
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/session"
)

// KeysRequest is the JSON body for key presses. Keys takes precedence over
// Input; Input is free-form text such as "12+3=".
type KeysRequest struct {
	Keys  []string `json:"keys,omitempty"`
	Input string   `json:"input,omitempty"`
}

// SessionResponse describes a calculator session.
type SessionResponse struct {
	ID              string            `json:"id"`
	Display         string            `json:"display"`
	Previous        *string           `json:"previous,omitempty"` // formatted like the display so NaN/Infinity survive JSON
	Operator        string            `json:"operator,omitempty"`
	AwaitingOperand bool              `json:"awaiting_operand"`
	Presses         int               `json:"presses"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Steps           []calculator.Step `json:"steps,omitempty"`
}

func newSessionResponse(snap session.Snapshot) SessionResponse {
	resp := SessionResponse{
		ID:              snap.ID,
		Display:         snap.State.Display,
		Operator:        string(snap.State.Operator),
		AwaitingOperand: snap.State.AwaitingOperand,
		Presses:         snap.Presses,
		CreatedAt:       snap.CreatedAt,
		UpdatedAt:       snap.UpdatedAt,
		Steps:           snap.Steps,
	}
	if snap.State.HasPrevious {
		prev := calculator.FormatNumber(snap.State.Previous)
		resp.Previous = &prev
	}
	return resp
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Display string            `json:"display"`
	Steps   []calculator.Step `json:"steps"`
}

// CalcRequest is the JSON body for binary operations (add, subtract, multiply, divide).
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// CalcResponse is the JSON response for binary operations. Result is the
// display string, so division by zero comes back as "Infinity" or "NaN".
type CalcResponse struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    string  `json:"result"`
}
