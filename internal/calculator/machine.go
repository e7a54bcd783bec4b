package calculator

import "math"

// InputDigit enters digit d (0-9). After an operator or equals the digit
// starts a new number; a lone "0" is replaced; otherwise the digit is appended.
// There is no length cap on the display.
func InputDigit(s State, d int) State {
	if d < 0 || d > 9 {
		return s
	}
	digit := string(rune('0' + d))

	if s.AwaitingOperand {
		s.Display = digit
		s.AwaitingOperand = false
		return s
	}

	if s.Display == "0" {
		s.Display = digit
	} else {
		s.Display += digit
	}
	return s
}

// InputDecimal enters a decimal point. A second point in the same number is ignored.
func InputDecimal(s State) State {
	if s.AwaitingOperand {
		s.Display = "0."
		s.AwaitingOperand = false
		return s
	}

	if !hasPoint(s.Display) {
		s.Display += "."
	}
	return s
}

func hasPoint(display string) bool {
	for i := 0; i < len(display); i++ {
		if display[i] == '.' {
			return true
		}
	}
	return false
}

// Clear discards everything and returns the initial state.
func Clear(State) State {
	return New()
}

// PerformOperation selects op as the pending operator. The display becomes the
// left operand when nothing is pending yet. When an operator is already pending
// the pair is folded against the display first, so chains evaluate strictly
// left to right: 3 + 4 × 2 is (3+4)×2.
//
// Pressing an operator twice folds again against the unchanged display:
// 5 + + leaves 10 on the display.
func PerformOperation(s State, op Operator) State {
	input := ParseNumber(s.Display)

	if !s.HasPrevious {
		s.Previous = input
		s.HasPrevious = true
	} else if s.Operator != NoOperator {
		current := s.Previous
		// A NaN left operand folds as 0.
		if math.IsNaN(current) {
			current = 0
		}
		result := Calculate(current, input, s.Operator)

		s.Display = FormatNumber(result)
		s.Previous = result
	}

	s.AwaitingOperand = true
	s.Operator = op
	return s
}

// Calculate applies op to a and b with plain float64 semantics. Division by
// zero is not trapped. An unknown operator yields b.
func Calculate(a, b float64, op Operator) float64 {
	switch op {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Divide:
		return a / b
	default:
		return b
	}
}

// HandleEquals resolves the pending operation, if there is one, and leaves the
// result on the display with nothing pending.
func HandleEquals(s State) State {
	if !s.HasPrevious || s.Operator == NoOperator {
		return s
	}

	result := Calculate(s.Previous, ParseNumber(s.Display), s.Operator)

	s.Display = FormatNumber(result)
	s.Previous = 0
	s.HasPrevious = false
	s.Operator = NoOperator
	s.AwaitingOperand = true
	return s
}

// ToggleSign negates the displayed value.
func ToggleSign(s State) State {
	s.Display = FormatNumber(ParseNumber(s.Display) * -1)
	return s
}

// Percent divides the displayed value by 100.
func Percent(s State) State {
	s.Display = FormatNumber(ParseNumber(s.Display) / 100)
	return s
}

// Reduce applies one key press to s.
func Reduce(s State, e Event) State {
	switch e.Kind {
	case KindDigit:
		return InputDigit(s, e.Digit)
	case KindDecimal:
		return InputDecimal(s)
	case KindOperator:
		return PerformOperation(s, e.Operator)
	case KindEquals:
		return HandleEquals(s)
	case KindClear:
		return Clear(s)
	case KindToggleSign:
		return ToggleSign(s)
	case KindPercent:
		return Percent(s)
	default:
		return s
	}
}

// Apply folds events through Reduce.
func Apply(s State, events ...Event) State {
	for _, e := range events {
		s = Reduce(s, e)
	}
	return s
}

// Step records the display after a single key press.
type Step struct {
	Key     string `json:"key" yaml:"key"`
	Display string `json:"display" yaml:"display"`
}

// Trace is Apply that also returns the display after every press.
func Trace(s State, events []Event) (State, []Step) {
	steps := make([]Step, 0, len(events))
	for _, e := range events {
		s = Reduce(s, e)
		steps = append(steps, Step{Key: e.String(), Display: s.Display})
	}
	return s, steps
}
