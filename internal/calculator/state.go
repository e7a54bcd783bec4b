package calculator

// Operator is a pending binary operator. The zero value means no operator is pending.
type Operator string

const (
	NoOperator Operator = ""
	Add        Operator = "+"
	Subtract   Operator = "-"
	Multiply   Operator = "×"
	Divide     Operator = "÷"
)

// Valid reports whether op is one of the four binary operators.
func (op Operator) Valid() bool {
	switch op {
	case Add, Subtract, Multiply, Divide:
		return true
	}
	return false
}

// Name returns the route-style name of the operator ("add", "subtract", ...).
func (op Operator) Name() string {
	switch op {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	}
	return "none"
}

// State is the whole calculator: what is shown, the pending left operand and
// operator, and whether the next digit starts a fresh number.
//
// State is a value. Every transition returns a new State, so a caller holding
// one never sees a partially applied press.
type State struct {
	Display         string
	Previous        float64
	HasPrevious     bool
	Operator        Operator
	AwaitingOperand bool
}

// New returns the initial state: display "0", nothing pending.
func New() State {
	return State{Display: "0"}
}

// Value parses the display as a number.
func (s State) Value() float64 {
	return ParseNumber(s.Display)
}
