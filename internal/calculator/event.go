package calculator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnknownKey is returned when a key label does not name a calculator button.
var ErrUnknownKey = errors.New("unknown key")

// Kind tags which button an Event represents.
type Kind int

const (
	KindDigit Kind = iota
	KindDecimal
	KindOperator
	KindEquals
	KindClear
	KindToggleSign
	KindPercent
)

func (k Kind) String() string {
	switch k {
	case KindDigit:
		return "digit"
	case KindDecimal:
		return "decimal"
	case KindOperator:
		return "operator"
	case KindEquals:
		return "equals"
	case KindClear:
		return "clear"
	case KindToggleSign:
		return "sign"
	case KindPercent:
		return "percent"
	}
	return "unknown"
}

// Event is a single button press. Digit is set for KindDigit and Operator for
// KindOperator; both are ignored otherwise.
type Event struct {
	Kind     Kind
	Digit    int
	Operator Operator
}

// Events for the buttons that carry no payload.
var (
	DecimalKey = Event{Kind: KindDecimal}
	EqualsKey  = Event{Kind: KindEquals}
	ClearKey   = Event{Kind: KindClear}
	SignKey    = Event{Kind: KindToggleSign}
	PercentKey = Event{Kind: KindPercent}
)

// DigitKey returns the press of digit d.
func DigitKey(d int) Event {
	return Event{Kind: KindDigit, Digit: d}
}

// OperatorKey returns the press of operator op.
func OperatorKey(op Operator) Event {
	return Event{Kind: KindOperator, Operator: op}
}

// String returns the button face for e.
func (e Event) String() string {
	switch e.Kind {
	case KindDigit:
		if e.Digit >= 0 && e.Digit <= 9 {
			return string(rune('0' + e.Digit))
		}
	case KindDecimal:
		return "."
	case KindOperator:
		return string(e.Operator)
	case KindEquals:
		return "="
	case KindClear:
		return "C"
	case KindToggleSign:
		return "±"
	case KindPercent:
		return "%"
	}
	return "?"
}

var keyLabels = map[string]Event{
	".":   DecimalKey,
	"+":   OperatorKey(Add),
	"-":   OperatorKey(Subtract),
	"×":   OperatorKey(Multiply),
	"*":   OperatorKey(Multiply),
	"x":   OperatorKey(Multiply),
	"÷":   OperatorKey(Divide),
	"/":   OperatorKey(Divide),
	"=":   EqualsKey,
	"C":   ClearKey,
	"c":   ClearKey,
	"AC":  ClearKey,
	"±":   SignKey,
	"+/-": SignKey,
	"neg": SignKey,
	"%":   PercentKey,
}

// multiRuneLabels are matched before a field is split into single runes.
var multiRuneLabels = []string{"+/-", "AC", "neg"}

// ParseKey maps a button label to its Event.
func ParseKey(label string) (Event, error) {
	if len(label) == 1 && label[0] >= '0' && label[0] <= '9' {
		return DigitKey(int(label[0] - '0')), nil
	}
	if e, ok := keyLabels[label]; ok {
		return e, nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrUnknownKey, label)
}

// ParseKeys parses every label, stopping at the first unknown one.
func ParseKeys(labels []string) ([]Event, error) {
	events := make([]Event, 0, len(labels))
	for i, label := range labels {
		e, err := ParseKey(label)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// Tokenize splits free-form input such as "12+3=" or "1 2 + 3 =" into key labels.
func Tokenize(input string) []string {
	var labels []string
	for _, field := range strings.FieldsFunc(input, unicode.IsSpace) {
		labels = append(labels, splitField(field)...)
	}
	return labels
}

func splitField(field string) []string {
	var labels []string
	for len(field) > 0 {
		if label, ok := matchMultiRune(field); ok {
			labels = append(labels, label)
			field = field[len(label):]
			continue
		}
		_, size := utf8.DecodeRuneInString(field)
		labels = append(labels, field[:size])
		field = field[size:]
	}
	return labels
}

func matchMultiRune(field string) (string, bool) {
	for _, label := range multiRuneLabels {
		if strings.HasPrefix(field, label) {
			return label, true
		}
	}
	return "", false
}

// ParseInput tokenizes and parses input in one step.
func ParseInput(input string) ([]Event, error) {
	return ParseKeys(Tokenize(input))
}
