package calculator

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		label string
		want  Event
	}{
		{label: "0", want: DigitKey(0)},
		{label: "9", want: DigitKey(9)},
		{label: ".", want: DecimalKey},
		{label: "+", want: OperatorKey(Add)},
		{label: "-", want: OperatorKey(Subtract)},
		{label: "×", want: OperatorKey(Multiply)},
		{label: "*", want: OperatorKey(Multiply)},
		{label: "x", want: OperatorKey(Multiply)},
		{label: "÷", want: OperatorKey(Divide)},
		{label: "/", want: OperatorKey(Divide)},
		{label: "=", want: EqualsKey},
		{label: "C", want: ClearKey},
		{label: "AC", want: ClearKey},
		{label: "±", want: SignKey},
		{label: "+/-", want: SignKey},
		{label: "%", want: PercentKey},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			got, err := ParseKey(tc.label)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestParseKeyUnknown(t *testing.T) {
	for _, label := range []string{"", "10", "^", "sqrt", "A"} {
		t.Run(label, func(t *testing.T) {
			_, err := ParseKey(label)
			if !errors.Is(err, ErrUnknownKey) {
				t.Fatalf("expected ErrUnknownKey, got %v", err)
			}
		})
	}
}

func TestParseKeysStopsAtFirstUnknown(t *testing.T) {
	_, err := ParseKeys([]string{"1", "+", "?", "2"})
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "12+3=", want: []string{"1", "2", "+", "3", "="}},
		{in: "1 2 + 3 =", want: []string{"1", "2", "+", "3", "="}},
		{in: "5+/-", want: []string{"5", "+/-"}},
		{in: "AC 3×2", want: []string{"AC", "3", "×", "2"}},
		{in: "9 neg %", want: []string{"9", "neg", "%"}},
		{in: "  \t\n", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := Tokenize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEventStringIsParseable(t *testing.T) {
	events := []Event{DigitKey(4), DecimalKey, OperatorKey(Divide), EqualsKey, ClearKey, SignKey, PercentKey}
	for _, e := range events {
		got, err := ParseKey(e.String())
		if err != nil {
			t.Fatalf("parsing %q: %v", e.String(), err)
		}
		if got != e {
			t.Fatalf("expected %+v, got %+v", e, got)
		}
	}
}

func TestOperatorValid(t *testing.T) {
	for _, op := range []Operator{Add, Subtract, Multiply, Divide} {
		if !op.Valid() {
			t.Fatalf("expected %q to be valid", op)
		}
	}
	for _, op := range []Operator{NoOperator, "*", "%", "^"} {
		if op.Valid() {
			t.Fatalf("expected %q to be invalid", op)
		}
	}
}
