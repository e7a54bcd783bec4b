package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func runCalc(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestArgsPrintFinalDisplay(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "separate keys", args: []string{"3", "+", "4", "×", "2", "="}, want: "14\n"},
		{name: "joined input", args: []string{"12+3="}, want: "15\n"},
		{name: "ascii operators", args: []string{"6", "*", "7", "/", "2", "="}, want: "21\n"},
		{name: "divide by zero", args: []string{"1/0="}, want: "Infinity\n"},
		{name: "sign", args: []string{"5", "+/-"}, want: "-5\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, out, errOut := runCalc(t, "", tc.args...)
			if code != 0 {
				t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut)
			}
			if out != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, out)
			}
		})
	}
}

func TestTraceText(t *testing.T) {
	code, out, _ := runCalc(t, "", "-trace", "9", "±", "%")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	want := "9\t9\n±\t-9\n%\t-0.09\n-0.09\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestJSONFormat(t *testing.T) {
	code, out, _ := runCalc(t, "", "-format", "json", "-trace", "2+2=")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	var res result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if res.Display != "4" || res.Input != "2+2=" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(res.Steps))
	}
}

func TestJSONOmitsStepsWithoutTrace(t *testing.T) {
	_, out, _ := runCalc(t, "", "-format", "json", "1")
	if strings.Contains(out, "steps") {
		t.Fatalf("expected no steps, got %s", out)
	}
}

func TestYAMLFormat(t *testing.T) {
	code, out, _ := runCalc(t, "", "-format", "yaml", "7", "÷", "2", "=")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	var res result
	if err := yaml.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if res.Display != "3.5" {
		t.Fatalf("expected display %q, got %q", "3.5", res.Display)
	}
}

func TestUnknownKeyInArgsFails(t *testing.T) {
	code, out, errOut := runCalc(t, "", "1", "+", "sqrt")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
	if !strings.Contains(errOut, "unknown key") {
		t.Fatalf("expected unknown key error, got %q", errOut)
	}
}

func TestBadFlags(t *testing.T) {
	if code, _, _ := runCalc(t, "", "-format", "xml", "1"); code != 2 {
		t.Fatalf("expected exit 2 for unknown format, got %d", code)
	}
	if code, _, _ := runCalc(t, "", "-nope"); code != 2 {
		t.Fatalf("expected exit 2 for unknown flag, got %d", code)
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCalc(t, "", "-version")
	if code != 0 || !strings.Contains(out, "Version:    dev") {
		t.Fatalf("unexpected version output (exit %d): %q", code, out)
	}
}

func TestLinesShareRunningState(t *testing.T) {
	code, out, errOut := runCalc(t, "3 +\n4\n\n× 2 =\nC\n")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut)
	}

	want := "3\n4\n14\n0\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestLinesSkipRejected(t *testing.T) {
	code, out, errOut := runCalc(t, "5 +\n5 sqrt\n5 =\n")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}

	if out != "5\n10\n" {
		t.Fatalf("expected rejected line to leave state untouched, got %q", out)
	}
	if !strings.Contains(errOut, "line 2:") {
		t.Fatalf("expected line number in error, got %q", errOut)
	}
	if !strings.Contains(errOut, errRejected.Error()) {
		t.Fatalf("expected summary error, got %q", errOut)
	}
}

func TestLinesYAMLStream(t *testing.T) {
	_, out, _ := runCalc(t, "1 +\n2 =\n", "-format", "yaml")

	dec := yaml.NewDecoder(strings.NewReader(out))
	var displays []string
	for {
		var res result
		err := dec.Decode(&res)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("decoding %q: %v", out, err)
		}
		displays = append(displays, res.Display)
	}

	if strings.Join(displays, ",") != "1,3" {
		t.Fatalf("expected displays 1,3, got %v", displays)
	}
}
