package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go-chi-calculator/internal/calculator"

	"gopkg.in/yaml.v3"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

var errRejected = errors.New("one or more lines were rejected")

// result is one evaluated key sequence.
type result struct {
	Input   string            `json:"input" yaml:"input"`
	Display string            `json:"display" yaml:"display"`
	Steps   []calculator.Step `json:"steps,omitempty" yaml:"steps,omitempty"`
}

type options struct {
	format string
	trace  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	var showVersion bool

	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.format, "format", "text", "output format: text, json or yaml")
	fs.BoolVar(&opts.trace, "trace", false, "print the display after every key")
	fs.BoolVar(&showVersion, "version", false, "print version information")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "Calculator - CLI\n")
		fmt.Fprintf(stdout, "  Version:    %s\n", version)
		fmt.Fprintf(stdout, "  Commit:     %s\n", commit)
		fmt.Fprintf(stdout, "  Built:      %s\n", buildTime)
		fmt.Fprintf(stdout, "  Go version: %s\n", goVersion)
		return 0
	}

	switch opts.format {
	case "text", "json", "yaml":
	default:
		fmt.Fprintf(stderr, "Error: unknown format %q\n", opts.format)
		return 2
	}

	var err error
	if fs.NArg() > 0 {
		err = evaluateArgs(strings.Join(fs.Args(), " "), opts, stdout)
	} else {
		err = evaluateLines(stdin, opts, stdout, stderr)
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func evaluateArgs(input string, opts options, w io.Writer) error {
	events, err := calculator.ParseInput(input)
	if err != nil {
		return err
	}

	final, steps := calculator.Trace(calculator.New(), events)
	return write(w, opts, result{Input: input, Display: final.Display, Steps: steps})
}

// evaluateLines applies each line of r to one running state. Lines with
// unknown keys are reported and leave the state untouched.
func evaluateLines(r io.Reader, opts options, stdout, stderr io.Writer) error {
	state := calculator.New()
	rejected := false

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		events, err := calculator.ParseInput(line)
		if err != nil {
			fmt.Fprintf(stderr, "line %d: %v\n", lineNo, err)
			rejected = true
			continue
		}

		var steps []calculator.Step
		state, steps = calculator.Trace(state, events)
		if err := write(stdout, opts, result{Input: line, Display: state.Display, Steps: steps}); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if rejected {
		return errRejected
	}
	return nil
}

func write(w io.Writer, opts options, res result) error {
	if !opts.trace {
		res.Steps = nil
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)

	case "yaml":
		out, err := yaml.Marshal(res)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if _, err := fmt.Fprintf(w, "---\n%s", out); err != nil {
			return err
		}
		return nil

	default:
		for _, step := range res.Steps {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", step.Key, step.Display); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, res.Display)
		return err
	}
}
