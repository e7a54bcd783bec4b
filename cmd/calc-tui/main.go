package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go-chi-calculator/internal/widget"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var showVersion bool
	var altScreen bool

	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.BoolVar(&altScreen, "alt-screen", true, "draw the keypad on the alternate screen")
	flag.Parse()

	if showVersion {
		fmt.Printf("Calculator - Keypad\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	if err := runTUI(altScreen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(altScreen bool) error {
	var opts []tea.ProgramOption
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	p := tea.NewProgram(widget.New(), opts...)
	final, err := p.Run()
	if err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("keypad requires a real terminal")
		}
		return fmt.Errorf("error running keypad: %w", err)
	}

	if m, ok := final.(widget.Model); ok {
		fmt.Println(m.Display())
	}
	return nil
}
