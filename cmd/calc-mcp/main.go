package main

import (
	"flag"
	"fmt"
	"os"

	"go-chi-calculator/internal/mcptool"
	"go-chi-calculator/internal/observability"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var showVersion bool
	var logLevel string

	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.StringVar(&logLevel, "log-level", "warn", "log level (logs go to stderr)")
	flag.Parse()

	if showVersion {
		fmt.Printf("Calculator - MCP Server\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	// stdout carries the protocol; zap's default sinks write to stderr.
	if err := observability.InitLogger(logLevel, false); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer observability.SyncLogger()

	s := mcptool.NewServer("calculator-mcp", version, observability.Logger.Named("mcp"))

	observability.Logger.Info("serving MCP over stdio", zap.String("version", version))
	if err := server.ServeStdio(s); err != nil {
		observability.Logger.Error("mcp server failed", zap.Error(err))
		observability.SyncLogger()
		os.Exit(1)
	}
}
