// Command xdiff computes line-oriented diffs and three-way merges
// using the classic, patience, and histogram algorithms.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rybkr/xdiff/internal/cli"
	"github.com/rybkr/xdiff/internal/termcolor"
)

var version = "dev"

func main() {
	initLogger()

	colorMode := termcolor.ColorAuto
	if v := os.Getenv("NO_COLOR"); v != "" {
		colorMode = termcolor.ColorNever
	}
	cw := termcolor.NewWriter(os.Stdout, colorMode)

	app := cli.NewApp("xdiff", version)
	app.Register(diffCommand())
	app.Register(mergeCommand())
	app.Register(serveCommand())

	os.Exit(app.Run(os.Args[1:], cw))
}

func initLogger() {
	level := slog.LevelInfo
	switch getEnv("XDIFF_LOG_LEVEL", "info") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if getEnv("XDIFF_LOG_FORMAT", "text") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "xdiff: "+format+"\n", args...)
	os.Exit(1)
}
