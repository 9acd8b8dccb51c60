package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rybkr/xdiff/internal/cli"
	"github.com/rybkr/xdiff/internal/diffserver"
	"github.com/rybkr/xdiff/internal/xdiff"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Summary: "Serve a live diff or merge over HTTP and WebSocket",
		Usage:   "xdiff serve [flags] <file1> <file2> [<file3>]",
		Examples: []string{
			"xdiff serve a.txt b.txt",
			"xdiff serve --addr :9090 base.txt ours.txt theirs.txt",
		},
		Run: runServe,
	}
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", getEnv("XDIFF_ADDR", ":8080"), "address to listen on")
	configPath := fs.String("config", "", "path to an .xdiffrc.toml config file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	fileArgs := fs.Args()

	fileCfg, err := loadFileConfig(*configPath)
	if err != nil {
		fatalf("%v", err)
	}

	var cfg diffserver.Config
	cfg.Addr = *addr
	cfg.MergeConfig = xdiff.MergeConfig{MarkerSize: xdiff.DefaultMarkerSize}
	cfg.Logger = slog.Default()

	if fileCfg != nil {
		applyFileConfig(&cfg, fileCfg)
	}
	// An explicit --addr flag takes precedence over the config file.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "addr" {
			cfg.Addr = *addr
		}
	})

	switch len(fileArgs) {
	case 2:
		cfg.Mode = diffserver.ModeDiff
		cfg.Target = diffserver.Target{LHS: fileArgs[0], RHS: fileArgs[1]}
	case 3:
		cfg.Mode = diffserver.ModeMerge
		cfg.Target = diffserver.Target{Base: fileArgs[0], Side1: fileArgs[1], Side2: fileArgs[2]}
	default:
		if cfg.Target == (diffserver.Target{}) {
			fmt.Fprintln(os.Stderr, "usage: xdiff serve [flags] <file1> <file2> [<file3>]")
			return 1
		}
	}

	srv := diffserver.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			fatalf("%v", err)
		}
	case <-ctx.Done():
		stop()
		srv.Shutdown()
	}
	return 0
}
