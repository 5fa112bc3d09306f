// Package main is the entry point for the clusterctl CLI
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/cli"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/output"
)

// set at build time via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	// .env is optional; a malformed one is reported
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("Error loading .env file: " + err.Error() + "\n")
		os.Exit(output.ExitConfigError)
	}

	cli.SetVersion(version)
	cli.SetBuildInfo(commit, buildTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		cli.PrintError(err)
		stop()
		os.Exit(output.ExitCodeOf(err))
	}
}
