// Package main is the entry point for the navedit CLI.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/iw2rmb/navedit"
	"github.com/iw2rmb/navedit/internal/cli"
	"github.com/iw2rmb/navedit/internal/logging"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: navedit.ResolveVersion(version),
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)
	ctx := logging.WithLogger(context.Background(), logging.Default())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// ErrProblemsFound only selects the exit code; check already printed them.
		if !errors.Is(err, cli.ErrProblemsFound) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return 1
	}

	return 0
}
