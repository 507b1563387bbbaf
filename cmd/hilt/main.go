// Package main provides the hilt CLI entrypoint.
//
// Usage:
//
//	hilt <command> [options]
//
// Exit codes for the labeling commands:
//   - 0: session complete (or declined review)
//   - 1: fatal error (malformed input, unwritable output)
//   - 130: operator interrupt; all completed items already flushed
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/hilt/cli/cmd"
	"github.com/justapithecus/hilt/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "hilt",
		Usage:          "Human-in-the-loop labeling for sentence similarity tasks",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.ClassifyCommand(),
			cmd.RankCommand(),
			cmd.StatsCommand(),
			cmd.MergeCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit(), including the 130
// interrupt code from the labeling commands.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N"; skip those.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
