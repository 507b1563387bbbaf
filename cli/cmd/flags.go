// Package cmd provides CLI commands for the hilt binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for the labeling commands (classify, rank).
var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to hilt.yaml config file",
	}

	InputFlag = &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Input JSON file (bare names resolve against the inputs dir)",
		Required: true,
	}

	SeedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Shuffle seed (same input + same seed = same presentation order)",
	}

	MaxLenFlag = &cli.IntFlag{
		Name:  "max-len",
		Usage: "Maximum folded field length; longer records are skipped",
	}

	AnnotatorIDFlag = &cli.StringFlag{
		Name:  "annotator-id",
		Usage: "Annotator identifier recorded in labeled output",
	}

	AnnotatorNameFlag = &cli.StringFlag{
		Name:  "annotator-name",
		Usage: "Annotator display name",
	}

	AnnotatorEmailFlag = &cli.StringFlag{
		Name:  "annotator-email",
		Usage: "Annotator email",
	}
)

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode (stats only).
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (stats only)",
	}
)

// LabelFlags returns the shared flags for classify and rank.
func LabelFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		InputFlag,
		SeedFlag,
		MaxLenFlag,
		AnnotatorIDFlag,
		AnnotatorNameFlag,
		AnnotatorEmailFlag,
	}
}

// ReadOnlyFlags returns the shared flags for read-only commands.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}
