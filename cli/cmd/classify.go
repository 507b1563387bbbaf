package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/hilt/types"
)

// ClassifyCommand returns the binary similarity labeling command.
func ClassifyCommand() *cli.Command {
	return &cli.Command{
		Name:   "classify",
		Usage:  "Label sentence pairs as semantically similar or not (true/false)",
		Flags:  LabelFlags(),
		Action: labelAction(types.TaskClassify),
	}
}
