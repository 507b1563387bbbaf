package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/hilt/types"
)

// RankCommand returns the pairwise similarity labeling command.
func RankCommand() *cli.Command {
	return &cli.Command{
		Name:   "rank",
		Usage:  "Pick which of two candidate sentences is closer to the base (a/b)",
		Flags:  LabelFlags(),
		Action: labelAction(types.TaskRank),
	}
}
