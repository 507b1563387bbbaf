package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/hilt/cli/config"
	"github.com/justapithecus/hilt/cli/render"
	"github.com/justapithecus/hilt/cli/tui"
	"github.com/justapithecus/hilt/report"
)

// StatsView is the rendered shape of a finished session's statistics.
type StatsView struct {
	SessionID   string         `json:"session_id" yaml:"session_id"`
	Cmd         string         `json:"cmd" yaml:"cmd"`
	Input       string         `json:"input" yaml:"input"`
	Records     int            `json:"input_records" yaml:"input_records"`
	Valid       int            `json:"valid_items" yaml:"valid_items"`
	Labeled     int            `json:"labeled" yaml:"labeled"`
	Skipped     int            `json:"skipped" yaml:"skipped"`
	Scored      int            `json:"scored" yaml:"scored"`
	Accuracy    *float64       `json:"accuracy" yaml:"accuracy"`
	SkipReasons map[string]int `json:"skip_reasons,omitempty" yaml:"skip_reasons,omitempty"`
}

// StatsCommand returns the stats command.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show statistics for a finished labeling session",
		Flags: append(ReadOnlyFlags(),
			&cli.StringFlag{
				Name:  "log",
				Usage: "Session log file (default: newest in the logs dir)",
			},
			ConfigFlag,
		),
		Action: statsAction,
	}
}

func statsAction(c *cli.Context) error {
	logPath := c.String("log")
	if logPath == "" {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		logPath, err = newestLog(cfg.ResolveDirs().Logs)
		if err != nil {
			return err
		}
	}

	l, err := report.ReadLog(logPath)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return tui.RunStatsTUI(l)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	snap, err := l.Snapshot()
	if err != nil {
		return err
	}
	return r.Render(StatsView{
		SessionID:   l.SessionID,
		Cmd:         string(l.Cmd),
		Input:       l.Input,
		Records:     l.Counts.Input,
		Valid:       l.Counts.Valid,
		Labeled:     l.Counts.Labeled,
		Skipped:     l.Counts.Skipped,
		Scored:      snap.ScoredItems(),
		Accuracy:    snap.OverallAccuracy(),
		SkipReasons: l.Counts.Reasons,
	})
}

// newestLog picks the most recent session log. The timestamped naming
// scheme sorts lexicographically in time order.
func newestLog(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read logs dir: %w", err)
	}
	var newest string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "log_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		if name > newest {
			newest = name
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no session logs found in %s", dir)
	}
	return filepath.Join(dir, newest), nil
}
