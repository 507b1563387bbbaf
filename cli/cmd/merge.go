package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/hilt/cli/config"
	"github.com/justapithecus/hilt/iox"
	"github.com/justapithecus/hilt/log"
	"github.com/justapithecus/hilt/textnorm"
	"github.com/justapithecus/hilt/types"
)

// MergeCommand returns the merge command.
func MergeCommand() *cli.Command {
	return &cli.Command{
		Name:  "merge",
		Usage: "Merge labeled output files, deduplicating identical labeled records",
		Flags: []cli.Flag{
			ConfigFlag,
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "Glob of output files to merge (default: <outputs dir>/*.json)",
			},
		},
		Action: mergeAction,
	}
}

func mergeAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	dirs := cfg.ResolveDirs()
	if err := dirs.Ensure(); err != nil {
		return fmt.Errorf("create directories: %v", err)
	}

	pattern := c.String("pattern")
	if pattern == "" {
		pattern = filepath.Join(dirs.Outputs, "*.json")
	}
	files, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files match %q", pattern)
	}
	sort.Strings(files)

	logger := log.NewLogger("merge", "").Sugar()

	var merged []types.Record
	seen := make(map[string]struct{})
	var read, dup int
	for _, f := range files {
		recs, err := readRecords(f)
		if err != nil {
			logger.Warnf("skipping %s: %v", f, err)
			continue
		}
		read++
		for _, rec := range recs {
			key := mergeKey(rec)
			if _, ok := seen[key]; ok {
				dup++
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, rec)
		}
	}
	if read == 0 {
		return fmt.Errorf("no readable output files among %d matched", len(files))
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("encode merged records: %w", err)
	}
	outPath := dirs.MergedPath(timeNow())
	if err := iox.WriteFileAtomic(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write merged file: %w", err)
	}

	fmt.Printf("Merged %d files: %d records (%d duplicates dropped)\n", read, len(merged), dup)
	fmt.Printf("Output : %s\n", outPath)
	return nil
}

func readRecords(path string) ([]types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recs []types.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("not a record array: %w", err)
	}
	return recs, nil
}

// mergeKey identifies a record by its folded text content plus its human
// labels. The same sentence pair labeled differently is kept twice; exact
// duplicates collapse.
func mergeKey(rec types.Record) string {
	human := ""
	if rec.HumanSimilar != nil {
		human = strconv.FormatBool(*rec.HumanSimilar)
	}
	return textnorm.ContentKey([]string{
		rec.Base, rec.Test, rec.A, rec.B,
		human, rec.HumanMoreSimilar,
	})
}
