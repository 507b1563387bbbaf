package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/hilt/types"
)

func testApp() *cli.App {
	return &cli.App{
		Commands: []*cli.Command{
			ClassifyCommand(),
			RankCommand(),
			StatsCommand(),
			MergeCommand(),
			VersionCommand("abc1234"),
		},
	}
}

func TestCommandWiring(t *testing.T) {
	app := testApp()
	want := []string{"classify", "rank", "stats", "merge", "version"}
	if len(app.Commands) != len(want) {
		t.Fatalf("commands = %d, want %d", len(app.Commands), len(want))
	}
	for i, name := range want {
		if app.Commands[i].Name != name {
			t.Errorf("command[%d] = %q, want %q", i, app.Commands[i].Name, name)
		}
	}
}

func TestLabelFlags_InputRequired(t *testing.T) {
	for _, c := range []*cli.Command{ClassifyCommand(), RankCommand()} {
		var found bool
		for _, f := range c.Flags {
			if sf, ok := f.(*cli.StringFlag); ok && sf.Name == "input" {
				found = true
				if !sf.Required {
					t.Errorf("%s: --input should be required", c.Name)
				}
			}
		}
		if !found {
			t.Errorf("%s: missing --input flag", c.Name)
		}
	}
}

func TestNewestLog(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"log_20250601_120000.json",
		"log_20250602_090000.json",
		"log_20250601_235959.json",
		"report_20250603_000000.txt",
		"notes.json",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := newestLog(dir)
	if err != nil {
		t.Fatalf("newestLog: %v", err)
	}
	if filepath.Base(got) != "log_20250602_090000.json" {
		t.Errorf("newestLog = %s", got)
	}
}

func TestNewestLog_Empty(t *testing.T) {
	if _, err := newestLog(t.TempDir()); err == nil {
		t.Fatal("expected an error for an empty logs dir")
	}
}

func TestMergeKey(t *testing.T) {
	tr := true
	fa := false
	base := types.Record{Base: "the cat sat", Test: "a cat sat", HumanSimilar: &tr}

	same := types.Record{Base: "The  cat sat", Test: "a cat sat", HumanSimilar: &tr}
	if mergeKey(base) == mergeKey(same) {
		t.Error("whitespace-differing records should have distinct keys")
	}

	accentFolded := types.Record{Base: "the cät sat", Test: "a cat sat", HumanSimilar: &tr}
	if mergeKey(base) != mergeKey(accentFolded) {
		t.Error("accent folding should collapse to the same key")
	}

	otherLabel := types.Record{Base: "the cat sat", Test: "a cat sat", HumanSimilar: &fa}
	if mergeKey(base) == mergeKey(otherLabel) {
		t.Error("different labels must not collapse")
	}

	unlabeled := types.Record{Base: "the cat sat", Test: "a cat sat"}
	if mergeKey(base) == mergeKey(unlabeled) {
		t.Error("labeled and unlabeled records must not collapse")
	}
}

func TestMergeAction(t *testing.T) {
	dir := t.TempDir()
	outputs := filepath.Join(dir, "outputs")
	merged := filepath.Join(dir, "merged")
	if err := os.MkdirAll(outputs, 0o755); err != nil {
		t.Fatal(err)
	}

	tr := true
	recs1 := []types.Record{
		{Base: "one", Test: "uno", HumanSimilar: &tr},
		{Base: "two", Test: "dos", HumanSimilar: &tr},
	}
	recs2 := []types.Record{
		{Base: "two", Test: "dos", HumanSimilar: &tr}, // duplicate
		{Base: "three", Test: "tres", HumanSimilar: &tr},
	}
	for name, recs := range map[string][]types.Record{"a_HUMAN.json": recs1, "b_HUMAN.json": recs2} {
		data, err := json.Marshal(recs)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(outputs, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Unreadable file: warned about, not fatal.
	if err := os.WriteFile(filepath.Join(outputs, "junk.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(dir, "hilt.yaml")
	cfg := "dirs:\n  outputs: " + outputs + "\n  merged: " + merged + "\n" +
		"  inputs: " + filepath.Join(dir, "inputs") + "\n  logs: " + filepath.Join(dir, "logs") + "\n" +
		"  reports: " + filepath.Join(dir, "reports") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	orig := timeNow
	timeNow = func() time.Time { return time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC) }
	defer func() { timeNow = orig }()

	if err := testApp().Run([]string{"hilt", "merge", "--config", cfgPath}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(merged, "merged_20250603_080000.json"))
	if err != nil {
		t.Fatalf("merged file: %v", err)
	}
	var got []types.Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("merged records = %d, want 3", len(got))
	}
}

func TestMergeAction_NoMatches(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "hilt.yaml")
	cfg := "dirs:\n  outputs: " + filepath.Join(dir, "outputs") + "\n  merged: " + filepath.Join(dir, "merged") + "\n" +
		"  inputs: " + filepath.Join(dir, "inputs") + "\n  logs: " + filepath.Join(dir, "logs") + "\n" +
		"  reports: " + filepath.Join(dir, "reports") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := testApp().Run([]string{"hilt", "merge", "--config", cfgPath}); err == nil {
		t.Fatal("expected an error when nothing matches")
	}
}
