package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/justapithecus/hilt/log"
	"github.com/justapithecus/hilt/shuffle"
	"github.com/justapithecus/hilt/types"
)

func boolPtr(b bool) *bool { return &b }

func classifyRecords() []types.Record {
	return []types.Record{
		{Base: "the cat sat", Test: "a cat was sitting", GoldSimilar: boolPtr(true)},
		{Base: "the dog ran", Test: "quarterly earnings rose", GoldSimilar: boolPtr(false)},
		{Base: "rain fell all day", Test: "it rained for hours", GoldSimilar: boolPtr(true)},
	}
}

func rankRecords() []types.Record {
	return []types.Record{
		{Base: "the cat sat", A: "a cat was sitting", B: "stocks fell", GoldMoreSimilar: "a"},
		{Base: "the dog ran", A: "taxes are due", B: "a dog was running", GoldMoreSimilar: "b"},
	}
}

func writeInput(t *testing.T, records []types.Record) string {
	t.Helper()
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "input.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func script(lines ...string) io.Reader {
	if len(lines) == 0 {
		return strings.NewReader("")
	}
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	t := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

type runnerFixture struct {
	cfg     types.SessionConfig
	outPath string
	jrnPath string
	display *bytes.Buffer
}

func newFixture(t *testing.T, task types.Task, records []types.Record) *runnerFixture {
	t.Helper()
	dir := t.TempDir()
	return &runnerFixture{
		cfg: types.SessionConfig{
			Task:      task,
			Input:     writeInput(t, records),
			Seed:      42,
			MaxLen:    1000,
			Annotator: &types.Annotator{ID: "ann-1", Name: "Test Annotator"},
		},
		outPath: filepath.Join(dir, "input_HUMAN.json"),
		jrnPath: filepath.Join(dir, "input_HUMAN.json.session"),
		display: &bytes.Buffer{},
	}
}

func (f *runnerFixture) run(t *testing.T, in io.Reader) (*Outcome, *Runner, error) {
	t.Helper()
	r := New(Options{
		Config:      f.cfg,
		SessionID:   "test-session",
		OutputPath:  f.outPath,
		JournalPath: f.jrnPath,
		In:          in,
		Out:         f.display,
		Logger:      log.NewLogger("test-session", f.cfg.Task).WithOutput(io.Discard),
		Now:         stepClock(),
	})
	out, err := r.Run(context.Background())
	return out, r, err
}

func (f *runnerFixture) readOutput(t *testing.T) []types.Record {
	t.Helper()
	data, err := os.ReadFile(f.outPath)
	if err != nil {
		t.Fatal(err)
	}
	var recs []types.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		t.Fatal(err)
	}
	return recs
}

// goldAnswers builds a scripted answer per item in presentation order that
// matches each item's gold label.
func goldAnswers(task types.Task, records []types.Record, seed int64) []string {
	var valid []types.Record
	for _, rec := range records {
		if _, ok := rec.Gold(task); ok {
			valid = append(valid, rec)
		}
	}
	order := shuffle.Order(seed, len(valid))
	answers := make([]string, len(order))
	for i, pos := range order {
		gold, _ := valid[pos].Gold(task)
		switch gold {
		case types.LabelTrue:
			answers[i] = "t"
		case types.LabelFalse:
			answers[i] = "f"
		default:
			answers[i] = string(gold)
		}
	}
	return answers
}

func TestRun_ClassifyComplete(t *testing.T) {
	records := classifyRecords()
	f := newFixture(t, types.TaskClassify, records)

	out, r, err := f.run(t, script(goldAnswers(types.TaskClassify, records, f.cfg.Seed)...))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.State() != StateDone {
		t.Errorf("state = %v, want %v", r.State(), StateDone)
	}
	if out.TotalRecords != 3 || out.ValidRecords != 3 {
		t.Errorf("counts = %d/%d, want 3/3", out.TotalRecords, out.ValidRecords)
	}
	if len(out.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(out.Results))
	}
	if out.Resumed || out.Review {
		t.Error("fresh session flagged as resumed or review")
	}
	if got := out.Metrics.ScoredItems(); got != 3 {
		t.Errorf("scored = %d, want 3", got)
	}
	if acc := out.Metrics.OverallAccuracy(); acc == nil || *acc != 1.0 {
		t.Errorf("accuracy = %v, want 1.0", acc)
	}
	for _, res := range out.Results {
		if res.Elapsed <= 0 {
			t.Errorf("item %d elapsed = %v, want > 0", res.Index, res.Elapsed)
		}
	}

	written := f.readOutput(t)
	if len(written) != len(records) {
		t.Fatalf("output records = %d, want %d", len(written), len(records))
	}
	for i, rec := range written {
		if rec.Base != records[i].Base {
			t.Errorf("output[%d] out of order: base %q, want %q", i, rec.Base, records[i].Base)
		}
		human, ok := rec.Human(types.TaskClassify)
		if !ok {
			t.Errorf("output[%d] missing human label", i)
			continue
		}
		gold, _ := rec.Gold(types.TaskClassify)
		if human != gold {
			t.Errorf("output[%d] human = %v, want %v", i, human, gold)
		}
		if rec.Annotator == nil || rec.Annotator.ID != "ann-1" {
			t.Errorf("output[%d] annotator not recorded", i)
		}
	}
}

func TestRun_RankComplete(t *testing.T) {
	records := rankRecords()
	f := newFixture(t, types.TaskRank, records)

	out, _, err := f.run(t, script(goldAnswers(types.TaskRank, records, f.cfg.Seed)...))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if acc := out.Metrics.OverallAccuracy(); acc == nil || *acc != 1.0 {
		t.Errorf("accuracy = %v, want 1.0", acc)
	}
	for i, rec := range f.readOutput(t) {
		if rec.HumanMoreSimilar != rec.GoldMoreSimilar {
			t.Errorf("output[%d] human = %q, want %q", i, rec.HumanMoreSimilar, rec.GoldMoreSimilar)
		}
	}
}

func TestRun_InvalidTokenReprompts(t *testing.T) {
	records := classifyRecords()[:1]
	f := newFixture(t, types.TaskClassify, records)

	out, _, err := f.run(t, script("x", "yes please", "t"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(out.Results))
	}
	if !strings.Contains(f.display.String(), "Please type 't', 'f', 'h', or 's'.") {
		t.Error("expected a hint after an invalid token")
	}
}

func TestRun_UserSkip(t *testing.T) {
	records := classifyRecords()[:2]
	f := newFixture(t, types.TaskClassify, records)

	out, _, err := f.run(t, script("s", "t"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Results) != 1 {
		t.Errorf("results = %d, want 1", len(out.Results))
	}
	if len(out.Skips) != 1 {
		t.Fatalf("skips = %d, want 1", len(out.Skips))
	}
	skip := out.Skips[0]
	if skip.Reason != types.SkipUser {
		t.Errorf("skip reason = %q, want %q", skip.Reason, types.SkipUser)
	}
	for field, preview := range skip.Preview {
		if !strings.Contains(preview, "|") {
			t.Errorf("skip preview for %q not redacted: %q", field, preview)
		}
	}

	var labeled int
	for _, rec := range f.readOutput(t) {
		if _, ok := rec.Human(types.TaskClassify); ok {
			labeled++
		}
	}
	if labeled != 1 {
		t.Errorf("labeled output records = %d, want 1", labeled)
	}
}

func TestRun_ValidationSkipsExcluded(t *testing.T) {
	records := []types.Record{
		{Base: "has no test sentence", Test: "", GoldSimilar: boolPtr(true)},
		{Base: "valid base", Test: "valid test", GoldSimilar: boolPtr(false)},
	}
	f := newFixture(t, types.TaskClassify, records)

	out, _, err := f.run(t, script("f"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.TotalRecords != 2 || out.ValidRecords != 1 {
		t.Errorf("counts = %d/%d, want 2/1", out.TotalRecords, out.ValidRecords)
	}
	if len(out.Skips) != 1 {
		t.Fatalf("skips = %d, want 1", len(out.Skips))
	}
	if got, want := out.Skips[0].Reason, "missing_or_empty:"+types.FieldTest; got != want {
		t.Errorf("skip reason = %q, want %q", got, want)
	}
	if out.Skips[0].Index != 0 {
		t.Errorf("skip index = %d, want 0", out.Skips[0].Index)
	}
}

func TestRun_HelpMenuRoundTrip(t *testing.T) {
	records := classifyRecords()[:1]
	f := newFixture(t, types.TaskClassify, records)

	out, _, err := f.run(t, script("h", "1", "", "t"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(out.Results))
	}
	display := f.display.String()
	if !strings.Contains(display, "HELP MENU") {
		t.Error("help menu never shown")
	}
	if !strings.Contains(display, "CLASSIFICATION HELP") {
		t.Error("task help text never shown")
	}
	// The item is shown once before help and once after returning.
	if got := strings.Count(display, "[1] Base :"); got != 2 {
		t.Errorf("item displayed %d times, want 2", got)
	}
}

func TestRun_InterruptFlushesProgress(t *testing.T) {
	records := classifyRecords()
	f := newFixture(t, types.TaskClassify, records)

	// One answer, then the stream ends mid-session.
	_, r, err := f.run(t, script("t"))
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("err = %v, want ErrInterrupted", err)
	}
	if r.State() != StateInterrupted {
		t.Errorf("state = %v, want %v", r.State(), StateInterrupted)
	}

	var labeled int
	for _, rec := range f.readOutput(t) {
		if _, ok := rec.Human(types.TaskClassify); ok {
			labeled++
		}
	}
	if labeled != 1 {
		t.Errorf("labeled records after interrupt = %d, want 1", labeled)
	}
}

func TestRun_ResumeSkipsCompletedItems(t *testing.T) {
	records := classifyRecords()
	f := newFixture(t, types.TaskClassify, records)

	if _, _, err := f.run(t, script("t")); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("first run err = %v, want ErrInterrupted", err)
	}

	f.display.Reset()
	out, _, err := f.run(t, script("t", "t"))
	if err != nil {
		t.Fatalf("resumed run: %v", err)
	}
	if !out.Resumed {
		t.Error("resumed run not flagged as resumed")
	}
	if out.Review {
		t.Error("partial resume flagged as review")
	}
	if len(out.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(out.Results))
	}
	if !strings.Contains(f.display.String(), "Resuming: 1 items already completed, 2 remaining.") {
		t.Errorf("resume note missing from display:\n%s", f.display.String())
	}

	// The preloaded item carries its recorded elapsed time from the journal.
	var preloaded bool
	for _, res := range out.Results {
		if res.Elapsed > 0 {
			preloaded = true
		}
	}
	if !preloaded {
		t.Error("no result carried a nonzero elapsed time")
	}
}

func TestRun_ResumeOutputMatchesUninterruptedRun(t *testing.T) {
	records := classifyRecords()
	answers := goldAnswers(types.TaskClassify, records, 42)

	// Uninterrupted run.
	full := newFixture(t, types.TaskClassify, records)
	if _, _, err := full.run(t, script(answers...)); err != nil {
		t.Fatalf("uninterrupted run: %v", err)
	}

	// Same answers split across an interrupt and a resume.
	split := newFixture(t, types.TaskClassify, records)
	if _, _, err := split.run(t, script(answers[0])); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("first half err = %v, want ErrInterrupted", err)
	}
	if _, _, err := split.run(t, script(answers[1:]...)); err != nil {
		t.Fatalf("second half: %v", err)
	}

	want, err := os.ReadFile(full.outPath)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(split.outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, got) {
		t.Errorf("resumed output differs from uninterrupted output:\n%s\n---\n%s", want, got)
	}
}

func TestRun_ReviewDeclined(t *testing.T) {
	records := classifyRecords()
	f := newFixture(t, types.TaskClassify, records)

	if _, _, err := f.run(t, script(goldAnswers(types.TaskClassify, records, f.cfg.Seed)...)); err != nil {
		t.Fatalf("initial run: %v", err)
	}
	before, err := os.ReadFile(f.outPath)
	if err != nil {
		t.Fatal(err)
	}

	_, _, runErr := f.run(t, script("n"))
	if !errors.Is(runErr, ErrReviewDeclined) {
		t.Fatalf("err = %v, want ErrReviewDeclined", runErr)
	}

	after, err := os.ReadFile(f.outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("output changed after declined review")
	}
}

func TestRun_ReviewKeepsCurrentOnEnter(t *testing.T) {
	records := classifyRecords()
	f := newFixture(t, types.TaskClassify, records)

	if _, _, err := f.run(t, script(goldAnswers(types.TaskClassify, records, f.cfg.Seed)...)); err != nil {
		t.Fatalf("initial run: %v", err)
	}

	// Accept review, then press Enter for every item.
	out, _, err := f.run(t, script("", "", "", ""))
	if err != nil {
		t.Fatalf("review run: %v", err)
	}
	if !out.Review {
		t.Error("review run not flagged")
	}
	if len(out.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(out.Results))
	}
	for i, rec := range f.readOutput(t) {
		human, ok := rec.Human(types.TaskClassify)
		if !ok {
			t.Fatalf("output[%d] lost its label in review", i)
		}
		gold, _ := rec.Gold(types.TaskClassify)
		if human != gold {
			t.Errorf("output[%d] label changed on keep: %v", i, human)
		}
	}
}

func TestRun_ReviewRevisesLabel(t *testing.T) {
	records := classifyRecords()[:1]
	f := newFixture(t, types.TaskClassify, records)

	if _, _, err := f.run(t, script("t")); err != nil {
		t.Fatalf("initial run: %v", err)
	}

	out, _, err := f.run(t, script("y", "f"))
	if err != nil {
		t.Fatalf("review run: %v", err)
	}
	if !strings.Contains(f.display.String(), "Current: True") {
		t.Error("current label not shown in review")
	}
	if len(out.Results) != 1 || out.Results[0].Human != types.LabelFalse {
		t.Fatalf("revised result = %+v", out.Results)
	}
	human, ok := f.readOutput(t)[0].Human(types.TaskClassify)
	if !ok || human != types.LabelFalse {
		t.Errorf("output label = %v/%v, want false", human, ok)
	}
}

func TestRun_MalformedInputFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := newFixture(t, types.TaskClassify, classifyRecords())
	f.cfg.Input = path

	_, _, err := f.run(t, script())
	if err == nil || !strings.Contains(err.Error(), "malformed input") {
		t.Fatalf("err = %v, want malformed input", err)
	}
}

func TestRun_DeterministicOrder(t *testing.T) {
	records := classifyRecords()

	present := func() string {
		f := newFixture(t, types.TaskClassify, records)
		f.run(t, script(goldAnswers(types.TaskClassify, records, f.cfg.Seed)...))
		// Strip session-dependent noise: keep only the item display lines.
		var lines []string
		for _, line := range strings.Split(f.display.String(), "\n") {
			if strings.Contains(line, "Base :") {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n")
	}

	if present() != present() {
		t.Error("same seed produced different presentation order")
	}
}
