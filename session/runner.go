// Package session drives the interactive labeling loop.
//
// One Runner instance owns the mutable result and skip sequences for the
// duration of one run; there are no package-level globals. The loop is
// cooperative and single-threaded: it blocks on operator input and no other
// work proceeds while waiting.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/justapithecus/hilt/iox"
	"github.com/justapithecus/hilt/log"
	"github.com/justapithecus/hilt/metrics"
	"github.com/justapithecus/hilt/session/journal"
	"github.com/justapithecus/hilt/shuffle"
	"github.com/justapithecus/hilt/textnorm"
	"github.com/justapithecus/hilt/types"
)

// State is the runner's position in the session lifecycle.
type State int

const (
	StateInit State = iota
	StateResumeCheck
	StateLabeling
	StateHelpMenu
	StateDone
	StateInterrupted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateResumeCheck:
		return "resume_check"
	case StateLabeling:
		return "labeling"
	case StateHelpMenu:
		return "help_menu"
	case StateDone:
		return "done"
	case StateInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ErrReviewDeclined reports that the operator declined to review an already
// complete session. The caller exits cleanly without writing anything.
var ErrReviewDeclined = errors.New("review declined")

// Options configures a Runner.
type Options struct {
	Config      types.SessionConfig
	SessionID   string
	OutputPath  string
	JournalPath string
	// In is the operator input stream (stdin in production, a replayed
	// script in tests).
	In io.Reader
	// Out receives all prompts and item displays.
	Out    io.Writer
	Logger *log.Logger
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Outcome is the finalized snapshot handed to the report emitter.
type Outcome struct {
	SessionID    string
	Config       types.SessionConfig
	StartedAt    time.Time
	EndedAt      time.Time
	TotalRecords int
	ValidRecords int
	Resumed      bool
	Review       bool
	Results      []types.ItemResult
	Skips        []types.SkipRecord
	Metrics      metrics.Snapshot
}

// Runner executes one labeling session.
//
// Elapsed-time policy: an item's timer starts when the item is first
// displayed and stops when an answer is accepted. Time spent inside the
// help menu counts toward the item; resetting the clock after a help
// excursion would let help access shrink recorded response times.
type Runner struct {
	cfg     types.SessionConfig
	id      string
	logger  *log.Logger
	in      *prompter
	out     io.Writer
	now     func() time.Time
	journal *journal.Journal
	outPath string

	state     State
	input     *Input
	order     []int
	labels    map[string]types.Label
	results   []types.ItemResult
	keys      []string
	skips     []types.SkipRecord
	prior     map[string]types.ItemResult
	resumed   bool
	review    bool
	startedAt time.Time
}

// New creates a Runner. Run may be called once.
func New(opts Options) *Runner {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		cfg:     opts.Config,
		id:      opts.SessionID,
		logger:  opts.Logger,
		in:      newPrompter(opts.In),
		out:     opts.Out,
		now:     now,
		journal: journal.New(opts.JournalPath),
		outPath: opts.OutputPath,
		labels:  make(map[string]types.Label),
		prior:   make(map[string]types.ItemResult),
	}
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State { return r.state }

// Run drives the session to completion.
//
// Returns ErrInterrupted when the operator ends the session early
// (everything through the last completed item is already durable),
// ErrReviewDeclined when a complete session is left untouched, or a fatal
// error for malformed input.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	r.state = StateInit
	input, err := LoadInput(r.cfg.Input, r.cfg.Task, r.cfg.MaxLen)
	if err != nil {
		return nil, err
	}
	r.input = input
	r.skips = append(r.skips, input.Skips...)
	r.order = shuffle.Order(r.cfg.Seed, len(input.Items))
	r.startedAt = r.now()

	r.logger.Info("session started", map[string]any{
		"input":   r.cfg.Input,
		"records": len(input.Records),
		"valid":   len(input.Items),
		"seed":    r.cfg.Seed,
	})

	writeIntro(r.out, r.cfg.Task)
	fmt.Fprintf(r.out, "Loaded %d records (%d valid). Shuffled with seed=%d.\n\n",
		len(input.Records), len(input.Items), r.cfg.Seed)

	if err := r.resumeCheck(ctx); err != nil {
		return nil, err
	}

	r.state = StateLabeling
	for _, pos := range r.order {
		item := input.Items[pos]
		if !r.review {
			if _, done := r.labels[item.Key]; done {
				continue
			}
		}
		if err := r.labelItem(ctx, item); err != nil {
			if errors.Is(err, ErrInterrupted) {
				r.state = StateInterrupted
				r.logger.Warn("session interrupted", map[string]any{
					"labeled": len(r.results),
					"skipped": len(r.skips),
				})
			}
			return nil, err
		}
	}

	r.state = StateDone
	m := metrics.Compute(r.cfg.Task, r.results)
	r.logger.Info("session complete", map[string]any{
		"labeled": len(r.results),
		"skipped": len(r.skips),
	})

	return &Outcome{
		SessionID:    r.id,
		Config:       r.cfg,
		StartedAt:    r.startedAt,
		EndedAt:      r.now(),
		TotalRecords: len(input.Records),
		ValidRecords: len(input.Items),
		Resumed:      r.resumed,
		Review:       r.review,
		Results:      r.results,
		Skips:        r.skips,
		Metrics:      m,
	}, nil
}

// resumeCheck inspects prior output for this input and either preloads
// completed items, enters review mode, or starts fresh.
func (r *Runner) resumeCheck(ctx context.Context) error {
	r.state = StateResumeCheck
	rs := checkExistingOutput(r.outPath, r.cfg.Task, r.input.Items)
	if !rs.Exists || len(rs.Labeled) == 0 {
		return nil
	}

	// Timings for previously completed items live in the journal sidecar.
	if cp, err := r.journal.Load(); err != nil {
		r.logger.Warn("journal unreadable, elapsed times reset", map[string]any{"error": err.Error()})
	} else if cp != nil {
		for _, e := range cp.Entries {
			r.prior[e.Key] = e.Result
		}
	}

	if rs.Complete {
		ok, err := r.confirmReview(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return ErrReviewDeclined
		}
		r.review = true
		r.resumed = true
		r.labels = rs.Labeled
		fmt.Fprintln(r.out, "Review mode: every item is shown again; Enter keeps the current label.")
		fmt.Fprintln(r.out)
		r.logger.Info("review mode", map[string]any{"labeled": len(rs.Labeled)})
		return nil
	}

	r.resumed = true
	r.labels = rs.Labeled
	for _, item := range r.input.Items {
		lab, ok := r.labels[item.Key]
		if !ok {
			continue
		}
		elapsed := time.Duration(0)
		if prev, ok := r.prior[item.Key]; ok && prev.Human == lab {
			elapsed = prev.Elapsed
		}
		r.appendResult(item, lab, elapsed)
	}
	remaining := len(r.input.Items) - len(r.results)
	fmt.Fprintf(r.out, "Resuming: %d items already completed, %d remaining.\n\n",
		len(r.results), remaining)
	r.logger.Info("resuming session", map[string]any{
		"completed": len(r.results),
		"remaining": remaining,
	})
	return nil
}

func (r *Runner) confirmReview(ctx context.Context) (bool, error) {
	for {
		fmt.Fprint(r.out, "This input is already fully labeled. Review/revise? [Y/n]: ")
		line, err := r.in.ReadLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(r.out, "Please type 'y' or 'n'.")
	}
}

// labelItem runs the prompt loop for one item until an answer or skip is
// accepted, then flushes durable state before returning.
func (r *Runner) labelItem(ctx context.Context, item Item) error {
	r.displayItem(item)
	current, hasCurrent := r.currentLabel(item)

	start := r.now()
	for {
		fmt.Fprint(r.out, r.promptText(hasCurrent))
		line, err := r.in.ReadLine(ctx)
		if err != nil {
			return err
		}
		cmd := strings.ToLower(strings.TrimSpace(line))

		switch cmd {
		case "h", "help":
			r.state = StateHelpMenu
			if err := r.helpMenu(ctx); err != nil {
				return err
			}
			r.state = StateLabeling
			// The item is re-displayed unchanged; the timer keeps running.
			r.displayItem(item)
			continue
		case "s", "skip":
			r.skips = append(r.skips, *textnorm.UserSkip(item.Index, item.Record, r.cfg.Task))
			r.dropLabel(item)
			return r.flush()
		case "":
			if !hasCurrent {
				r.printHint()
				continue
			}
			r.appendResult(item, current, r.now().Sub(start))
			return r.flush()
		default:
			lab, ok := parseAnswer(r.cfg.Task, cmd)
			if !ok {
				r.printHint()
				continue
			}
			r.appendResult(item, lab, r.now().Sub(start))
			return r.flush()
		}
	}
}

// helpMenu runs the HELP_MENU sub-state: any numbered selection prints
// static text and stays in the menu; an empty line pops back to labeling.
func (r *Runner) helpMenu(ctx context.Context) error {
	writeHelpMenu(r.out)
	for {
		fmt.Fprint(r.out, "Select help option (1-3) or press Enter to return: ")
		line, err := r.in.ReadLine(ctx)
		if err != nil {
			return err
		}
		switch strings.TrimSpace(line) {
		case "":
			fmt.Fprintln(r.out, "Returning to labeling...")
			fmt.Fprintln(r.out)
			return nil
		case "1":
			fmt.Fprintln(r.out)
			writeTaskHelp(r.out, r.cfg.Task)
		case "2":
			fmt.Fprintln(r.out)
			writeIntro(r.out, r.cfg.Task)
		case "3":
			fmt.Fprintln(r.out)
			writeGeneralHelp(r.out)
		default:
			fmt.Fprintln(r.out, "Please select 1, 2, 3, or press Enter.")
		}
	}
}

func (r *Runner) displayItem(item Item) {
	n := len(r.results) + 1
	fmt.Fprintln(r.out, ruleLight)
	fmt.Fprintf(r.out, "[%d] Base : %s\n", n, item.Fields[types.FieldBase])
	switch r.cfg.Task {
	case types.TaskClassify:
		fmt.Fprintf(r.out, "    Test : %s\n", item.Fields[types.FieldTest])
	case types.TaskRank:
		fmt.Fprintf(r.out, "    (a)  : %s\n", item.Fields[types.FieldA])
		fmt.Fprintf(r.out, "    (b)  : %s\n", item.Fields[types.FieldB])
	}
	if lab, ok := r.currentLabel(item); ok {
		fmt.Fprintf(r.out, "    Current: %s\n", labelDisplay(lab))
	}
}

func (r *Runner) currentLabel(item Item) (types.Label, bool) {
	if !r.review {
		return "", false
	}
	lab, ok := r.labels[item.Key]
	return lab, ok
}

func (r *Runner) promptText(hasCurrent bool) string {
	var answers string
	switch r.cfg.Task {
	case types.TaskRank:
		answers = "a/b"
	default:
		answers = "t/f"
	}
	if hasCurrent {
		return fmt.Sprintf("Label (%s, s to skip, Enter keeps current): ", answers)
	}
	return fmt.Sprintf("Label (%s, s to skip, h for help): ", answers)
}

func (r *Runner) printHint() {
	switch r.cfg.Task {
	case types.TaskRank:
		fmt.Fprintln(r.out, "Please type 'a', 'b', 'h', or 's'.")
	default:
		fmt.Fprintln(r.out, "Please type 't', 'f', 'h', or 's'.")
	}
}

func (r *Runner) appendResult(item Item, human types.Label, elapsed time.Duration) {
	r.labels[item.Key] = human
	r.results = append(r.results, types.ItemResult{
		Index:   item.Index,
		Gold:    item.Gold,
		Human:   human,
		Correct: item.Gold == human,
		Elapsed: elapsed,
	})
	r.keys = append(r.keys, item.Key)
}

// dropLabel removes an item's label after a user skip so the output record
// reverts to unlabeled. Only meaningful in review mode.
func (r *Runner) dropLabel(item Item) {
	delete(r.labels, item.Key)
	for i, k := range r.keys {
		if k == item.Key {
			r.results = append(r.results[:i], r.results[i+1:]...)
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// flush durably writes the output file and journal. Called after every
// accepted answer or skip; a crash later loses nothing already flushed.
func (r *Runner) flush() error {
	out := make([]types.Record, len(r.input.Records))
	copy(out, r.input.Records)
	for _, item := range r.input.Items {
		if lab, ok := r.labels[item.Key]; ok {
			out[item.Index] = item.Record.WithHuman(r.cfg.Task, lab, r.cfg.Annotator)
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if err := iox.WriteFileAtomic(r.outPath, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	entries := make([]journal.Entry, len(r.results))
	for i, res := range r.results {
		entries[i] = journal.Entry{Key: r.keys[i], Result: res}
	}
	return r.journal.Save(&journal.Checkpoint{
		SessionID: r.id,
		Config:    r.cfg,
		StartedAt: r.startedAt,
		Entries:   entries,
		Skips:     r.skips,
	})
}

func parseAnswer(task types.Task, cmd string) (types.Label, bool) {
	switch task {
	case types.TaskClassify:
		switch cmd {
		case "t", "true":
			return types.LabelTrue, true
		case "f", "false":
			return types.LabelFalse, true
		}
	case types.TaskRank:
		switch cmd {
		case "a":
			return types.LabelA, true
		case "b":
			return types.LabelB, true
		}
	}
	return "", false
}

func labelDisplay(l types.Label) string {
	switch l {
	case types.LabelTrue:
		return "True"
	case types.LabelFalse:
		return "False"
	default:
		return string(l)
	}
}
