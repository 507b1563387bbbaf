package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/justapithecus/hilt/iox"
	"github.com/justapithecus/hilt/metrics"
	"github.com/justapithecus/hilt/types"
)

const reportRule = "======================================================================"
const reportSep = "----------------------------------------------------------------------"

// Paths names the sibling artifacts referenced at the bottom of the report.
type Paths struct {
	Output string
	Log    string
}

// WriteText renders the text report to path.
func WriteText(path string, l *Log, paths Paths) error {
	var buf bytes.Buffer
	if err := RenderText(&buf, l, paths); err != nil {
		return err
	}
	if err := iox.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderText writes the human-readable session report.
func RenderText(w io.Writer, l *Log, paths Paths) error {
	snap, err := l.Snapshot()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, reportRule)
	fmt.Fprintln(w, "hilt session report")
	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "cmd        : %s\n", l.Cmd)
	fmt.Fprintf(w, "session    : %s\n", l.SessionID)
	fmt.Fprintf(w, "started    : %s\n", l.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "ended      : %s\n", l.EndedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "input      : %s\n", l.Input)
	fmt.Fprintf(w, "seed       : %d\n", l.Seed)
	fmt.Fprintf(w, "max_len    : %d\n", l.MaxLen)
	if l.Annotator != nil && !l.Annotator.Empty() {
		fmt.Fprintf(w, "annotator  : %s\n", annotatorLine(*l.Annotator))
	}
	if l.Review {
		fmt.Fprintln(w, "mode       : review")
	} else if l.Resumed {
		fmt.Fprintln(w, "mode       : resumed")
	}

	fmt.Fprintln(w, reportSep)
	fmt.Fprintln(w, "counts")
	fmt.Fprintf(w, "  input records : %d\n", l.Counts.Input)
	fmt.Fprintf(w, "  valid items   : %d\n", l.Counts.Valid)
	fmt.Fprintf(w, "  labeled       : %d\n", l.Counts.Labeled)
	fmt.Fprintf(w, "  skipped       : %d\n", l.Counts.Skipped)
	for _, reason := range sortedReasons(l.Counts.Reasons) {
		fmt.Fprintf(w, "    %-32s : %d\n", reason, l.Counts.Reasons[reason])
	}

	fmt.Fprintln(w, reportSep)
	fmt.Fprintln(w, "metrics")
	fmt.Fprintf(w, "  scored items : %d\n", snap.ScoredItems())
	fmt.Fprintf(w, "  accuracy     : %s\n", fmtRatio(snap.OverallAccuracy()))
	switch s := snap.(type) {
	case *metrics.BinarySnapshot:
		writeClass(w, "true ", s.Pos)
		writeClass(w, "false", s.Neg)
		fmt.Fprintln(w, "  confusion (gold x human)")
		fmt.Fprintf(w, "    %-6s %6s %6s\n", "", "true", "false")
		fmt.Fprintf(w, "    %-6s %6d %6d\n", "true", s.Confusion.TP, s.Confusion.FN)
		fmt.Fprintf(w, "    %-6s %6d %6d\n", "false", s.Confusion.FP, s.Confusion.TN)
	case *metrics.PairSnapshot:
		writeClass(w, "a    ", s.A)
		writeClass(w, "b    ", s.B)
		fmt.Fprintln(w, "  confusion (gold x human)")
		fmt.Fprintf(w, "    %-6s %6s %6s\n", "", "a", "b")
		fmt.Fprintf(w, "    %-6s %6d %6d\n", "a", s.Confusion.AToA, s.Confusion.AToB)
		fmt.Fprintf(w, "    %-6s %6d %6d\n", "b", s.Confusion.BToA, s.Confusion.BToB)
	}

	fmt.Fprintln(w, reportSep)
	fmt.Fprintln(w, "paths")
	fmt.Fprintf(w, "  output : %s\n", paths.Output)
	fmt.Fprintf(w, "  log    : %s\n", paths.Log)
	fmt.Fprintln(w, reportRule)
	return nil
}

func writeClass(w io.Writer, name string, cs metrics.ClassStats) {
	fmt.Fprintf(w, "  class %s : precision %s  recall %s  f1 %s\n",
		name, fmtRatio(cs.Precision), fmtRatio(cs.Recall), fmtRatio(cs.F1))
}

// fmtRatio renders an undefined ratio as "n/a" rather than a misleading zero.
func fmtRatio(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}

func sortedReasons(reasons map[string]int) []string {
	keys := make([]string, 0, len(reasons))
	for k := range reasons {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func annotatorLine(a types.Annotator) string {
	line := a.Name
	if line == "" {
		line = a.ID
	} else if a.ID != "" {
		line = fmt.Sprintf("%s (%s)", line, a.ID)
	}
	if a.Email != "" {
		line = fmt.Sprintf("%s <%s>", line, a.Email)
	}
	return line
}
