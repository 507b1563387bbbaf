// Package report emits the two per-session artifacts: a machine-readable
// JSON session log and a human-readable text report. The JSON log is the
// durable record a later `stats` invocation reads back.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/justapithecus/hilt/iox"
	"github.com/justapithecus/hilt/metrics"
	"github.com/justapithecus/hilt/session"
	"github.com/justapithecus/hilt/types"
)

// Counts summarizes how the input decomposed.
type Counts struct {
	Input   int            `json:"input_records"`
	Valid   int            `json:"valid_items"`
	Labeled int            `json:"labeled"`
	Skipped int            `json:"skipped"`
	Reasons map[string]int `json:"skip_reasons,omitempty"`
}

// Item is one judged item as it appears in the session log. Gold and Human
// carry the task's natural JSON type: booleans for classification, "a"/"b"
// strings for ranking.
type Item struct {
	Index     int   `json:"index"`
	Gold      any   `json:"gold"`
	Human     any   `json:"human"`
	Correct   bool  `json:"correct"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

// Log is the complete session record. Gold labels never appear outside the
// per-item entries, and skip previews are already redacted upstream.
type Log struct {
	SessionID string             `json:"session_id"`
	Cmd       types.Task         `json:"cmd"`
	Input     string             `json:"input"`
	Seed      int64              `json:"seed"`
	MaxLen    int                `json:"max_len"`
	Resumed   bool               `json:"resumed"`
	Review    bool               `json:"review,omitempty"`
	Annotator *types.Annotator   `json:"annotator,omitempty"`
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at"`
	Counts    Counts             `json:"counts"`
	Skips     []types.SkipRecord `json:"skips"`
	Items     []Item             `json:"items"`
	Metrics   json.RawMessage    `json:"metrics"`
}

// Summarizer produces a prose summary of a finished session. None ships;
// callers may plug one in.
type Summarizer interface {
	Summarize(ctx context.Context, l *Log) (string, error)
}

// Build converts a session outcome into its log form.
func Build(out *session.Outcome) (*Log, error) {
	items := make([]Item, len(out.Results))
	for i, res := range out.Results {
		items[i] = Item{
			Index:     res.Index,
			Gold:      res.Gold.Value(),
			Human:     res.Human.Value(),
			Correct:   res.Correct,
			ElapsedMS: res.Elapsed.Milliseconds(),
		}
	}

	reasons := make(map[string]int)
	for _, s := range out.Skips {
		reasons[s.Reason]++
	}
	if len(reasons) == 0 {
		reasons = nil
	}

	raw, err := json.Marshal(out.Metrics)
	if err != nil {
		return nil, fmt.Errorf("encode metrics: %w", err)
	}

	skips := out.Skips
	if skips == nil {
		skips = []types.SkipRecord{}
	}

	return &Log{
		SessionID: out.SessionID,
		Cmd:       out.Config.Task,
		Input:     out.Config.Input,
		Seed:      out.Config.Seed,
		MaxLen:    out.Config.MaxLen,
		Resumed:   out.Resumed,
		Review:    out.Review,
		Annotator: out.Config.Annotator,
		StartedAt: out.StartedAt,
		EndedAt:   out.EndedAt,
		Counts: Counts{
			Input:   out.TotalRecords,
			Valid:   out.ValidRecords,
			Labeled: len(out.Results),
			Skipped: len(out.Skips),
			Reasons: reasons,
		},
		Skips:   skips,
		Items:   items,
		Metrics: raw,
	}, nil
}

// Snapshot decodes the metrics block into its task-specific form.
func (l *Log) Snapshot() (metrics.Snapshot, error) {
	switch l.Cmd {
	case types.TaskClassify:
		var s metrics.BinarySnapshot
		if err := json.Unmarshal(l.Metrics, &s); err != nil {
			return nil, fmt.Errorf("decode metrics: %w", err)
		}
		return &s, nil
	case types.TaskRank:
		var s metrics.PairSnapshot
		if err := json.Unmarshal(l.Metrics, &s); err != nil {
			return nil, fmt.Errorf("decode metrics: %w", err)
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("unknown cmd %q in session log", l.Cmd)
	}
}

// WriteLog writes the session log as indented JSON.
func WriteLog(path string, l *Log) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session log: %w", err)
	}
	if err := iox.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write session log: %w", err)
	}
	return nil
}

// ReadLog loads a previously written session log.
func ReadLog(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session log: %w", err)
	}
	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode session log %s: %w", path, err)
	}
	return &l, nil
}
