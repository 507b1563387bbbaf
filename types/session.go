package types

import "time"

// Label is a task answer. Classification uses LabelTrue/LabelFalse,
// ranking uses LabelA/LabelB.
type Label string

const (
	LabelTrue  Label = "true"
	LabelFalse Label = "false"
	LabelA     Label = "a"
	LabelB     Label = "b"
)

// Bool returns the boolean value of a classification label.
func (l Label) Bool() bool { return l == LabelTrue }

// Value returns the JSON representation used in the session log:
// bool for classification labels, string for ranking labels.
func (l Label) Value() any {
	switch l {
	case LabelTrue:
		return true
	case LabelFalse:
		return false
	default:
		return string(l)
	}
}

// Skip reasons. Field-specific reasons carry the field name (and for
// too_long the observed and allowed lengths) as a suffix.
const (
	SkipMissingOrEmpty = "missing_or_empty"
	SkipTooLong        = "too_long"
	SkipUser           = "user_skip"
)

// SkipRecord marks a record excluded from labeling and scoring.
// Created the instant validation fails or the operator skips; immutable.
// Preview values are redacted (bounded prefix plus one-way hash), never
// the raw text.
type SkipRecord struct {
	Index   int               `json:"index" msgpack:"index"`
	Reason  string            `json:"reason" msgpack:"reason"`
	Preview map[string]string `json:"record_preview" msgpack:"record_preview"`
}

// ItemResult is one scored human judgment. Immutable once created; the
// ordered result sequence plus the skip sequence is the sole input to the
// metrics engine.
type ItemResult struct {
	Index   int           `json:"index" msgpack:"index"`
	Gold    Label         `json:"gold" msgpack:"gold"`
	Human   Label         `json:"human" msgpack:"human"`
	Correct bool          `json:"correct" msgpack:"correct"`
	Elapsed time.Duration `json:"elapsed" msgpack:"elapsed"`
}

// SessionConfig is the immutable per-invocation configuration. It determines
// presentation order (Seed) and the validation threshold (MaxLen).
type SessionConfig struct {
	Task      Task       `json:"cmd" msgpack:"cmd"`
	Input     string     `json:"input" msgpack:"input"`
	Seed      int64      `json:"seed" msgpack:"seed"`
	MaxLen    int        `json:"max_len" msgpack:"max_len"`
	Annotator *Annotator `json:"annotator,omitempty" msgpack:"annotator,omitempty"`
}
