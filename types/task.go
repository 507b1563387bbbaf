// Package types defines core domain types for the hilt labeling sessions.
//
//nolint:revive // types is a common Go package naming convention
package types

// Task is the labeling task discriminator.
type Task string

const (
	// TaskClassify is binary semantic-similarity labeling (true/false).
	TaskClassify Task = "classify"
	// TaskRank is pairwise similarity labeling ("a" vs "b").
	TaskRank Task = "rank"
)

// Valid returns true for a known task.
func (t Task) Valid() bool {
	return t == TaskClassify || t == TaskRank
}

// Fields returns the required text fields in validation order.
// The order is fixed: validation reports the first failing field only.
func (t Task) Fields() []string {
	switch t {
	case TaskClassify:
		return []string{FieldBase, FieldTest}
	case TaskRank:
		return []string{FieldBase, FieldA, FieldB}
	default:
		return nil
	}
}

// GoldKey returns the JSON key holding the hidden gold label.
func (t Task) GoldKey() string {
	switch t {
	case TaskClassify:
		return "label_semantic_similarity"
	case TaskRank:
		return "label_more_similar"
	default:
		return ""
	}
}

// HumanKey returns the JSON key the human label is written under.
func (t Task) HumanKey() string {
	return t.GoldKey() + "_human"
}

// Labels returns the answer labels valid for this task.
func (t Task) Labels() []Label {
	switch t {
	case TaskClassify:
		return []Label{LabelTrue, LabelFalse}
	case TaskRank:
		return []Label{LabelA, LabelB}
	default:
		return nil
	}
}

// JSON field names shared by both input variants.
const (
	FieldBase = "sentence_base"
	FieldTest = "sentence_test"
	FieldA    = "sentence_a"
	FieldB    = "sentence_b"
)
