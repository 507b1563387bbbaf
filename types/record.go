package types

// Record is one labeling unit as it appears in the input and output files.
// Classification records use Base/Test, ranking records use Base/A/B.
// Fields for the other variant are omitted from JSON.
//
// Records are append-only: the human label field is the only mutation a
// record ever receives, and output files retain original record order.
type Record struct {
	Base string `json:"sentence_base"`
	Test string `json:"sentence_test,omitempty"`
	A    string `json:"sentence_a,omitempty"`
	B    string `json:"sentence_b,omitempty"`

	// Gold labels, hidden from the operator during labeling.
	// GoldSimilar is a pointer so an absent key is distinguishable from false.
	GoldSimilar     *bool  `json:"label_semantic_similarity,omitempty"`
	GoldMoreSimilar string `json:"label_more_similar,omitempty"`

	// Human labels, appended at label time.
	HumanSimilar     *bool  `json:"label_semantic_similarity_human,omitempty"`
	HumanMoreSimilar string `json:"label_more_similar_human,omitempty"`

	Annotator *Annotator `json:"_annotator,omitempty"`
}

// Field returns the raw text for a named field, or "" when unset.
func (r Record) Field(name string) string {
	switch name {
	case FieldBase:
		return r.Base
	case FieldTest:
		return r.Test
	case FieldA:
		return r.A
	case FieldB:
		return r.B
	default:
		return ""
	}
}

// Gold returns the gold label for the given task and whether it is present
// and well-formed. Absent or malformed gold is a skip condition, not an error.
func (r Record) Gold(task Task) (Label, bool) {
	switch task {
	case TaskClassify:
		if r.GoldSimilar == nil {
			return "", false
		}
		if *r.GoldSimilar {
			return LabelTrue, true
		}
		return LabelFalse, true
	case TaskRank:
		l := Label(r.GoldMoreSimilar)
		if l == LabelA || l == LabelB {
			return l, true
		}
		return "", false
	default:
		return "", false
	}
}

// Human returns the human label for the given task and whether it is set.
func (r Record) Human(task Task) (Label, bool) {
	switch task {
	case TaskClassify:
		if r.HumanSimilar == nil {
			return "", false
		}
		if *r.HumanSimilar {
			return LabelTrue, true
		}
		return LabelFalse, true
	case TaskRank:
		l := Label(r.HumanMoreSimilar)
		if l == LabelA || l == LabelB {
			return l, true
		}
		return "", false
	default:
		return "", false
	}
}

// WithHuman returns a copy of the record with the human label set for the
// given task. The receiver is not modified.
func (r Record) WithHuman(task Task, label Label, annotator *Annotator) Record {
	out := r
	switch task {
	case TaskClassify:
		v := label == LabelTrue
		out.HumanSimilar = &v
	case TaskRank:
		out.HumanMoreSimilar = string(label)
	}
	if annotator != nil && out.Annotator == nil {
		out.Annotator = annotator
	}
	return out
}

// Annotator identifies who supplied the human labels. All fields optional.
type Annotator struct {
	ID    string `json:"id,omitempty"    yaml:"id"    msgpack:"id,omitempty"`
	Name  string `json:"name,omitempty"  yaml:"name"  msgpack:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email" msgpack:"email,omitempty"`
}

// Empty returns true when no annotator field is set.
func (a Annotator) Empty() bool {
	return a == Annotator{}
}
