package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/justapithecus/hilt/textnorm"
	"github.com/justapithecus/hilt/types"
)

// Item is one valid, normalized record ready for presentation.
type Item struct {
	// Index is the record's position in the input array. Skip records and
	// item results refer to this index, never to presentation order.
	Index int
	// Record is the original, unmodified input record.
	Record types.Record
	// Fields holds the folded text per required field, used for display,
	// previews, and content identity.
	Fields map[string]string
	// Key is the content-identity hash over the folded required fields.
	Key string
	// Gold is the hidden gold label.
	Gold types.Label
}

// Input is the decoded and validated input set.
type Input struct {
	// Records is the full input array in original order, including records
	// that failed validation. Output files are rebuilt from this slice so
	// original order is always retained.
	Records []types.Record
	// Items are the valid records in original order.
	Items []Item
	// Skips are the validation skip records, in input order.
	Skips []types.SkipRecord
}

// LoadInput reads and decodes the input file, then validates every record.
// Decode failure (unreadable file, top-level not a JSON array) is fatal;
// per-record validation failures become SkipRecords and never abort the
// batch.
func LoadInput(path string, task types.Task, maxLen int) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}

	var records []types.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("malformed input %s (expected a JSON array of records): %w", path, err)
	}

	in := &Input{Records: records}
	for i, rec := range records {
		folded, skip := textnorm.Validate(i, rec, task, maxLen)
		if skip != nil {
			in.Skips = append(in.Skips, *skip)
			continue
		}
		gold, _ := rec.Gold(task)
		in.Items = append(in.Items, Item{
			Index:  i,
			Record: rec,
			Fields: folded,
			Key:    contentKey(folded, task),
			Gold:   gold,
		})
	}
	return in, nil
}

// contentKey hashes the folded required fields in task field order.
func contentKey(folded map[string]string, task types.Task) string {
	fields := task.Fields()
	values := make([]string, len(fields))
	for i, name := range fields {
		values[i] = folded[name]
	}
	return textnorm.ContentKey(values)
}

// recordKey computes the content key for an arbitrary record, folding its
// fields on the fly. Used to match previously labeled output records.
func recordKey(rec types.Record, task types.Task) string {
	fields := task.Fields()
	values := make([]string, len(fields))
	for i, name := range fields {
		values[i] = rec.Field(name)
	}
	return textnorm.ContentKey(values)
}
