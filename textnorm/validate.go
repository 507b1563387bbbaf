package textnorm

import (
	"fmt"

	"github.com/justapithecus/hilt/types"
)

// Validate checks one record against the task's required fields and maxLen,
// in fixed field order. The first failure wins: a record is never reported
// with multiple skip reasons.
//
// On success the returned map holds the folded value of every required
// field. On failure a SkipRecord with redacted previews is returned instead.
// Validation never errors and never aborts the batch; one bad record must
// not stop processing of the rest.
func Validate(index int, rec types.Record, task types.Task, maxLen int) (map[string]string, *types.SkipRecord) {
	fields := task.Fields()
	folded := make(map[string]string, len(fields))

	for _, name := range fields {
		raw := rec.Field(name)
		if isBlank(raw) {
			return nil, skip(index, rec, task,
				fmt.Sprintf("%s:%s", types.SkipMissingOrEmpty, name))
		}
		a := Fold(raw)
		if len(a) > maxLen {
			return nil, skip(index, rec, task,
				fmt.Sprintf("%s:%s:%d>%d", types.SkipTooLong, name, len(a), maxLen))
		}
		folded[name] = a
	}

	// A record without a well-formed gold label cannot be scored.
	if _, ok := rec.Gold(task); !ok {
		return nil, skip(index, rec, task,
			fmt.Sprintf("%s:%s", types.SkipMissingOrEmpty, task.GoldKey()))
	}

	return folded, nil
}

// UserSkip builds the SkipRecord for an operator-declined item.
func UserSkip(index int, rec types.Record, task types.Task) *types.SkipRecord {
	return skip(index, rec, task, types.SkipUser)
}

// skip builds a SkipRecord with redacted previews. Previews are taken over
// the folded field values, so their digests verify against Fold(original)
// rather than the raw input text.
func skip(index int, rec types.Record, task types.Task, reason string) *types.SkipRecord {
	preview := make(map[string]string, len(task.Fields()))
	for _, name := range task.Fields() {
		preview[name] = Preview(Fold(rec.Field(name)))
	}
	return &types.SkipRecord{Index: index, Reason: reason, Preview: preview}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
