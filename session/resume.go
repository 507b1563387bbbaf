package session

import (
	"encoding/json"
	"os"

	"github.com/justapithecus/hilt/types"
)

// ResumeState describes how a prior output file overlaps the current input.
// Records are matched by content identity (hash of normalized text fields),
// not by position, so an edited or reordered input never mislabels.
type ResumeState struct {
	// Exists is true when an output file was found and decoded.
	Exists bool
	// Complete is true when every current item already has a human label.
	Complete bool
	// Labeled maps content key to the previously recorded human label.
	Labeled map[string]types.Label
}

// checkExistingOutput inspects a prior output file for this input.
// A missing or undecodable output file yields a zero state: resume is
// best-effort, and a corrupt output must not block a fresh session.
func checkExistingOutput(outputPath string, task types.Task, items []Item) ResumeState {
	data, err := os.ReadFile(outputPath)
	if err != nil {
		return ResumeState{}
	}
	var records []types.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return ResumeState{}
	}

	labeled := make(map[string]types.Label)
	for _, rec := range records {
		human, ok := rec.Human(task)
		if !ok {
			continue
		}
		labeled[recordKey(rec, task)] = human
	}

	complete := len(items) > 0
	for _, item := range items {
		if _, ok := labeled[item.Key]; !ok {
			complete = false
			break
		}
	}
	return ResumeState{Exists: true, Complete: complete, Labeled: labeled}
}
