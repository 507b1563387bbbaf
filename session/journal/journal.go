// Package journal persists the in-progress labeling state between items.
//
// The journal is a msgpack sidecar next to the output file. It is rewritten
// whole after every completed item (item data is append-only, so rewriting
// is idempotent) via an atomic temp-file rename: a crash after an item was
// accepted must not lose that item.
//
// Concurrent processes writing the same journal path are unsupported;
// behavior is last-writer-wins.
package journal

import (
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justapithecus/hilt/iox"
	"github.com/justapithecus/hilt/types"
)

// Entry is one durable item result keyed by record content identity, so a
// resumed session can recover timings even if the input file was reordered.
type Entry struct {
	Key    string           `msgpack:"key"`
	Result types.ItemResult `msgpack:"result"`
}

// Checkpoint is the full durable session state.
type Checkpoint struct {
	Version   string              `msgpack:"version"`
	SessionID string              `msgpack:"session_id"`
	Config    types.SessionConfig `msgpack:"config"`
	StartedAt time.Time           `msgpack:"started_at"`
	Entries   []Entry             `msgpack:"entries"`
	Skips     []types.SkipRecord  `msgpack:"skips"`
}

// Journal reads and writes checkpoints at a fixed path.
type Journal struct {
	path string
}

// New creates a journal at path. Nothing is written until Save.
func New(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the journal file path.
func (j *Journal) Path() string { return j.path }

// Save durably writes the checkpoint.
func (j *Journal) Save(cp *Checkpoint) error {
	cp.Version = types.Version
	data, err := msgpack.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	if err := iox.WriteFileAtomic(j.path, data, 0o644); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Load reads the checkpoint. A missing journal returns (nil, nil): the
// output file, not the journal, is the source of truth for resume; the
// journal only restores timings and skip history. A corrupt journal is an
// error the caller may log and ignore.
func (j *Journal) Load() (*Checkpoint, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read journal: %w", err)
	}
	var cp Checkpoint
	if err := msgpack.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("decode journal %s: %w", j.path, err)
	}
	return &cp, nil
}

// Remove deletes the journal file, ignoring a missing file.
func (j *Journal) Remove() error {
	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove journal: %w", err)
	}
	return nil
}
