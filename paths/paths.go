// Package paths resolves the session directory layout and derives the
// per-session file names.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default directory layout, overridable via hilt.yaml.
const (
	DefaultInputsDir  = "./inputs"
	DefaultOutputsDir = "./outputs"
	DefaultLogsDir    = "./logs"
	DefaultReportsDir = "./reports"
	DefaultMergedDir  = "./outputs-merged"
)

// Dirs is the resolved directory layout for one invocation.
type Dirs struct {
	Inputs  string
	Outputs string
	Logs    string
	Reports string
	Merged  string
}

// DefaultDirs returns the default layout.
func DefaultDirs() Dirs {
	return Dirs{
		Inputs:  DefaultInputsDir,
		Outputs: DefaultOutputsDir,
		Logs:    DefaultLogsDir,
		Reports: DefaultReportsDir,
		Merged:  DefaultMergedDir,
	}
}

// Ensure creates every directory in the layout.
func (d Dirs) Ensure() error {
	for _, dir := range []string{d.Inputs, d.Outputs, d.Logs, d.Reports, d.Merged} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure dir %s: %w", dir, err)
		}
	}
	return nil
}

// ResolveInput resolves an input argument: an existing path is used as-is,
// a bare filename is looked up in the inputs dir, and anything else is
// returned unchanged so the open error names what the operator typed.
func (d Dirs) ResolveInput(arg string) string {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return arg
	}
	candidate := filepath.Join(d.Inputs, arg)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return arg
}

// Session holds the derived file paths for one labeling session.
type Session struct {
	// Output is the human-labeled copy of the input, stable across resumed
	// sessions: outputs/<root>_HUMAN<ext>.
	Output string
	// Journal is the msgpack checkpoint sidecar next to Output.
	Journal string
	// Log is the timestamped structured session log.
	Log string
	// Report is the timestamped plain-text report.
	Report string
}

// SessionPaths derives the session file paths for an input file.
// Output and Journal depend only on the input name so resumed sessions find
// them again; Log and Report are stamped per run.
func (d Dirs) SessionPaths(inputPath string, now time.Time) Session {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	root := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".json"
	}
	ts := Timestamp(now)
	output := filepath.Join(d.Outputs, root+"_HUMAN"+ext)
	return Session{
		Output:  output,
		Journal: output + ".session",
		Log:     filepath.Join(d.Logs, "log_"+ts+".json"),
		Report:  filepath.Join(d.Reports, "report_"+ts+".txt"),
	}
}

// MergedPath derives the timestamped merge output path.
func (d Dirs) MergedPath(now time.Time) string {
	return filepath.Join(d.Merged, "merged_"+Timestamp(now)+".json")
}

// Timestamp formats a filename-safe timestamp.
func Timestamp(now time.Time) string {
	return now.Format("20060102_150405")
}
