// Package core defines the action log document model: the blocks a session
// renders from script output, the live Console that holds them, and the
// Document snapshot that renderers and exporters consume.
package core

import "time"

// Document is a finished or in-progress action run, detached from the live
// console.
type Document struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Script    string     `json:"script,omitempty"` // script path or command that produced the output
	Source    string     `json:"source,omitempty"` // script contents, when the script is a readable file
	Format    string     `json:"format,omitempty"` // wire format(s) recognized, e.g. "v2"
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	ExitCode  *int       `json:"exit_code,omitempty"`
	Lines     int        `json:"lines"` // physical input lines consumed
	Stats     *Stats     `json:"stats,omitempty"`
	Blocks    []Block    `json:"blocks"`
}

// Stats counts alerts by severity across a document.
type Stats struct {
	Notices  int `json:"notices,omitempty"`
	Warnings int `json:"warnings,omitempty"`
	Errors   int `json:"errors,omitempty"`
}

// Failed reports whether the run exited non-zero.
func (d *Document) Failed() bool {
	return d.ExitCode != nil && *d.ExitCode != 0
}

// Status returns the run status; see RunStatus.
func (d *Document) Status() string {
	return RunStatus(d.ExitCode)
}

// Duration returns the run time, or zero while the run is in progress.
func (d *Document) Duration() time.Duration {
	if d.EndedAt == nil || d.StartedAt.IsZero() {
		return 0
	}
	return d.EndedAt.Sub(d.StartedAt)
}

// Run statuses.
const (
	StatusRunning = "running"
	StatusPassed  = "passed"
	StatusFailed  = "failed"
)

// RunStatus classifies an exit code. A nil code means the run has not
// finished.
func RunStatus(exitCode *int) string {
	switch {
	case exitCode == nil:
		return StatusRunning
	case *exitCode == 0:
		return StatusPassed
	default:
		return StatusFailed
	}
}
