package core

import "time"

// RunEntry holds lightweight metadata for a single saved run, used by the
// manifest file and the index page. It mirrors the fields of Document that the
// index needs, without carrying the blocks.
type RunEntry struct {
	ID         string     `json:"id"`
	Title      string     `json:"title,omitempty"`
	Script     string     `json:"script,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	ExitCode   *int       `json:"exit_code,omitempty"`
	Stats      *Stats     `json:"stats,omitempty"`
	BlockCount int        `json:"block_count"`
	Href       string     `json:"href"`
}

// NewRunEntry extracts metadata from a Document and pairs it with the given
// href (relative link to the rendered page).
func NewRunEntry(d *Document, href string) RunEntry {
	return RunEntry{
		ID:         d.ID,
		Title:      d.Title,
		Script:     d.Script,
		StartedAt:  d.StartedAt,
		EndedAt:    d.EndedAt,
		ExitCode:   d.ExitCode,
		Stats:      d.Stats,
		BlockCount: len(d.Blocks),
		Href:       href,
	}
}
