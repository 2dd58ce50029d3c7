// Package manifest manages the run index file (manifest.json) that tracks
// every saved action log in an output directory.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sonnes/actionlog/core"
)

// FileName is the manifest's name inside an output directory.
const FileName = "manifest.json"

// Manifest holds the list of run metadata entries.
type Manifest struct {
	Runs []core.RunEntry `json:"runs"`
}

// ReadFile reads a manifest from disk. Returns an empty Manifest if the file
// does not exist.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Get returns the entry with the given run ID.
func (m *Manifest) Get(id string) (core.RunEntry, bool) {
	for _, e := range m.Runs {
		if e.ID == id {
			return e, true
		}
	}
	return core.RunEntry{}, false
}

// Upsert adds or replaces an entry matched by ID. After upserting, the
// entries are sorted newest-first by StartedAt.
func (m *Manifest) Upsert(entry core.RunEntry) {
	for i, e := range m.Runs {
		if e.ID == entry.ID {
			m.Runs[i] = entry
			m.sort()
			return
		}
	}
	m.Runs = append(m.Runs, entry)
	m.sort()
}

// Prune keeps the newest keep entries and returns the ones removed. A keep
// of zero or less keeps everything.
func (m *Manifest) Prune(keep int) []core.RunEntry {
	if keep <= 0 || len(m.Runs) <= keep {
		return nil
	}
	m.sort()
	removed := append([]core.RunEntry(nil), m.Runs[keep:]...)
	m.Runs = m.Runs[:keep]
	return removed
}

func (m *Manifest) sort() {
	sort.SliceStable(m.Runs, func(i, j int) bool {
		return m.Runs[i].StartedAt.After(m.Runs[j].StartedAt)
	})
}

// WriteFile writes the manifest to disk atomically using a temporary file and
// rename, which is safe against concurrent writers.
func (m *Manifest) WriteFile(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write manifest: %w", err)
	}

	return os.Rename(tmpPath, path)
}
