package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/sonnes/actionlog/core"
)

// ErrNotFound is returned by Store.Load for unknown run IDs.
var ErrNotFound = errors.New("run not found")

var idRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store is an output directory holding saved runs and their manifest:
//
//	<dir>/manifest.json
//	<dir>/runs/<id>.json
//	<dir>/runs/<id>.html
type Store struct {
	Dir string
	// Keep limits how many runs are retained. Zero keeps all.
	Keep int
}

// ManifestPath returns the manifest location.
func (s *Store) ManifestPath() string {
	return filepath.Join(s.Dir, FileName)
}

// RunsDir returns the directory holding run documents and pages.
func (s *Store) RunsDir() string {
	return filepath.Join(s.Dir, "runs")
}

// DocumentPath returns where the JSON document for id is stored.
func (s *Store) DocumentPath(id string) string {
	return filepath.Join(s.RunsDir(), id+".json")
}

// PagePath returns where the rendered HTML page for id is stored.
func (s *Store) PagePath(id string) string {
	return filepath.Join(s.RunsDir(), id+".html")
}

// Href returns the page link for id, relative to the manifest.
func Href(id string) string {
	return "runs/" + id + ".html"
}

// Save writes d as JSON and records it in the manifest. Runs beyond Keep are
// removed from the manifest and disk.
func (s *Store) Save(d *core.Document) error {
	if !idRE.MatchString(d.ID) {
		return fmt.Errorf("invalid run id %q", d.ID)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	path := s.DocumentPath(d.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create runs dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	m, err := ReadFile(s.ManifestPath())
	if err != nil {
		return err
	}
	m.Upsert(core.NewRunEntry(d, Href(d.ID)))
	for _, old := range m.Prune(s.Keep) {
		s.remove(old.ID)
	}
	return m.WriteFile(s.ManifestPath())
}

// Prune drops runs beyond Keep from the manifest and disk and reports how
// many were removed.
func (s *Store) Prune() (int, error) {
	m, err := ReadFile(s.ManifestPath())
	if err != nil {
		return 0, err
	}
	pruned := m.Prune(s.Keep)
	if len(pruned) == 0 {
		return 0, nil
	}
	for _, old := range pruned {
		s.remove(old.ID)
	}
	return len(pruned), m.WriteFile(s.ManifestPath())
}

func (s *Store) remove(id string) {
	for _, p := range []string{s.DocumentPath(id), s.PagePath(id)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Debug("remove pruned run", "path", p, "error", err)
		}
	}
}

// Load reads the saved document for id.
func (s *Store) Load(id string) (*core.Document, error) {
	if !idRE.MatchString(id) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(s.DocumentPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	var d core.Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse run %s: %w", id, err)
	}
	return &d, nil
}

// Runs returns the manifest entries, newest first.
func (s *Store) Runs() ([]core.RunEntry, error) {
	m, err := ReadFile(s.ManifestPath())
	if err != nil {
		return nil, err
	}
	return m.Runs, nil
}
