// Package follow tails a log file that another process is still writing.
package follow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultPoll = 500 * time.Millisecond

// Reader emits the existing contents of Path and then every line appended
// to it, until ctx is cancelled or the file is removed or renamed.
type Reader struct {
	Path string
	// Poll re-checks the file on filesystems that do not deliver events.
	Poll time.Duration
}

// Read implements reader.Source. A partial last line is held back until its
// newline arrives, or flushed when the file goes away.
func (r *Reader) Read(ctx context.Context, emit func(string) error) error {
	f, err := os.Open(r.Path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Watching the directory delivers removal of the entry even while the
	// file is held open.
	path := filepath.Clean(r.Path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", r.Path, err)
	}

	poll := r.Poll
	if poll <= 0 {
		poll = defaultPoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	t := &tail{br: bufio.NewReader(f), emit: emit}
	for {
		if err := t.drain(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				log.Debug("followed file went away", "path", r.Path, "op", ev.Op)
				if err := t.drain(); err != nil {
					return err
				}
				return t.flush()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", r.Path, err)
		case <-ticker.C:
		}
	}
}

type tail struct {
	br      *bufio.Reader
	partial strings.Builder
	emit    func(string) error
}

// drain emits every complete line currently readable.
func (t *tail) drain() error {
	for {
		chunk, err := t.br.ReadString('\n')
		t.partial.WriteString(chunk)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read log file: %w", err)
		}

		line := strings.TrimSuffix(t.partial.String(), "\n")
		line = strings.TrimSuffix(line, "\r")
		t.partial.Reset()
		if err := t.emit(line); err != nil {
			return err
		}
	}
}

func (t *tail) flush() error {
	if t.partial.Len() == 0 {
		return nil
	}
	line := strings.TrimSuffix(t.partial.String(), "\r")
	t.partial.Reset()
	return t.emit(line)
}
