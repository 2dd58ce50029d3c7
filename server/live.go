package server

import (
	"context"
	"sync"
	"time"

	"github.com/sonnes/actionlog/core"
)

// Live is a run still in progress. Its blocks come from the session console;
// its metadata is fixed until Finish.
type Live struct {
	mu      sync.Mutex
	doc     core.Document
	console *core.Console
	done    chan struct{}
	once    sync.Once
}

// NewLive wraps the console of a running session. doc supplies the run
// metadata; its Blocks are ignored.
func NewLive(doc core.Document, c *core.Console) *Live {
	doc.Blocks = nil
	return &Live{doc: doc, console: c, done: make(chan struct{})}
}

// ID returns the run ID.
func (l *Live) ID() string {
	return l.doc.ID
}

// Finish records the run's end. Waiting pollers are released.
func (l *Live) Finish(exitCode int, ended time.Time) {
	l.once.Do(func() {
		l.mu.Lock()
		l.doc.ExitCode = &exitCode
		l.doc.EndedAt = &ended
		l.mu.Unlock()
		close(l.done)
	})
}

// Done is closed once the run has finished.
func (l *Live) Done() <-chan struct{} {
	return l.done
}

func (l *Live) finished() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Document returns a snapshot of the run and the console version it reflects.
func (l *Live) Document() (*core.Document, uint64) {
	l.mu.Lock()
	d := l.doc
	l.mu.Unlock()

	blocks, version := l.console.Snapshot()
	d.Blocks = blocks
	d.Stats = core.ComputeStats(blocks)
	return &d, version
}

// Wait blocks until the console version differs from since, the run
// finishes, or ctx is done, and returns the current blocks.
func (l *Live) Wait(ctx context.Context, since uint64) (blocks []core.Block, version uint64, done bool) {
	for {
		changed := l.console.Changed()
		blocks, version = l.console.Snapshot()
		done = l.finished()
		if version != since || done {
			return blocks, version, done
		}

		select {
		case <-ctx.Done():
			return blocks, version, false
		case <-changed:
		case <-l.done:
		}
	}
}
