package core

import "sync"

// Console is the live document a session writes to. It only grows, except
// for in-place replacement of a single block, and is safe for one writer and
// any number of concurrent readers.
//
// Every mutation bumps Version and closes the channel handed out by Changed,
// so observers can either poll the version or block until the next change.
type Console struct {
	mu      sync.RWMutex
	blocks  []Block
	version uint64
	changed chan struct{}
}

// NewConsole returns an empty console.
func NewConsole() *Console {
	return &Console{changed: make(chan struct{})}
}

// Append adds b to the end of the console. No deduplication is done.
func (c *Console) Append(b Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = append(c.blocks, b)
	c.bumpLocked()
}

// Replace overwrites the block at index i. It reports false if i is out of
// range.
func (c *Console) Replace(i int, b Block) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.blocks) {
		return false
	}
	c.blocks[i] = b
	c.bumpLocked()
	return true
}

// FindKey returns the index of the first text block whose key equals key.
func (c *Console) FindKey(key string) (int, Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, b := range c.blocks {
		if b.Type == BlockText && b.Key == key {
			return i, b, true
		}
	}
	return -1, Block{}, false
}

// Clear removes every block.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = nil
	c.bumpLocked()
}

// Len returns the number of blocks.
func (c *Console) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// At returns the block at index i.
func (c *Console) At(i int) (Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.blocks) {
		return Block{}, false
	}
	return c.blocks[i], true
}

// Snapshot returns a copy of the blocks together with the version it was
// taken at.
func (c *Console) Snapshot() ([]Block, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Block, len(c.blocks))
	for i, b := range c.blocks {
		out[i] = b.Clone()
	}
	return out, c.version
}

// Version returns the mutation counter.
func (c *Console) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Changed returns a channel that is closed on the next mutation.
func (c *Console) Changed() <-chan struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.changed
}

func (c *Console) bumpLocked() {
	c.version++
	close(c.changed)
	c.changed = make(chan struct{})
}
