package terminal

import (
	"context"
	"io"

	"github.com/sonnes/actionlog/core"
)

// Follow prints blocks of a live console as they are appended, until ctx is
// done. A block that is replaced after it was printed is printed again.
// Blocks appended before ctx is done are always flushed.
func (r *Renderer) Follow(ctx context.Context, w io.Writer, c *core.Console) error {
	p := r.printer(0)
	var printed []core.Block
	for {
		changed := c.Changed()
		printed = p.flush(w, printed, c)

		select {
		case <-ctx.Done():
			p.flush(w, printed, c)
			return nil
		case <-changed:
		}
	}
}

// flush prints what differs between printed and the console and returns the
// new printed state.
func (p printer) flush(w io.Writer, printed []core.Block, c *core.Console) []core.Block {
	blocks, _ := c.Snapshot()
	if len(blocks) < len(printed) {
		// Console was cleared.
		printed = nil
	}
	for i, b := range blocks {
		if i < len(printed) && printed[i].Equal(b) {
			continue
		}
		p.block(w, b)
	}
	return blocks
}
