// Package compact provides a Transformer that replaces verbose group and card
// bodies with short summaries for compact action log viewing.
package compact

import (
	"fmt"
	"strings"

	"github.com/sonnes/actionlog/core"
)

// Config controls the compact transformer behavior.
type Config struct {
	// StripText drops plain text blocks, leaving alerts and the group and
	// card summaries.
	StripText bool
}

// Compactor replaces group and card bodies with line-count summaries.
type Compactor struct {
	stripText bool
}

// New creates a Compactor from the given config.
func New(cfg Config) *Compactor {
	return &Compactor{stripText: cfg.StripText}
}

// Transform implements core.Transformer.
func (c *Compactor) Transform(d *core.Document) error {
	if c.stripText {
		d.Blocks = filterText(d.Blocks)
	}
	for i := range d.Blocks {
		c.compactBlock(&d.Blocks[i])
	}
	return nil
}

func filterText(blocks []core.Block) []core.Block {
	out := make([]core.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Type != core.BlockText {
			out = append(out, b)
		}
	}
	return out
}

func (c *Compactor) compactBlock(b *core.Block) {
	switch b.Type {
	case core.BlockGroup:
		summarizeLines(b, "output")
	case core.BlockCard:
		summarizeLines(b, "card")
	}
}

// summarizeLines collapses the folded lines of b into a single line numbered
// like the first one. Blocks with at most one line are left alone.
func summarizeLines(b *core.Block, label string) {
	if len(b.Lines) <= 1 {
		return
	}
	texts := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		texts[i] = l.Text
	}
	b.Lines = []core.Line{{
		Number: b.Lines[0].Number,
		Text:   lineSummary(label, strings.Join(texts, "\n")),
	}}
}

// lineSummary returns a summary like "[output: 245 lines]" or "[card: 12 lines]".
func lineSummary(label, s string) string {
	n := core.CountLines(s)
	if n == 1 {
		return fmt.Sprintf("[%s: 1 line]", label)
	}
	return fmt.Sprintf("[%s: %d lines]", label, n)
}
