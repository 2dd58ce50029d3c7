package redact

import "github.com/sonnes/actionlog/core"

// walkBlock applies fn to every user-visible string in b.
func walkBlock(b *core.Block, fn func(string) string) {
	b.Text = fn(b.Text)
	b.Title = fn(b.Title)
	for i := range b.Lines {
		b.Lines[i].Text = fn(b.Lines[i].Text)
	}
}
