// Package render defines the interface for rendering action logs into
// various output formats.
package render

import (
	"io"

	"github.com/sonnes/actionlog/core"
)

// Renderer writes a document to the given writer in a specific format.
type Renderer interface {
	Render(w io.Writer, d *core.Document) error
}
