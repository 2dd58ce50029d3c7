// Package json renders action logs as JSON (serializes the document as-is).
package json

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sonnes/actionlog/core"
)

// Renderer renders a document to JSON.
type Renderer struct {
	// Indent controls pretty-printing. When true, output is indented.
	Indent bool
}

// Render writes d to w as a single JSON object followed by a newline.
func (r *Renderer) Render(w io.Writer, d *core.Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// Decode reads a document previously written by Render.
func Decode(rd io.Reader) (*core.Document, error) {
	var d core.Document
	if err := json.NewDecoder(rd).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &d, nil
}
