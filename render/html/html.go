// Package html renders action logs as standalone HTML pages, with the
// script source highlighted via goldmark + chroma.
package html

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/sonnes/actionlog/core"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

//go:embed templates/*.html
var content embed.FS

// Renderer renders a document to a standalone HTML page.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template

	// HideLineNumbers omits the line number gutter.
	HideLineNumbers bool
	// SourceLanguage is the chroma lexer used for the script source.
	SourceLanguage string
}

// New creates an HTML Renderer with goldmark configured for GFM and syntax highlighting.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("dracula"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles for standalone pages
					chromahtml.WithLineNumbers(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)

	tmpl := template.Must(
		template.New("page.html").
			Funcs(funcMap()).
			ParseFS(content, "templates/*.html"),
	)

	return &Renderer{md: md, tmpl: tmpl, SourceLanguage: "bash"}
}

// pageData is the top-level template data passed to page.html.
type pageData struct {
	Doc             *core.Document
	Title           string
	Status          string
	Duration        string
	Blocks          []template.HTML
	Source          template.HTML
	HideLineNumbers bool

	// LiveURL, when set, makes the page poll for new blocks.
	LiveURL string
	Version uint64
}

// indexData is the template data passed to index.html.
type indexData struct {
	Runs []core.RunEntry
}

// Render writes the document as a complete HTML page to w.
func (r *Renderer) Render(w io.Writer, d *core.Document) error {
	data, err := r.page(d)
	if err != nil {
		return err
	}
	return r.tmpl.ExecuteTemplate(w, "page.html", data)
}

// RenderLive writes a page that keeps itself current by polling liveURL
// with the console version it was rendered at.
func (r *Renderer) RenderLive(w io.Writer, d *core.Document, version uint64, liveURL string) error {
	data, err := r.page(d)
	if err != nil {
		return err
	}
	data.LiveURL = liveURL
	data.Version = version
	return r.tmpl.ExecuteTemplate(w, "page.html", data)
}

// RenderBlocks writes only the block markup, the fragment live pages swap in.
func (r *Renderer) RenderBlocks(w io.Writer, blocks []core.Block) error {
	for _, b := range blocks {
		h, err := renderBlock(b)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, string(h)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// RenderIndex writes an HTML index page listing the given runs to w.
// Runs are sorted newest-first by StartedAt.
func (r *Renderer) RenderIndex(w io.Writer, runs []core.RunEntry) error {
	sorted := make([]core.RunEntry, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})
	return r.tmpl.ExecuteTemplate(w, "index.html", indexData{Runs: sorted})
}

func (r *Renderer) page(d *core.Document) (pageData, error) {
	data := pageData{
		Doc:             d,
		Title:           documentTitle(d),
		Status:          d.Status(),
		HideLineNumbers: r.HideLineNumbers,
	}
	if dur := d.Duration(); dur > 0 {
		data.Duration = core.FormatDuration(dur)
	}

	for _, b := range d.Blocks {
		h, err := renderBlock(b)
		if err != nil {
			return pageData{}, fmt.Errorf("render %s block: %w", b.Type, err)
		}
		data.Blocks = append(data.Blocks, h)
	}

	if d.Source != "" {
		src, err := renderSource(r.md, d.Source, r.SourceLanguage)
		if err != nil {
			return pageData{}, fmt.Errorf("render source: %w", err)
		}
		data.Source = src
	}
	return data, nil
}

func documentTitle(d *core.Document) string {
	switch {
	case d.Title != "":
		return d.Title
	case d.Script != "":
		return d.Script
	case d.ID != "":
		return "Run " + d.ID
	default:
		return "Action log"
	}
}
