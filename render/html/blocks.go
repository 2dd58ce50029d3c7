package html

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/sonnes/actionlog/core"
	"github.com/sonnes/actionlog/markup"
	"github.com/yuin/goldmark"
)

// renderBlock dispatches to the appropriate block renderer based on type.
func renderBlock(b core.Block) (template.HTML, error) {
	switch b.Type {
	case core.BlockText:
		return renderTextBlock(b), nil
	case core.BlockAlert:
		return renderAlertBlock(b), nil
	case core.BlockGroup:
		return renderGroupBlock(b), nil
	case core.BlockCard:
		return renderCardBlock(b), nil
	default:
		return "", fmt.Errorf("unknown block type: %s", b.Type)
	}
}

// lineHTML renders a single numbered line. extra is appended to the class
// attribute.
func lineHTML(n int, text template.HTML, extra, attrs string) string {
	id := "L" + strconv.Itoa(n)
	return `<div class="line` + extra + `" id="` + id + `"` + attrs + `>` +
		`<a class="ln" href="#` + id + `">` + strconv.Itoa(n) + `</a>` +
		`<span class="tx">` + string(text) + `</span>` +
		`</div>`
}

func renderTextBlock(b core.Block) template.HTML {
	attrs := ""
	if b.Key != "" {
		attrs = ` data-key="` + template.HTMLEscapeString(b.Key) + `"`
	}
	return template.HTML(lineHTML(b.LineNumber, markup.HTML(b.Text), "", attrs))
}

func renderAlertBlock(b core.Block) template.HTML {
	label := b.Title
	if label == "" {
		label = b.Alert.Label()
	}
	text := `<span class="alert-label">` + string(markup.HTML(label)) + `:</span> ` + string(markup.HTML(b.Text))
	return template.HTML(lineHTML(b.LineNumber, template.HTML(text), " alert alert-"+string(b.Alert), ""))
}

func renderLines(lines []core.Line) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(lineHTML(l.Number, markup.HTML(l.Text), "", ""))
	}
	return sb.String()
}

func renderGroupBlock(b core.Block) template.HTML {
	open := ""
	if b.Expanded {
		open = " open"
	}
	title := b.Title
	if title == "" {
		title = "Group"
	}
	id := "L" + strconv.Itoa(b.StartLine)
	h := `<details class="group" id="` + id + `"` + open + `>` +
		`<summary><a class="ln" href="#` + id + `">` + strconv.Itoa(b.StartLine) + `</a>` +
		`<span class="group-title">` + string(markup.HTML(title)) + `</span>` +
		`<span class="count">` + strconv.Itoa(len(b.Lines)) + ` lines</span></summary>` +
		renderLines(b.Lines) +
		`</details>`
	return template.HTML(h)
}

func renderCardBlock(b core.Block) template.HTML {
	return template.HTML(`<div class="card">` + renderLines(b.Lines) + `</div>`)
}

// renderSource highlights src by converting it as a fenced code block.
func renderSource(md goldmark.Markdown, src, lang string) (template.HTML, error) {
	f := fence(src)
	var buf bytes.Buffer
	if err := md.Convert([]byte(f+lang+"\n"+src+"\n"+f+"\n"), &buf); err != nil {
		return "", fmt.Errorf("goldmark convert: %w", err)
	}
	return template.HTML(`<div class="source-code">` + buf.String() + `</div>`), nil
}

// fence returns a backtick fence longer than any backtick run in src.
func fence(src string) string {
	longest, run := 0, 0
	for _, r := range src {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
