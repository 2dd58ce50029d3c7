// Package terminal renders action logs as ANSI-colored text.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/sonnes/actionlog/core"
	"github.com/sonnes/actionlog/markup"
)

const (
	defaultWidth = 100
	minGutter    = 3
)

// Renderer pretty-prints an action log to the terminal.
type Renderer struct {
	// Width overrides terminal width detection. Zero means auto-detect.
	Width int
	// LineNumbers prefixes every line with its input line number.
	LineNumbers bool
	// Expand shows the lines of every group, not only expanded ones.
	Expand bool
}

// New creates a terminal Renderer with line numbers enabled.
func New() *Renderer {
	return &Renderer{LineNumbers: true}
}

// Render writes the document header followed by every block to w.
func (r *Renderer) Render(w io.Writer, d *core.Document) error {
	width := r.termWidth()
	writeHeader(w, d, width)
	writeSeparator(w, width)

	p := r.printer(d.Lines)
	for _, b := range d.Blocks {
		p.block(w, b)
	}

	fmt.Fprintln(w)
	return nil
}

// Summary writes only the document header, closed by a separator. It ends
// a run whose blocks were already printed by Follow.
func (r *Renderer) Summary(w io.Writer, d *core.Document) {
	width := r.termWidth()
	fmt.Fprintln(w)
	writeSeparator(w, width)
	writeHeader(w, d, width)
}

func (r *Renderer) termWidth() int {
	if r.Width > 0 {
		return r.Width
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

func (r *Renderer) printer(lines int) printer {
	gutter := 0
	if r.LineNumbers {
		gutter = max(len(strconv.Itoa(lines)), minGutter)
	}
	return printer{width: r.termWidth(), gutter: gutter, expand: r.Expand}
}

// writeHeader renders the run metadata block.
func writeHeader(w io.Writer, d *core.Document, width int) {
	title := d.Title
	if title == "" && d.ID != "" {
		title = "Run " + d.ID
	}
	row1 := styleTitle.Render(truncate(title, width-20))
	if status := statusBadge(d); status != "" {
		row1 += "  " + status
	}
	fmt.Fprintln(w, row1)

	var parts []string
	if d.Script != "" {
		parts = append(parts, d.Script)
	}
	if !d.StartedAt.IsZero() {
		parts = append(parts, core.RelativeTime(d.StartedAt))
	}
	if dur := d.Duration(); dur > 0 {
		parts = append(parts, core.FormatDuration(dur))
	}
	if d.Lines > 0 {
		parts = append(parts, formatNumber(d.Lines)+" lines")
	}
	if len(parts) > 0 {
		fmt.Fprintln(w, styleMeta.Render(strings.Join(parts, "  ")))
	}

	if d.Stats != nil {
		fmt.Fprintln(w)
		writeStats(w, d.Stats)
	}
}

func statusBadge(d *core.Document) string {
	switch {
	case d.ExitCode == nil:
		return ""
	case *d.ExitCode == 0:
		return styleSuccess.Render("✔ passed")
	default:
		return styleError.Render(fmt.Sprintf("✖ exit %d", *d.ExitCode))
	}
}

// writeStats renders alert counters in two rows: values then labels.
func writeStats(w io.Writer, s *core.Stats) {
	type stat struct {
		value int
		label string
	}
	stats := []stat{
		{s.Notices, "NOTICES"},
		{s.Warnings, "WARNINGS"},
		{s.Errors, "ERRORS"},
	}

	var values, labels []string
	for _, s := range stats {
		formatted := formatNumber(s.value)
		colWidth := max(len(formatted), len(s.label))
		values = append(values, fmt.Sprintf("%*s", colWidth, formatted))
		labels = append(labels, fmt.Sprintf("%-*s", colWidth, s.label))
	}

	fmt.Fprintln(w, "  "+styleStat.Render(strings.Join(values, "    ")))
	fmt.Fprintln(w, "  "+styleStatLabel.Render(strings.Join(labels, "    ")))
}

// writeSeparator renders a horizontal rule.
func writeSeparator(w io.Writer, width int) {
	n := min(width, 72)
	fmt.Fprintln(w, styleSeparator.Render(strings.Repeat("─", n)))
}

// printer writes single blocks. gutter is the line number column width, zero
// when line numbers are off.
type printer struct {
	width  int
	gutter int
	expand bool
}

func (p printer) block(w io.Writer, b core.Block) {
	switch b.Type {
	case core.BlockText:
		p.lines(w, b.LineNumber, b.Text, "")
	case core.BlockAlert:
		p.alert(w, b)
	case core.BlockGroup:
		p.group(w, b)
	case core.BlockCard:
		p.card(w, b)
	}
}

// number renders the gutter for line n, or blank padding when n is zero.
func (p printer) number(n int) string {
	if p.gutter == 0 {
		return ""
	}
	if n == 0 {
		return strings.Repeat(" ", p.gutter) + "  "
	}
	return styleLine.Render(fmt.Sprintf("%*d", p.gutter, n)) + "  "
}

// lines writes text that may span several physical lines. Only the first
// carries the line number.
func (p printer) lines(w io.Writer, n int, text, prefix string) {
	for i, line := range strings.Split(text, "\n") {
		num := n
		if i > 0 {
			num = 0
		}
		fmt.Fprintln(w, p.number(num)+prefix+styled(line))
	}
}

func (p printer) alert(w io.Writer, b core.Block) {
	style := alertStyle(b.Alert)
	header := style.Render(alertIcon(b.Alert) + " " + b.Alert.Label())
	if b.Title != "" {
		header += "  " + styleTitle.Render(markup.Strip(b.Title))
	}
	fmt.Fprintln(w, p.number(b.LineNumber)+header)
	p.lines(w, 0, b.Text, style.Render("│")+" ")
}

func (p printer) group(w io.Writer, b core.Block) {
	open := p.expand || b.Expanded
	marker := "▸"
	if open {
		marker = "▾"
	}
	title := b.Title
	if title == "" {
		title = "Group"
	}
	header := styleGroup.Render(marker + " " + markup.Strip(title))
	header += "  " + styleMeta.Render(fmt.Sprintf("(%d lines)", len(b.Lines)))
	fmt.Fprintln(w, p.number(b.StartLine)+header)

	if !open {
		return
	}
	bar := styleGroup.Render("│") + " "
	for _, l := range b.Lines {
		p.lines(w, l.Number, l.Text, bar)
	}
}

func (p printer) card(w io.Writer, b core.Block) {
	if len(b.Lines) == 0 {
		return
	}
	inner := max(p.width-p.gutter-6, 20)
	body := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		body[i] = styled(l.Text)
	}
	box := styleCard.Width(inner + 2).Render(strings.Join(body, "\n"))

	first := b.Lines[0].Number
	for i, line := range strings.Split(box, "\n") {
		num := 0
		if i == 1 {
			num = first
		}
		fmt.Fprintln(w, p.number(num)+line)
	}
}

func alertStyle(a core.AlertType) lipgloss.Style {
	switch a {
	case core.AlertWarning:
		return styleWarning
	case core.AlertError:
		return styleError
	default:
		return styleNotice
	}
}

func alertIcon(a core.AlertType) string {
	switch a {
	case core.AlertWarning:
		return "⚠"
	case core.AlertError:
		return "✖"
	default:
		return "ℹ"
	}
}

// styled converts inline markup to terminal styles.
func styled(s string) string {
	if !strings.ContainsRune(s, '[') {
		return s
	}
	var b strings.Builder
	for _, sp := range markup.Parse(s) {
		if sp.Style.Plain() {
			b.WriteString(sp.Text)
			continue
		}
		st := lipgloss.NewStyle().
			Bold(sp.Style.Bold).
			Italic(sp.Style.Italic).
			Underline(sp.Style.Underline || sp.LinkTarget() != "").
			Strikethrough(sp.Style.Strike)
		if sp.Style.Color != "" {
			st = st.Foreground(lipgloss.Color(sp.Style.Color))
		}
		b.WriteString(st.Render(sp.Text))
	}
	return b.String()
}

// truncate shortens text to maxWidth, appending "..." if needed.
// Multi-line text is reduced to the first line.
func truncate(s string, maxWidth int) string {
	if maxWidth < 4 {
		maxWidth = 4
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumber(n/1000) + "," + fmt.Sprintf("%03d", n%1000)
}
