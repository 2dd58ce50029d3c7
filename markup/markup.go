// Package markup parses the BBCode subset scripts use to style action log
// text: [b], [i], [u], [s], [color=...] and [url=...].
//
// Blocks store text with its markup intact; renderers decide how to present
// it. Unknown or unbalanced closing tags are kept as literal text, and tags
// left open at the end of a line extend to its end.
package markup

import (
	"regexp"
	"strings"
)

// Style is the formatting in effect for a span.
type Style struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Color     string
	URL       string
}

// Plain reports whether s carries no formatting.
func (s Style) Plain() bool {
	return s == Style{}
}

// Span is a run of text with a single style.
type Span struct {
	Text  string
	Style Style
}

var tagRE = regexp.MustCompile(`(?i)^\[(/?)(b|i|u|s|color|url)(?:=([^\]\[]*))?\]`)

type frame struct {
	tag   string
	style Style
}

// Parse splits s into styled spans. Adjacent text with the same style is
// merged.
func Parse(s string) []Span {
	var (
		spans []Span
		stack []frame
		text  strings.Builder
	)
	current := func() Style {
		if len(stack) == 0 {
			return Style{}
		}
		return stack[len(stack)-1].style
	}
	flush := func() {
		if text.Len() == 0 {
			return
		}
		st := current()
		if n := len(spans); n > 0 && spans[n-1].Style == st {
			spans[n-1].Text += text.String()
		} else {
			spans = append(spans, Span{Text: text.String(), Style: st})
		}
		text.Reset()
	}

	for i := 0; i < len(s); {
		if s[i] != '[' {
			j := strings.IndexByte(s[i:], '[')
			if j < 0 {
				j = len(s) - i
			}
			text.WriteString(s[i : i+j])
			i += j
			continue
		}

		m := tagRE.FindStringSubmatch(s[i:])
		if m == nil {
			text.WriteByte('[')
			i++
			continue
		}
		closing, tag, arg := m[1] == "/", strings.ToLower(m[2]), m[3]

		if closing {
			idx := -1
			for k := len(stack) - 1; k >= 0; k-- {
				if stack[k].tag == tag {
					idx = k
					break
				}
			}
			if idx < 0 {
				text.WriteString(m[0])
				i += len(m[0])
				continue
			}
			flush()
			stack = stack[:idx]
			i += len(m[0])
			continue
		}

		next, ok := apply(current(), tag, arg)
		if !ok {
			text.WriteString(m[0])
			i += len(m[0])
			continue
		}
		flush()
		stack = append(stack, frame{tag: tag, style: next})
		i += len(m[0])
	}
	flush()
	return spans
}

// apply returns st with tag applied. ok is false for a tag whose argument
// is unusable, e.g. [color] without a value.
func apply(st Style, tag, arg string) (Style, bool) {
	arg = strings.TrimSpace(arg)
	switch tag {
	case "b":
		st.Bold = true
	case "i":
		st.Italic = true
	case "u":
		st.Underline = true
	case "s":
		st.Strike = true
	case "color":
		c, ok := NormalizeColor(arg)
		if !ok {
			return st, false
		}
		st.Color = c
	case "url":
		if arg != "" && !safeURL(arg) {
			return st, false
		}
		// [url]https://...[/url] links to its own text; resolved on render.
		st.URL = arg
		if arg == "" {
			st.URL = "self"
		}
	}
	return st, true
}

// Strip returns s with all recognized markup removed.
func Strip(s string) string {
	if !strings.ContainsRune(s, '[') {
		return s
	}
	var b strings.Builder
	for _, sp := range Parse(s) {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// LinkTarget returns the URL a span links to, or "" when it is not a link.
func (sp Span) LinkTarget() string {
	switch sp.Style.URL {
	case "":
		return ""
	case "self":
		if safeURL(sp.Text) {
			return sp.Text
		}
		return ""
	default:
		return sp.Style.URL
	}
}

func safeURL(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://")
}
