package markup

import (
	"html/template"
	"strings"
)

// HTML renders s as escaped HTML with markup converted to inline elements.
func HTML(s string) template.HTML {
	var b strings.Builder
	for _, sp := range Parse(s) {
		writeSpan(&b, sp)
	}
	return template.HTML(b.String())
}

func writeSpan(b *strings.Builder, sp Span) {
	text := template.HTMLEscapeString(sp.Text)
	st := sp.Style
	if st.Plain() {
		b.WriteString(text)
		return
	}

	var closers []string
	open := func(tag, attrs string) {
		b.WriteString("<" + tag + attrs + ">")
		closers = append(closers, "</"+tag+">")
	}

	if href := sp.LinkTarget(); href != "" {
		open("a", ` href="`+template.HTMLEscapeString(href)+`" rel="noopener noreferrer" target="_blank"`)
	}
	if st.Color != "" {
		open("span", ` style="color:`+st.Color+`"`)
	}
	if st.Bold {
		open("strong", "")
	}
	if st.Italic {
		open("em", "")
	}
	if st.Underline {
		open("u", "")
	}
	if st.Strike {
		open("s", "")
	}

	b.WriteString(text)
	for i := len(closers) - 1; i >= 0; i-- {
		b.WriteString(closers[i])
	}
}
