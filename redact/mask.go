package redact

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaskChar fills masked text when add-mask names no character.
const DefaultMaskChar = "•"

// maskWidth is how many mask characters replace each occurrence, regardless
// of the secret's length.
const maskWidth = 8

// Masks is the append-only list of literal strings registered during a
// session. Masks apply in registration order; each one sees the output of
// the previous one.
type Masks struct {
	rules []*literalRule
}

// ValidMaskChar reports whether char is exactly one character.
func ValidMaskChar(char string) bool {
	return utf8.RuneCountInString(char) == 1
}

// Add registers value. An empty char selects DefaultMaskChar. Blank values
// are ignored.
func (m *Masks) Add(value, char string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if char == "" {
		char = DefaultMaskChar
	}
	m.rules = append(m.rules, &literalRule{
		value: value,
		fill:  strings.Repeat(char, maskWidth),
	})
}

// Len returns the number of registered masks.
func (m *Masks) Len() int {
	return len(m.rules)
}

// Values returns the registered mask strings in order.
func (m *Masks) Values() []string {
	out := make([]string, len(m.rules))
	for i, r := range m.rules {
		out[i] = r.value
	}
	return out
}

// Reset drops every mask.
func (m *Masks) Reset() {
	m.rules = nil
}

// Apply redacts every registered mask from s.
func (m *Masks) Apply(s string) string {
	for _, r := range m.rules {
		s = replaceMatches(s, r)
	}
	return s
}

func replaceMatches(s string, r Rule) string {
	matches := r.Detect(s)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	pos := 0
	for _, m := range matches {
		b.WriteString(s[pos:m.Start])
		b.WriteString(r.Replacement(m))
		pos = m.End
	}
	b.WriteString(s[pos:])
	return b.String()
}
