package core

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// escapedNewlineRE matches a literal backslash-n left in script output.
var escapedNewlineRE = regexp.MustCompile(`\\n`)

// lineEndingRE matches any line-ending convention.
var lineEndingRE = regexp.MustCompile("\r\n|\r|\n")

// FixNewLines turns literal "\n" sequences into newlines and normalizes every
// line ending to "\n". Applying it twice gives the same result as once.
func FixNewLines(s string) string {
	if s == "" {
		return s
	}
	s = escapedNewlineRE.ReplaceAllString(s, "\n")
	return lineEndingRE.ReplaceAllString(s, "\n")
}

// StripANSI removes terminal escape sequences (colors, cursor movement) that
// scripts emit when they believe they are writing to a TTY.
func StripANSI(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	return ansi.Strip(s)
}

// CountLines returns the number of lines in s.
// An empty string has 0 lines. A string with no newline has 1 line.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n") + 1
	if strings.HasSuffix(s, "\n") {
		n--
	}
	return n
}
