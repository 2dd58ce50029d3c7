// Package scripterror recognizes the error lines shells print when a script
// fails, e.g. "action.sh: line 42: syntax error: unexpected token".
package scripterror

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/sonnes/actionlog/command"
)

var lineRE = regexp.MustCompile(`^(.*): line (\d+): (.+): (.+)$`)

// ScriptError is a structured shell error line.
type ScriptError struct {
	FilePath   string
	LineNumber int
	Title      string
	Message    string
}

// FromString parses s. ok is false when s is not a shell error line or its
// line number does not fit an int.
func FromString(s string) (ScriptError, bool) {
	m := lineRE.FindStringSubmatch(s)
	if m == nil {
		return ScriptError{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return ScriptError{}, false
	}
	return ScriptError{
		FilePath:   m[1],
		LineNumber: n,
		Title:      m[3],
		Message:    m[4],
	}, true
}

// Command converts e into an error command that renders as an alert.
func (e ScriptError) Command() command.Command {
	return command.Command{
		Name:       command.Error,
		Properties: map[string]string{"title": e.Title},
		Data:       fmt.Sprintf("At Line %d: %s", e.LineNumber, e.Message),
	}
}

// Rewrite returns line unchanged unless it is a shell error line, in which
// case it is re-encoded as an error command in format f.
func Rewrite(f command.Format, line string) string {
	e, ok := FromString(line)
	if !ok {
		return line
	}
	return command.Encode(f, e.Command())
}
