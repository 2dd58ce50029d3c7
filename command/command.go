// Package command recognizes the out-of-band control commands that installer
// and action scripts embed in their output, in both supported wire formats:
//
//	V1: ##[<command> key1=val1;key2=val2]<data>
//	V2: ::<command> key1=val1,key2=val2::<data>
package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Registered command names.
const (
	AddMask     = "add-mask"
	Notice      = "notice"
	Warning     = "warning"
	Error       = "error"
	Card        = "card"
	EndCard     = "endcard"
	Group       = "group"
	EndGroup    = "endgroup"
	SetLines    = "set-lines"
	ReplaceSelf = "replace-self"
)

// Names lists every command the dispatcher understands.
func Names() []string {
	return []string{
		AddMask, Notice, Warning, Error,
		Card, EndCard, Group, EndGroup,
		SetLines, ReplaceSelf,
	}
}

// Set is the registered command set a parser recognizes. Anything else is
// plain text, even when it is syntactically a command.
type Set map[string]struct{}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is registered.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Command is a single recognized command line.
type Command struct {
	Name       string
	Properties map[string]string
	Data       string
}

// Prop returns a property value and whether it was present.
func (c Command) Prop(key string) (string, bool) {
	v, ok := c.Properties[key]
	return v, ok
}

// BoolProp interprets a property as "true"/"false". ok is false when the
// property is missing or not a boolean literal.
func (c Command) BoolProp(key string) (value bool, ok bool) {
	v, present := c.Properties[key]
	if !present {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, false
	}
	return b, true
}

// Result is the outcome of a parse attempt: either a matched Command or
// NoMatch, meaning the line is plain text.
type Result struct {
	Command Command
	Matched bool
}

// NoMatch is the Result for any line that is not a registered command.
var NoMatch = Result{}

func matched(c Command) Result {
	return Result{Command: c, Matched: true}
}

// Format selects one of the two wire formats.
type Format int

const (
	V1 Format = iota + 1
	V2
)

func (f Format) String() string {
	switch f {
	case V1:
		return "v1"
	case V2:
		return "v2"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat converts "v1"/"v2" (case-insensitive) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v1", "1":
		return V1, nil
	case "v2", "2":
		return V2, nil
	default:
		return 0, fmt.Errorf("unknown command format %q", s)
	}
}

// Parse dispatches to the parser for f. An unknown format never matches.
func Parse(f Format, line string, registered Set) Result {
	switch f {
	case V1:
		return ParseV1(line, registered)
	case V2:
		return ParseV2(line, registered)
	default:
		return NoMatch
	}
}

// Encode renders c as a wire line in format f. Properties are written in
// key order so output is deterministic.
func Encode(f Format, c Command) string {
	keys := make([]string, 0, len(c.Properties))
	for k := range c.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	switch f {
	case V1:
		b.WriteString(v1Prefix)
		b.WriteString(c.Name)
		for i, k := range keys {
			if i == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte(';')
			}
			b.WriteString(k + "=" + TokenAlphabet.Encode(c.Properties[k]))
		}
		b.WriteByte(v1Suffix)
		b.WriteString(TokenAlphabet.Encode(c.Data))
	default:
		b.WriteString(v2Key)
		b.WriteString(c.Name)
		for i, k := range keys {
			if i == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte(',')
			}
			b.WriteString(k + "=" + PropertyAlphabet.Encode(c.Properties[k]))
		}
		b.WriteString(v2Key)
		b.WriteString(DataAlphabet.Encode(c.Data))
	}
	return b.String()
}
