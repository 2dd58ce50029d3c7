package command

import (
	"strings"
	"unicode"
)

const (
	v1Prefix      = "##["
	v1Suffix      = ']'
	v1PropSep     = ";"
	v2Key         = "::"
	v2PropSep     = ","
	keyValueSep   = "="
	nameSeparator = " "
)

// ParseV1 recognizes "##[<command>[ k=v;k=v]]<data>" anywhere in line.
//
// Property values and data are both decoded with TokenAlphabet. V2 uses a
// dedicated property alphabet; V1 never did, and producers rely on that.
func ParseV1(line string, registered Set) Result {
	if strings.TrimSpace(line) == "" {
		return NoMatch
	}

	start := strings.Index(line, v1Prefix)
	if start < 0 {
		return NoMatch
	}
	rest := line[start+len(v1Prefix):]

	end := strings.IndexByte(rest, v1Suffix)
	if end < 0 {
		return NoMatch
	}

	name, props := splitInfo(rest[:end])
	if !registered.Has(name) {
		return NoMatch
	}

	return matched(Command{
		Name:       name,
		Properties: parseProperties(props, v1PropSep, TokenAlphabet),
		Data:       TokenAlphabet.Decode(rest[end+1:]),
	})
}

// ParseV2 recognizes "::<command>[ k=v,k=v]::<data>" at the start of line,
// ignoring leading whitespace.
func ParseV2(line string, registered Set) Result {
	if strings.TrimSpace(line) == "" {
		return NoMatch
	}

	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if !strings.HasPrefix(trimmed, v2Key) {
		return NoMatch
	}

	end := strings.Index(trimmed[len(v2Key):], v2Key)
	if end < 0 {
		return NoMatch
	}
	end += len(v2Key)

	name, props := splitInfo(trimmed[len(v2Key):end])
	if !registered.Has(name) {
		return NoMatch
	}

	return matched(Command{
		Name:       name,
		Properties: parseProperties(strings.TrimSpace(props), v2PropSep, PropertyAlphabet),
		Data:       DataAlphabet.Decode(trimmed[end+len(v2Key):]),
	})
}

// splitInfo separates the command name from its property list at the first
// space. props is empty when there is no space.
func splitInfo(info string) (name, props string) {
	name, props, _ = strings.Cut(info, nameSeparator)
	return name, props
}

// parseProperties splits a property list on sep. Pairs are split on the first
// "=" only, so values may contain "=". Entries without "=" are dropped.
func parseProperties(s, sep string, alphabet Alphabet) map[string]string {
	props := make(map[string]string)
	if s == "" {
		return props
	}
	for _, entry := range strings.Split(s, sep) {
		if entry == "" {
			continue
		}
		pair := strings.SplitN(entry, keyValueSep, 2)
		if len(pair) != 2 {
			continue
		}
		props[pair[0]] = alphabet.Decode(pair[1])
	}
	return props
}
