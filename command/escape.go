package command

import "strings"

// mapping pairs a literal token with the sequence producers emit in its place.
type mapping struct {
	token   string
	escaped string
}

// Alphabet is an ordered list of escape mappings. Decoding applies the
// mappings one after another in list order, never as a single simultaneous
// pass, so existing producers stay bit-compatible.
type Alphabet []mapping

var (
	// TokenAlphabet escapes V1 command properties and data.
	TokenAlphabet = Alphabet{
		{";", "%3B"},
		{"\r", "%0D"},
		{"\n", "%0A"},
		{"]", "%5D"},
		{"%", "%25"},
	}

	// DataAlphabet escapes the V2 data payload.
	DataAlphabet = Alphabet{
		{"\r", "%0D"},
		{"\n", "%0A"},
		{"%", "%25"},
	}

	// PropertyAlphabet escapes V2 property values.
	PropertyAlphabet = Alphabet{
		{"\r", "%0D"},
		{"\n", "%0A"},
		{":", "%3A"},
		{",", "%2C"},
		{"%", "%25"},
	}
)

// Decode replaces every escape sequence with its token, in list order.
func (a Alphabet) Decode(s string) string {
	if s == "" {
		return ""
	}
	for _, m := range a {
		s = strings.ReplaceAll(s, m.escaped, m.token)
	}
	return s
}

// Encode is the producer side of Decode. Mappings are applied in reverse so
// that "%" is escaped before any sequence containing it is introduced.
func (a Alphabet) Encode(s string) string {
	if s == "" {
		return ""
	}
	for i := len(a) - 1; i >= 0; i-- {
		s = strings.ReplaceAll(s, a[i].token, a[i].escaped)
	}
	return s
}
