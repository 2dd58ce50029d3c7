package scripterror

import (
	"testing"

	"github.com/sonnes/actionlog/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ScriptError
		ok   bool
	}{
		{
			name: "shell error",
			in:   "build.sh: line 42: SyntaxError: unexpected token",
			want: ScriptError{FilePath: "build.sh", LineNumber: 42, Title: "SyntaxError", Message: "unexpected token"},
			ok:   true,
		},
		{
			name: "absolute path",
			in:   "/data/adb/modules/foo/action.sh: line 7: busybox: not found",
			want: ScriptError{FilePath: "/data/adb/modules/foo/action.sh", LineNumber: 7, Title: "busybox", Message: "not found"},
			ok:   true,
		},
		{
			name: "greedy path keeps last separators for title and message",
			in:   "a: line 1: b: line 2: c: d",
			want: ScriptError{FilePath: "a: line 1: b", LineNumber: 2, Title: "c", Message: "d"},
			ok:   true,
		},
		{name: "plain", in: "not a matching line"},
		{name: "missing message", in: "x.sh: line 3: oops"},
		{name: "line number overflow", in: "x.sh: line 99999999999999999999: t: m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromString(tt.in)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewrite(t *testing.T) {
	assert.Equal(t, "plain output", Rewrite(command.V2, "plain output"))
	assert.Equal(t,
		"::error title=syntax error::At Line 3: unexpected EOF",
		Rewrite(command.V2, "x.sh: line 3: syntax error: unexpected EOF"))
	assert.Equal(t,
		"##[error title=syntax error]At Line 3: unexpected EOF",
		Rewrite(command.V1, "x.sh: line 3: syntax error: unexpected EOF"))
}
