package html

import (
	"strings"
	"testing"

	"github.com/sonnes/actionlog/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTextBlock(t *testing.T) {
	h, err := renderBlock(core.NewTextBlock(12, "a < b [color=red]c[/color]", ""))
	require.NoError(t, err)
	assert.Equal(t,
		`<div class="line" id="L12"><a class="ln" href="#L12">12</a>`+
			`<span class="tx">a &lt; b <span style="color:#ff0000">c</span></span></div>`,
		string(h))
}

func TestRenderAlertBlock(t *testing.T) {
	tests := []struct {
		block core.Block
		want  []string
	}{
		{
			block: core.NewAlertBlock(2, core.AlertWarning, "", "careful"),
			want:  []string{`class="line alert alert-warning"`, `<span class="alert-label">Warning:</span> careful`},
		},
		{
			block: core.NewAlertBlock(3, core.AlertError, "Syntax error", "At Line 3"),
			want:  []string{`alert-error`, `<span class="alert-label">Syntax error:</span> At Line 3`},
		},
	}
	for _, tt := range tests {
		h, err := renderBlock(tt.block)
		require.NoError(t, err)
		for _, w := range tt.want {
			assert.Contains(t, string(h), w)
		}
	}
}

func TestRenderGroupBlock(t *testing.T) {
	g := core.NewGroupBlock(5, "")
	g.AddLine(6, "x")
	g.AddLine(7, "y")

	h, err := renderBlock(*g)
	require.NoError(t, err)
	out := string(h)
	assert.True(t, strings.HasPrefix(out, `<details class="group" id="L5">`))
	assert.Contains(t, out, `<span class="group-title">Group</span>`)
	assert.Contains(t, out, "2 lines")
	assert.Contains(t, out, `id="L7"`)

	g.Expanded = true
	h, err = renderBlock(*g)
	require.NoError(t, err)
	assert.Contains(t, string(h), `<details class="group" id="L5" open>`)
}

func TestRenderCardBlock(t *testing.T) {
	c := core.NewCardBlock()
	c.AddLine(1, "one")
	h, err := renderBlock(*c)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(h), `<div class="card"><div class="line" id="L1">`))
}

func TestRenderSource(t *testing.T) {
	h, err := renderSource(New().md, "echo hi\n", "bash")
	require.NoError(t, err)
	out := string(h)
	assert.Contains(t, out, "<pre")
	assert.Contains(t, out, "style=")
	assert.Contains(t, out, "echo")
}

func TestFence(t *testing.T) {
	assert.Equal(t, "```", fence("echo hi"))
	assert.Equal(t, "````", fence("cat <<EOF\n```\nEOF"))
	assert.Equal(t, "``````", fence("`````"))
}
