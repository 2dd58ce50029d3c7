package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Span
	}{
		{
			name: "plain",
			in:   "hello world",
			want: []Span{{Text: "hello world"}},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
		{
			name: "bold",
			in:   "a [b]bold[/b] c",
			want: []Span{
				{Text: "a "},
				{Text: "bold", Style: Style{Bold: true}},
				{Text: " c"},
			},
		},
		{
			name: "nested",
			in:   "[color=red]red [i]both[/i][/color]",
			want: []Span{
				{Text: "red ", Style: Style{Color: "#ff0000"}},
				{Text: "both", Style: Style{Color: "#ff0000", Italic: true}},
			},
		},
		{
			name: "case insensitive",
			in:   "[B]x[/B]",
			want: []Span{{Text: "x", Style: Style{Bold: true}}},
		},
		{
			name: "unclosed extends to end",
			in:   "[u]under",
			want: []Span{{Text: "under", Style: Style{Underline: true}}},
		},
		{
			name: "stray close is literal",
			in:   "a[/b]c",
			want: []Span{{Text: "a[/b]c"}},
		},
		{
			name: "unknown tag is literal",
			in:   "[x]y[/x] [0/5]",
			want: []Span{{Text: "[x]y[/x] [0/5]"}},
		},
		{
			name: "bad color is literal",
			in:   "[color=nope]z",
			want: []Span{{Text: "[color=nope]z"}},
		},
		{
			name: "closing outer pops inner",
			in:   "[b][i]x[/b]y",
			want: []Span{
				{Text: "x", Style: Style{Bold: true, Italic: true}},
				{Text: "y"},
			},
		},
		{
			name: "url",
			in:   "[url=https://example.com]site[/url]",
			want: []Span{{Text: "site", Style: Style{URL: "https://example.com"}}},
		},
		{
			name: "unsafe url is literal",
			in:   "[url=javascript:alert(1)]x[/url]",
			want: []Span{{Text: "[url=javascript:alert(1)]x[/url]"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "Error: failed", Strip("[color=red]Error:[/color] [b]failed[/b]"))
	assert.Equal(t, "no markup", Strip("no markup"))
	assert.Equal(t, "[1/3] step", Strip("[1/3] step"))
}

func TestHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<script>", "&lt;script&gt;"},
		{"[b]x[/b]", "<strong>x</strong>"},
		{"[color=#2294f2]i[/color]", `<span style="color:#2294f2">i</span>`},
		{"[url]https://a.io[/url]", `<a href="https://a.io" rel="noopener noreferrer" target="_blank">https://a.io</a>`},
		{"[url]not a link[/url]", "not a link"},
		{"[b][i]&[/i][/b]", "<strong><em>&amp;</em></strong>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(HTML(tt.in)), tt.in)
	}
}

func TestNormalizeColor(t *testing.T) {
	c, ok := NormalizeColor(" Yellow ")
	assert.True(t, ok)
	assert.Equal(t, "#ffff00", c)

	c, ok = NormalizeColor("#ABC")
	assert.True(t, ok)
	assert.Equal(t, "#abc", c)

	_, ok = NormalizeColor("red;background:url(x)")
	assert.False(t, ok)
}
