package json

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sonnes/actionlog/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	d := &core.Document{
		ID:        "abc",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Lines:     1,
		Blocks:    []core.Block{core.NewTextBlock(1, "<b>&</b>", "")},
	}

	var buf bytes.Buffer
	require.NoError(t, (&Renderer{}).Render(&buf, d))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `"text":"<b>&</b>"`)
	assert.Contains(t, out, `"started_at":"2026-01-02T03:04:05Z"`)
	assert.NotContains(t, out, `"ended_at"`)
}

func TestRenderIndent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Renderer{Indent: true}).Render(&buf, &core.Document{ID: "abc"}))
	assert.Contains(t, buf.String(), "\n  \"id\": \"abc\"")
}

func TestDecode(t *testing.T) {
	group := core.NewGroupBlock(2, "g")
	group.AddLine(3, "x")
	code := 2
	want := &core.Document{
		ID:        "abc",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ExitCode:  &code,
		Lines:     3,
		Stats:     &core.Stats{Errors: 1},
		Blocks: []core.Block{
			core.NewAlertBlock(1, core.AlertError, "t", "boom"),
			*group,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, (&Renderer{}).Render(&buf, want))

	got, err := Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("{"))
	assert.Error(t, err)
}
