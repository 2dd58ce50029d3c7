package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/actionlog/config"
	"github.com/sonnes/actionlog/core"
)

// runCLI runs the root command with args against a missing config file and
// returns what it wrote to stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvPath, filepath.Join(t.TempDir(), "config.yaml"))

	var out bytes.Buffer
	root := newRoot()
	root.Writer = &out
	root.ErrWriter = io.Discard
	root.Reader = strings.NewReader(stdin)
	root.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	err := root.Run(context.Background(), append([]string{"actionlog"}, args...))
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodeDocument(t *testing.T, out string) *core.Document {
	t.Helper()
	var d core.Document
	require.NoError(t, json.Unmarshal([]byte(out), &d), out)
	return &d
}

const buildLog = `Building
::group::Install
npm ci
added 12 packages
::endgroup::
::warning title=Lint::unused variable
::add-mask::hunter2
password is hunter2
`

func TestRenderLogFile(t *testing.T) {
	path := writeTemp(t, "build.log", buildLog)

	out, err := runCLI(t, "", "render", "-o", "json", path)
	require.NoError(t, err)

	d := decodeDocument(t, out)
	assert.Equal(t, path, d.Script)
	assert.Equal(t, 8, d.Lines)
	assert.Equal(t, "v2", d.Format)
	require.Len(t, d.Blocks, 4)
	assert.Equal(t, core.BlockGroup, d.Blocks[1].Type)
	assert.Len(t, d.Blocks[1].Lines, 2)
	assert.Equal(t, "unused variable", d.Blocks[2].Text)
	assert.Equal(t, "password is ••••••••", d.Blocks[3].Text)
	assert.Equal(t, &core.Stats{Warnings: 1}, d.Stats)
}

func TestRenderStdin(t *testing.T) {
	out, err := runCLI(t, "##[error]broken\nok\n", "render", "-o", "json", "--format", "v1,v2", "-")
	require.NoError(t, err)

	d := decodeDocument(t, out)
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, core.AlertError, d.Blocks[0].Alert)
	assert.Equal(t, "v1,v2", d.Format)
	assert.Empty(t, d.Script)
}

func TestRenderCompact(t *testing.T) {
	path := writeTemp(t, "build.log", buildLog)

	out, err := runCLI(t, "", "render", "-o", "json", "--compact", "--strip-text", path)
	require.NoError(t, err)

	d := decodeDocument(t, out)
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, "[output: 2 lines]", d.Blocks[0].Lines[0].Text)
}

func TestRenderTerminal(t *testing.T) {
	path := writeTemp(t, "build.log", buildLog)

	out, err := runCLI(t, "", "render", "--title", "Nightly", path)
	require.NoError(t, err)

	out = ansi.Strip(out)
	assert.Contains(t, out, "Nightly")
	assert.Contains(t, out, "Install")
	assert.Contains(t, out, "unused variable")
	assert.NotContains(t, out, "hunter2")
}

func TestRenderSavedRunRedacts(t *testing.T) {
	code := 0
	saved, err := json.Marshal(core.Document{
		ID:       "run-1",
		ExitCode: &code,
		Blocks:   []core.Block{core.NewTextBlock(1, "mail dev@example.com", "")},
	})
	require.NoError(t, err)
	path := writeTemp(t, "run-1.json", string(saved))

	out, err := runCLI(t, "", "render", "-o", "json", "--redact", "pii", path)
	require.NoError(t, err)

	d := decodeDocument(t, out)
	assert.Equal(t, "run-1", d.ID)
	assert.Equal(t, "mail [REDACTED:email]", d.Blocks[0].Text)
}

func TestRenderErrors(t *testing.T) {
	path := writeTemp(t, "build.log", buildLog)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown output", []string{"render", "-o", "pdf", path}},
		{"unknown format", []string{"render", "--format", "v3", path}},
		{"unknown redaction rule", []string{"render", "--redact", "everything", path}},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "nope.log")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestRunSavesDocument(t *testing.T) {
	script := writeTemp(t, "build.sh", `echo "::notice title=Start::building"
echo "::add-mask::s3cret"
echo "token s3cret"
echo "::group::Steps"
echo one
echo "::endgroup::"
`)
	dir := t.TempDir()

	out, err := runCLI(t, "", "run", "-o", "json", "--dir", dir, "--title", "Build", script)
	require.NoError(t, err)

	d := decodeDocument(t, out)
	assert.Equal(t, "Build", d.Title)
	assert.Equal(t, script, d.Script)
	require.NotNil(t, d.ExitCode)
	assert.Equal(t, 0, *d.ExitCode)
	assert.Equal(t, core.StatusPassed, d.Status())
	require.NotNil(t, d.EndedAt)
	require.Len(t, d.Blocks, 3)
	assert.Equal(t, "token ••••••••", d.Blocks[1].Text)
	assert.Contains(t, d.Source, "::add-mask::")
	assert.NotContains(t, d.Source, "s3cret")

	for _, p := range []string{
		filepath.Join(dir, "manifest.json"),
		filepath.Join(dir, "index.html"),
		filepath.Join(dir, "runs", d.ID+".json"),
		filepath.Join(dir, "runs", d.ID+".html"),
	} {
		assert.FileExists(t, p)
	}
}

func TestRunTerminal(t *testing.T) {
	script := writeTemp(t, "hello.sh", "echo hello\necho '::warning::careful'\n")

	out, err := runCLI(t, "", "run", script)
	require.NoError(t, err)

	out = ansi.Strip(out)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "✔ passed")
	assert.Less(t, strings.Index(out, "hello"), strings.Index(out, "✔ passed"))
}

func TestRunExitCode(t *testing.T) {
	script := writeTemp(t, "fail.sh", "echo nope\nexit 3\n")

	out, err := runCLI(t, "", "run", "-o", "json", script)
	require.Error(t, err)

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())

	d := decodeDocument(t, out)
	assert.Equal(t, core.StatusFailed, d.Status())
}

func TestRunShellErrors(t *testing.T) {
	script := writeTemp(t, "broken.sh", "definitely-not-a-command-xyz\n")

	out, err := runCLI(t, "", "run", "-o", "json", "--shell", "bash", script)
	require.Error(t, err)

	d := decodeDocument(t, out)
	require.NotEmpty(t, d.Blocks)
	assert.Equal(t, core.AlertError, d.Blocks[0].Alert)
	assert.Equal(t, "definitely-not-a-command-xyz", d.Blocks[0].Title)
	assert.Equal(t, "At Line 1: command not found", d.Blocks[0].Text)
}

func TestRunRequiresScript(t *testing.T) {
	_, err := runCLI(t, "", "run")
	assert.ErrorContains(t, err, "script")
}

func TestScriptReader(t *testing.T) {
	plain := writeTemp(t, "plain.sh", "echo hi\n")
	exe := writeTemp(t, "exe.sh", "#!/bin/sh\necho hi\n")
	require.NoError(t, os.Chmod(exe, 0o755))

	r := scriptReader([]string{plain, "a"}, "")
	assert.Equal(t, "sh", r.Name)
	assert.Equal(t, []string{plain, "a"}, r.Args)

	r = scriptReader([]string{exe}, "")
	assert.Equal(t, exe, r.Name)

	r = scriptReader([]string{exe}, "bash")
	assert.Equal(t, "bash", r.Name)

	r = scriptReader([]string{"make", "test"}, "")
	assert.Equal(t, "make", r.Name)
	assert.Equal(t, []string{"test"}, r.Args)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actionlog", "config.yaml")

	out, err := runCLI(t, "", "--config", path, "init", "--dir", "/tmp/runs")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/runs", cfg.OutputDir)

	_, err = runCLI(t, "", "--config", path, "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = runCLI(t, "", "--config", path, "init", "--force")
	assert.NoError(t, err)
}

func TestConfigDrivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.Defaults()
	cfg.Output = "json"
	cfg.Masks = []string{"topsecret"}
	require.NoError(t, config.Save(path, cfg))
	log := writeTemp(t, "x.log", "value topsecret\n")

	out, err := runCLI(t, "", "--config", path, "render", log)
	require.NoError(t, err)

	d := decodeDocument(t, out)
	assert.Equal(t, "value ••••••••", d.Blocks[0].Text)
}
