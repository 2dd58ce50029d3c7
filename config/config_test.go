package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sonnes/actionlog/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
formats: [v1, v2]
commands: [notice, error]
masks: [hunter2]
output: html
output_dir: /tmp/runs
keep: 20
raw_log:
  file: /tmp/raw.log
env:
  - CI=true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"v1", "v2"}, cfg.Formats)
	assert.Equal(t, []string{"notice", "error"}, cfg.Commands)
	assert.Equal(t, []string{"hunter2"}, cfg.Masks)
	assert.Equal(t, "html", cfg.Output)
	assert.Equal(t, "/tmp/runs", cfg.OutputDir)
	assert.Equal(t, 20, cfg.Keep)
	assert.Equal(t, "/tmp/raw.log", cfg.RawLog.File)
	assert.Equal(t, 10, cfg.RawLog.MaxSizeMB, "unset nested fields keep defaults")
	assert.Equal(t, []string{"CI=true"}, cfg.Env)
	assert.True(t, cfg.StripANSI)

	formats, err := cfg.WireFormats()
	require.NoError(t, err)
	assert.Equal(t, []command.Format{command.V1, command.V2}, formats)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "formats: [v1", "parse config"},
		{"bad format", "formats: [v3]", "unknown command format"},
		{"bad output", "output: pdf", "unknown output"},
		{"bad redact", "redact: [everything]", "unknown redaction rule"},
		{"bad command", "commands: [deploy]", "unknown command"},
		{"bad env", "env: [NOEQUALS]", "not KEY=VALUE"},
		{"negative keep", "keep: -1", "keep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "/etc/actionlog.yaml")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/etc/actionlog.yaml", p)
}

func TestPathDefault(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/home/u/.config")
	t.Setenv("HOME", "/home/u")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(p))
	assert.Equal(t, "actionlog", filepath.Base(filepath.Dir(p)))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Defaults()
	cfg.Masks = []string{"s3cret"}
	cfg.Output = "json"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
