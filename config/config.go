// Package config loads the actionlog YAML configuration file. Command line
// flags override anything set here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sonnes/actionlog/command"
)

// EnvPath overrides the config file location.
const EnvPath = "ACTIONLOG_CONFIG"

// Output formats understood by the CLI.
var Outputs = []string{"terminal", "html", "json"}

// Redaction rule sets understood by the CLI.
var RedactRules = []string{"secrets", "pii"}

type RawLogConfig struct {
	// File receives every input line, masked. Empty disables the raw log.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the user-editable configuration.
type Config struct {
	// Formats are the wire formats recognized, tried in order.
	Formats []string `yaml:"formats"`
	// Commands is the registered command set. Empty means every command.
	Commands  []string `yaml:"commands,omitempty"`
	Masks     []string `yaml:"masks,omitempty"`
	Redact    []string `yaml:"redact"`
	StripANSI bool     `yaml:"strip_ansi"`
	Output    string   `yaml:"output"`
	// OutputDir is where finished runs and the manifest are saved. Empty
	// disables saving.
	OutputDir string `yaml:"output_dir,omitempty"`
	// Keep limits how many saved runs the manifest retains. Zero keeps all.
	Keep   int          `yaml:"keep,omitempty"`
	RawLog RawLogConfig `yaml:"raw_log"`
	// Env holds extra KEY=VALUE pairs for spawned scripts.
	Env   []string    `yaml:"env,omitempty"`
	Serve ServeConfig `yaml:"serve"`
}

// Defaults returns the application defaults.
func Defaults() Config {
	return Config{
		Formats:   []string{"v2"},
		Redact:    []string{"secrets"},
		StripANSI: true,
		Output:    "terminal",
		RawLog:    RawLogConfig{MaxSizeMB: 10, MaxBackups: 3},
		Serve:     ServeConfig{Addr: "localhost:8080"},
	}
}

// Path returns the config file location: $ACTIONLOG_CONFIG, else
// actionlog/config.yaml under the user config directory.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "actionlog", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := c.WireFormats(); err != nil {
		return err
	}
	if c.Output != "" && !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("unknown output %q (want one of %s)", c.Output, strings.Join(Outputs, ", "))
	}
	for _, r := range c.Redact {
		if !slices.Contains(RedactRules, r) {
			return fmt.Errorf("unknown redaction rule %q", r)
		}
	}
	for _, name := range c.Commands {
		if !slices.Contains(command.Names(), name) {
			return fmt.Errorf("unknown command %q", name)
		}
	}
	for _, kv := range c.Env {
		if !strings.Contains(kv, "=") {
			return fmt.Errorf("env entry %q is not KEY=VALUE", kv)
		}
	}
	if c.Keep < 0 {
		return fmt.Errorf("keep must not be negative")
	}
	return nil
}

// WireFormats parses Formats.
func (c Config) WireFormats() ([]command.Format, error) {
	out := make([]command.Format, 0, len(c.Formats))
	for _, s := range c.Formats {
		f, err := command.ParseFormat(s)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Save writes cfg to path as YAML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
