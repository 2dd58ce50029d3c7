package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/urfave/cli/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sonnes/actionlog/command"
	"github.com/sonnes/actionlog/config"
	"github.com/sonnes/actionlog/manifest"
	"github.com/sonnes/actionlog/redact"
	"github.com/sonnes/actionlog/render"
	htmlrender "github.com/sonnes/actionlog/render/html"
	jsonrender "github.com/sonnes/actionlog/render/json"
	"github.com/sonnes/actionlog/render/terminal"
	"github.com/sonnes/actionlog/session"
)

// app holds the loaded config and renderer registry used by CLI commands.
type app struct {
	cfg        config.Config
	configPath string
	renderers  map[string]func(cmd *cli.Command) render.Renderer
}

type appKey struct{}

func loadApp(path string) (*app, error) {
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, path), nil
}

func newApp(cfg config.Config, path string) *app {
	return &app{
		cfg:        cfg,
		configPath: path,
		renderers: map[string]func(cmd *cli.Command) render.Renderer{
			"terminal": func(cmd *cli.Command) render.Renderer { return terminalRenderer(cmd) },
			"html": func(cmd *cli.Command) render.Renderer {
				r := htmlrender.New()
				r.HideLineNumbers = cmd.Bool("no-line-numbers")
				return r
			},
			"json": func(*cli.Command) render.Renderer { return &jsonrender.Renderer{Indent: true} },
		},
	}
}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// appFrom returns the app stored by the root Before hook, or one built from
// defaults.
func appFrom(ctx context.Context) *app {
	if a, ok := ctx.Value(appKey{}).(*app); ok {
		return a
	}
	return newApp(config.Defaults(), "")
}

func terminalRenderer(cmd *cli.Command) *terminal.Renderer {
	return &terminal.Renderer{
		LineNumbers: !cmd.Bool("no-line-numbers"),
		Expand:      cmd.Bool("expand"),
	}
}

func (a *app) renderer(name string, cmd *cli.Command) (render.Renderer, error) {
	fn, ok := a.renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q", name)
	}
	return fn(cmd), nil
}

// output returns the -o flag, else the configured output.
func (a *app) output(cmd *cli.Command) string {
	if cmd.IsSet("o") {
		return cmd.String("o")
	}
	return a.cfg.Output
}

// store returns the output directory store from --dir or the config, nil
// when neither names one.
func (a *app) store(cmd *cli.Command) *manifest.Store {
	dir := a.cfg.OutputDir
	if cmd.IsSet("dir") {
		dir = cmd.String("dir")
	}
	if dir == "" {
		return nil
	}
	keep := a.cfg.Keep
	if cmd.IsSet("keep") {
		keep = int(cmd.Int("keep"))
	}
	return &manifest.Store{Dir: dir, Keep: keep}
}

func (a *app) formats(cmd *cli.Command) ([]command.Format, error) {
	cfg := a.cfg
	if cmd.IsSet("format") {
		cfg.Formats = cmd.StringSlice("format")
	}
	formats, err := cfg.WireFormats()
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		formats = []command.Format{command.V2}
	}
	return formats, nil
}

// redactor builds a Redactor from --redact, else the configured rules.
// Returns nil when --no-redact is set or no rules apply.
func (a *app) redactor(cmd *cli.Command) (*redact.Redactor, error) {
	if cmd.Bool("no-redact") {
		return nil, nil
	}

	rules := a.cfg.Redact
	if cmd.IsSet("redact") {
		rules = cmd.StringSlice("redact")
	}
	if len(rules) == 0 {
		return nil, nil
	}

	cfg := redact.Config{}
	for _, r := range rules {
		switch r {
		case "secrets":
			cfg.Secrets = true
		case "pii":
			cfg.PII = true
		default:
			return nil, fmt.Errorf("unknown redaction rule %q", r)
		}
	}
	return redact.New(cfg), nil
}

// sessionConfig merges the config file with command flags.
func (a *app) sessionConfig(cmd *cli.Command) (session.Config, error) {
	formats, err := a.formats(cmd)
	if err != nil {
		return session.Config{}, err
	}
	r, err := a.redactor(cmd)
	if err != nil {
		return session.Config{}, err
	}

	cfg := session.Config{
		Formats:   formats,
		Commands:  a.cfg.Commands,
		Masks:     append(slices.Clone(a.cfg.Masks), cmd.StringSlice("mask")...),
		StripANSI: a.cfg.StripANSI,
	}
	if r != nil {
		cfg.Redactor = r
	}
	return cfg, nil
}

// rawLog opens the rotating raw log named by --raw-log or the config. The
// returned writer is nil when no raw log is configured.
func (a *app) rawLog(cmd *cli.Command) io.WriteCloser {
	rl := a.cfg.RawLog
	if cmd.IsSet("raw-log") {
		rl.File = cmd.String("raw-log")
	}
	if rl.File == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   rl.File,
		MaxSize:    rl.MaxSizeMB,
		MaxBackups: rl.MaxBackups,
	}
}

func sessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "format",
			Usage: "Wire formats to recognize, tried in order. Example: --format=v2,v1",
		},
		&cli.StringSliceFlag{
			Name:  "mask",
			Usage: "Value to mask from the first line on, as if by add-mask",
		},
		&cli.BoolFlag{
			Name:  "no-redact",
			Usage: "Disable redaction of secrets and PII",
		},
		&cli.StringSliceFlag{
			Name:  "redact",
			Usage: "Rules to redact. Example: --redact=secrets,pii",
		},
	}
}

func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "o",
			Usage: "Output format: terminal, html, json",
		},
		&cli.BoolFlag{
			Name:  "expand",
			Usage: "Show the lines of every group in terminal output",
		},
		&cli.BoolFlag{
			Name:  "no-line-numbers",
			Usage: "Hide line numbers",
		},
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Output directory for saved runs and manifest.json",
		},
		&cli.IntFlag{
			Name:  "keep",
			Usage: "Number of saved runs to retain (0 keeps all)",
		},
	}
}
