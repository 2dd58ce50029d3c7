package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/actionlog/compact"
	"github.com/sonnes/actionlog/core"
	"github.com/sonnes/actionlog/reader"
	"github.com/sonnes/actionlog/reader/file"
	jsonrender "github.com/sonnes/actionlog/render/json"
	"github.com/sonnes/actionlog/session"
)

func renderCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "title",
			Usage: "Title shown in the header",
		},
		&cli.BoolFlag{
			Name:  "compact",
			Usage: "Collapse group and card bodies into line counts",
		},
		&cli.BoolFlag{
			Name:  "strip-text",
			Usage: "With --compact, also drop plain text lines",
		},
	}
	flags = append(flags, sessionFlags()...)
	flags = append(flags, viewFlags()...)

	return &cli.Command{
		Name:      "render",
		Usage:     "Render a saved log file, a saved run (.json) or stdin",
		ArgsUsage: "[FILE|-]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a := appFrom(ctx)

			path := cmd.Args().First()
			var (
				d   *core.Document
				err error
			)
			if strings.EqualFold(filepath.Ext(path), ".json") {
				d, err = a.loadDocument(cmd, path)
			} else {
				d, err = a.buildDocument(ctx, cmd, path)
			}
			if err != nil {
				return err
			}

			if cmd.Bool("compact") {
				c := compact.New(compact.Config{StripText: cmd.Bool("strip-text")})
				if err := core.Chain(d, c); err != nil {
					return err
				}
			}

			r, err := a.renderer(a.output(cmd), cmd)
			if err != nil {
				return err
			}
			return r.Render(cmd.Root().Writer, d)
		},
	}
}

// buildDocument runs the log at path ("-" or empty for stdin) through a
// session.
func (a *app) buildDocument(ctx context.Context, cmd *cli.Command, path string) (*core.Document, error) {
	cfg, err := a.sessionConfig(cmd)
	if err != nil {
		return nil, err
	}

	d := &core.Document{
		ID:    uuid.NewString(),
		Title: cmd.String("title"),
	}

	var src reader.Source
	if path == "" || path == "-" {
		src = reader.Stream{R: cmd.Root().Reader}
		d.StartedAt = time.Now()
	} else {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		src = &file.Reader{Path: path}
		d.Script = path
		d.StartedAt = info.ModTime()
	}

	s := session.New(cfg)
	if err := s.Run(ctx, src); err != nil {
		return nil, err
	}
	s.Fill(d)
	return d, nil
}

// loadDocument reads a run saved as JSON and applies redaction again, since
// the rules may have changed since it was saved.
func (a *app) loadDocument(cmd *cli.Command, path string) (*core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open run: %w", err)
	}
	defer f.Close()

	d, err := jsonrender.Decode(f)
	if err != nil {
		return nil, err
	}
	if cmd.String("title") != "" {
		d.Title = cmd.String("title")
	}

	r, err := a.redactor(cmd)
	if err != nil {
		return nil, err
	}
	if r != nil {
		if err := core.Chain(d, r); err != nil {
			return nil, err
		}
	}
	return d, nil
}
