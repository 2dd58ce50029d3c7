package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/sonnes/actionlog/core"
	"github.com/sonnes/actionlog/manifest"
	htmlrender "github.com/sonnes/actionlog/render/html"
)

const indexFile = "index.html"

func indexCmd() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Generate an index page from the manifest",
		Description: `Reads manifest.json from the output directory and writes index.html
alongside it. run does this after every saved run; use index after
editing or repairing the manifest by hand.`,
		Flags: storeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store := appFrom(ctx).store(cmd)
			if store == nil {
				return fmt.Errorf("--dir or output_dir in the config is required")
			}
			return writeIndex(store)
		},
	}
}

// publish saves d to the store with its HTML page and refreshes the index.
func publish(store *manifest.Store, d *core.Document) error {
	if err := store.Save(d); err != nil {
		return err
	}
	if err := writePage(store, d); err != nil {
		return err
	}
	return writeIndex(store)
}

func writePage(store *manifest.Store, d *core.Document) error {
	return writeFile(store.PagePath(d.ID), func(f *os.File) error {
		return htmlrender.New().Render(f, d)
	})
}

func writeIndex(store *manifest.Store) error {
	runs, err := store.Runs()
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(store.Dir, indexFile), func(f *os.File) error {
		return htmlrender.New().RenderIndex(f, runs)
	})
}

func writeFile(path string, write func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
