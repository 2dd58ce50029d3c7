package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/actionlog/core"
	"github.com/sonnes/actionlog/manifest"
)

func manifestCmd() *cli.Command {
	return &cli.Command{
		Name:  "manifest",
		Usage: "Manage the saved run manifest",
		Commands: []*cli.Command{
			manifestRepairCmd(),
			manifestPruneCmd(),
		},
	}
}

func manifestRepairCmd() *cli.Command {
	return &cli.Command{
		Name:  "repair",
		Usage: "Rebuild manifest.json by scanning the saved runs",
		Description: `Loads every runs/<id>.json in the output directory, re-renders missing
HTML pages, and rebuilds the manifest and index from scratch.`,
		Flags: storeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store := appFrom(ctx).store(cmd)
			if store == nil {
				return fmt.Errorf("--dir or output_dir in the config is required")
			}

			m, skipped, err := repairManifest(store)
			if err != nil {
				return err
			}
			if err := m.WriteFile(store.ManifestPath()); err != nil {
				return err
			}
			if err := writeIndex(store); err != nil {
				return err
			}

			fmt.Fprintf(cmd.Root().Writer, "Repaired manifest: %d runs (%d skipped)\n", len(m.Runs), skipped)
			return nil
		},
	}
}

func manifestPruneCmd() *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "Remove all but the newest --keep runs",
		Flags: storeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store := appFrom(ctx).store(cmd)
			if store == nil {
				return fmt.Errorf("--dir or output_dir in the config is required")
			}
			if store.Keep <= 0 {
				return fmt.Errorf("--keep or keep in the config must be positive")
			}

			n, err := store.Prune()
			if err != nil {
				return err
			}
			if err := writeIndex(store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "Pruned %d runs\n", n)
			return nil
		},
	}
}

// repairManifest loads every saved run document under the store and builds a
// new manifest from them. Unreadable runs are skipped and counted.
func repairManifest(store *manifest.Store) (*manifest.Manifest, int, error) {
	m := &manifest.Manifest{}
	entries, err := os.ReadDir(store.RunsDir())
	if errors.Is(err, fs.ErrNotExist) {
		return m, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read runs directory: %w", err)
	}

	skipped := 0
	for _, entry := range entries {
		id, ok := strings.CutSuffix(entry.Name(), ".json")
		if entry.IsDir() || !ok {
			continue
		}

		d, err := store.Load(id)
		if err != nil {
			log.Warn("skip run", "id", id, "error", err)
			skipped++
			continue
		}
		if d.ID != id {
			log.Warn("skip run", "id", id, "error", fmt.Sprintf("document id %q does not match file name", d.ID))
			skipped++
			continue
		}

		if _, err := os.Stat(store.PagePath(id)); errors.Is(err, fs.ErrNotExist) {
			if err := writePage(store, d); err != nil {
				return nil, 0, err
			}
		}
		m.Upsert(core.NewRunEntry(d, manifest.Href(id)))
	}

	return m, skipped, nil
}
