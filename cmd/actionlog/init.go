package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sonnes/actionlog/config"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a config file with the default settings",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Output directory to record as output_dir",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a := appFrom(ctx)
			path := a.configPath
			if path == "" {
				p, err := config.Path()
				if err != nil {
					return err
				}
				path = p
			}

			if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("check config: %w", err)
			}

			cfg := config.Defaults()
			cfg.OutputDir = cmd.String("dir")
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "Wrote %s\n", path)
			return nil
		},
	}
}
