package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/actionlog/server"
)

func serveCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "addr",
			Usage: "Address to listen on",
		},
		&cli.StringSliceFlag{
			Name:  "redact",
			Usage: "Redact saved runs again before serving. Example: --redact=pii",
		},
	}
	flags = append(flags, storeFlags()[0])

	return &cli.Command{
		Name:  "serve",
		Usage: "Browse saved runs in a local web UI",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a := appFrom(ctx)
			store := a.store(cmd)
			if store == nil {
				return fmt.Errorf("--dir or output_dir in the config is required")
			}

			cfg := server.Config{Store: store}
			if cmd.IsSet("redact") {
				r, err := a.redactor(cmd)
				if err != nil {
					return err
				}
				if r != nil {
					cfg.Redact = r
				}
			}

			addr := a.cfg.Serve.Addr
			if cmd.IsSet("addr") {
				addr = cmd.String("addr")
			}
			log.Info("serving runs", "url", "http://"+addr, "dir", store.Dir)
			return server.New(cfg).ListenAndServe(ctx, addr)
		},
	}
}
