package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/actionlog/config"
)

func newRoot() *cli.Command {
	return &cli.Command{
		Name:  "actionlog",
		Usage: "Turn script output with workflow commands into a structured action log",
		Description: `Scripts print ::notice::, ::group::, ::add-mask:: and friends (or the
legacy ##[command] form). actionlog folds them into alerts, collapsible
groups and cards, hides masked values, and renders the result to the
terminal, HTML or JSON.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log",
				Usage:   "Log level: debug, info, warn, error",
				Value:   "error",
				Sources: cli.EnvVars("ACTIONLOG_LOG"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to config.yaml",
				Sources: cli.EnvVars(config.EnvPath),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := log.ParseLevel(cmd.String("log"))
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)

			a, err := loadApp(cmd.String("config"))
			if err != nil {
				return ctx, err
			}
			return withApp(ctx, a), nil
		},
		Commands: []*cli.Command{
			runCmd(),
			renderCmd(),
			tailCmd(),
			serveCmd(),
			indexCmd(),
			manifestCmd(),
			initCmd(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRoot().Run(ctx, os.Args)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}
