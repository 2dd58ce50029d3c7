package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/actionlog/core"
	"github.com/sonnes/actionlog/reader/follow"
	"github.com/sonnes/actionlog/session"
)

func tailCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.DurationFlag{
			Name:  "poll",
			Usage: "Fallback interval for re-checking the file",
		},
	}
	flags = append(flags, sessionFlags()...)
	flags = append(flags, viewFlags()[1:]...)

	return &cli.Command{
		Name:      "tail",
		Usage:     "Follow a log file another process is writing",
		ArgsUsage: "FILE",
		Description: `Prints the action log of FILE and keeps printing as lines are appended,
until interrupted or the file is removed.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("a log file to follow is required")
			}
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}

			cfg, err := appFrom(ctx).sessionConfig(cmd)
			if err != nil {
				return err
			}
			s := session.New(cfg)

			r := terminalRenderer(cmd)
			w := cmd.Root().Writer
			watchCtx, stopWatch := context.WithCancel(context.WithoutCancel(ctx))
			defer stopWatch()
			followed := make(chan error, 1)
			go func() { followed <- r.Follow(watchCtx, w, s.Console()) }()

			runErr := s.Run(ctx, &follow.Reader{Path: path, Poll: cmd.Duration("poll")})
			stopWatch()
			if err := <-followed; err != nil {
				return err
			}
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}

			d := &core.Document{ID: uuid.NewString(), Script: path, StartedAt: info.ModTime()}
			s.Fill(d)
			r.Summary(w, d)
			return nil
		},
	}
}
