package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/actionlog/core"
	execreader "github.com/sonnes/actionlog/reader/exec"
	"github.com/sonnes/actionlog/server"
	"github.com/sonnes/actionlog/session"
)

// maxSourceSize bounds the script contents embedded in a document.
const maxSourceSize = 256 << 10

func runCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "title",
			Usage: "Title shown in the header",
		},
		&cli.StringFlag{
			Name:  "shell",
			Usage: "Interpreter for the script. Defaults to sh for non-executable files",
		},
		&cli.StringSliceFlag{
			Name:  "env",
			Usage: "Extra KEY=VALUE pairs for the script",
		},
		&cli.StringFlag{
			Name:  "raw-log",
			Usage: "Append every output line, masked, to this rotating file",
		},
		&cli.BoolFlag{
			Name:  "serve",
			Usage: "Serve the run live over HTTP while it executes",
		},
		&cli.StringFlag{
			Name:  "addr",
			Usage: "Address for --serve",
		},
	}
	flags = append(flags, sessionFlags()...)
	flags = append(flags, viewFlags()...)
	flags = append(flags, storeFlags()...)

	return &cli.Command{
		Name:      "run",
		Usage:     "Run a script and build its action log as it executes",
		ArgsUsage: "SCRIPT [ARGS...]",
		Description: `Runs SCRIPT, streams its output through a session and prints the
action log live. Shell errors on stderr become error alerts. With --dir
(or output_dir in the config) the finished run is saved as JSON and HTML
and the index is refreshed. The command exits with the script's status.

Put -- before the script to pass flags to it.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("a script to run is required")
			}
			return appFrom(ctx).run(ctx, cmd)
		},
	}
}

func (a *app) run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := a.sessionConfig(cmd)
	if err != nil {
		return err
	}
	if raw := a.rawLog(cmd); raw != nil {
		defer raw.Close()
		cfg.Log = raw
	}
	output := a.output(cmd)
	r, err := a.renderer(output, cmd)
	if err != nil {
		return err
	}

	args := cmd.Args().Slice()
	src := scriptReader(args, cmd.String("shell"))
	src.Env = append(append([]string{}, a.cfg.Env...), cmd.StringSlice("env")...)
	src.ErrorFormat = cfg.Formats[0]

	s := session.New(cfg)
	d := core.Document{
		ID:        uuid.NewString(),
		Title:     cmd.String("title"),
		Script:    strings.Join(args, " "),
		Source:    readSource(args[0]),
		StartedAt: time.Now(),
	}
	log.Debug("starting run", "id", d.ID, "script", d.Script)

	w := cmd.Root().Writer
	watchCtx, stopWatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWatch()
	followed := make(chan error, 1)
	if output == "terminal" {
		go func() { followed <- terminalRenderer(cmd).Follow(watchCtx, w, s.Console()) }()
	} else {
		followed <- nil
	}

	var (
		live   *server.Live
		served = make(chan error, 1)
	)
	serveCtx, stopServe := context.WithCancel(context.WithoutCancel(ctx))
	defer stopServe()
	if cmd.Bool("serve") {
		addr := a.cfg.Serve.Addr
		if cmd.IsSet("addr") {
			addr = cmd.String("addr")
		}
		live = server.NewLive(d, s.Console())
		srv := server.New(server.Config{Store: a.store(cmd), Live: live})
		go func() { served <- srv.ListenAndServe(serveCtx, addr) }()
		log.Info("serving live run", "url", "http://"+addr+"/runs/"+d.ID)
	} else {
		served <- nil
	}

	runErr := s.Run(ctx, src)
	ended := time.Now()
	stopWatch()
	if err := <-followed; err != nil {
		log.Debug("follow console", "error", err)
	}

	exitCode := execreader.ExitCode(runErr)
	if exitCode < 0 && !errors.Is(runErr, context.Canceled) {
		stopServe()
		<-served
		return runErr
	}

	s.Fill(&d)
	d.Source = s.Mask(d.Source)
	d.EndedAt = &ended
	d.ExitCode = &exitCode
	if live != nil {
		live.Finish(exitCode, ended)
	}

	if store := a.store(cmd); store != nil {
		if err := publish(store, &d); err != nil {
			log.Error("save run", "error", err)
		} else {
			log.Debug("saved run", "id", d.ID, "dir", store.Dir)
		}
	}

	if output == "terminal" {
		terminalRenderer(cmd).Summary(w, &d)
	} else if err := r.Render(w, &d); err != nil {
		return err
	}

	if live != nil && ctx.Err() == nil {
		log.Info("run finished, still serving; press Ctrl-C to stop")
		select {
		case <-ctx.Done():
		case err := <-served:
			served <- err
		}
	}
	stopServe()
	if err := <-served; err != nil {
		log.Error("serve", "error", err)
	}

	if exitCode != 0 {
		return cli.Exit("", max(exitCode, 1))
	}
	return nil
}

// scriptReader runs args directly, or through shell. A script file without
// an executable bit runs through sh when no shell is given.
func scriptReader(args []string, shell string) *execreader.Reader {
	if shell == "" {
		if info, err := os.Stat(args[0]); err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 == 0 {
			shell = "sh"
		}
	}
	if shell == "" {
		return &execreader.Reader{Name: args[0], Args: args[1:]}
	}
	return &execreader.Reader{Name: shell, Args: args}
}

// readSource returns the script's contents when it is a small regular file.
func readSource(path string) string {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > maxSourceSize {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
