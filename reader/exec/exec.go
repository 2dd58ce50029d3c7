// Package exec runs a script and streams its output as action log lines.
package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"github.com/sonnes/actionlog/command"
	"github.com/sonnes/actionlog/reader"
	"github.com/sonnes/actionlog/scripterror"
)

// Reader runs Name with Args and emits stdout and stderr merged into one
// stream, in the order lines arrive.
type Reader struct {
	Name string
	Args []string
	Dir  string
	// Env is appended to the current process environment.
	Env []string
	// ErrorFormat re-encodes shell error lines on stderr as error commands.
	// The zero value leaves stderr untouched.
	ErrorFormat command.Format
}

// Read implements reader.Source. A non-zero exit status is returned as an
// error wrapping *exec.ExitError; see ExitCode.
func (r *Reader) Read(ctx context.Context, emit func(string) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Name, r.Args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), r.Env...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", r.Name, err)
	}

	// The pumps do not cancel each other: a failed pipe must not stop the
	// other one from being read, or the script blocks writing to it.
	lines := make(chan string)
	var g errgroup.Group
	g.Go(func() error { return pump(ctx, stdout, lines, nil) })
	g.Go(func() error { return pump(ctx, stderr, lines, r.rewrite) })

	pumpErr := make(chan error, 1)
	go func() {
		pumpErr <- g.Wait()
		close(lines)
	}()

	var emitErr error
	for line := range lines {
		if emitErr != nil {
			continue
		}
		if emitErr = emit(line); emitErr != nil {
			cancel()
		}
	}

	perr := <-pumpErr
	werr := cmd.Wait()

	switch {
	case emitErr != nil:
		return emitErr
	case ctx.Err() != nil:
		return ctx.Err()
	case werr != nil:
		return fmt.Errorf("run %s: %w", r.Name, werr)
	case perr != nil && !errors.Is(perr, context.Canceled):
		return fmt.Errorf("read output: %w", perr)
	}
	return nil
}

func (r *Reader) rewrite(line string) string {
	if r.ErrorFormat == 0 {
		return line
	}
	return scripterror.Rewrite(r.ErrorFormat, line)
}

// pump forwards lines from rc to out. When reading fails for any reason but
// cancellation, the rest of rc is discarded so the script can still exit.
func pump(ctx context.Context, rc io.Reader, out chan<- string, fn func(string) string) error {
	err := reader.Scan(ctx, rc, func(line string) error {
		if fn != nil {
			line = fn(line)
		}
		select {
		case out <- line:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil && ctx.Err() == nil {
		_, _ = io.Copy(io.Discard, rc)
	}
	return err
}

// ExitCode extracts the process exit status from an error returned by Read.
// It returns 0 for nil and -1 when the process did not exit normally.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
