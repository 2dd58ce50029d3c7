// Package reader defines the line sources that feed a session: saved log
// files, files still being written, and running scripts.
package reader

import (
	"bufio"
	"context"
	"errors"
	"io"
)

// MaxLineSize is the longest line a source will deliver (1 MB). Longer
// lines, e.g. binary blobs or huge progress bars, are cut to this size and
// the rest of the line is dropped.
const MaxLineSize = 1 << 20

// Source produces lines of script output.
type Source interface {
	// Read calls emit once per line, strictly in order, until the source is
	// exhausted, ctx is cancelled, or emit returns an error. Lines carry no
	// trailing newline.
	Read(ctx context.Context, emit func(line string) error) error
}

// Lines is an in-memory Source.
type Lines []string

// Read implements Source.
func (l Lines) Read(ctx context.Context, emit func(string) error) error {
	for _, line := range l {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(line); err != nil {
			return err
		}
	}
	return nil
}

// Stream is a Source over an already open reader, such as stdin.
type Stream struct {
	R io.Reader
}

// Read implements Source.
func (s Stream) Read(ctx context.Context, emit func(string) error) error {
	return Scan(ctx, s.R, emit)
}

// Scan emits each newline-delimited line of r. A trailing "\r" is dropped
// and lines are truncated to MaxLineSize, so a single oversized line never
// stops the stream.
func Scan(ctx context.Context, r io.Reader, emit func(string) error) error {
	br := bufio.NewReader(r)
	var line []byte
	pending := false
	for {
		chunk, more, err := br.ReadLine()
		if errors.Is(err, io.EOF) {
			if pending {
				return emit(string(line))
			}
			return nil
		}
		if err != nil {
			return err
		}

		if room := MaxLineSize - len(line); room > 0 {
			line = append(line, chunk[:min(len(chunk), room)]...)
		}
		if more {
			pending = true
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(string(line)); err != nil {
			return err
		}
		line = line[:0]
		pending = false
	}
}

// Collect drains src into a slice.
func Collect(ctx context.Context, src Source) ([]string, error) {
	var out []string
	err := src.Read(ctx, func(line string) error {
		out = append(out, line)
		return nil
	})
	return out, err
}
