// Package file reads saved action logs from disk.
package file

import (
	"context"
	"fmt"
	"os"

	"github.com/sonnes/actionlog/reader"
)

// Reader reads a complete log file once.
type Reader struct {
	Path string
}

// Read implements reader.Source.
func (r *Reader) Read(ctx context.Context, emit func(string) error) error {
	f, err := os.Open(r.Path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if err := reader.Scan(ctx, f, emit); err != nil {
		return fmt.Errorf("scan log file: %w", err)
	}
	return nil
}
