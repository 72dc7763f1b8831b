package runstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Canceller is a file-based stop request. An operator creates the marker
// file to ask the running pipeline to wind down at the next checkpoint;
// the pipeline clears it at run start and run end.
type Canceller struct {
	path string
}

// NewCanceller builds a canceller around the marker file at path.
func NewCanceller(path string) *Canceller {
	return &Canceller{path: path}
}

// Requested reports whether the marker file exists.
func (c *Canceller) Requested() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

// Request creates the marker file.
func (c *Canceller) Request() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("ensure stop marker dir: %w", err)
	}
	if err := os.WriteFile(c.path, []byte("stop\n"), 0o644); err != nil {
		return fmt.Errorf("write stop marker: %w", err)
	}
	return nil
}

// Clear removes the marker file if present.
func (c *Canceller) Clear() error {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stop marker: %w", err)
	}
	return nil
}
