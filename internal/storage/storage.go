// Package storage reads and writes whole files for the stripping pipeline.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	afsfile "github.com/viant/afs/file"
)

// ErrNotFound is returned by Read when the target does not exist.
var ErrNotFound = errors.New("file not found")

// Store is the whole-file access collaborator: no streaming, no partial reads.
type Store interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}

// AFS implements Store on top of an afs.Service. Plain paths address the
// local file system; any afs URL (file://, mem://, ...) is accepted as well.
type AFS struct {
	fs afs.Service
}

// NewAFS returns a Store backed by a fresh afs service.
func NewAFS() *AFS {
	return &AFS{fs: afs.New()}
}

// Read returns the full content of path.
func (s *AFS) Read(ctx context.Context, path string) ([]byte, error) {
	url, err := toURL(path)
	if err != nil {
		return nil, err
	}
	ok, err := s.fs.Exists(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Write replaces the content of path, keeping the permissions of an existing file.
func (s *AFS) Write(ctx context.Context, path string, data []byte) error {
	url, err := toURL(path)
	if err != nil {
		return err
	}
	mode := os.FileMode(afsfile.DefaultFileOsMode)
	if obj, statErr := s.fs.Object(ctx, url); statErr == nil && obj != nil {
		if perm := obj.Mode().Perm(); perm != 0 {
			mode = perm
		}
	}
	if err := s.fs.Upload(ctx, url, mode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func toURL(path string) (string, error) {
	if strings.Contains(path, "://") {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

// IsNotFound reports whether err means the file is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, os.ErrNotExist)
}
