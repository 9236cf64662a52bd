package storage

import (
	"context"
	"errors"
	"io"
)

var ErrFileNotFound = errors.New("file not found")

// FileStorage stores generated payroll files such as month snapshots.
// Keys are slash separated and relative to the storage root.
type FileStorage interface {
	// Upload writes content under key, replacing any existing file
	Upload(ctx context.Context, content io.Reader, key string) (string, error)

	// Download opens the file stored under key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether key holds a file
	Exists(ctx context.Context, key string) (bool, error)

	// List returns the keys under prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)
}
