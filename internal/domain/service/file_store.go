package service

import (
	"context"
	"errors"
	"io"
)

// ErrFileNotFound is returned when no file exists under the requested path.
var ErrFileNotFound = errors.New("file not found")

// FileStore defines the interface for storing and retrieving binary blobs,
// used for profile images. Implementations generate the stored path themselves
// so callers never control on-disk layout.
type FileStore interface {
	// Save writes the content under a generated path derived from the original
	// filename and returns that path for later retrieval.
	Save(ctx context.Context, originalFilename string, content io.Reader) (string, error)

	// Load reads the full content stored under the given path.
	Load(ctx context.Context, path string) ([]byte, error)

	// Delete removes the file stored under the given path.
	// Deleting a path that no longer exists is not an error.
	Delete(ctx context.Context, path string) error
}
