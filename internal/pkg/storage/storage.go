package storage

import (
	"context"
	"io"
)

// FileStorage abstracts where attachment bytes live. The core only ever
// stores and forwards the opaque path it gets back.
type FileStorage interface {
	// Upload writes the file under path and returns the stored path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Open retrieves a stored file
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// Exists checks if a file exists
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a public URL for the stored file
	URL(path string) string
}
