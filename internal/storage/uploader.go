package storage

import (
	"context"
	"io"
)

// FileUploader stores public files such as team logos.
type FileUploader interface {
	// Upload stores r under key and returns its public URL.
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}
