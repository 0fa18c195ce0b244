package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Storage is the durable file store used for uploaded documents and rendered
// report artifacts. Keys are slash-separated relative paths.
type Storage interface {
	Save(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}
