package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no object exists for a storage key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines read access to stored JSON documents.
type ObjectStore interface {
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
