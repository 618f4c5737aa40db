// Package blob stores uploaded files by key.
package blob

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob: not found")

// DefaultContentType is reported for objects stored without one.
const DefaultContentType = "application/octet-stream"

// Store is an object store. Keys are slash separated paths such as
// "profile/2021001_<uuid>.png".
type Store interface {
	// Put writes size bytes from body under key, replacing any existing
	// object.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Get opens the object at key. The caller must close Object.Body.
	// Missing keys yield ErrNotFound.
	Get(ctx context.Context, key string) (*Object, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

// Object is an opened stored object.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64 // -1 when unknown
}
