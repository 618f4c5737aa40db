// Package memory is an in-process blob.Store for tests and local runs.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aussiebroadwan/tnp/internal/portal/blob"
)

type object struct {
	data        []byte
	contentType string
}

type Store struct {
	mu      sync.RWMutex
	objects map[string]object
}

func New() *Store {
	return &Store{objects: make(map[string]object)}
}

func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("memory: read body: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("memory: short body for %q: got %d bytes, want %d", key, len(data), size)
	}
	if contentType == "" {
		contentType = blob.DefaultContentType
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = object{data: data, contentType: contentType}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (*blob.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return &blob.Object{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: obj.contentType,
		Size:        int64(len(obj.data)),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

// Keys returns the stored keys, for assertions in tests.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}

var _ blob.Store = (*Store)(nil)
