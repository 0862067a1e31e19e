// =============================================================================
// Quotation Generator - History Storage Backends
// =============================================================================
//
// A Backend is a minimal key-value store. The history list lives under a
// single key and is rewritten whole on every change, so backends only need
// get and put.
//
// AVAILABLE BACKENDS:
//   - FileBackend:   one JSON file per key in a directory
//   - SQLiteBackend: a kv table in an embedded SQLite database
//   - MemoryBackend: a map, for tests and throwaway sessions
//
// =============================================================================

package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ginjaninja78/quotegen/pkg/utils"
)

// Backend persists opaque values by key.
type Backend interface {
	// Get returns the stored value and true, or false when key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the backend's resources.
	Close() error
}

// =============================================================================
// FILE BACKEND
// =============================================================================

// FileBackend stores each key as <dir>/<key>.json.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a backend rooted at dir, creating it if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Get implements Backend.
func (b *FileBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Put implements Backend.
func (b *FileBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return utils.WriteFileAtomic(b.path(key), value, 0o644)
}

// Close implements Backend.
func (b *FileBackend) Close() error { return nil }

// =============================================================================
// MEMORY BACKEND
// =============================================================================

// MemoryBackend keeps values in memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Get implements Backend.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put implements Backend.
func (b *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[key] = append([]byte(nil), value...)
	return nil
}

// Close implements Backend.
func (b *MemoryBackend) Close() error { return nil }
