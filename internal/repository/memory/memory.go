// Package memory is an in-process Backend, used by tests and by the
// "memory" storage driver.
package memory

import (
	"context"
	"slices"
	"sync"

	"alcyxob/group-fitness/internal/repository"
)

// Backend keeps collections in a map. The zero value is not usable; use New.
type Backend struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailSave, when set, is consulted before every write and its error
	// returned instead of storing. Tests use it to simulate outages.
	FailSave func(collection string) error
}

var (
	_ repository.Backend    = (*Backend)(nil)
	_ repository.BatchSaver = (*Backend)(nil)
)

// New creates an empty memory backend.
func New() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

// Load returns a copy of the stored collection.
func (b *Backend) Load(ctx context.Context, collection string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.data[collection]
	if !ok {
		return nil, nil
	}
	return slices.Clone(data), nil
}

// Save replaces the stored collection.
func (b *Backend) Save(ctx context.Context, collection string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.FailSave != nil {
		if err := b.FailSave(collection); err != nil {
			return err
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[collection] = slices.Clone(data)
	return nil
}

// SaveBatch replaces several collections at once; either all are stored
// or none.
func (b *Backend) SaveBatch(ctx context.Context, data map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.FailSave != nil {
		for collection := range data {
			if err := b.FailSave(collection); err != nil {
				return err
			}
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for collection, payload := range data {
		b.data[collection] = slices.Clone(payload)
	}
	return nil
}
