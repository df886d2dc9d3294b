package repository

import (
	"context"
	"errors"
	"fmt"
)

// Collection names used as keys in the key-value backend. Each one holds
// a JSON array of records.
const (
	CollectionUsers    = "users"
	CollectionGroups   = "groups"
	CollectionWorkouts = "workouts"
	CollectionProgress = "progress"
)

// Collections lists every collection in the order they are committed.
// Workouts precede groups so that an interrupted commit can only leave a
// workout unreachable from its group, which Reconcile repairs.
var Collections = []string{CollectionUsers, CollectionWorkouts, CollectionGroups, CollectionProgress}

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
	ErrStorage  = RepositoryError("storage failure")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// StorageError reports a failed backend operation on a collection.
// errors.Is(err, ErrStorage) holds for every StorageError.
type StorageError struct {
	Op         string // "load" or "save"
	Collection string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError wraps err unless it already is a StorageError.
func NewStorageError(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Collection: collection, Err: err}
}

// NotFoundError reports that a referenced entity does not exist.
// errors.Is(err, ErrNotFound) holds for every NotFoundError.
type NotFoundError struct {
	Kind string // "group", "workout", "user"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Backend is durable key-value persistence for whole collections.
// Save overwrites the full collection.
type Backend interface {
	// Load returns the stored JSON array for collection, or nil when the
	// collection has never been saved.
	Load(ctx context.Context, collection string) ([]byte, error)
	Save(ctx context.Context, collection string, data []byte) error
}

// BatchSaver is implemented by backends that can write several
// collections in one atomic operation.
type BatchSaver interface {
	SaveBatch(ctx context.Context, data map[string][]byte) error
}

// Closer is implemented by backends holding connections.
type Closer interface {
	Close(ctx context.Context) error
}
