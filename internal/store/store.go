// Package store holds the in-memory snapshot of all collections and
// mirrors it to a key-value backend.
//
// Reads are served from the snapshot and never touch the backend. Writes
// go through Update, a unit of work that persists every collection it
// touched before the snapshot changes; if persisting fails the snapshot
// and the backend are left as they were.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Store is the single owner of the four collections.
type Store struct {
	backend repository.Backend

	mu   sync.RWMutex
	snap snapshot
}

type snapshot struct {
	users    []domain.User
	groups   []domain.WorkoutGroup
	workouts []domain.Workout
	progress []domain.ProgressRecord
}

// Open loads every collection from backend. Any load or decode failure is
// returned as a *repository.StorageError.
func Open(ctx context.Context, backend repository.Backend) (*Store, error) {
	s := &Store{backend: backend}
	snap := snapshot{}
	if err := load(ctx, backend, repository.CollectionUsers, &snap.users); err != nil {
		return nil, err
	}
	if err := load(ctx, backend, repository.CollectionGroups, &snap.groups); err != nil {
		return nil, err
	}
	if err := load(ctx, backend, repository.CollectionWorkouts, &snap.workouts); err != nil {
		return nil, err
	}
	if err := load(ctx, backend, repository.CollectionProgress, &snap.progress); err != nil {
		return nil, err
	}
	s.snap = snap

	log.Debugf("store opened: %d users, %d groups, %d workouts, %d progress records",
		len(snap.users), len(snap.groups), len(snap.workouts), len(snap.progress))
	return s, nil
}

func load[T any](ctx context.Context, backend repository.Backend, collection string, dst *[]T) error {
	data, err := backend.Load(ctx, collection)
	if err != nil {
		return repository.NewStorageError("load", collection, err)
	}
	if len(data) == 0 {
		*dst = []T{}
		return nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return repository.NewStorageError("load", collection, fmt.Errorf("decode: %w", err))
	}
	if records == nil {
		records = []T{}
	}
	*dst = records
	return nil
}

// Backend returns the backend the store persists to.
func (s *Store) Backend() repository.Backend {
	return s.backend
}

// Users returns a copy of the users collection.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.snap.users)
}

// Groups returns a copy of the groups collection.
func (s *Store) Groups() []domain.WorkoutGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WorkoutGroup, len(s.snap.groups))
	for i, g := range s.snap.groups {
		out[i] = g.Clone()
	}
	return out
}

// Workouts returns a copy of the workouts collection.
func (s *Store) Workouts() []domain.Workout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Workout, len(s.snap.workouts))
	for i, w := range s.snap.workouts {
		out[i] = w.Clone()
	}
	return out
}

// Progress returns a copy of the progress collection in insertion order.
func (s *Store) Progress() []domain.ProgressRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ProgressRecord, len(s.snap.progress))
	for i, r := range s.snap.progress {
		out[i] = r.Clone()
	}
	return out
}

// View runs fn with read access to the live snapshot. fn must not retain
// or modify the slices it is given.
func (s *Store) View(fn func(v *View)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&View{snap: &s.snap})
}

// View is read-only access to the snapshot inside Store.View.
type View struct {
	snap *snapshot
}

func (v *View) Users() []domain.User { return v.snap.users }

func (v *View) Groups() []domain.WorkoutGroup { return v.snap.groups }

func (v *View) Workouts() []domain.Workout { return v.snap.workouts }

func (v *View) Progress() []domain.ProgressRecord { return v.snap.progress }

// Update runs fn against a private copy of the snapshot. When fn returns
// nil, every collection it marked dirty is persisted and only then does
// the copy replace the snapshot. Updates are serialized.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTx(s.snap)
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.dirty) == 0 {
		return nil
	}

	if err := s.commit(ctx, tx); err != nil {
		return err
	}
	s.snap = tx.snap
	return nil
}

func (s *Store) commit(ctx context.Context, tx *Tx) error {
	next := make(map[string][]byte, len(tx.dirty))
	var order []string
	for _, collection := range repository.Collections {
		if !tx.dirty[collection] {
			continue
		}
		data, err := encode(tx.snap, collection)
		if err != nil {
			return repository.NewStorageError("save", collection, err)
		}
		next[collection] = data
		order = append(order, collection)
	}

	if batch, ok := s.backend.(repository.BatchSaver); ok {
		if err := batch.SaveBatch(ctx, next); err != nil {
			return repository.NewStorageError("save", order[0], err)
		}
		return nil
	}

	for i, collection := range order {
		err := s.backend.Save(ctx, collection, next[collection])
		if err == nil {
			continue
		}
		err = repository.NewStorageError("save", collection, err)
		if rbErr := s.rollback(ctx, order[:i]); rbErr != nil {
			log.Errorf("store: rollback after failed %s save left backend inconsistent: %v", collection, rbErr)
			err = multierr.Append(err, rbErr)
		}
		return err
	}
	return nil
}

// rollback re-saves the committed snapshot for collections already
// written by a failed commit.
func (s *Store) rollback(ctx context.Context, written []string) error {
	var errs error
	for _, collection := range written {
		data, err := encode(s.snap, collection)
		if err == nil {
			err = s.backend.Save(ctx, collection, data)
		}
		if err != nil {
			errs = multierr.Append(errs, repository.NewStorageError("rollback", collection, err))
		}
	}
	return errs
}

func encode(snap snapshot, collection string) ([]byte, error) {
	switch collection {
	case repository.CollectionUsers:
		return json.Marshal(snap.users)
	case repository.CollectionGroups:
		return json.Marshal(snap.groups)
	case repository.CollectionWorkouts:
		return json.Marshal(snap.workouts)
	case repository.CollectionProgress:
		return json.Marshal(snap.progress)
	}
	return nil, fmt.Errorf("unknown collection %q", collection)
}
