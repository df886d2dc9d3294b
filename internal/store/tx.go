package store

import (
	"slices"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/repository"
)

// Tx is the mutable copy of the snapshot handed to Update callbacks.
// Changes are visible to later calls on the same Tx and to nobody else
// until the update commits.
type Tx struct {
	snap  snapshot
	dirty map[string]bool
}

func newTx(s snapshot) *Tx {
	groups := make([]domain.WorkoutGroup, len(s.groups))
	for i, g := range s.groups {
		groups[i] = g.Clone()
	}
	return &Tx{
		snap: snapshot{
			users:    slices.Clone(s.users),
			groups:   groups,
			workouts: slices.Clone(s.workouts),
			progress: slices.Clone(s.progress),
		},
		dirty: make(map[string]bool),
	}
}

func (tx *Tx) Users() []domain.User { return tx.snap.users }

func (tx *Tx) Groups() []domain.WorkoutGroup { return tx.snap.groups }

func (tx *Tx) Workouts() []domain.Workout { return tx.snap.workouts }

func (tx *Tx) Progress() []domain.ProgressRecord { return tx.snap.progress }

// User finds a user by ID.
func (tx *Tx) User(id string) (domain.User, bool) {
	i := slices.IndexFunc(tx.snap.users, func(u domain.User) bool { return u.ID == id })
	if i < 0 {
		return domain.User{}, false
	}
	return tx.snap.users[i], true
}

// UserByEmail finds a user by email address.
func (tx *Tx) UserByEmail(email string) (domain.User, bool) {
	i := slices.IndexFunc(tx.snap.users, func(u domain.User) bool { return u.Email == email })
	if i < 0 {
		return domain.User{}, false
	}
	return tx.snap.users[i], true
}

// AddUser appends a user record.
func (tx *Tx) AddUser(u domain.User) {
	tx.snap.users = append(tx.snap.users, u)
	tx.dirty[repository.CollectionUsers] = true
}

// Group returns a pointer to the group inside the transaction. Changes
// made through it must be followed by MarkGroupsDirty.
func (tx *Tx) Group(id string) (*domain.WorkoutGroup, bool) {
	for i := range tx.snap.groups {
		if tx.snap.groups[i].ID == id {
			return &tx.snap.groups[i], true
		}
	}
	return nil, false
}

// AddGroup appends a group record.
func (tx *Tx) AddGroup(g domain.WorkoutGroup) {
	tx.snap.groups = append(tx.snap.groups, g.Clone())
	tx.dirty[repository.CollectionGroups] = true
}

// MarkGroupsDirty schedules the groups collection for saving.
func (tx *Tx) MarkGroupsDirty() {
	tx.dirty[repository.CollectionGroups] = true
}

// Workout finds a workout by ID.
func (tx *Tx) Workout(id string) (domain.Workout, bool) {
	i := slices.IndexFunc(tx.snap.workouts, func(w domain.Workout) bool { return w.ID == id })
	if i < 0 {
		return domain.Workout{}, false
	}
	return tx.snap.workouts[i], true
}

// AddWorkout appends a workout record.
func (tx *Tx) AddWorkout(w domain.Workout) {
	tx.snap.workouts = append(tx.snap.workouts, w)
	tx.dirty[repository.CollectionWorkouts] = true
}

// AppendProgress appends a progress record. Records are never replaced.
func (tx *Tx) AppendProgress(r domain.ProgressRecord) {
	tx.snap.progress = append(tx.snap.progress, r)
	tx.dirty[repository.CollectionProgress] = true
}
