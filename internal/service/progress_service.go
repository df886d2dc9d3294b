package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/events"
	"alcyxob/group-fitness/internal/scoring"
	"alcyxob/group-fitness/internal/store"

	log "github.com/sirupsen/logrus"
)

const recentActivityLimit = 5

// ProgressService is the append-only ledger of workout submissions.
type ProgressService interface {
	// Append stores record as a new entry, assigning an ID and completion
	// time when they are empty. Existing records are never replaced.
	Append(ctx context.Context, record domain.ProgressRecord) (*domain.ProgressRecord, error)
	// LogProgress scores a submission against its workout and appends it.
	LogProgress(ctx context.Context, input domain.LogProgressInput) (*domain.ProgressRecord, error)
	ListProgress(ctx context.Context) ([]domain.ProgressRecord, error)
	// QueryByWorkoutAndUser returns the records of one user for one
	// workout in insertion order.
	QueryByWorkoutAndUser(ctx context.Context, workoutID, userID string) ([]domain.ProgressRecord, error)
	// QueryByWorkoutIDs returns the records of any of the workouts in
	// insertion order.
	QueryByWorkoutIDs(ctx context.Context, workoutIDs map[string]struct{}) ([]domain.ProgressRecord, error)
	LastCompleted(ctx context.Context, workoutID, userID string) (*domain.ProgressRecord, bool, error)
	CompletionCount(ctx context.Context, workoutID string) (int, error)
	UserStats(ctx context.Context, userID string) (*domain.UserStats, error)
}

type progressService struct {
	store *store.Store
	deps  Deps
}

// NewProgressService creates a new progress ledger.
func NewProgressService(s *store.Store, deps Deps) ProgressService {
	return &progressService{store: s, deps: deps.withDefaults()}
}

func (s *progressService) Append(ctx context.Context, record domain.ProgressRecord) (*domain.ProgressRecord, error) {
	if record.ID == "" {
		record.ID = s.deps.NewID()
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = s.deps.Now()
	}
	record.ExerciseProgresses = slices.Clone(record.ExerciseProgresses)
	if record.ExerciseProgresses == nil {
		record.ExerciseProgresses = []domain.ExerciseProgress{}
	}

	err := s.store.Update(ctx, func(tx *store.Tx) error {
		tx.AppendProgress(record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *progressService) LogProgress(ctx context.Context, input domain.LogProgressInput) (*domain.ProgressRecord, error) {
	if input.UserID == "" {
		return nil, invalid("userId", "cannot be empty")
	}
	var workout *domain.Workout
	s.store.View(func(v *store.View) {
		for _, w := range v.Workouts() {
			if w.ID == input.WorkoutID {
				clone := w.Clone()
				workout = &clone
				return
			}
		}
	})
	if workout == nil {
		return nil, workoutNotFound(input.WorkoutID)
	}

	progresses := make([]domain.ExerciseProgress, 0, len(input.ExerciseProgresses))
	for i, p := range input.ExerciseProgresses {
		if p.Value < 0 {
			return nil, invalid(fmt.Sprintf("exerciseProgresses[%d].value", i), "cannot be negative")
		}
		p.Unit = strings.TrimSpace(p.Unit)
		if p.Unit == "" {
			p.Unit = domain.DefaultUnit
			if exercise, ok := workout.Exercise(p.ExerciseID); ok && exercise.Unit != "" {
				p.Unit = exercise.Unit
			}
		}
		progresses = append(progresses, p)
	}

	record, err := s.Append(ctx, domain.ProgressRecord{
		UserID:             input.UserID,
		WorkoutID:          workout.ID,
		ExerciseProgresses: progresses,
		CompletedAt:        input.CompletedAt,
		TotalScore:         scoring.Score(progresses, workout.Exercises),
	})
	if err != nil {
		return nil, err
	}

	log.Infof("user %s logged workout %s with score %d", record.UserID, record.WorkoutID, record.TotalScore)
	s.deps.publish(ctx, events.Event{
		Type:       events.ProgressLogged,
		GroupID:    workout.GroupID,
		WorkoutID:  record.WorkoutID,
		UserID:     record.UserID,
		ProgressID: record.ID,
		Score:      record.TotalScore,
	})
	return record, nil
}

func (s *progressService) ListProgress(_ context.Context) ([]domain.ProgressRecord, error) {
	return s.store.Progress(), nil
}

func (s *progressService) QueryByWorkoutAndUser(_ context.Context, workoutID, userID string) ([]domain.ProgressRecord, error) {
	return s.collect(func(r *domain.ProgressRecord) bool {
		return r.WorkoutID == workoutID && r.UserID == userID
	}), nil
}

func (s *progressService) QueryByWorkoutIDs(_ context.Context, workoutIDs map[string]struct{}) ([]domain.ProgressRecord, error) {
	return s.collect(func(r *domain.ProgressRecord) bool {
		_, ok := workoutIDs[r.WorkoutID]
		return ok
	}), nil
}

func (s *progressService) LastCompleted(ctx context.Context, workoutID, userID string) (*domain.ProgressRecord, bool, error) {
	records, err := s.QueryByWorkoutAndUser(ctx, workoutID, userID)
	if err != nil || len(records) == 0 {
		return nil, false, err
	}
	return &records[len(records)-1], true, nil
}

func (s *progressService) CompletionCount(_ context.Context, workoutID string) (int, error) {
	count := 0
	s.store.View(func(v *store.View) {
		for _, r := range v.Progress() {
			if r.WorkoutID == workoutID {
				count++
			}
		}
	})
	return count, nil
}

func (s *progressService) UserStats(_ context.Context, userID string) (*domain.UserStats, error) {
	stats := &domain.UserStats{UserID: userID, RecentActivity: []domain.ProgressRecord{}}
	var records []domain.ProgressRecord
	s.store.View(func(v *store.View) {
		for _, g := range v.Groups() {
			if g.HasMember(userID) {
				stats.GroupsJoined++
			}
		}
		for _, r := range v.Progress() {
			if r.UserID == userID {
				records = append(records, r.Clone())
			}
		}
	})

	for _, r := range records {
		stats.WorkoutsLogged++
		stats.TotalScore += r.TotalScore
	}
	// Latest submissions first, in ledger order; CompletedAt is client
	// supplied and may be back-dated.
	if len(records) > recentActivityLimit {
		records = records[len(records)-recentActivityLimit:]
	}
	slices.Reverse(records)
	stats.RecentActivity = append(stats.RecentActivity, records...)
	return stats, nil
}

func (s *progressService) collect(keep func(r *domain.ProgressRecord) bool) []domain.ProgressRecord {
	out := []domain.ProgressRecord{}
	s.store.View(func(v *store.View) {
		for _, r := range v.Progress() {
			if keep(&r) {
				out = append(out, r.Clone())
			}
		}
	})
	return out
}
