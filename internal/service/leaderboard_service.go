package service

import (
	"context"
	"slices"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/store"
)

// LeaderboardService computes group standings. Nothing is cached; every
// call reads the current progress records.
type LeaderboardService interface {
	// GetLeaderboard ranks the users with at least one record for a
	// workout of the group by summed score, highest first. Users with
	// equal scores are ordered by when they first scored in the group.
	GetLeaderboard(ctx context.Context, groupID string) ([]domain.LeaderboardEntry, error)
}

type leaderboardService struct {
	store    *store.Store
	progress ProgressService
}

// NewLeaderboardService creates a leaderboard over the ledger.
func NewLeaderboardService(s *store.Store, progress ProgressService) LeaderboardService {
	return &leaderboardService{store: s, progress: progress}
}

type standing struct {
	entry      domain.LeaderboardEntry
	firstIndex int // position of the user's first record among the group's records
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, groupID string) ([]domain.LeaderboardEntry, error) {
	workoutIDs := make(map[string]struct{})
	users := make(map[string]domain.User)
	s.store.View(func(v *store.View) {
		for _, w := range v.Workouts() {
			if w.GroupID == groupID {
				workoutIDs[w.ID] = struct{}{}
			}
		}
		for _, u := range v.Users() {
			users[u.ID] = u
		}
	})
	if len(workoutIDs) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}

	records, err := s.progress.QueryByWorkoutIDs(ctx, workoutIDs)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*standing)
	var standings []*standing
	for i, r := range records {
		st, ok := byUser[r.UserID]
		if !ok {
			st = &standing{
				entry:      domain.LeaderboardEntry{UserID: r.UserID},
				firstIndex: i,
			}
			byUser[r.UserID] = st
			standings = append(standings, st)
		}
		st.entry.TotalScore += r.TotalScore
		st.entry.CompletedWorkouts++
	}

	slices.SortFunc(standings, func(a, b *standing) int {
		if a.entry.TotalScore != b.entry.TotalScore {
			return b.entry.TotalScore - a.entry.TotalScore
		}
		return a.firstIndex - b.firstIndex
	})

	entries := make([]domain.LeaderboardEntry, len(standings))
	for i, st := range standings {
		e := st.entry
		e.Rank = i + 1
		if u, ok := users[e.UserID]; ok {
			e.UserName = u.DisplayName()
			e.Avatar = u.Avatar
		} else {
			e.UserName = domain.FallbackUserName(e.UserID)
		}
		entries[i] = e
	}
	return entries, nil
}
