package service

import (
	"context"
	"strings"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/events"
	"alcyxob/group-fitness/internal/store"

	log "github.com/sirupsen/logrus"
)

// GroupService manages groups and their membership.
type GroupService interface {
	CreateGroup(ctx context.Context, input domain.CreateGroupInput) (*domain.WorkoutGroup, error)
	// JoinGroup adds userID to the members of the group. Joining a group
	// twice leaves members unchanged.
	JoinGroup(ctx context.Context, groupID, userID string) (*domain.WorkoutGroup, error)
	GetGroup(ctx context.Context, groupID string) (*domain.WorkoutGroup, error)
	ListGroups(ctx context.Context) ([]domain.WorkoutGroup, error)
	ListUserGroups(ctx context.Context, userID string) ([]domain.WorkoutGroup, error)
	// ListAvailableGroups returns public groups userID has not joined.
	ListAvailableGroups(ctx context.Context, userID string) ([]domain.WorkoutGroup, error)
}

type groupService struct {
	store *store.Store
	deps  Deps
}

// NewGroupService creates a new group service.
func NewGroupService(s *store.Store, deps Deps) GroupService {
	return &groupService{store: s, deps: deps.withDefaults()}
}

func (s *groupService) CreateGroup(ctx context.Context, input domain.CreateGroupInput) (*domain.WorkoutGroup, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" {
		return nil, invalid("name", "cannot be empty")
	}
	if description == "" {
		return nil, invalid("description", "cannot be empty")
	}
	if input.CreatorID == "" {
		return nil, invalid("creatorId", "cannot be empty")
	}

	group := domain.WorkoutGroup{
		ID:          s.deps.NewID(),
		Name:        name,
		Description: description,
		CreatedBy:   input.CreatorID,
		Members:     []string{input.CreatorID},
		WorkoutIDs:  []string{},
		CreatedAt:   s.deps.Now(),
		IsPublic:    true,
	}
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		tx.AddGroup(group)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("group %s created by %s", group.ID, group.CreatedBy)
	s.deps.publish(ctx, events.Event{Type: events.GroupCreated, GroupID: group.ID, UserID: group.CreatedBy})
	return &group, nil
}

func (s *groupService) JoinGroup(ctx context.Context, groupID, userID string) (*domain.WorkoutGroup, error) {
	if userID == "" {
		return nil, invalid("userId", "cannot be empty")
	}

	var (
		result domain.WorkoutGroup
		joined bool
	)
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		group, ok := tx.Group(groupID)
		if !ok {
			return groupNotFound(groupID)
		}
		if !group.HasMember(userID) {
			group.Members = append(group.Members, userID)
			tx.MarkGroupsDirty()
			joined = true
		}
		result = group.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if joined {
		log.Infof("user %s joined group %s", userID, groupID)
		s.deps.publish(ctx, events.Event{Type: events.GroupJoined, GroupID: groupID, UserID: userID})
	}
	return &result, nil
}

func (s *groupService) GetGroup(_ context.Context, groupID string) (*domain.WorkoutGroup, error) {
	for _, g := range s.store.Groups() {
		if g.ID == groupID {
			return &g, nil
		}
	}
	return nil, groupNotFound(groupID)
}

func (s *groupService) ListGroups(_ context.Context) ([]domain.WorkoutGroup, error) {
	return s.store.Groups(), nil
}

func (s *groupService) ListUserGroups(_ context.Context, userID string) ([]domain.WorkoutGroup, error) {
	return s.filter(func(g *domain.WorkoutGroup) bool { return g.HasMember(userID) }), nil
}

func (s *groupService) ListAvailableGroups(_ context.Context, userID string) ([]domain.WorkoutGroup, error) {
	return s.filter(func(g *domain.WorkoutGroup) bool { return g.IsPublic && !g.HasMember(userID) }), nil
}

func (s *groupService) filter(keep func(g *domain.WorkoutGroup) bool) []domain.WorkoutGroup {
	out := []domain.WorkoutGroup{}
	for _, g := range s.store.Groups() {
		if keep(&g) {
			out = append(out, g)
		}
	}
	return out
}
