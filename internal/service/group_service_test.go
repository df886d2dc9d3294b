package service

import (
	"context"
	"errors"
	"testing"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/events"
	"alcyxob/group-fitness/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroup(t *testing.T) {
	env := newTestEnv(t)

	g, err := env.groups.CreateGroup(context.Background(), domain.CreateGroupInput{
		Name:        "Morning Warriors",
		Description: "desc",
		CreatorID:   "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Morning Warriors", g.Name)
	assert.Equal(t, []string{"u1"}, g.Members)
	assert.Equal(t, []string{}, g.WorkoutIDs)
	assert.True(t, g.IsPublic)
	assert.Equal(t, "u1", g.CreatedBy)
	assert.NotEmpty(t, g.ID)

	stored, err := env.groups.GetGroup(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, g, stored)
	assert.Equal(t, []string{events.GroupCreated}, env.events.Types())
}

func TestCreateGroup_TrimsAndValidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	g, err := env.groups.CreateGroup(ctx, domain.CreateGroupInput{Name: "  Runners ", Description: " 5k club ", CreatorID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "Runners", g.Name)
	assert.Equal(t, "5k club", g.Description)

	tests := []struct {
		name  string
		input domain.CreateGroupInput
		field string
	}{
		{"blank name", domain.CreateGroupInput{Name: "   ", Description: "d", CreatorID: "u1"}, "name"},
		{"blank description", domain.CreateGroupInput{Name: "n", Description: "\t", CreatorID: "u1"}, "description"},
		{"no creator", domain.CreateGroupInput{Name: "n", Description: "d"}, "creatorId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.groups.CreateGroup(ctx, tt.input)
			require.ErrorIs(t, err, ErrValidationFailed)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	groups, err := env.groups.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestJoinGroup_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.createGroup(t, "u1")

	first, err := env.groups.JoinGroup(ctx, g.ID, "u2")
	require.NoError(t, err)
	second, err := env.groups.JoinGroup(ctx, g.ID, "u2")
	require.NoError(t, err)

	assert.Equal(t, []string{"u1", "u2"}, first.Members)
	assert.Equal(t, first.Members, second.Members)
	assert.Equal(t, []string{events.GroupCreated, events.GroupJoined}, env.events.Types())

	// The creator joining again is a no-op as well.
	again, err := env.groups.JoinGroup(ctx, g.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, again.Members)
}

func TestJoinGroup_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.groups.JoinGroup(context.Background(), "missing", "u2")
	require.ErrorIs(t, err, repository.ErrNotFound)
	var nf *repository.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "group", nf.Kind)
	assert.Equal(t, "missing", nf.ID)
}

func TestJoinGroup_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	g := env.createGroup(t, "u1")
	env.backend.FailSave = func(string) error { return errors.New("offline") }

	_, err := env.groups.JoinGroup(context.Background(), g.ID, "u2")
	require.ErrorIs(t, err, repository.ErrStorage)

	stored, err := env.groups.GetGroup(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, stored.Members)
}

func TestListUserAndAvailableGroups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	mine := env.createGroup(t, "u1")
	other := env.createGroup(t, "u2")
	joined := env.createGroup(t, "u3")
	_, err := env.groups.JoinGroup(ctx, joined.ID, "u1")
	require.NoError(t, err)

	userGroups, err := env.groups.ListUserGroups(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{mine.ID, joined.ID}, groupIDs(userGroups))

	available, err := env.groups.ListAvailableGroups(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{other.ID}, groupIDs(available))

	none, err := env.groups.ListUserGroups(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func groupIDs(groups []domain.WorkoutGroup) []string {
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return ids
}
