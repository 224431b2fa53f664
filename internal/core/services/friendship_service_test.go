package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/flicknet/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

func newFriendshipFixture(userIDs ...int64) (*FriendshipSvc, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewFriendshipService(repository.NewMemoryFriendshipRepo(), seededDirectory(userIDs, nil), pub)
	return svc, pub
}

func TestAddFriend_OneWayUntilReciprocated(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFriendshipFixture(1, 2)

	require.NoError(t, svc.AddFriend(ctx, 1, 2))

	status, err := svc.CheckRelation(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, status.IsFollowing)
	assert.False(t, status.IsFollowedBy)
	assert.False(t, status.IsMutual)

	// La liste d'amis ne dépend pas de la réciprocité.
	friends, err := svc.GetFriends(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, friends)

	friends, err = svc.GetFriends(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestAddFriend_ReciprocationSetsMutual(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFriendshipFixture(1, 2)

	require.NoError(t, svc.AddFriend(ctx, 1, 2))
	require.NoError(t, svc.AddFriend(ctx, 2, 1))

	for _, pair := range [][2]int64{{1, 2}, {2, 1}} {
		status, err := svc.CheckRelation(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, status.IsMutual, "mutual should hold from %d to %d", pair[0], pair[1])
	}
}

func TestAddFriend_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFriendshipFixture(1, 2)

	require.NoError(t, svc.AddFriend(ctx, 1, 2))
	require.NoError(t, svc.AddFriend(ctx, 1, 2))

	friends, err := svc.GetFriends(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, friends)
}

func TestAddFriend_SelfRejected(t *testing.T) {
	svc, pub := newFriendshipFixture(1)

	err := svc.AddFriend(context.Background(), 1, 1)
	assert.ErrorIs(t, err, domain.ErrSelfRelation)
	assert.Empty(t, pub.all())
}

func TestAddFriend_UnknownUser(t *testing.T) {
	svc, pub := newFriendshipFixture(1)

	err := svc.AddFriend(context.Background(), 1, 42)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, pub.all())
}

func TestRemoveFriend_DemotesReverseEdge(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFriendshipFixture(1, 2)

	require.NoError(t, svc.AddFriend(ctx, 1, 2))
	require.NoError(t, svc.AddFriend(ctx, 2, 1))
	require.NoError(t, svc.RemoveFriend(ctx, 1, 2))

	// L'arête inverse survit mais n'est plus mutual.
	status, err := svc.CheckRelation(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, status.IsFollowing)
	assert.False(t, status.IsMutual)

	friends, err := svc.GetFriends(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestRemoveFriend_AbsentEdgeIsNoop(t *testing.T) {
	svc, _ := newFriendshipFixture(1, 2)
	assert.NoError(t, svc.RemoveFriend(context.Background(), 1, 2))
}

func TestGetCommonFriends(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFriendshipFixture(1, 2, 3, 4, 5)

	require.NoError(t, svc.AddFriend(ctx, 1, 3))
	require.NoError(t, svc.AddFriend(ctx, 1, 4))
	require.NoError(t, svc.AddFriend(ctx, 2, 3))
	require.NoError(t, svc.AddFriend(ctx, 2, 5))

	common, err := svc.GetCommonFriends(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, common)
}

func TestFriendship_EmitsFeedEvents(t *testing.T) {
	ctx := context.Background()
	svc, pub := newFriendshipFixture(1, 2)

	require.NoError(t, svc.AddFriend(ctx, 1, 2))
	require.NoError(t, svc.RemoveFriend(ctx, 1, 2))

	assert.Equal(t, []recordedActivity{
		{UserID: 1, Type: domain.EventFriend, Operation: domain.OpAdd, EntityID: 2},
		{UserID: 1, Type: domain.EventFriend, Operation: domain.OpRemove, EntityID: 2},
	}, pub.all())
}
