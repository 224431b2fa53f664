package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/flicknet/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

func TestRecommend_NeighborFilmsMinusMine(t *testing.T) {
	ctx := context.Background()
	likes := repository.NewMemoryLikeRepo()
	svc := NewRecommendationService(likes, seededDirectory([]int64{1, 2, 3}, nil))

	// User 2 partage le film 10 avec user 1 : voisin. User 3 ne partage
	// rien : ses films ne comptent pas.
	require.NoError(t, likes.Like(ctx, 10, 1))
	require.NoError(t, likes.Like(ctx, 20, 1))
	require.NoError(t, likes.Like(ctx, 10, 2))
	require.NoError(t, likes.Like(ctx, 30, 2))
	require.NoError(t, likes.Like(ctx, 40, 3))

	got, err := svc.Recommend(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{30}, got)
}

func TestRecommend_NeverContainsOwnLikes(t *testing.T) {
	ctx := context.Background()
	likes := repository.NewMemoryLikeRepo()
	svc := NewRecommendationService(likes, seededDirectory([]int64{1, 2}, nil))

	require.NoError(t, likes.Like(ctx, 10, 1))
	require.NoError(t, likes.Like(ctx, 20, 1))
	require.NoError(t, likes.Like(ctx, 10, 2))
	require.NoError(t, likes.Like(ctx, 20, 2))
	require.NoError(t, likes.Like(ctx, 30, 2))

	got, err := svc.Recommend(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{30}, got)
	assert.NotContains(t, got, int64(10))
	assert.NotContains(t, got, int64(20))
}

func TestRecommend_EmptyHistory(t *testing.T) {
	ctx := context.Background()
	likes := repository.NewMemoryLikeRepo()
	svc := NewRecommendationService(likes, seededDirectory([]int64{1, 2}, nil))

	require.NoError(t, likes.Like(ctx, 10, 2))

	got, err := svc.Recommend(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommend_UnknownUser(t *testing.T) {
	svc := NewRecommendationService(repository.NewMemoryLikeRepo(), seededDirectory(nil, nil))

	_, err := svc.Recommend(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
