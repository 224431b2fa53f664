package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/flicknet/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// likeN fait liker filmID par les users [1..n].
func likeN(t *testing.T, likes *repository.MemoryLikeRepo, filmID int64, n int) {
	t.Helper()
	for u := 1; u <= n; u++ {
		require.NoError(t, likes.Like(context.Background(), filmID, int64(u)))
	}
}

func TestTopByLikes_OrderAndTieBreak(t *testing.T) {
	ctx := context.Background()
	likes := repository.NewMemoryLikeRepo()
	dir := repository.NewMemoryDirectory()
	for _, id := range []int64{1, 2, 3} {
		dir.AddFilm(id, 0)
	}
	svc := NewRankingService(likes, dir)

	likeN(t, likes, 1, 5)
	likeN(t, likes, 2, 5)
	likeN(t, likes, 3, 3)

	// Égalité de likes : l'id le plus petit d'abord.
	top, err := svc.TopByLikes(ctx, 2, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.FilmRank{
		{FilmID: 1, Likes: 5},
		{FilmID: 2, Likes: 5},
	}, top)
}

func TestTopByLikes_ZeroLikeFilmsIncluded(t *testing.T) {
	ctx := context.Background()
	likes := repository.NewMemoryLikeRepo()
	dir := repository.NewMemoryDirectory()
	dir.AddFilm(7, 0)
	dir.AddFilm(8, 0)
	svc := NewRankingService(likes, dir)

	likeN(t, likes, 8, 1)

	top, err := svc.TopByLikes(ctx, 10, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.FilmRank{
		{FilmID: 8, Likes: 1},
		{FilmID: 7, Likes: 0},
	}, top)
}

func TestTopByLikes_FiltersBeforeRanking(t *testing.T) {
	ctx := context.Background()
	likes := repository.NewMemoryLikeRepo()
	dir := repository.NewMemoryDirectory()
	dir.AddFilm(1, 1999, 4)
	dir.AddFilm(2, 2005, 4)
	dir.AddFilm(3, 2005, 6)
	svc := NewRankingService(likes, dir)

	likeN(t, likes, 1, 9)
	likeN(t, likes, 2, 2)
	likeN(t, likes, 3, 5)

	// Filtre genre : le film 3 sort malgré ses likes.
	top, err := svc.TopByLikes(ctx, 10, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.FilmRank{
		{FilmID: 1, Likes: 9},
		{FilmID: 2, Likes: 2},
	}, top)

	// Filtre genre + année : le compteur reste le total, pas un total filtré.
	top, err = svc.TopByLikes(ctx, 10, 4, 2005)
	require.NoError(t, err)
	assert.Equal(t, []domain.FilmRank{{FilmID: 2, Likes: 2}}, top)
}

func TestTopByLikes_DefaultCount(t *testing.T) {
	ctx := context.Background()
	likes := repository.NewMemoryLikeRepo()
	dir := repository.NewMemoryDirectory()
	for id := int64(1); id <= 15; id++ {
		dir.AddFilm(id, 0)
	}
	svc := NewRankingService(likes, dir)

	top, err := svc.TopByLikes(ctx, 0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, top, DefaultTopCount)
}

func TestCommonFilms(t *testing.T) {
	ctx := context.Background()
	likes := repository.NewMemoryLikeRepo()
	dir := repository.NewMemoryDirectory()
	svc := NewRankingService(likes, dir)

	// User 1 et 2 partagent les films 10 et 20 ; 30 n'est qu'à user 1.
	require.NoError(t, likes.Like(ctx, 10, 1))
	require.NoError(t, likes.Like(ctx, 20, 1))
	require.NoError(t, likes.Like(ctx, 30, 1))
	require.NoError(t, likes.Like(ctx, 10, 2))
	require.NoError(t, likes.Like(ctx, 20, 2))
	require.NoError(t, likes.Like(ctx, 20, 3))

	common, err := svc.CommonFilms(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.FilmRank{
		{FilmID: 20, Likes: 3},
		{FilmID: 10, Likes: 2},
	}, common)
}

func TestCommonFilms_NoOverlap(t *testing.T) {
	ctx := context.Background()
	likes := repository.NewMemoryLikeRepo()
	svc := NewRankingService(likes, repository.NewMemoryDirectory())

	require.NoError(t, likes.Like(ctx, 10, 1))
	require.NoError(t, likes.Like(ctx, 20, 2))

	common, err := svc.CommonFilms(ctx, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, common)
}
