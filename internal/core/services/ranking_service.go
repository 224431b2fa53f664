package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
	"github.com/jupiterclapton/flicknet/internal/core/ports"
)

// DefaultTopCount est la taille par défaut du top des films populaires.
const DefaultTopCount = 10

// RankingSvc dérive des classements depuis l'index de likes. Ordre
// déterministe exigé : likes décroissants, puis film id croissant.
type RankingSvc struct {
	likes     ports.LikeRepository
	directory ports.EntityDirectory
}

func NewRankingService(likes ports.LikeRepository, directory ports.EntityDirectory) *RankingSvc {
	return &RankingSvc{likes: likes, directory: directory}
}

func (s *RankingSvc) TopByLikes(ctx context.Context, n int, genreID, year int64) ([]domain.FilmRank, error) {
	if n <= 0 {
		n = DefaultTopCount
	}

	// 1. Ensemble candidat : les filtres s'appliquent AVANT le classement.
	candidates, err := s.directory.FilmIDs(ctx, genreID, year)
	if err != nil {
		return nil, fmt.Errorf("list candidate films: %w", err)
	}
	if len(candidates) == 0 {
		return []domain.FilmRank{}, nil
	}

	// 2. Compteurs : le total de likes du film, pas les likes filtrés.
	ranks, err := s.rank(ctx, candidates)
	if err != nil {
		return nil, err
	}

	if len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks, nil
}

func (s *RankingSvc) CommonFilms(ctx context.Context, userID, otherID int64) ([]domain.FilmRank, error) {
	mine, err := s.likes.LikedFilmIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("liked films of %d: %w", userID, err)
	}
	theirs, err := s.likes.LikedFilmIDs(ctx, otherID)
	if err != nil {
		return nil, fmt.Errorf("liked films of %d: %w", otherID, err)
	}

	seen := make(map[int64]bool, len(mine))
	for _, id := range mine {
		seen[id] = true
	}
	var common []int64
	for _, id := range theirs {
		if seen[id] {
			common = append(common, id)
		}
	}
	if len(common) == 0 {
		return []domain.FilmRank{}, nil
	}

	// Tri par total de likes, pas par le poids combiné des deux users.
	return s.rank(ctx, common)
}

// rank classe un ensemble de films par likes décroissants, tie-break par id
// croissant. Les films à zéro like restent dans le classement.
func (s *RankingSvc) rank(ctx context.Context, filmIDs []int64) ([]domain.FilmRank, error) {
	counts, err := s.likes.CountByFilm(ctx, filmIDs)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	ranks := make([]domain.FilmRank, 0, len(filmIDs))
	for _, id := range filmIDs {
		ranks = append(ranks, domain.FilmRank{FilmID: id, Likes: counts[id]})
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Likes != ranks[j].Likes {
			return ranks[i].Likes > ranks[j].Likes
		}
		return ranks[i].FilmID < ranks[j].FilmID
	})
	return ranks, nil
}
