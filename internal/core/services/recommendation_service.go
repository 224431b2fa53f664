package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
	"github.com/jupiterclapton/flicknet/internal/core/ports"
)

// RecommendationSvc suggère des films par voisinage collaboratif simple :
// un voisin est tout utilisateur partageant au moins un film liké avec la
// cible. Le résultat est un ensemble NON pondéré (contrat historique) ; le
// tri par id croissant ne sert qu'à rendre la réponse stable, ce n'est pas
// un ranking de pertinence.
type RecommendationSvc struct {
	likes     ports.LikeRepository
	directory ports.EntityDirectory
}

func NewRecommendationService(likes ports.LikeRepository, directory ports.EntityDirectory) *RecommendationSvc {
	return &RecommendationSvc{likes: likes, directory: directory}
}

func (s *RecommendationSvc) Recommend(ctx context.Context, userID int64) ([]int64, error) {
	ok, err := s.directory.Exists(ctx, domain.KindUser, userID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", userID, err)
	}
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrUserNotFound)
	}

	// 1. Mes films. Sans historique, pas de voisins : résultat vide.
	mine, err := s.likes.LikedFilmIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("liked films of %d: %w", userID, err)
	}
	if len(mine) == 0 {
		return []int64{}, nil
	}

	seen := make(map[int64]bool, len(mine))
	for _, filmID := range mine {
		seen[filmID] = true
	}

	// 2. Voisins : tout user (≠ cible) ayant liké un de mes films.
	neighbors := make(map[int64]bool)
	for _, filmID := range mine {
		likers, err := s.likes.LikerIDs(ctx, filmID)
		if err != nil {
			return nil, fmt.Errorf("likers of film %d: %w", filmID, err)
		}
		for _, likerID := range likers {
			if likerID != userID {
				neighbors[likerID] = true
			}
		}
	}

	// 3. Candidats : l'union des films des voisins, moins les miens.
	candidates := make(map[int64]bool)
	for neighborID := range neighbors {
		films, err := s.likes.LikedFilmIDs(ctx, neighborID)
		if err != nil {
			return nil, fmt.Errorf("liked films of neighbor %d: %w", neighborID, err)
		}
		for _, filmID := range films {
			if !seen[filmID] {
				candidates[filmID] = true
			}
		}
	}

	result := make([]int64, 0, len(candidates))
	for filmID := range candidates {
		result = append(result, filmID)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result, nil
}
