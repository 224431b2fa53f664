package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// MemoryReviewRepo : reviews + ledger de ratings en mémoire. Le mutex
// global couvre l'upsert du rating ET le recalcul de useful, donc la
// sérialisation par review est triviale ici.
type MemoryReviewRepo struct {
	mu      sync.RWMutex
	nextID  int64
	reviews map[int64]*domain.Review
	ratings map[int64]map[int64]int // reviewID -> userID -> valeur
}

func NewMemoryReviewRepo() *MemoryReviewRepo {
	return &MemoryReviewRepo{
		reviews: make(map[int64]*domain.Review),
		ratings: make(map[int64]map[int64]int),
	}
}

func (r *MemoryReviewRepo) Create(_ context.Context, review *domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *review
	stored.ID = r.nextID
	stored.Useful = 0
	r.reviews[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (r *MemoryReviewRepo) Update(_ context.Context, review *domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.reviews[review.ID]
	if !ok {
		return nil, fmt.Errorf("review %d: %w", review.ID, domain.ErrReviewNotFound)
	}
	existing.Content = review.Content
	existing.IsPositive = review.IsPositive

	copied := *existing
	return &copied, nil
}

func (r *MemoryReviewRepo) Delete(_ context.Context, reviewID int64) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.reviews[reviewID]
	if !ok {
		return nil, fmt.Errorf("review %d: %w", reviewID, domain.ErrReviewNotFound)
	}
	delete(r.reviews, reviewID)
	delete(r.ratings, reviewID)

	copied := *existing
	return &copied, nil
}

func (r *MemoryReviewRepo) GetByID(_ context.Context, reviewID int64) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing, ok := r.reviews[reviewID]
	if !ok {
		return nil, fmt.Errorf("review %d: %w", reviewID, domain.ErrReviewNotFound)
	}
	copied := *existing
	return &copied, nil
}

func (r *MemoryReviewRepo) ListByFilm(_ context.Context, filmID int64, count int) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		if filmID != 0 && review.FilmID != filmID {
			continue
		}
		copied := *review
		result = append(result, &copied)
	}

	// Usefulness décroissante, id croissant à égalité.
	sort.Slice(result, func(i, j int) bool {
		if result[i].Useful != result[j].Useful {
			return result[i].Useful > result[j].Useful
		}
		return result[i].ID < result[j].ID
	})

	if len(result) > count {
		result = result[:count]
	}
	return result, nil
}

func (r *MemoryReviewRepo) Rate(_ context.Context, reviewID, userID int64, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[reviewID]; !ok {
		return fmt.Errorf("review %d: %w", reviewID, domain.ErrReviewNotFound)
	}
	if r.ratings[reviewID] == nil {
		r.ratings[reviewID] = make(map[int64]int)
	}
	// Upsert : un nouveau rating du même user remplace l'ancien.
	r.ratings[reviewID][userID] = value
	r.recomputeUseful(reviewID)
	return nil
}

func (r *MemoryReviewRepo) Unrate(_ context.Context, reviewID, userID int64, value int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[reviewID]; !ok {
		return false, fmt.Errorf("review %d: %w", reviewID, domain.ErrReviewNotFound)
	}

	// Suppression filtrée par valeur : retirer un dislike alors que le
	// rating stocké est un like ne fait rien.
	stored, ok := r.ratings[reviewID][userID]
	if !ok || stored != value {
		return false, nil
	}
	delete(r.ratings[reviewID], userID)
	r.recomputeUseful(reviewID)
	return true, nil
}

func (r *MemoryReviewRepo) Usefulness(_ context.Context, reviewID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing, ok := r.reviews[reviewID]
	if !ok {
		return 0, fmt.Errorf("review %d: %w", reviewID, domain.ErrReviewNotFound)
	}
	return existing.Useful, nil
}

// recomputeUseful recalcule l'agrégat dénormalisé. Appelé sous lock.
func (r *MemoryReviewRepo) recomputeUseful(reviewID int64) {
	var sum int64
	for _, value := range r.ratings[reviewID] {
		sum += int64(value)
	}
	r.reviews[reviewID].Useful = sum
}
