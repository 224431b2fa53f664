package repository

import (
	"context"
	"sort"
	"sync"
)

// MemoryLikeRepo : index bipartite user<->film en mémoire, sémantique de
// set. Les deux index inverses vivent dans le même propriétaire et mutent
// sous le même lock, donc pas de divergence possible.
type MemoryLikeRepo struct {
	mu     sync.RWMutex
	byFilm map[int64]map[int64]struct{} // filmID -> set(userID)
	byUser map[int64]map[int64]struct{} // userID -> set(filmID)
}

func NewMemoryLikeRepo() *MemoryLikeRepo {
	return &MemoryLikeRepo{
		byFilm: make(map[int64]map[int64]struct{}),
		byUser: make(map[int64]map[int64]struct{}),
	}
}

func (r *MemoryLikeRepo) Like(_ context.Context, filmID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byFilm[filmID] == nil {
		r.byFilm[filmID] = make(map[int64]struct{})
	}
	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[int64]struct{})
	}
	r.byFilm[filmID][userID] = struct{}{}
	r.byUser[userID][filmID] = struct{}{}
	return nil
}

func (r *MemoryLikeRepo) Unlike(_ context.Context, filmID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byFilm[filmID], userID)
	delete(r.byUser[userID], filmID)
	return nil
}

func (r *MemoryLikeRepo) CountLikes(_ context.Context, filmID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byFilm[filmID])), nil
}

func (r *MemoryLikeRepo) LikerIDs(_ context.Context, filmID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.byFilm[filmID]), nil
}

func (r *MemoryLikeRepo) LikedFilmIDs(_ context.Context, userID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.byUser[userID]), nil
}

func (r *MemoryLikeRepo) CountByFilm(_ context.Context, filmIDs []int64) (map[int64]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[int64]int64, len(filmIDs))
	for _, filmID := range filmIDs {
		counts[filmID] = int64(len(r.byFilm[filmID]))
	}
	return counts, nil
}

func sortedKeys(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
