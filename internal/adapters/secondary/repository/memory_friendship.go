package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// MemoryFriendshipRepo : implémentation en mémoire du graphe d'amitié.
// Utilisée en mode STORAGE_DRIVER=memory et par les tests. Le mutex global
// sérialise le read-check-then-write du flag mutual : pas de lost update
// possible entre (A,B) et (B,A).
type MemoryFriendshipRepo struct {
	mu sync.RWMutex
	// edges[owner][target] = mutual. Une seule structure propriétaire,
	// jamais de back-pointers dupliqués côté entité.
	edges map[int64]map[int64]bool
}

func NewMemoryFriendshipRepo() *MemoryFriendshipRepo {
	return &MemoryFriendshipRepo{edges: make(map[int64]map[int64]bool)}
}

func (r *MemoryFriendshipRepo) AddFriend(_ context.Context, ownerID, targetID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.edges[ownerID][targetID]; !ok {
		if r.edges[ownerID] == nil {
			r.edges[ownerID] = make(map[int64]bool)
		}
		r.edges[ownerID][targetID] = false
	}

	// Si l'arête inverse existe, les DEUX passent à mutual.
	if _, reverse := r.edges[targetID][ownerID]; reverse {
		r.edges[ownerID][targetID] = true
		r.edges[targetID][ownerID] = true
	}
	return nil
}

func (r *MemoryFriendshipRepo) RemoveFriend(_ context.Context, ownerID, targetID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.edges[ownerID], targetID)

	// L'arête inverse survit en follow simple, plus jamais mutual.
	if _, reverse := r.edges[targetID][ownerID]; reverse {
		r.edges[targetID][ownerID] = false
	}
	return nil
}

func (r *MemoryFriendshipRepo) FriendIDs(_ context.Context, ownerID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.edges[ownerID]))
	for targetID := range r.edges[ownerID] {
		ids = append(ids, targetID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *MemoryFriendshipRepo) CommonFriendIDs(_ context.Context, userID, otherID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var common []int64
	for targetID := range r.edges[userID] {
		if _, ok := r.edges[otherID][targetID]; ok {
			common = append(common, targetID)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })
	return common, nil
}

func (r *MemoryFriendshipRepo) RelationStatus(_ context.Context, ownerID, targetID int64) (*domain.RelationStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mutual, following := r.edges[ownerID][targetID]
	_, followedBy := r.edges[targetID][ownerID]
	return &domain.RelationStatus{
		IsFollowing:  following,
		IsFollowedBy: followedBy,
		IsMutual:     mutual, // flag stocké, maintenu par add/remove
	}, nil
}
