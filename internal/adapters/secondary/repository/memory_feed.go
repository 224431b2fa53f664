package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// MemoryFeedRepo : journal append-only en mémoire. Pas d'update ni de
// delete : le contrat ne les définit pas.
type MemoryFeedRepo struct {
	mu     sync.RWMutex
	nextID int64
	events map[int64][]*domain.Event // userID -> events dans l'ordre d'insertion
}

func NewMemoryFeedRepo() *MemoryFeedRepo {
	return &MemoryFeedRepo{events: make(map[int64][]*domain.Event)}
}

func (r *MemoryFeedRepo) Append(_ context.Context, event *domain.Event) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *event
	stored.ID = r.nextID
	r.events[stored.UserID] = append(r.events[stored.UserID], &stored)

	copied := stored
	return &copied, nil
}

func (r *MemoryFeedRepo) EventsByUser(_ context.Context, userID int64) ([]*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.events[userID]
	result := make([]*domain.Event, 0, len(stored))
	for _, event := range stored {
		copied := *event
		result = append(result, &copied)
	}

	// Timestamp croissant ; l'ID (ordre d'insertion) départage les égalités.
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
