package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

type filmMeta struct {
	year   int64
	genres map[int64]struct{}
}

// MemoryDirectory : annuaire d'entités en mémoire (le catalogue est un
// collaborateur externe ; en mode memory on le simule avec des sets d'ids
// seedés au démarrage ou par les tests).
type MemoryDirectory struct {
	mu      sync.RWMutex
	users   map[int64]struct{}
	films   map[int64]*filmMeta
	reviews map[int64]struct{}
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		users:   make(map[int64]struct{}),
		films:   make(map[int64]*filmMeta),
		reviews: make(map[int64]struct{}),
	}
}

// --- Seeding ---

func (d *MemoryDirectory) AddUser(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[id] = struct{}{}
}

func (d *MemoryDirectory) AddFilm(id, year int64, genreIDs ...int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	meta := &filmMeta{year: year, genres: make(map[int64]struct{}, len(genreIDs))}
	for _, genreID := range genreIDs {
		meta.genres[genreID] = struct{}{}
	}
	d.films[id] = meta
}

func (d *MemoryDirectory) AddReview(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reviews[id] = struct{}{}
}

// --- ports.EntityDirectory ---

func (d *MemoryDirectory) Exists(_ context.Context, kind domain.EntityKind, id int64) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	switch kind {
	case domain.KindUser:
		_, ok := d.users[id]
		return ok, nil
	case domain.KindFilm:
		_, ok := d.films[id]
		return ok, nil
	case domain.KindReview:
		_, ok := d.reviews[id]
		return ok, nil
	}
	return false, nil
}

func (d *MemoryDirectory) FilmIDs(_ context.Context, genreID, year int64) ([]int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]int64, 0, len(d.films))
	for id, meta := range d.films {
		if year != 0 && meta.year != year {
			continue
		}
		if genreID != 0 {
			if _, ok := meta.genres[genreID]; !ok {
				continue
			}
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
