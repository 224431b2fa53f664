package services

import (
	"context"
	"sync"

	"github.com/jupiterclapton/flicknet/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// recordedActivity capture un appel au FeedSink pour vérification.
type recordedActivity struct {
	UserID    int64
	Type      domain.EventType
	Operation domain.Operation
	EntityID  int64
}

// recordingPublisher est un ports.ActivityPublisher de test.
type recordingPublisher struct {
	mu      sync.Mutex
	entries []recordedActivity
}

func (p *recordingPublisher) Record(_ context.Context, userID int64, t domain.EventType, op domain.Operation, entityID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, recordedActivity{UserID: userID, Type: t, Operation: op, EntityID: entityID})
	return nil
}

func (p *recordingPublisher) all() []recordedActivity {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]recordedActivity, len(p.entries))
	copy(out, p.entries)
	return out
}

// seededDirectory fabrique un annuaire avec quelques users et films.
func seededDirectory(userIDs []int64, filmIDs []int64) *repository.MemoryDirectory {
	dir := repository.NewMemoryDirectory()
	for _, id := range userIDs {
		dir.AddUser(id)
	}
	for _, id := range filmIDs {
		dir.AddFilm(id, 0)
	}
	return dir
}
