package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
	"github.com/jupiterclapton/flicknet/internal/core/ports"
)

// FeedSvc implémente ports.FeedService. Le FeedRepository est la source de
// vérité (ids monotones) ; le FeedCache est un write-through optionnel avec
// fallback + réchauffage sur miss.
type FeedSvc struct {
	repo      ports.FeedRepository
	cache     ports.FeedCache // nil = pas de cache
	directory ports.EntityDirectory

	now func() time.Time
}

func NewFeedService(repo ports.FeedRepository, cache ports.FeedCache, directory ports.EntityDirectory) *FeedSvc {
	return &FeedSvc{repo: repo, cache: cache, directory: directory, now: time.Now}
}

func (s *FeedSvc) Append(ctx context.Context, userID int64, t domain.EventType, op domain.Operation, entityID int64) (*domain.Event, error) {
	event := &domain.Event{
		Timestamp: s.now().UnixMilli(),
		UserID:    userID,
		Type:      t,
		Operation: op,
		EntityID:  entityID,
	}

	stored, err := s.repo.Append(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("append event for user %d: %w", userID, err)
	}

	// Write-through cache, best effort.
	if s.cache != nil {
		if err := s.cache.Push(ctx, stored); err != nil {
			slog.Error("failed to push event to feed cache", "user_id", userID, "error", err)
		}
	}
	return stored, nil
}

func (s *FeedSvc) GetFeed(ctx context.Context, userID int64) ([]*domain.Event, error) {
	ok, err := s.directory.Exists(ctx, domain.KindUser, userID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", userID, err)
	}
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrUserNotFound)
	}

	if s.cache != nil {
		events, ok, err := s.cache.Timeline(ctx, userID)
		if err != nil {
			slog.Warn("feed cache read failed, falling back to store", "user_id", userID, "error", err)
		} else if ok {
			return events, nil
		}
	}

	events, err := s.repo.EventsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("feed of user %d: %w", userID, err)
	}

	// Réchauffage après un miss, best effort.
	if s.cache != nil && len(events) > 0 {
		if err := s.cache.Warm(ctx, userID, events); err != nil {
			slog.Warn("feed cache warm failed", "user_id", userID, "error", err)
		}
	}
	return events, nil
}
