package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// RedisFeedCache : cache de lecture du feed en Sorted Set, un ZSET par
// utilisateur. Score = timestamp (ms) ; le member commence par l'event id
// zéro-paddé pour que l'ordre lexicographique départage les scores égaux
// comme l'ordre d'insertion.
type RedisFeedCache struct {
	client *redis.Client
	ttl    time.Duration // on ne garde pas l'infini en RAM
}

func NewRedisFeedCache(client *redis.Client) *RedisFeedCache {
	return &RedisFeedCache{
		client: client,
		ttl:    24 * 30 * time.Hour,
	}
}

func feedKey(userID int64) string {
	return fmt.Sprintf("feed:%d", userID)
}

// Format du member : "00000000000000000042:LIKE:ADD:10"
func feedMember(event *domain.Event) string {
	return fmt.Sprintf("%020d:%s:%s:%d", event.ID, event.Type, event.Operation, event.EntityID)
}

func (c *RedisFeedCache) Push(ctx context.Context, event *domain.Event) error {
	pipe := c.client.Pipeline()
	key := feedKey(event.UserID)

	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(event.Timestamp),
		Member: feedMember(event),
	})
	pipe.Expire(ctx, key, c.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisFeedCache) Timeline(ctx context.Context, userID int64) ([]*domain.Event, bool, error) {
	results, err := c.client.ZRangeWithScores(ctx, feedKey(userID), 0, -1).Result()
	if err != nil {
		return nil, false, err
	}
	if len(results) == 0 {
		// Vide = miss : on ne sait pas distinguer "pas de feed" d'une clé
		// expirée, le fallback store tranchera.
		return nil, false, nil
	}

	events := make([]*domain.Event, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		event, err := parseFeedMember(member, int64(z.Score), userID)
		if err != nil {
			// Donnée corrompue : on ignore l'entrée plutôt que de crasher.
			continue
		}
		events = append(events, event)
	}
	return events, true, nil
}

func (c *RedisFeedCache) Warm(ctx context.Context, userID int64, events []*domain.Event) error {
	pipe := c.client.Pipeline()
	key := feedKey(userID)

	for _, event := range events {
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(event.Timestamp),
			Member: feedMember(event),
		})
	}
	pipe.Expire(ctx, key, c.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

func parseFeedMember(member string, timestamp, userID int64) (*domain.Event, error) {
	parts := strings.SplitN(member, ":", 4)
	if len(parts) != 4 {
		return nil, fmt.Errorf("malformed feed member %q", member)
	}

	eventID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, err
	}
	entityID, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return nil, err
	}

	return &domain.Event{
		ID:        eventID,
		Timestamp: timestamp,
		UserID:    userID,
		Type:      domain.EventType(parts[1]),
		Operation: domain.Operation(parts[2]),
		EntityID:  entityID,
	}, nil
}
