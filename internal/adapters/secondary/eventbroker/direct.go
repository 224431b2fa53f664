package eventbroker

import (
	"context"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
	"github.com/jupiterclapton/flicknet/internal/core/ports"
)

// DirectSink court-circuite le broker : l'événement est appendé au feed
// dans le même appel. Utilisé quand NATS_URL est vide (dev local, tests).
type DirectSink struct {
	feed ports.FeedService
}

func NewDirectSink(feed ports.FeedService) *DirectSink {
	return &DirectSink{feed: feed}
}

func (s *DirectSink) Record(ctx context.Context, userID int64, t domain.EventType, op domain.Operation, entityID int64) error {
	_, err := s.feed.Append(ctx, userID, t, op, entityID)
	return err
}
