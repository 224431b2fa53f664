package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jupiterclapton/flicknet/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/flicknet/internal/core/domain"
	"github.com/jupiterclapton/flicknet/internal/core/ports"
)

const appendTimeout = 10 * time.Second

// ActivityHandler consomme les événements sociaux et les appende au feed.
// Traitement synchrone dans le callback : l'ordre d'arrivée reste l'ordre
// d'insertion, ce qui garantit le tie-break du feed.
type ActivityHandler struct {
	feed ports.FeedService
}

func NewActivityHandler(feed ports.FeedService) *ActivityHandler {
	return &ActivityHandler{feed: feed}
}

// Subscribe branche le handler sur le sujet des activités.
func (h *ActivityHandler) Subscribe(nc *nats.Conn) (*nats.Subscription, error) {
	return nc.Subscribe(eventbroker.SubjectActivity, h.HandleActivity)
}

func (h *ActivityHandler) HandleActivity(msg *nats.Msg) {
	// Extraction du contexte de trace depuis les headers NATS.
	ctx := context.Background()
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(msg.Header))

	tracer := otel.Tracer("flicknet")
	ctx, span := tracer.Start(ctx, "process_activity", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var envelope eventbroker.ActivityEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		span.RecordError(err)
		slog.Error("invalid activity envelope", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, appendTimeout)
	defer cancel()

	_, err := h.feed.Append(ctx,
		envelope.UserID,
		domain.EventType(envelope.EventType),
		domain.Operation(envelope.Operation),
		envelope.EntityID,
	)
	if err != nil {
		span.RecordError(err)
		slog.Error("failed to append activity to feed",
			"event_uid", envelope.EventUID, "user_id", envelope.UserID, "error", err)
		return
	}

	slog.Debug("activity appended to feed", "event_uid", envelope.EventUID, "user_id", envelope.UserID)
}
