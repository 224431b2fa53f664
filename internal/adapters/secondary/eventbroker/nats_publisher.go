package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// SubjectActivity est le sujet NATS des actions sociales.
const SubjectActivity = "social.activity"

// ActivityEnvelope est le contrat implicite avec le consumer de feed.
// EventUID identifie le message (dédup/debug), l'ID du feed est attribué
// par le store à la consommation.
type ActivityEnvelope struct {
	EventUID   string    `json:"event_uid"`
	UserID     int64     `json:"user_id"`
	EventType  string    `json:"event_type"`
	Operation  string    `json:"operation"`
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NatsPublisher implémente ports.ActivityPublisher au-dessus de NATS.
type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

func (p *NatsPublisher) Record(ctx context.Context, userID int64, t domain.EventType, op domain.Operation, entityID int64) error {
	envelope := ActivityEnvelope{
		EventUID:   uuid.NewString(),
		UserID:     userID,
		EventType:  string(t),
		Operation:  string(op),
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: SubjectActivity,
		Data:    data,
		Header:  nats.Header{},
	}
	// Injection du trace context dans les headers NATS, pour que le
	// consumer raccroche son span à la requête d'origine.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	slog.Debug("publishing activity event", "subject", msg.Subject, "user_id", userID, "type", t, "op", op)

	return p.nc.PublishMsg(msg)
}
