package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// PostgresFeedRepo : source de vérité du feed. event_id est un BIGSERIAL,
// donc monotone croissant ; il départage les timestamps égaux.
type PostgresFeedRepo struct {
	db *pgxpool.Pool
}

func NewPostgresFeedRepo(db *pgxpool.Pool) *PostgresFeedRepo {
	return &PostgresFeedRepo{db: db}
}

func (r *PostgresFeedRepo) Append(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	q := `
		INSERT INTO user_events (event_timestamp, user_id, event_type, operation, entity_id)
		VALUES (@timestamp, @userId, @eventType, @operation, @entityId)
		RETURNING event_id
	`
	args := pgx.NamedArgs{
		"timestamp": event.Timestamp,
		"userId":    event.UserID,
		"eventType": string(event.Type),
		"operation": string(event.Operation),
		"entityId":  event.EntityID,
	}

	stored := *event
	if err := r.db.QueryRow(ctx, q, args).Scan(&stored.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}
	return &stored, nil
}

func (r *PostgresFeedRepo) EventsByUser(ctx context.Context, userID int64) ([]*domain.Event, error) {
	q := `
		SELECT event_id, event_timestamp, user_id, event_type, operation, entity_id
		FROM user_events
		WHERE user_id = $1
		ORDER BY event_timestamp, event_id
	`

	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var event domain.Event
		var eventType, operation string
		err := rows.Scan(
			&event.ID, &event.Timestamp, &event.UserID,
			&eventType, &operation, &event.EntityID,
		)
		if err != nil {
			return nil, err
		}
		event.Type = domain.EventType(eventType)
		event.Operation = domain.Operation(operation)
		events = append(events, &event)
	}
	return events, rows.Err()
}
