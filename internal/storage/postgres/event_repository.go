package postgres

import (
	"context"
	"time"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

// claimLease is how long a claimed event stays invisible to other relays.
const claimLease = 30 * time.Second

type eventRepository struct {
	storage *Storage
}

func insertEvent(ctx context.Context, q querier, event model.OrderEvent) error {
	const query = `INSERT INTO order_events (order_id, type, payload) VALUES ($1, $2, $3)`
	_, err := q.Exec(ctx, query, event.OrderID, string(event.Type), []byte(event.Payload))
	return err
}

// ClaimBatch leases up to limit unpublished events. Rows locked by a concurrent relay are skipped.
func (r *eventRepository) ClaimBatch(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	const query = `UPDATE order_events SET claimed_until = NOW() + make_interval(secs => $2)
                   WHERE id IN (
                       SELECT id FROM order_events
                       WHERE published_at IS NULL AND (claimed_until IS NULL OR claimed_until < NOW())
                       ORDER BY id
                       LIMIT $1
                       FOR UPDATE SKIP LOCKED
                   )
                   RETURNING id, order_id, type, payload, created_at`
	rows, err := r.storage.pool.Query(ctx, query, limit, claimLease.Seconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.OrderEvent
	for rows.Next() {
		var (
			e         model.OrderEvent
			eventType string
			payload   []byte
		)
		if err := rows.Scan(&e.ID, &e.OrderID, &eventType, &payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Type = model.EventType(eventType)
		e.Payload = payload
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) MarkPublished(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE order_events SET published_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
