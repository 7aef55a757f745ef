package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
)

func (r *eventRepository) ClaimBatch(ctx context.Context, limit int, lease time.Duration) ([]model.StatusEvent, error) {
	const selectQuery = `SELECT id, event_id, order_id, order_number, customer_id, status, note, occurred_at
                         FROM order_events
                         WHERE published_at IS NULL
                           AND (claimed_at IS NULL OR claimed_at < NOW() - make_interval(secs => $2))
                         ORDER BY id
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`
	const claimQuery = `UPDATE order_events SET claimed_at=NOW() WHERE id = ANY($1)`

	var events []model.StatusEvent
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit, lease.Seconds())
		if err != nil {
			return err
		}
		err = forEachRow(rows, func(rows pgx.Rows) error {
			var e model.StatusEvent
			if err := rows.Scan(&e.ID, &e.EventID, &e.OrderID, &e.OrderNumber, &e.CustomerID, &e.Status, &e.Note, &e.OccurredAt); err != nil {
				return err
			}
			events = append(events, e)
			return nil
		})
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		ids := make([]int64, len(events))
		for i, e := range events {
			ids[i] = e.ID
		}
		_, err = tx.Exec(ctx, claimQuery, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(events) > 0 {
		r.storage.logger.Debug("claimed status events", slog.Int("count", len(events)))
	}
	return events, nil
}

func (r *eventRepository) MarkPublished(ctx context.Context, id int64) error {
	const query = `UPDATE order_events SET published_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
