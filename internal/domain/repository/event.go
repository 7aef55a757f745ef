package repository

import (
	"context"
	"time"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

// EventRepository exposes the status event outbox.
type EventRepository interface {
	// ClaimBatch returns unpublished events not claimed within lease and marks them claimed.
	ClaimBatch(ctx context.Context, limit int, lease time.Duration) ([]model.StatusEvent, error)
	MarkPublished(ctx context.Context, id int64) error
}
