// Package notify persists events into an outbox table. A delivery worker
// (outside this module) drains the table and posts to the chat platform, so a
// crashed delivery never loses an event and a chat outage never blocks a
// mutation.
package notify

import (
	"context"
	"encoding/json"

	"lunchrun/internal/infra"
	"lunchrun/internal/notify"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OutboxPublisher struct {
	pool *pgxpool.Pool
}

func NewOutboxPublisher(pool *pgxpool.Pool) notify.Publisher {
	return &OutboxPublisher{pool: pool}
}

func (p *OutboxPublisher) Publish(ctx context.Context, ev notify.Event) error {
	meta, err := json.Marshal(ev.Meta)
	if err != nil {
		return infra.WrapRepoErr("failed to encode event meta", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO notification_jobs (kind, org_id, entity_id, actor_id, occurred_at, meta)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.Kind, ev.OrgID, ev.EntityID, ev.ActorID, ev.OccurredAt, meta,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification", err)
	}
	return nil
}
