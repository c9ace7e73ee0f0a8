package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event kinds emitted after successful mutations. The core yields these for
// a messaging adapter to render and deliver; it never formats chat payloads
// itself.
const (
	KindProposalOpened         = "proposal_opened"
	KindRoleClaimed            = "role_claimed"
	KindRoleDelegated          = "role_delegated"
	KindOrderUpserted          = "order_upserted"
	KindOrderDeleted           = "order_deleted"
	KindFinalPriceSet          = "final_price_set"
	KindProposalStatusChanged  = "proposal_status_changed"
	KindProposalClosed         = "proposal_closed"
	KindSessionLocked          = "session_locked"
	KindSessionClosed          = "session_closed"
	KindQuickRunOpened         = "quickrun_opened"
	KindQuickRunLocked         = "quickrun_locked"
	KindQuickRunClosed         = "quickrun_closed"
	KindQuickRunRequestChanged = "quickrun_request_changed"
)

type Event struct {
	Kind       string         `json:"kind"`
	OrgID      uuid.UUID      `json:"org_id"`
	EntityID   uuid.UUID      `json:"entity_id"`
	ActorID    uuid.UUID      `json:"actor_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// Publisher enqueues events for delivery. Called strictly after the state
// mutation commits; failures must never roll the mutation back, so callers
// log and continue.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}
