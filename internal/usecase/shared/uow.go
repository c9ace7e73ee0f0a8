package shared

import (
	"context"
	"time"

	"lunchrun/internal/domain/order"
	"lunchrun/internal/domain/proposal"
	"lunchrun/internal/domain/quickrun"
	"lunchrun/internal/domain/session"

	"github.com/google/uuid"
)

// UnitOfWork runs a function inside one ReadCommitted transaction. Every
// command's critical section goes through here; the pgx implementation
// retries serialization failures with backoff.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Sessions() SessionRepository
	Proposals() ProposalRepository
	Orders() OrderRepository
	QuickRuns() QuickRunRepository
}

// SweptEntity identifies one row the clock sweep transitioned; OrgID lets
// the notifier fan out per tenant.
type SweptEntity struct {
	ID    uuid.UUID
	OrgID uuid.UUID
}

type SessionRepository interface {
	// EnsureOpen creates the (org, day) session if absent and returns the
	// current row either way. Safe under concurrent first interactions.
	EnsureOpen(ctx context.Context, orgID uuid.UUID, day session.Day, deadlineAt time.Time, channelRef string) (*session.Session, error)
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*session.Session, error)
	FindByDay(ctx context.Context, orgID uuid.UUID, day session.Day) (*session.Session, error)
	Update(ctx context.Context, s *session.Session) error
	// SweepExpired conditionally locks every open session whose deadline has
	// passed (inclusive) and reports the rows it actually transitioned.
	SweepExpired(ctx context.Context, now time.Time) ([]SweptEntity, error)
}

type ProposalRepository interface {
	Create(ctx context.Context, p *proposal.Proposal) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*proposal.Proposal, error)
	// FindByIDForUpdate acquires the single-row exclusive lock the claim
	// protocol re-checks under. Never lock more than the target row.
	FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*proposal.Proposal, error)
	Update(ctx context.Context, p *proposal.Proposal) error
	// CloseAllForSession force-closes every non-closed child proposal and
	// returns the ids it transitioned.
	CloseAllForSession(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	FindByParticipant(ctx context.Context, proposalID, participantUserID uuid.UUID) (*order.Order, error)
	Create(ctx context.Context, o *order.Order) error
	Update(ctx context.Context, o *order.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type QuickRunRepository interface {
	Create(ctx context.Context, q *quickrun.QuickRun) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*quickrun.QuickRun, error)
	Update(ctx context.Context, q *quickrun.QuickRun) error
	SweepExpired(ctx context.Context, now time.Time) ([]SweptEntity, error)
	FindRequest(ctx context.Context, quickRunID, participantUserID uuid.UUID) (*quickrun.Request, error)
	CreateRequest(ctx context.Context, r *quickrun.Request) error
	UpdateRequest(ctx context.Context, r *quickrun.Request) error
	DeleteRequest(ctx context.Context, id uuid.UUID) error
}
