package commands

import (
	"context"

	"lunchrun/internal/domain/order"
	"lunchrun/internal/domain/proposal"
	"lunchrun/internal/domain/session"
	"lunchrun/internal/infra"
	"lunchrun/internal/notify"
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/pkg/errs"
	"lunchrun/internal/pkg/money"
	"lunchrun/internal/usecase/shared"

	"github.com/google/uuid"
)

type UpsertOrderRequest struct {
	Description    string
	PriceEstimated money.Cents
	Notes          *string
}

type OrderCommands interface {
	// Upsert creates the actor's order on the proposal or updates the
	// existing one; (proposal, participant) is unique.
	Upsert(ctx context.Context, orgID, proposalID, actorID uuid.UUID, isAdmin bool, req UpsertOrderRequest) (*order.Order, error)
	// SetFinalPrice is restricted to the proposal's role holder or an admin
	// and only while the session is not closed.
	SetFinalPrice(ctx context.Context, orgID, orderID, actorID uuid.UUID, isAdmin bool, price money.Cents) error
	// Delete removes the order; only its owning participant may do so, and
	// only while the session is not closed.
	Delete(ctx context.Context, orgID, orderID, actorID uuid.UUID) error
}

type orderCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher notify.Publisher
	clock     clock.Clock
}

func NewOrderCommands(uow shared.UnitOfWork, publisher notify.Publisher, clk clock.Clock) OrderCommands {
	return &orderCommandsImpl{uow: uow, publisher: publisher, clock: clk}
}

func (uc *orderCommandsImpl) Upsert(ctx context.Context, orgID, proposalID, actorID uuid.UUID, isAdmin bool, req UpsertOrderRequest) (*order.Order, error) {
	now := uc.clock.Now()
	var (
		result  *order.Order
		changed bool
	)

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, derr := tx.Proposals().FindByID(ctx, orgID, proposalID)
		if derr != nil {
			return notFound(derr, "proposal not found")
		}
		s, derr := tx.Sessions().FindByID(ctx, orgID, p.SessionID())
		if derr != nil {
			return notFound(derr, "session not found")
		}
		if derr = guardOrderMutation(s, p, actorID, isAdmin); derr != nil {
			return derr
		}

		existing, derr := tx.Orders().FindByParticipant(ctx, proposalID, actorID)
		switch {
		case derr == nil:
			changed, derr = existing.Apply(order.Patch{
				Description:    &req.Description,
				PriceEstimated: &req.PriceEstimated,
				Notes:          req.Notes,
			}, actorID, now)
			if derr != nil {
				return derr
			}
			if changed {
				if derr = tx.Orders().Update(ctx, existing); derr != nil {
					return derr
				}
			}
			result = existing
			return nil

		case infra.IsKind(derr, infra.KindNotFound):
			created, cerr := order.NewOrder(proposalID, actorID, req.Description, req.PriceEstimated, req.Notes, now)
			if cerr != nil {
				return cerr
			}
			if cerr = tx.Orders().Create(ctx, created); cerr != nil {
				return cerr
			}
			result = created
			changed = true
			return nil

		default:
			return derr
		}
	})
	if err != nil {
		return nil, err
	}

	if changed {
		publish(ctx, uc.publisher, notify.Event{
			Kind:       notify.KindOrderUpserted,
			OrgID:      orgID,
			EntityID:   result.ID(),
			ActorID:    actorID,
			OccurredAt: now,
			Meta:       map[string]any{"proposal_id": proposalID.String()},
		})
	}
	return result, nil
}

func (uc *orderCommandsImpl) SetFinalPrice(ctx context.Context, orgID, orderID, actorID uuid.UUID, isAdmin bool, price money.Cents) error {
	now := uc.clock.Now()
	var changed bool

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, derr := tx.Orders().FindByID(ctx, orderID)
		if derr != nil {
			return notFound(derr, "order not found")
		}
		p, derr := tx.Proposals().FindByID(ctx, orgID, o.ProposalID())
		if derr != nil {
			return notFound(derr, "proposal not found")
		}
		s, derr := tx.Sessions().FindByID(ctx, orgID, p.SessionID())
		if derr != nil {
			return notFound(derr, "session not found")
		}
		if s.IsClosed() {
			return errs.Mark(errs.New("session is closed"), errs.ErrLifecycleViolation)
		}
		if !isAdmin && !p.Holds(actorID) {
			return errs.Mark(errs.New("only the role holder may set the final price"), errs.ErrPermissionDenied)
		}

		if changed = o.SetFinalPrice(price, actorID, now); !changed {
			return nil
		}
		return tx.Orders().Update(ctx, o)
	})
	if err != nil {
		return err
	}

	if changed {
		publish(ctx, uc.publisher, notify.Event{
			Kind:       notify.KindFinalPriceSet,
			OrgID:      orgID,
			EntityID:   orderID,
			ActorID:    actorID,
			OccurredAt: now,
			Meta:       map[string]any{"price": price.String()},
		})
	}
	return nil
}

func (uc *orderCommandsImpl) Delete(ctx context.Context, orgID, orderID, actorID uuid.UUID) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, derr := tx.Orders().FindByID(ctx, orderID)
		if derr != nil {
			return notFound(derr, "order not found")
		}
		if !o.OwnedBy(actorID) {
			return errs.Mark(errs.New("only the owning participant may delete an order"), errs.ErrPermissionDenied)
		}
		p, derr := tx.Proposals().FindByID(ctx, orgID, o.ProposalID())
		if derr != nil {
			return notFound(derr, "proposal not found")
		}
		s, derr := tx.Sessions().FindByID(ctx, orgID, p.SessionID())
		if derr != nil {
			return notFound(derr, "session not found")
		}
		if s.IsClosed() {
			return errs.Mark(errs.New("session is closed"), errs.ErrLifecycleViolation)
		}
		return tx.Orders().Delete(ctx, orderID)
	})
	if err != nil {
		return err
	}

	publish(ctx, uc.publisher, notify.Event{
		Kind:       notify.KindOrderDeleted,
		OrgID:      orgID,
		EntityID:   orderID,
		ActorID:    actorID,
		OccurredAt: uc.clock.Now(),
	})
	return nil
}

// guardOrderMutation enforces the ledger's lifecycle gate: anyone with a
// seat can edit while the session is open, only the role holder or an admin
// after the deadline locks it, and nobody once it is closed. The proposal
// itself must still be joinable for non-holders.
func guardOrderMutation(s *session.Session, p *proposal.Proposal, actorID uuid.UUID, isAdmin bool) error {
	if s.IsClosed() || p.IsClosed() {
		return errs.Mark(errs.New("session is closed"), errs.ErrLifecycleViolation)
	}
	if isAdmin || p.Holds(actorID) {
		return nil
	}
	if s.IsLocked() {
		return errs.Mark(errs.New("session is locked"), errs.ErrLifecycleViolation)
	}
	if !p.Status().Joinable() {
		return errs.Mark(errs.New("proposal no longer accepts orders"), errs.ErrLifecycleViolation)
	}
	return nil
}
