package commands

import (
	"context"

	"lunchrun/internal/domain/proposal"
	"lunchrun/internal/notify"
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/pkg/errs"
	"lunchrun/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateProposalRequest struct {
	Vendor       string
	Fulfillment  proposal.Fulfillment
	DeadlineTime *string
	Note         *string
}

type ProposalCommands interface {
	// Create opens a proposal on a session; the session must be Open.
	Create(ctx context.Context, orgID, sessionID, actorID uuid.UUID, req CreateProposalRequest) (*proposal.Proposal, error)
	// ClaimRole races to take responsibility for the proposal. At most one
	// caller ever observes success per (proposal, role); losers get
	// errs.ErrRoleClaimLost and must not retry silently.
	ClaimRole(ctx context.Context, orgID, proposalID uuid.UUID, role proposal.Role, actorID uuid.UUID) error
	// Delegate transfers a held role; only the current holder may initiate.
	Delegate(ctx context.Context, orgID, proposalID uuid.UUID, role proposal.Role, actorID, toUserID uuid.UUID) error
	// Advance moves the run status forward (placed, received). Holder only.
	Advance(ctx context.Context, orgID, proposalID uuid.UUID, next proposal.Status, actorID uuid.UUID, isAdmin bool) error
	// ToggleHelp flips the help-requested flag. Holder only.
	ToggleHelp(ctx context.Context, orgID, proposalID, actorID uuid.UUID) (bool, error)
	// Close ends the proposal. Permitted for a role holder, an admin, or
	// anyone while the proposal was never claimed.
	Close(ctx context.Context, orgID, proposalID, actorID uuid.UUID, isAdmin bool) error
}

type proposalCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher notify.Publisher
	clock     clock.Clock
}

func NewProposalCommands(uow shared.UnitOfWork, publisher notify.Publisher, clk clock.Clock) ProposalCommands {
	return &proposalCommandsImpl{uow: uow, publisher: publisher, clock: clk}
}

func (uc *proposalCommandsImpl) Create(ctx context.Context, orgID, sessionID, actorID uuid.UUID, req CreateProposalRequest) (*proposal.Proposal, error) {
	var created *proposal.Proposal
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, derr := tx.Sessions().FindByID(ctx, orgID, sessionID)
		if derr != nil {
			return notFound(derr, "session not found")
		}
		if !s.IsOpen() {
			return errs.Mark(errs.New("session is not open"), errs.ErrLifecycleViolation)
		}

		p, derr := proposal.NewProposal(orgID, sessionID, req.Vendor, req.Fulfillment, req.DeadlineTime, req.Note)
		if derr != nil {
			return derr
		}
		if derr = tx.Proposals().Create(ctx, p); derr != nil {
			return derr
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, uc.publisher, notify.Event{
		Kind:       notify.KindProposalOpened,
		OrgID:      orgID,
		EntityID:   created.ID(),
		ActorID:    actorID,
		OccurredAt: uc.clock.Now(),
		Meta:       map[string]any{"vendor": created.Vendor()},
	})
	return created, nil
}

func (uc *proposalCommandsImpl) ClaimRole(ctx context.Context, orgID, proposalID uuid.UUID, role proposal.Role, actorID uuid.UUID) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Exclusive single-row lock; the critical section is read-check-write
		// only. Notification happens after commit.
		p, derr := tx.Proposals().FindByIDForUpdate(ctx, orgID, proposalID)
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

		if derr = p.Claim(role, actorID); derr != nil {
			return derr
		}
		return tx.Proposals().Update(ctx, p)
	})
	if err != nil {
		return err
	}

	publish(ctx, uc.publisher, notify.Event{
		Kind:       notify.KindRoleClaimed,
		OrgID:      orgID,
		EntityID:   proposalID,
		ActorID:    actorID,
		OccurredAt: uc.clock.Now(),
		Meta:       map[string]any{"role": role.String()},
	})
	return nil
}

func (uc *proposalCommandsImpl) Delegate(ctx context.Context, orgID, proposalID uuid.UUID, role proposal.Role, actorID, toUserID uuid.UUID) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Re-read at call time; holder identity is checked against the
		// current row, never a cached view.
		p, derr := tx.Proposals().FindByID(ctx, orgID, proposalID)
		if derr != nil {
			return notFound(derr, "proposal not found")
		}
		if derr = p.Delegate(role, actorID, toUserID); derr != nil {
			return derr
		}
		return tx.Proposals().Update(ctx, p)
	})
	if err != nil {
		return err
	}

	publish(ctx, uc.publisher, notify.Event{
		Kind:       notify.KindRoleDelegated,
		OrgID:      orgID,
		EntityID:   proposalID,
		ActorID:    actorID,
		OccurredAt: uc.clock.Now(),
		Meta:       map[string]any{"role": role.String(), "to_user_id": toUserID.String()},
	})
	return nil
}

func (uc *proposalCommandsImpl) Advance(ctx context.Context, orgID, proposalID uuid.UUID, next proposal.Status, actorID uuid.UUID, isAdmin bool) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, derr := tx.Proposals().FindByID(ctx, orgID, proposalID)
		if derr != nil {
			return notFound(derr, "proposal not found")
		}
		if !isAdmin && !p.Holds(actorID) {
			return errs.Mark(errs.New("only the role holder may advance the run"), errs.ErrPermissionDenied)
		}
		if derr = p.Advance(next); derr != nil {
			return derr
		}
		return tx.Proposals().Update(ctx, p)
	})
	if err != nil {
		return err
	}

	publish(ctx, uc.publisher, notify.Event{
		Kind:       notify.KindProposalStatusChanged,
		OrgID:      orgID,
		EntityID:   proposalID,
		ActorID:    actorID,
		OccurredAt: uc.clock.Now(),
		Meta:       map[string]any{"status": next.String()},
	})
	return nil
}

func (uc *proposalCommandsImpl) ToggleHelp(ctx context.Context, orgID, proposalID, actorID uuid.UUID) (bool, error) {
	var requested bool
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, derr := tx.Proposals().FindByID(ctx, orgID, proposalID)
		if derr != nil {
			return notFound(derr, "proposal not found")
		}
		if p.IsClosed() {
			return errs.Mark(errs.New("proposal is closed"), errs.ErrLifecycleViolation)
		}
		if !p.Holds(actorID) {
			return errs.Mark(errs.New("only the role holder may request help"), errs.ErrPermissionDenied)
		}
		p.SetHelpRequested(!p.HelpRequested())
		requested = p.HelpRequested()
		return tx.Proposals().Update(ctx, p)
	})
	if err != nil {
		return false, err
	}
	return requested, nil
}

func (uc *proposalCommandsImpl) Close(ctx context.Context, orgID, proposalID, actorID uuid.UUID, isAdmin bool) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, derr := tx.Proposals().FindByID(ctx, orgID, proposalID)
		if derr != nil {
			return notFound(derr, "proposal not found")
		}
		// An unclaimed proposal has no holder to gatekeep; any participant
		// may withdraw it.
		if !isAdmin && p.HasAnyHolder() && !p.Holds(actorID) {
			return errs.Mark(errs.New("only the role holder or an admin may close"), errs.ErrPermissionDenied)
		}
		if derr = p.Close(); derr != nil {
			return derr
		}
		return tx.Proposals().Update(ctx, p)
	})
	if err != nil {
		return err
	}

	publish(ctx, uc.publisher, notify.Event{
		Kind:       notify.KindProposalClosed,
		OrgID:      orgID,
		EntityID:   proposalID,
		ActorID:    actorID,
		OccurredAt: uc.clock.Now(),
	})
	return nil
}
