package commands

import (
	"context"

	"lunchrun/internal/domain/quickrun"
	"lunchrun/internal/infra"
	"lunchrun/internal/notify"
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/pkg/errs"
	"lunchrun/internal/pkg/money"
	"lunchrun/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateQuickRunRequest struct {
	Destination  string
	DelayMinutes int
	Note         *string
}

type UpsertQuickRunRequestRequest struct {
	Description    string
	PriceEstimated *money.Cents
}

type QuickRunCommands interface {
	// Create opens a run; the creator is implicitly the runner.
	Create(ctx context.Context, orgID, actorID uuid.UUID, req CreateQuickRunRequest) (*quickrun.QuickRun, error)
	// UpsertRequest attaches or updates the actor's request. The runner may
	// never request against their own run.
	UpsertRequest(ctx context.Context, orgID, quickRunID, actorID uuid.UUID, req UpsertQuickRunRequestRequest) (*quickrun.Request, error)
	DeleteRequest(ctx context.Context, orgID, quickRunID, actorID uuid.UUID) error
	// SetRequestFinalPrice is runner-only.
	SetRequestFinalPrice(ctx context.Context, orgID, quickRunID, participantUserID, actorID uuid.UUID, isAdmin bool, price money.Cents) error
	Delegate(ctx context.Context, orgID, quickRunID, actorID, toUserID uuid.UUID) error
	Close(ctx context.Context, orgID, quickRunID, actorID uuid.UUID, isAdmin bool) error
}

type quickRunCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher notify.Publisher
	clock     clock.Clock
}

func NewQuickRunCommands(uow shared.UnitOfWork, publisher notify.Publisher, clk clock.Clock) QuickRunCommands {
	return &quickRunCommandsImpl{uow: uow, publisher: publisher, clock: clk}
}

func (uc *quickRunCommandsImpl) Create(ctx context.Context, orgID, actorID uuid.UUID, req CreateQuickRunRequest) (*quickrun.QuickRun, error) {
	run, err := quickrun.NewQuickRun(orgID, actorID, req.Destination, req.DelayMinutes, req.Note, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.QuickRuns().Create(ctx, run)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, uc.publisher, notify.Event{
		Kind:       notify.KindQuickRunOpened,
		OrgID:      orgID,
		EntityID:   run.ID(),
		ActorID:    actorID,
		OccurredAt: uc.clock.Now(),
		Meta:       map[string]any{"destination": run.Destination()},
	})
	return run, nil
}

func (uc *quickRunCommandsImpl) UpsertRequest(ctx context.Context, orgID, quickRunID, actorID uuid.UUID, req UpsertQuickRunRequestRequest) (*quickrun.Request, error) {
	now := uc.clock.Now()
	var (
		result  *quickrun.Request
		changed bool
	)

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		run, derr := tx.QuickRuns().FindByID(ctx, orgID, quickRunID)
		if derr != nil {
			return notFound(derr, "quick run not found")
		}
		if !run.IsOpen() {
			return errs.Mark(errs.New("quick run no longer accepts requests"), errs.ErrLifecycleViolation)
		}

		existing, derr := tx.QuickRuns().FindRequest(ctx, quickRunID, actorID)
		switch {
		case derr == nil:
			changed, derr = existing.Update(req.Description, req.PriceEstimated, now)
			if derr != nil {
				return derr
			}
			if changed {
				if derr = tx.QuickRuns().UpdateRequest(ctx, existing); derr != nil {
					return derr
				}
			}
			result = existing
			return nil

		case infra.IsKind(derr, infra.KindNotFound):
			created, cerr := quickrun.NewRequest(run, actorID, req.Description, req.PriceEstimated, now)
			if cerr != nil {
				return cerr
			}
			if cerr = tx.QuickRuns().CreateRequest(ctx, created); cerr != nil {
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
			Kind:       notify.KindQuickRunRequestChanged,
			OrgID:      orgID,
			EntityID:   result.ID(),
			ActorID:    actorID,
			OccurredAt: now,
			Meta:       map[string]any{"quick_run_id": quickRunID.String()},
		})
	}
	return result, nil
}

func (uc *quickRunCommandsImpl) DeleteRequest(ctx context.Context, orgID, quickRunID, actorID uuid.UUID) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		run, derr := tx.QuickRuns().FindByID(ctx, orgID, quickRunID)
		if derr != nil {
			return notFound(derr, "quick run not found")
		}
		if run.IsClosed() {
			return errs.Mark(errs.New("quick run is closed"), errs.ErrLifecycleViolation)
		}

		r, derr := tx.QuickRuns().FindRequest(ctx, quickRunID, actorID)
		if derr != nil {
			return notFound(derr, "request not found")
		}
		if !r.OwnedBy(actorID) {
			return errs.Mark(errs.New("only the owning participant may delete a request"), errs.ErrPermissionDenied)
		}
		return tx.QuickRuns().DeleteRequest(ctx, r.ID())
	})
	if err != nil {
		return err
	}

	publish(ctx, uc.publisher, notify.Event{
		Kind:       notify.KindQuickRunRequestChanged,
		OrgID:      orgID,
		EntityID:   quickRunID,
		ActorID:    actorID,
		OccurredAt: uc.clock.Now(),
		Meta:       map[string]any{"deleted": true},
	})
	return nil
}

func (uc *quickRunCommandsImpl) SetRequestFinalPrice(ctx context.Context, orgID, quickRunID, participantUserID, actorID uuid.UUID, isAdmin bool, price money.Cents) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		run, derr := tx.QuickRuns().FindByID(ctx, orgID, quickRunID)
		if derr != nil {
			return notFound(derr, "quick run not found")
		}
		if run.IsClosed() {
			return errs.Mark(errs.New("quick run is closed"), errs.ErrLifecycleViolation)
		}
		if !isAdmin && run.RunnerUserID() != actorID {
			return errs.Mark(errs.New("only the runner may set the final price"), errs.ErrPermissionDenied)
		}

		r, derr := tx.QuickRuns().FindRequest(ctx, quickRunID, participantUserID)
		if derr != nil {
			return notFound(derr, "request not found")
		}
		if !r.SetFinalPrice(price, uc.clock.Now()) {
			return nil
		}
		return tx.QuickRuns().UpdateRequest(ctx, r)
	})
	return err
}

func (uc *quickRunCommandsImpl) Delegate(ctx context.Context, orgID, quickRunID, actorID, toUserID uuid.UUID) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		run, derr := tx.QuickRuns().FindByID(ctx, orgID, quickRunID)
		if derr != nil {
			return notFound(derr, "quick run not found")
		}
		if derr = run.Delegate(actorID, toUserID); derr != nil {
			return derr
		}
		return tx.QuickRuns().Update(ctx, run)
	})
	if err != nil {
		return err
	}

	publish(ctx, uc.publisher, notify.Event{
		Kind:       notify.KindRoleDelegated,
		OrgID:      orgID,
		EntityID:   quickRunID,
		ActorID:    actorID,
		OccurredAt: uc.clock.Now(),
		Meta:       map[string]any{"to_user_id": toUserID.String()},
	})
	return nil
}

func (uc *quickRunCommandsImpl) Close(ctx context.Context, orgID, quickRunID, actorID uuid.UUID, isAdmin bool) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		run, derr := tx.QuickRuns().FindByID(ctx, orgID, quickRunID)
		if derr != nil {
			return notFound(derr, "quick run not found")
		}
		if !isAdmin && run.RunnerUserID() != actorID {
			return errs.Mark(errs.New("only the runner may close the run"), errs.ErrPermissionDenied)
		}
		if derr = run.Close(); derr != nil {
			return derr
		}
		return tx.QuickRuns().Update(ctx, run)
	})
	if err != nil {
		return err
	}

	publish(ctx, uc.publisher, notify.Event{
		Kind:       notify.KindQuickRunClosed,
		OrgID:      orgID,
		EntityID:   quickRunID,
		ActorID:    actorID,
		OccurredAt: uc.clock.Now(),
	})
	return nil
}
