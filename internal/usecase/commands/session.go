package commands

import (
	"context"
	"time"

	"lunchrun/internal/domain/session"
	"lunchrun/internal/notify"
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/pkg/config"
	"lunchrun/internal/pkg/errs"
	"lunchrun/internal/usecase/shared"

	"github.com/google/uuid"
)

type SessionCommands interface {
	// EnsureToday returns today's session for the org, creating it on the
	// first interaction of the day.
	EnsureToday(ctx context.Context, orgID uuid.UUID, channelRef string) (*session.Session, error)
	// Close closes the session and cascades to every non-closed child
	// proposal. Admin only.
	Close(ctx context.Context, orgID, sessionID, actorID uuid.UUID, isAdmin bool) error
}

type sessionCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher notify.Publisher
	clock     clock.Clock
	app       config.AppConfig
}

func NewSessionCommands(uow shared.UnitOfWork, publisher notify.Publisher, clk clock.Clock, app config.AppConfig) SessionCommands {
	return &sessionCommandsImpl{uow: uow, publisher: publisher, clock: clk, app: app}
}

func (uc *sessionCommandsImpl) EnsureToday(ctx context.Context, orgID uuid.UUID, channelRef string) (*session.Session, error) {
	now := uc.clock.Now()
	loc := uc.app.Location()
	day := session.DayOf(now, loc)
	deadline, err := uc.defaultDeadline(now, loc)
	if err != nil {
		return nil, err
	}

	var s *session.Session
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var derr error
		s, derr = tx.Sessions().EnsureOpen(ctx, orgID, day, deadline, channelRef)
		return derr
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *sessionCommandsImpl) Close(ctx context.Context, orgID, sessionID, actorID uuid.UUID, isAdmin bool) error {
	if !isAdmin {
		return errs.Mark(errs.New("closing a session requires admin"), errs.ErrPermissionDenied)
	}

	var closedProposals []uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, derr := tx.Sessions().FindByID(ctx, orgID, sessionID)
		if derr != nil {
			return notFound(derr, "session not found")
		}
		if derr = s.Close(); derr != nil {
			return derr
		}
		if derr = tx.Sessions().Update(ctx, s); derr != nil {
			return derr
		}
		closedProposals, derr = tx.Proposals().CloseAllForSession(ctx, s.ID())
		return derr
	})
	if err != nil {
		return err
	}

	publish(ctx, uc.publisher, notify.Event{
		Kind:       notify.KindSessionClosed,
		OrgID:      orgID,
		EntityID:   sessionID,
		ActorID:    actorID,
		OccurredAt: uc.clock.Now(),
		Meta:       map[string]any{"closed_proposals": len(closedProposals)},
	})
	return nil
}

// defaultDeadline places the configured HH:MM on today's date in the app
// timezone.
func (uc *sessionCommandsImpl) defaultDeadline(now time.Time, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", uc.app.DefaultDeadline)
	if err != nil {
		return time.Time{}, errs.Wrap(err, "invalid default deadline config")
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
