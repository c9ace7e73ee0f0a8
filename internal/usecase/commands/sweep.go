package commands

import (
	"context"
	"time"

	"lunchrun/internal/notify"
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/usecase/shared"

	"github.com/google/uuid"
)

// SweepResult reports the entities one sweep pass transitioned to Locked.
// A second pass with the same instant locks nothing.
type SweepResult struct {
	Sessions  []shared.SweptEntity
	QuickRuns []shared.SweptEntity
}

func (r SweepResult) Empty() bool {
	return len(r.Sessions) == 0 && len(r.QuickRuns) == 0
}

type SweepCommands interface {
	// SweepExpired locks every open session and quick run whose deadline has
	// passed (inclusive comparison). Safe to invoke concurrently with itself
	// and with ordinary requests: the transition is a conditional update that
	// only touches rows still matching open-and-expired at write time.
	SweepExpired(ctx context.Context, now time.Time) (SweepResult, error)
}

type sweepCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher notify.Publisher
	clock     clock.Clock
}

func NewSweepCommands(uow shared.UnitOfWork, publisher notify.Publisher, clk clock.Clock) SweepCommands {
	return &sweepCommandsImpl{uow: uow, publisher: publisher, clock: clk}
}

func (uc *sweepCommandsImpl) SweepExpired(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		swept, derr := tx.Sessions().SweepExpired(ctx, now)
		if derr != nil {
			return derr
		}
		result.Sessions = swept

		swept, derr = tx.QuickRuns().SweepExpired(ctx, now)
		if derr != nil {
			return derr
		}
		result.QuickRuns = swept
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	for _, s := range result.Sessions {
		publish(ctx, uc.publisher, notify.Event{
			Kind:       notify.KindSessionLocked,
			OrgID:      s.OrgID,
			EntityID:   s.ID,
			ActorID:    uuid.Nil,
			OccurredAt: now,
		})
	}
	for _, q := range result.QuickRuns {
		publish(ctx, uc.publisher, notify.Event{
			Kind:       notify.KindQuickRunLocked,
			OrgID:      q.OrgID,
			EntityID:   q.ID,
			ActorID:    uuid.Nil,
			OccurredAt: now,
		})
	}
	return result, nil
}
