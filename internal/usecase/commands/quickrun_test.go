//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"lunchrun/internal/domain/quickrun"
	"lunchrun/internal/notify"
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/pkg/errs"
	"lunchrun/internal/pkg/money"
	"lunchrun/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuickRunCommands(uow *memUoW) (commands.QuickRunCommands, *capturePublisher) {
	pub := &capturePublisher{}
	return commands.NewQuickRunCommands(uow, pub, clock.NewMockClock(testNow)), pub
}

func seedQuickRun(uow *memUoW, orgID, runnerID uuid.UUID, status quickrun.Status) *quickrun.QuickRun {
	q := quickrun.ReconstructQuickRun(
		uuid.New(), orgID, runnerID, "Coffee Stand", 15,
		testNow.Add(15*time.Minute), nil, status, testNow, testNow,
	)
	uow.store.quickRuns[q.ID()] = q
	return q
}

func TestQuickRunCreate(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	runner := uuid.New()

	t.Run("creator becomes runner", func(t *testing.T) {
		uow := newMemUoW()
		uc, pub := newQuickRunCommands(uow)

		run, err := uc.Create(ctx, orgID, runner, commands.CreateQuickRunRequest{
			Destination: "Coffee Stand", DelayMinutes: 15,
		})
		require.NoError(t, err)
		assert.Equal(t, runner, run.RunnerUserID())
		assert.Equal(t, testNow.Add(15*time.Minute), run.DeadlineAt())
		assert.Equal(t, []string{notify.KindQuickRunOpened}, pub.Kinds())
	})

	t.Run("invalid delay rejected", func(t *testing.T) {
		uow := newMemUoW()
		uc, _ := newQuickRunCommands(uow)

		_, err := uc.Create(ctx, orgID, runner, commands.CreateQuickRunRequest{
			Destination: "Coffee Stand", DelayMinutes: 0,
		})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestQuickRunUpsertRequest(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	runner := uuid.New()

	t.Run("participant attaches a request", func(t *testing.T) {
		uow := newMemUoW()
		run := seedQuickRun(uow, orgID, runner, quickrun.StatusOpen)
		uc, pub := newQuickRunCommands(uow)

		price := money.Cents(400)
		r, err := uc.UpsertRequest(ctx, orgID, run.ID(), uuid.New(), commands.UpsertQuickRunRequestRequest{
			Description: "Flat white", PriceEstimated: &price,
		})
		require.NoError(t, err)
		assert.Equal(t, run.ID(), r.QuickRunID())
		assert.Equal(t, []string{notify.KindQuickRunRequestChanged}, pub.Kinds())
	})

	t.Run("identical resubmit is silent", func(t *testing.T) {
		uow := newMemUoW()
		run := seedQuickRun(uow, orgID, runner, quickrun.StatusOpen)
		uc, pub := newQuickRunCommands(uow)

		actor := uuid.New()
		req := commands.UpsertQuickRunRequestRequest{Description: "Flat white"}
		_, err := uc.UpsertRequest(ctx, orgID, run.ID(), actor, req)
		require.NoError(t, err)
		_, err = uc.UpsertRequest(ctx, orgID, run.ID(), actor, req)
		require.NoError(t, err)
		assert.Len(t, pub.Kinds(), 1)
	})

	t.Run("runner cannot request against own run", func(t *testing.T) {
		uow := newMemUoW()
		run := seedQuickRun(uow, orgID, runner, quickrun.StatusOpen)
		uc, _ := newQuickRunCommands(uow)

		_, err := uc.UpsertRequest(ctx, orgID, run.ID(), runner, commands.UpsertQuickRunRequestRequest{
			Description: "Flat white",
		})
		assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	})

	t.Run("locked run rejects requests", func(t *testing.T) {
		uow := newMemUoW()
		run := seedQuickRun(uow, orgID, runner, quickrun.StatusLocked)
		uc, _ := newQuickRunCommands(uow)

		_, err := uc.UpsertRequest(ctx, orgID, run.ID(), uuid.New(), commands.UpsertQuickRunRequestRequest{
			Description: "Flat white",
		})
		assert.ErrorIs(t, err, errs.ErrLifecycleViolation)
	})
}

func TestQuickRunDeleteRequest(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	runner := uuid.New()

	uow := newMemUoW()
	run := seedQuickRun(uow, orgID, runner, quickrun.StatusOpen)
	uc, _ := newQuickRunCommands(uow)

	actor := uuid.New()
	r, err := uc.UpsertRequest(ctx, orgID, run.ID(), actor, commands.UpsertQuickRunRequestRequest{
		Description: "Flat white",
	})
	require.NoError(t, err)

	t.Run("stranger has no request to delete", func(t *testing.T) {
		err := uc.DeleteRequest(ctx, orgID, run.ID(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, uc.DeleteRequest(ctx, orgID, run.ID(), actor))
		assert.NotContains(t, uow.store.requests, r.ID())
	})
}

func TestQuickRunSetRequestFinalPrice(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	runner := uuid.New()
	participant := uuid.New()

	setup := func() (*memUoW, uuid.UUID, uuid.UUID, commands.QuickRunCommands) {
		uow := newMemUoW()
		run := seedQuickRun(uow, orgID, runner, quickrun.StatusOpen)
		uc, _ := newQuickRunCommands(uow)
		r, err := uc.UpsertRequest(ctx, orgID, run.ID(), participant, commands.UpsertQuickRunRequestRequest{
			Description: "Flat white",
		})
		require.NoError(t, err)
		return uow, run.ID(), r.ID(), uc
	}

	t.Run("runner sets the price", func(t *testing.T) {
		uow, runID, reqID, uc := setup()
		require.NoError(t, uc.SetRequestFinalPrice(ctx, orgID, runID, participant, runner, false, money.Cents(420)))

		stored := uow.store.requests[reqID]
		require.NotNil(t, stored.PriceFinal())
		assert.Equal(t, money.Cents(420), *stored.PriceFinal())
	})

	t.Run("participant cannot price their own request", func(t *testing.T) {
		_, runID, _, uc := setup()
		err := uc.SetRequestFinalPrice(ctx, orgID, runID, participant, participant, false, money.Cents(420))
		assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	})

	t.Run("admin allowed", func(t *testing.T) {
		_, runID, _, uc := setup()
		require.NoError(t, uc.SetRequestFinalPrice(ctx, orgID, runID, participant, uuid.New(), true, money.Cents(400)))
	})
}

func TestQuickRunDelegateAndClose(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	runner := uuid.New()

	t.Run("runner delegates to a successor", func(t *testing.T) {
		uow := newMemUoW()
		run := seedQuickRun(uow, orgID, runner, quickrun.StatusOpen)
		uc, pub := newQuickRunCommands(uow)

		next := uuid.New()
		require.NoError(t, uc.Delegate(ctx, orgID, run.ID(), runner, next))
		assert.Equal(t, next, uow.store.quickRuns[run.ID()].RunnerUserID())
		assert.Equal(t, []string{notify.KindRoleDelegated}, pub.Kinds())

		err := uc.Delegate(ctx, orgID, run.ID(), runner, uuid.New())
		assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	})

	t.Run("runner closes", func(t *testing.T) {
		uow := newMemUoW()
		run := seedQuickRun(uow, orgID, runner, quickrun.StatusLocked)
		uc, pub := newQuickRunCommands(uow)

		require.NoError(t, uc.Close(ctx, orgID, run.ID(), runner, false))
		assert.True(t, uow.store.quickRuns[run.ID()].IsClosed())
		assert.Equal(t, []string{notify.KindQuickRunClosed}, pub.Kinds())
	})

	t.Run("bystander cannot close", func(t *testing.T) {
		uow := newMemUoW()
		run := seedQuickRun(uow, orgID, runner, quickrun.StatusOpen)
		uc, _ := newQuickRunCommands(uow)

		err := uc.Close(ctx, orgID, run.ID(), uuid.New(), false)
		assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	})
}
