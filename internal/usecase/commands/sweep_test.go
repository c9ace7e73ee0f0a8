//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"lunchrun/internal/domain/quickrun"
	"lunchrun/internal/domain/session"
	"lunchrun/internal/notify"
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSweepCommands(uow *memUoW) (commands.SweepCommands, *capturePublisher) {
	pub := &capturePublisher{}
	return commands.NewSweepCommands(uow, pub, clock.NewMockClock(testNow)), pub
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	deadline := testNow.Add(90 * time.Minute)

	t.Run("locks sessions and quick runs past the deadline", func(t *testing.T) {
		uow := newMemUoW()
		expired := seedSession(uow, orgID, session.StatusOpen)
		fresh := session.ReconstructSession(
			uuid.New(), orgID, session.Day("2025-06-03"),
			deadline.Add(24*time.Hour), session.StatusOpen, "C123", "", testNow, testNow,
		)
		uow.store.sessions[fresh.ID()] = fresh
		run := seedQuickRun(uow, orgID, uuid.New(), quickrun.StatusOpen)
		uc, pub := newSweepCommands(uow)

		result, err := uc.SweepExpired(ctx, deadline)
		require.NoError(t, err)
		require.Len(t, result.Sessions, 1)
		require.Len(t, result.QuickRuns, 1)
		assert.Equal(t, expired.ID(), result.Sessions[0].ID)
		assert.Equal(t, run.ID(), result.QuickRuns[0].ID)

		assert.True(t, uow.store.sessions[expired.ID()].IsLocked())
		assert.True(t, uow.store.sessions[fresh.ID()].IsOpen())
		assert.True(t, uow.store.quickRuns[run.ID()].IsLocked())

		events := pub.Events()
		require.Len(t, events, 2)
		assert.Equal(t, notify.KindSessionLocked, events[0].Kind)
		assert.Equal(t, uuid.Nil, events[0].ActorID)
		assert.Equal(t, notify.KindQuickRunLocked, events[1].Kind)
	})

	t.Run("deadline instant itself is already expired", func(t *testing.T) {
		uow := newMemUoW()
		s := seedSession(uow, orgID, session.StatusOpen)
		uc, _ := newSweepCommands(uow)

		result, err := uc.SweepExpired(ctx, s.DeadlineAt())
		require.NoError(t, err)
		assert.Len(t, result.Sessions, 1)
	})

	t.Run("second sweep at the same instant is empty", func(t *testing.T) {
		uow := newMemUoW()
		seedSession(uow, orgID, session.StatusOpen)
		seedQuickRun(uow, orgID, uuid.New(), quickrun.StatusOpen)
		uc, pub := newSweepCommands(uow)

		first, err := uc.SweepExpired(ctx, deadline)
		require.NoError(t, err)
		assert.False(t, first.Empty())

		second, err := uc.SweepExpired(ctx, deadline)
		require.NoError(t, err)
		assert.True(t, second.Empty())
		assert.Len(t, pub.Events(), 2)
	})

	t.Run("closed entities never transition", func(t *testing.T) {
		uow := newMemUoW()
		seedSession(uow, orgID, session.StatusClosed)
		seedQuickRun(uow, orgID, uuid.New(), quickrun.StatusClosed)
		uc, _ := newSweepCommands(uow)

		result, err := uc.SweepExpired(ctx, deadline)
		require.NoError(t, err)
		assert.True(t, result.Empty())
	})
}
