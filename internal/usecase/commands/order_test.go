//go:build unit

package commands_test

import (
	"context"
	"testing"

	"lunchrun/internal/domain/proposal"
	"lunchrun/internal/domain/session"
	"lunchrun/internal/notify"
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/pkg/errs"
	"lunchrun/internal/pkg/money"
	"lunchrun/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderCommands(uow *memUoW) (commands.OrderCommands, *capturePublisher) {
	pub := &capturePublisher{}
	return commands.NewOrderCommands(uow, pub, clock.NewMockClock(testNow)), pub
}

func TestOrderUpsert(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("create then identical resubmit publishes once", func(t *testing.T) {
		uow := newMemUoW()
		s := seedSession(uow, orgID, session.StatusOpen)
		p := seedProposal(uow, orgID, s.ID(), proposal.StatusOpen, nil)
		uc, pub := newOrderCommands(uow)

		actor := uuid.New()
		req := commands.UpsertOrderRequest{Description: "Katsu curry", PriceEstimated: money.Cents(950)}

		o, err := uc.Upsert(ctx, orgID, p.ID(), actor, false, req)
		require.NoError(t, err)
		require.Len(t, o.AuditLog(), 1)

		same, err := uc.Upsert(ctx, orgID, p.ID(), actor, false, req)
		require.NoError(t, err)
		assert.Equal(t, o.ID(), same.ID())
		assert.Len(t, same.AuditLog(), 1)
		assert.Equal(t, []string{notify.KindOrderUpserted}, pub.Kinds())
	})

	t.Run("changed resubmit appends one audit entry and publishes again", func(t *testing.T) {
		uow := newMemUoW()
		s := seedSession(uow, orgID, session.StatusOpen)
		p := seedProposal(uow, orgID, s.ID(), proposal.StatusOpen, nil)
		uc, pub := newOrderCommands(uow)

		actor := uuid.New()
		_, err := uc.Upsert(ctx, orgID, p.ID(), actor, false,
			commands.UpsertOrderRequest{Description: "Katsu curry", PriceEstimated: money.Cents(950)})
		require.NoError(t, err)

		o, err := uc.Upsert(ctx, orgID, p.ID(), actor, false,
			commands.UpsertOrderRequest{Description: "Katsu curry", PriceEstimated: money.Cents(1050)})
		require.NoError(t, err)
		assert.Len(t, o.AuditLog(), 2)
		assert.Equal(t, []string{notify.KindOrderUpserted, notify.KindOrderUpserted}, pub.Kinds())
	})

	t.Run("locked session blocks non-holder", func(t *testing.T) {
		uow := newMemUoW()
		s := seedSession(uow, orgID, session.StatusLocked)
		p := seedProposal(uow, orgID, s.ID(), proposal.StatusOrdering,
			map[proposal.Role]uuid.UUID{proposal.RoleRunner: uuid.New()})
		uc, _ := newOrderCommands(uow)

		_, err := uc.Upsert(ctx, orgID, p.ID(), uuid.New(), false,
			commands.UpsertOrderRequest{Description: "Katsu curry", PriceEstimated: money.Cents(950)})
		assert.ErrorIs(t, err, errs.ErrLifecycleViolation)
	})

	t.Run("locked session still allows the holder", func(t *testing.T) {
		uow := newMemUoW()
		s := seedSession(uow, orgID, session.StatusLocked)
		holder := uuid.New()
		p := seedProposal(uow, orgID, s.ID(), proposal.StatusOrdering,
			map[proposal.Role]uuid.UUID{proposal.RoleRunner: holder})
		uc, _ := newOrderCommands(uow)

		_, err := uc.Upsert(ctx, orgID, p.ID(), holder, false,
			commands.UpsertOrderRequest{Description: "Katsu curry", PriceEstimated: money.Cents(950)})
		require.NoError(t, err)
	})

	t.Run("closed session blocks everyone", func(t *testing.T) {
		uow := newMemUoW()
		s := seedSession(uow, orgID, session.StatusClosed)
		holder := uuid.New()
		p := seedProposal(uow, orgID, s.ID(), proposal.StatusOrdering,
			map[proposal.Role]uuid.UUID{proposal.RoleRunner: holder})
		uc, _ := newOrderCommands(uow)

		_, err := uc.Upsert(ctx, orgID, p.ID(), holder, false,
			commands.UpsertOrderRequest{Description: "Katsu curry", PriceEstimated: money.Cents(950)})
		assert.ErrorIs(t, err, errs.ErrLifecycleViolation)
	})

	t.Run("non-joinable proposal rejects newcomers", func(t *testing.T) {
		uow := newMemUoW()
		s := seedSession(uow, orgID, session.StatusOpen)
		p := seedProposal(uow, orgID, s.ID(), proposal.StatusPlaced,
			map[proposal.Role]uuid.UUID{proposal.RoleRunner: uuid.New()})
		uc, _ := newOrderCommands(uow)

		_, err := uc.Upsert(ctx, orgID, p.ID(), uuid.New(), false,
			commands.UpsertOrderRequest{Description: "Katsu curry", PriceEstimated: money.Cents(950)})
		assert.ErrorIs(t, err, errs.ErrLifecycleViolation)
	})
}

func TestOrderSetFinalPrice(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	holder := uuid.New()
	participant := uuid.New()

	setup := func(sessionStatus session.Status) (*memUoW, uuid.UUID, commands.OrderCommands, *capturePublisher) {
		uow := newMemUoW()
		s := seedSession(uow, orgID, session.StatusOpen)
		p := seedProposal(uow, orgID, s.ID(), proposal.StatusOrdering,
			map[proposal.Role]uuid.UUID{proposal.RoleRunner: holder})
		uc, pub := newOrderCommands(uow)
		o, err := uc.Upsert(ctx, orgID, p.ID(), participant, false,
			commands.UpsertOrderRequest{Description: "Katsu curry", PriceEstimated: money.Cents(950)})
		require.NoError(t, err)
		if sessionStatus != session.StatusOpen {
			stored := uow.store.sessions[s.ID()]
			if sessionStatus == session.StatusLocked {
				require.NoError(t, stored.Lock())
			} else {
				require.NoError(t, stored.Close())
			}
		}
		return uow, o.ID(), uc, pub
	}

	t.Run("holder sets final price", func(t *testing.T) {
		uow, orderID, uc, pub := setup(session.StatusLocked)
		require.NoError(t, uc.SetFinalPrice(ctx, orgID, orderID, holder, false, money.Cents(1000)))

		stored := uow.store.orders[orderID]
		require.NotNil(t, stored.PriceFinal())
		assert.Equal(t, money.Cents(1000), *stored.PriceFinal())
		assert.Contains(t, pub.Kinds(), notify.KindFinalPriceSet)
	})

	t.Run("same price is a no-op without event", func(t *testing.T) {
		_, orderID, uc, pub := setup(session.StatusOpen)
		require.NoError(t, uc.SetFinalPrice(ctx, orgID, orderID, holder, false, money.Cents(1000)))
		require.NoError(t, uc.SetFinalPrice(ctx, orgID, orderID, holder, false, money.Cents(1000)))

		var finals int
		for _, k := range pub.Kinds() {
			if k == notify.KindFinalPriceSet {
				finals++
			}
		}
		assert.Equal(t, 1, finals)
	})

	t.Run("participant without a role denied", func(t *testing.T) {
		_, orderID, uc, _ := setup(session.StatusOpen)
		err := uc.SetFinalPrice(ctx, orgID, orderID, participant, false, money.Cents(1000))
		assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	})

	t.Run("admin allowed", func(t *testing.T) {
		_, orderID, uc, _ := setup(session.StatusOpen)
		require.NoError(t, uc.SetFinalPrice(ctx, orgID, orderID, uuid.New(), true, money.Cents(1200)))
	})

	t.Run("closed session rejected", func(t *testing.T) {
		_, orderID, uc, _ := setup(session.StatusClosed)
		err := uc.SetFinalPrice(ctx, orgID, orderID, holder, false, money.Cents(1000))
		assert.ErrorIs(t, err, errs.ErrLifecycleViolation)
	})
}

func TestOrderDelete(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	owner := uuid.New()

	setup := func() (*memUoW, uuid.UUID, commands.OrderCommands, *capturePublisher) {
		uow := newMemUoW()
		s := seedSession(uow, orgID, session.StatusOpen)
		p := seedProposal(uow, orgID, s.ID(), proposal.StatusOpen, nil)
		uc, pub := newOrderCommands(uow)
		o, err := uc.Upsert(ctx, orgID, p.ID(), owner, false,
			commands.UpsertOrderRequest{Description: "Katsu curry", PriceEstimated: money.Cents(950)})
		require.NoError(t, err)
		return uow, o.ID(), uc, pub
	}

	t.Run("owner deletes", func(t *testing.T) {
		uow, orderID, uc, pub := setup()
		require.NoError(t, uc.Delete(ctx, orgID, orderID, owner))
		assert.NotContains(t, uow.store.orders, orderID)
		assert.Contains(t, pub.Kinds(), notify.KindOrderDeleted)
	})

	t.Run("non-owner denied even as holder", func(t *testing.T) {
		_, orderID, uc, _ := setup()
		err := uc.Delete(ctx, orgID, orderID, uuid.New())
		assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, _, uc, _ := setup()
		err := uc.Delete(ctx, orgID, uuid.New(), owner)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}
