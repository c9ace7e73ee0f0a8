//go:build unit

package order_test

import (
	"testing"
	"time"

	"lunchrun/internal/domain/order"
	"lunchrun/internal/pkg/errs"
	"lunchrun/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, owner uuid.UUID, now time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(uuid.New(), owner, "chicken curry", money.Cents(950), nil, now)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	now := time.Now()
	owner := uuid.New()

	t.Run("records creation in the audit log", func(t *testing.T) {
		o := newOrder(t, owner, now)

		log := o.AuditLog()
		require.Len(t, log, 1)
		assert.Equal(t, owner, log[0].By)
		assert.Equal(t, order.FieldChange{From: nil, To: true}, log[0].Changes["created"])
	})

	t.Run("empty description rejected", func(t *testing.T) {
		_, err := order.NewOrder(uuid.New(), owner, "", money.Cents(950), nil, now)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestApply(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Minute)
	owner := uuid.New()

	t.Run("identical resubmit is a no-op", func(t *testing.T) {
		o := newOrder(t, owner, now)

		desc := "chicken curry"
		price := money.Cents(950)
		changed, err := o.Apply(order.Patch{Description: &desc, PriceEstimated: &price}, owner, later)

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Len(t, o.AuditLog(), 1)
		assert.Equal(t, now, o.UpdatedAt())
	})

	t.Run("single changed field produces one entry with only that field", func(t *testing.T) {
		o := newOrder(t, owner, now)

		desc := "chicken curry"
		price := money.Cents(1050)
		changed, err := o.Apply(order.Patch{Description: &desc, PriceEstimated: &price}, owner, later)

		require.NoError(t, err)
		assert.True(t, changed)

		log := o.AuditLog()
		require.Len(t, log, 2)
		entry := log[1]
		require.Len(t, entry.Changes, 1)
		assert.Equal(t, order.FieldChange{From: int64(950), To: int64(1050)}, entry.Changes["price_estimated"])
		assert.Equal(t, later, entry.At)
	})

	t.Run("multiple changed fields share one entry", func(t *testing.T) {
		o := newOrder(t, owner, now)

		desc := "veggie curry"
		price := money.Cents(800)
		notes := "no onions"
		changed, err := o.Apply(order.Patch{Description: &desc, PriceEstimated: &price, Notes: &notes}, owner, later)

		require.NoError(t, err)
		assert.True(t, changed)

		log := o.AuditLog()
		require.Len(t, log, 2)
		assert.Len(t, log[1].Changes, 3)
	})

	t.Run("nil fields are left unchanged", func(t *testing.T) {
		o := newOrder(t, owner, now)

		price := money.Cents(1000)
		changed, err := o.Apply(order.Patch{PriceEstimated: &price}, owner, later)

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "chicken curry", o.Description())
	})

	t.Run("clearing the description rejected", func(t *testing.T) {
		o := newOrder(t, owner, now)

		empty := ""
		_, err := o.Apply(order.Patch{Description: &empty}, owner, later)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Len(t, o.AuditLog(), 1)
	})
}

func TestSetFinalPrice(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Minute)
	owner := uuid.New()
	admin := uuid.New()

	t.Run("first set is audited", func(t *testing.T) {
		o := newOrder(t, owner, now)

		assert.True(t, o.SetFinalPrice(money.Cents(975), admin, later))

		require.NotNil(t, o.PriceFinal())
		assert.Equal(t, money.Cents(975), *o.PriceFinal())

		log := o.AuditLog()
		require.Len(t, log, 2)
		assert.Equal(t, admin, log[1].By)
		assert.Equal(t, order.FieldChange{From: nil, To: int64(975)}, log[1].Changes["price_final"])
	})

	t.Run("same value is a no-op", func(t *testing.T) {
		o := newOrder(t, owner, now)
		require.True(t, o.SetFinalPrice(money.Cents(975), admin, later))

		assert.False(t, o.SetFinalPrice(money.Cents(975), admin, later.Add(time.Minute)))
		assert.Len(t, o.AuditLog(), 2)
	})

	t.Run("correction records previous value", func(t *testing.T) {
		o := newOrder(t, owner, now)
		require.True(t, o.SetFinalPrice(money.Cents(975), admin, later))
		require.True(t, o.SetFinalPrice(money.Cents(1000), admin, later.Add(time.Minute)))

		log := o.AuditLog()
		require.Len(t, log, 3)
		assert.Equal(t, order.FieldChange{From: int64(975), To: int64(1000)}, log[2].Changes["price_final"])
	})
}

func TestOwnedBy(t *testing.T) {
	owner := uuid.New()
	o := newOrder(t, owner, time.Now())

	assert.True(t, o.OwnedBy(owner))
	assert.False(t, o.OwnedBy(uuid.New()))
}
