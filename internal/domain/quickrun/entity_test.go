//go:build unit

package quickrun_test

import (
	"testing"
	"time"

	"lunchrun/internal/domain/quickrun"
	"lunchrun/internal/pkg/errs"
	"lunchrun/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRun(t *testing.T, runner uuid.UUID, now time.Time) *quickrun.QuickRun {
	t.Helper()
	run, err := quickrun.NewQuickRun(uuid.New(), runner, "convenience store", 15, nil, now)
	require.NoError(t, err)
	return run
}

func TestNewQuickRun(t *testing.T) {
	now := time.Now()
	runner := uuid.New()

	t.Run("creator becomes runner and deadline derives from delay", func(t *testing.T) {
		run := newRun(t, runner, now)

		assert.Equal(t, runner, run.RunnerUserID())
		assert.Equal(t, now.Add(15*time.Minute), run.DeadlineAt())
		assert.True(t, run.IsOpen())
	})

	cases := []struct {
		name         string
		destination  string
		delayMinutes int
		wantField    string
	}{
		{name: "missing destination", destination: "", delayMinutes: 15, wantField: "destination"},
		{name: "zero delay", destination: "store", delayMinutes: 0, wantField: "delay_minutes"},
		{name: "negative delay", destination: "store", delayMinutes: -5, wantField: "delay_minutes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := quickrun.NewQuickRun(uuid.New(), runner, tc.destination, tc.delayMinutes, nil, now)
			require.ErrorIs(t, err, errs.ErrValidation)
			fields, ok := errs.AsFieldErrors(err)
			require.True(t, ok)
			assert.Contains(t, fields, tc.wantField)
		})
	}
}

func TestQuickRunExpired(t *testing.T) {
	now := time.Now()
	run := newRun(t, uuid.New(), now)
	deadline := run.DeadlineAt()

	assert.False(t, run.Expired(deadline.Add(-time.Second)))
	assert.True(t, run.Expired(deadline))
	assert.True(t, run.Expired(deadline.Add(time.Second)))
}

func TestQuickRunDelegate(t *testing.T) {
	now := time.Now()

	t.Run("runner hands off", func(t *testing.T) {
		runner, next := uuid.New(), uuid.New()
		run := newRun(t, runner, now)

		require.NoError(t, run.Delegate(runner, next))
		assert.Equal(t, next, run.RunnerUserID())
	})

	t.Run("non-runner rejected", func(t *testing.T) {
		run := newRun(t, uuid.New(), now)
		assert.ErrorIs(t, run.Delegate(uuid.New(), uuid.New()), errs.ErrPermissionDenied)
	})

	t.Run("closed run rejected", func(t *testing.T) {
		runner := uuid.New()
		run := newRun(t, runner, now)
		require.NoError(t, run.Close())
		assert.ErrorIs(t, run.Delegate(runner, uuid.New()), errs.ErrLifecycleViolation)
	})
}

func TestQuickRunLifecycle(t *testing.T) {
	now := time.Now()

	t.Run("lock then close", func(t *testing.T) {
		run := newRun(t, uuid.New(), now)
		require.NoError(t, run.Lock())
		assert.True(t, run.IsLocked())
		require.NoError(t, run.Close())
		assert.True(t, run.IsClosed())
	})

	t.Run("lock requires open", func(t *testing.T) {
		run := newRun(t, uuid.New(), now)
		require.NoError(t, run.Lock())
		assert.ErrorIs(t, run.Lock(), errs.ErrLifecycleViolation)
	})
}

func TestNewRequest(t *testing.T) {
	now := time.Now()
	runner := uuid.New()
	run := newRun(t, runner, now)

	t.Run("participant attaches a request", func(t *testing.T) {
		participant := uuid.New()
		price := money.Cents(350)

		r, err := quickrun.NewRequest(run, participant, "onigiri", &price, now)
		require.NoError(t, err)
		assert.Equal(t, run.ID(), r.QuickRunID())
		assert.Equal(t, participant, r.ParticipantUserID())
	})

	t.Run("runner cannot request against own run", func(t *testing.T) {
		_, err := quickrun.NewRequest(run, runner, "onigiri", nil, now)
		assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	})

	t.Run("description required", func(t *testing.T) {
		_, err := quickrun.NewRequest(run, uuid.New(), "", nil, now)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestRequestUpdate(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Minute)
	run := newRun(t, uuid.New(), now)
	price := money.Cents(350)

	t.Run("identical resubmit is a no-op", func(t *testing.T) {
		r, err := quickrun.NewRequest(run, uuid.New(), "onigiri", &price, now)
		require.NoError(t, err)

		changed, err := r.Update("onigiri", &price, later)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, now, r.UpdatedAt())
	})

	t.Run("changed description updates", func(t *testing.T) {
		r, err := quickrun.NewRequest(run, uuid.New(), "onigiri", &price, now)
		require.NoError(t, err)

		changed, err := r.Update("sandwich", &price, later)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "sandwich", r.Description())
		assert.Equal(t, later, r.UpdatedAt())
	})
}

func TestRequestSetFinalPrice(t *testing.T) {
	now := time.Now()
	run := newRun(t, uuid.New(), now)
	r, err := quickrun.NewRequest(run, uuid.New(), "onigiri", nil, now)
	require.NoError(t, err)

	assert.True(t, r.SetFinalPrice(money.Cents(320), now))
	assert.False(t, r.SetFinalPrice(money.Cents(320), now))
	assert.True(t, r.SetFinalPrice(money.Cents(330), now))
}
