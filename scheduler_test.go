package lotto

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawSchedulerDailyRun(t *testing.T) {
	ctx := context.Background()

	t.Run("conducts the due draw and schedules the next", func(t *testing.T) {
		store := NewMemoryStore()
		manager := NewDrawManagerWithConfig(store, DefaultLotteryConfig(), NewSilentLogger())
		scheduler := NewDrawScheduler(manager, DefaultDrawHour, NewSilentLogger())

		// a draw whose date has already passed, inserted directly so the
		// creation-time validation doesn't apply
		due := &Draw{DrawDate: time.Now().Add(-time.Minute), Status: DrawStatusScheduled, TotalPrize: 50000}
		require.NoError(t, store.CreateDraw(ctx, due))

		scheduler.runDailyDraw()

		conducted, err := store.GetDraw(ctx, due.ID)
		require.NoError(t, err)
		assert.Equal(t, DrawStatusCompleted, conducted.Status)
		assert.True(t, conducted.WinningNumbers.Valid())

		next, err := store.GetCurrentDraw(ctx)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, DefaultBasePrize, next.TotalPrize)
		assert.Equal(t, DefaultDrawHour, next.DrawDate.Hour())
	})

	t.Run("due-check follows the manager clock", func(t *testing.T) {
		store := NewMemoryStore()
		manager := NewDrawManagerWithConfig(store, DefaultLotteryConfig(), NewSilentLogger())
		scheduler := NewDrawScheduler(manager, DefaultDrawHour, NewSilentLogger())

		// pin the clock three days ahead: the draw below is in the future on
		// the wall clock but already due on the manager's clock
		pinned := time.Now().Add(72 * time.Hour)
		fixManagerClock(manager, pinned)

		due := &Draw{DrawDate: time.Now().Add(time.Hour), Status: DrawStatusScheduled, TotalPrize: 50000}
		require.NoError(t, store.CreateDraw(ctx, due))

		scheduler.runDailyDraw()

		conducted, err := store.GetDraw(ctx, due.ID)
		require.NoError(t, err)
		assert.Equal(t, DrawStatusCompleted, conducted.Status)

		next, err := store.GetCurrentDraw(ctx)
		require.NoError(t, err)
		require.NotNil(t, next)
		want := time.Date(pinned.Year(), pinned.Month(), pinned.Day()+1, DefaultDrawHour, 0, 0, 0, pinned.Location())
		assert.True(t, next.DrawDate.Equal(want))
	})

	t.Run("leaves a future draw alone", func(t *testing.T) {
		store := NewMemoryStore()
		manager := NewDrawManagerWithConfig(store, DefaultLotteryConfig(), NewSilentLogger())
		scheduler := NewDrawScheduler(manager, DefaultDrawHour, NewSilentLogger())

		future := &Draw{DrawDate: time.Now().Add(48 * time.Hour), Status: DrawStatusScheduled, TotalPrize: 50000}
		require.NoError(t, store.CreateDraw(ctx, future))

		scheduler.runDailyDraw()

		untouched, err := store.GetDraw(ctx, future.ID)
		require.NoError(t, err)
		assert.Equal(t, DrawStatusScheduled, untouched.Status)
	})

	t.Run("start and stop", func(t *testing.T) {
		store := NewMemoryStore()
		manager := NewDrawManagerWithConfig(store, DefaultLotteryConfig(), NewSilentLogger())
		scheduler := NewDrawScheduler(manager, DefaultDrawHour, NewSilentLogger())

		require.NoError(t, scheduler.Start())
		scheduler.Stop()
	})
}
