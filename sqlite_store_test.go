package lotto

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "lotto_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreDrawLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	draw := &Draw{
		DrawDate:   time.Now().Add(24 * time.Hour).UTC(),
		Status:     DrawStatusScheduled,
		TotalPrize: 50000,
	}
	require.NoError(t, store.CreateDraw(ctx, draw))
	require.NotEmpty(t, draw.ID)

	t.Run("current draw round-trips", func(t *testing.T) {
		current, err := store.GetCurrentDraw(ctx)
		require.NoError(t, err)
		require.NotNil(t, current)

		assert.Equal(t, draw.ID, current.ID)
		assert.Equal(t, DrawStatusScheduled, current.Status)
		assert.Equal(t, 50000.0, current.TotalPrize)
		assert.Empty(t, current.WinningNumbers)
	})

	t.Run("completion is guarded on status", func(t *testing.T) {
		updated, err := store.UpdateWinningNumbers(ctx, draw.ID, NumberSet{6, 5, 4, 3, 2, 1})
		require.NoError(t, err)

		assert.Equal(t, DrawStatusCompleted, updated.Status)
		assert.Equal(t, NumberSet{1, 2, 3, 4, 5, 6}, updated.WinningNumbers)

		_, err = store.UpdateWinningNumbers(ctx, draw.ID, NumberSet{7, 8, 9, 10, 11, 12})
		assert.ErrorIs(t, err, ErrDrawAlreadyCompleted)

		// winning numbers survive the rejected second attempt
		draws, err := store.GetRecentDraws(ctx, 1)
		require.NoError(t, err)
		require.Len(t, draws, 1)
		assert.Equal(t, NumberSet{1, 2, 3, 4, 5, 6}, draws[0].WinningNumbers)
	})

	t.Run("completed draw is no longer current", func(t *testing.T) {
		current, err := store.GetCurrentDraw(ctx)
		require.NoError(t, err)
		assert.Nil(t, current)
	})

	t.Run("unknown draw fails", func(t *testing.T) {
		_, err := store.UpdateWinningNumbers(ctx, "no-such-draw", NumberSet{1, 2, 3, 4, 5, 6})
		assert.ErrorIs(t, err, ErrDrawNotFound)
	})
}

func TestSQLiteStoreCurrentDrawOrdering(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	later := &Draw{DrawDate: time.Now().Add(48 * time.Hour).UTC(), Status: DrawStatusScheduled, TotalPrize: 1000}
	require.NoError(t, store.CreateDraw(ctx, later))
	earlier := &Draw{DrawDate: time.Now().Add(24 * time.Hour).UTC(), Status: DrawStatusScheduled, TotalPrize: 2000}
	require.NoError(t, store.CreateDraw(ctx, earlier))

	current, err := store.GetCurrentDraw(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, earlier.ID, current.ID)
}

func TestSQLiteStoreTickets(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	draw := &Draw{DrawDate: time.Now().Add(24 * time.Hour).UTC(), Status: DrawStatusScheduled, TotalPrize: 50000}
	require.NoError(t, store.CreateDraw(ctx, draw))

	t.Run("ticket insert bumps the sold counter", func(t *testing.T) {
		ticket := &Ticket{
			UserID:       "user-1",
			DrawID:       draw.ID,
			Numbers:      NumberSet{1, 10, 25, 30, 45, 50},
			PurchaseDate: time.Now().UTC(),
			Price:        DefaultTicketPrice,
		}
		require.NoError(t, store.CreateTicket(ctx, ticket))
		require.NotEmpty(t, ticket.ID)

		current, err := store.GetCurrentDraw(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, current.TicketsSold)

		tickets, err := store.GetTicketsForDraw(ctx, draw.ID)
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, NumberSet{1, 10, 25, 30, 45, 50}, tickets[0].Numbers)
		assert.False(t, tickets[0].IsWinner)
	})

	t.Run("ticket on unknown draw fails and leaves nothing behind", func(t *testing.T) {
		err := store.CreateTicket(ctx, &Ticket{
			UserID:       "user-1",
			DrawID:       "no-such-draw",
			Numbers:      NumberSet{1, 2, 3, 4, 5, 6},
			PurchaseDate: time.Now().UTC(),
		})
		assert.ErrorIs(t, err, ErrDrawNotFound)

		tickets, err := store.GetTicketsForUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, tickets, 1, "only the earlier valid ticket exists")
	})

	t.Run("winner flag persists", func(t *testing.T) {
		tickets, err := store.GetTicketsForDraw(ctx, draw.ID)
		require.NoError(t, err)
		require.Len(t, tickets, 1)

		require.NoError(t, store.SetTicketWinner(ctx, tickets[0].ID, true))

		tickets, err = store.GetTicketsForDraw(ctx, draw.ID)
		require.NoError(t, err)
		assert.True(t, tickets[0].IsWinner)
	})

	t.Run("flagging an unknown ticket fails", func(t *testing.T) {
		assert.Error(t, store.SetTicketWinner(ctx, "no-such-ticket", true))
	})
}

func TestSQLiteStoreUsers(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	user := &User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		FirstName:    "Alice",
		LastName:     "Smith",
		Role:         RoleUser,
	}
	require.NoError(t, store.CreateUser(ctx, user))
	require.NotEmpty(t, user.ID)

	t.Run("lookup by email and id", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, user.ID, byEmail.ID)
		assert.Equal(t, "Alice", byEmail.FirstName)

		byID, err := store.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "alice@example.com", byID.Email)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, &User{Email: "alice@example.com", PasswordHash: "other"})
		assert.Error(t, err)
	})

	t.Run("unknown user yields nil without error", func(t *testing.T) {
		missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("listing returns all users", func(t *testing.T) {
		require.NoError(t, store.CreateUser(ctx, &User{Email: "bob@example.com", PasswordHash: "hash"}))

		users, err := store.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)

		emails := []string{users[0].Email, users[1].Email}
		assert.Contains(t, emails, "alice@example.com")
		assert.Contains(t, emails, "bob@example.com")
	})
}

func TestSQLiteStoreBacksTheManager(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	manager := NewDrawManagerWithConfig(store, DefaultLotteryConfig(), NewSilentLogger())

	draw, err := manager.CreateDraw(ctx, time.Now().Add(24*time.Hour).UTC(), 50000)
	require.NoError(t, err)

	_, err = manager.PurchaseTicket(ctx, "user-1", draw.ID, []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	result, err := manager.ConductDraw(ctx, draw.ID)
	require.NoError(t, err)
	assert.Equal(t, DrawStatusCompleted, result.Draw.Status)
	assert.True(t, result.Draw.WinningNumbers.Valid())

	_, err = manager.ConductDraw(ctx, draw.ID)
	assert.ErrorIs(t, err, ErrDrawAlreadyCompleted)
}
