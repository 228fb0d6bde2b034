package lotto

import (
	"context"
	"time"
)

// Store is the persistence boundary for draws and tickets. The manager only
// ever works on values passed through this interface; implementations own
// storage, IDs, and the atomicity guarantees called out per method.
type Store interface {
	// CreateDraw persists a new draw and fills in its ID and CreatedAt
	CreateDraw(ctx context.Context, draw *Draw) error

	// GetDraw returns the draw with the given ID, or nil when none
	GetDraw(ctx context.Context, drawID string) (*Draw, error)

	// GetCurrentDraw returns the single scheduled-or-active draw with the
	// earliest draw date, or nil when no such draw exists
	GetCurrentDraw(ctx context.Context) (*Draw, error)

	// GetRecentDraws returns up to limit draws ordered by draw date descending
	GetRecentDraws(ctx context.Context, limit int) ([]*Draw, error)

	// UpdateWinningNumbers sets the winning numbers and flips the draw to
	// completed in one atomic write guarded on status, so that concurrent
	// conduct attempts cannot each complete the same draw. Returns
	// ErrDrawAlreadyCompleted when the guard rejects the write and
	// ErrDrawNotFound when no such draw exists.
	UpdateWinningNumbers(ctx context.Context, drawID string, numbers NumberSet) (*Draw, error)

	// CreateTicket persists a new ticket, fills in its ID, and increments the
	// owning draw's sold counter
	CreateTicket(ctx context.Context, ticket *Ticket) error

	// GetTicketsForDraw returns every ticket purchased for the draw
	GetTicketsForDraw(ctx context.Context, drawID string) ([]*Ticket, error)

	// GetTicketsForUser returns the user's tickets, most recent purchase first
	GetTicketsForUser(ctx context.Context, userID string) ([]*Ticket, error)

	// SetTicketWinner persists the winner flag on a single ticket
	SetTicketWinner(ctx context.Context, ticketID string, isWinner bool) error
}

// User is a registered account. Only the HTTP layer cares about credentials;
// the core consumes a validated user ID.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserStore is the persistence boundary for accounts
type UserStore interface {
	// CreateUser persists a new user and fills in its ID and CreatedAt.
	// The email must be unique.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail returns the user with the given email, or nil when none
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID returns the user with the given ID, or nil when none
	GetUserByID(ctx context.Context, id string) (*User, error)

	// ListUsers returns every registered user, oldest account first
	ListUsers(ctx context.Context) ([]*User, error)
}
