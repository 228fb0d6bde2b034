package lotto

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// MemoryStore is a mutex-guarded in-memory Store and UserStore. It backs
// tests and single-process deployments that don't need durability.
type MemoryStore struct {
	mu      sync.RWMutex
	draws   map[string]*Draw
	tickets map[string]*Ticket
	users   map[string]*User
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		draws:   make(map[string]*Draw),
		tickets: make(map[string]*Ticket),
		users:   make(map[string]*User),
	}
}

func newID() string {
	id, err := gonanoid.New()
	if err != nil {
		// nanoid only fails when the system entropy source does
		return fmt.Sprintf("id-%d", time.Now().UnixNano())
	}
	return id
}

// CreateDraw persists a new draw and fills in its ID and CreatedAt
func (s *MemoryStore) CreateDraw(ctx context.Context, draw *Draw) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draw.ID = newID()
	draw.CreatedAt = time.Now()

	stored := *draw
	s.draws[draw.ID] = &stored
	return nil
}

// GetDraw returns the draw with the given ID, or nil when none
func (s *MemoryStore) GetDraw(ctx context.Context, drawID string) (*Draw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draw, ok := s.draws[drawID]
	if !ok {
		return nil, nil
	}
	copied := *draw
	return &copied, nil
}

// GetCurrentDraw returns the open draw with the earliest draw date, or nil
func (s *MemoryStore) GetCurrentDraw(ctx context.Context) (*Draw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var current *Draw
	for _, draw := range s.draws {
		if !draw.Open() {
			continue
		}
		if current == nil || draw.DrawDate.Before(current.DrawDate) {
			current = draw
		}
	}

	if current == nil {
		return nil, nil
	}
	copied := *current
	return &copied, nil
}

// GetRecentDraws returns up to limit draws ordered by draw date descending
func (s *MemoryStore) GetRecentDraws(ctx context.Context, limit int) ([]*Draw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draws := make([]*Draw, 0, len(s.draws))
	for _, draw := range s.draws {
		copied := *draw
		draws = append(draws, &copied)
	}

	sort.Slice(draws, func(i, j int) bool {
		return draws[i].DrawDate.After(draws[j].DrawDate)
	})

	if limit > 0 && len(draws) > limit {
		draws = draws[:limit]
	}
	return draws, nil
}

// UpdateWinningNumbers completes a draw with its winning numbers. The status
// guard and the write happen under one lock, so a draw completes exactly once.
func (s *MemoryStore) UpdateWinningNumbers(ctx context.Context, drawID string, numbers NumberSet) (*Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draw, ok := s.draws[drawID]
	if !ok {
		return nil, ErrDrawNotFound
	}
	if draw.Status == DrawStatusCompleted {
		return nil, ErrDrawAlreadyCompleted
	}

	draw.WinningNumbers = numbers.Sorted()
	draw.Status = DrawStatusCompleted

	copied := *draw
	return &copied, nil
}

// CreateTicket persists a new ticket and increments the draw's sold counter
func (s *MemoryStore) CreateTicket(ctx context.Context, ticket *Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draw, ok := s.draws[ticket.DrawID]
	if !ok {
		return ErrDrawNotFound
	}

	ticket.ID = newID()

	stored := *ticket
	s.tickets[ticket.ID] = &stored
	draw.TicketsSold++
	return nil
}

// GetTicketsForDraw returns every ticket purchased for the draw
func (s *MemoryStore) GetTicketsForDraw(ctx context.Context, drawID string) ([]*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := make([]*Ticket, 0)
	for _, ticket := range s.tickets {
		if ticket.DrawID == drawID {
			copied := *ticket
			tickets = append(tickets, &copied)
		}
	}
	return tickets, nil
}

// GetTicketsForUser returns the user's tickets, most recent purchase first
func (s *MemoryStore) GetTicketsForUser(ctx context.Context, userID string) ([]*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := make([]*Ticket, 0)
	for _, ticket := range s.tickets {
		if ticket.UserID == userID {
			copied := *ticket
			tickets = append(tickets, &copied)
		}
	}

	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].PurchaseDate.After(tickets[j].PurchaseDate)
	})
	return tickets, nil
}

// SetTicketWinner persists the winner flag on a single ticket
func (s *MemoryStore) SetTicketWinner(ctx context.Context, ticketID string, isWinner bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[ticketID]
	if !ok {
		return fmt.Errorf("ticket not found: %s", ticketID)
	}
	ticket.IsWinner = isWinner
	return nil
}

// CreateUser persists a new user and fills in its ID and CreatedAt
func (s *MemoryStore) CreateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email already registered: %s", user.Email)
		}
	}

	user.ID = newID()
	user.CreatedAt = time.Now()

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

// GetUserByEmail returns the user with the given email, or nil when none
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

// ListUsers returns every registered user, oldest account first
func (s *MemoryStore) ListUsers(ctx context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*User, 0, len(s.users))
	for _, user := range s.users {
		copied := *user
		users = append(users, &copied)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// GetUserByID returns the user with the given ID, or nil when none
func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}
