package lotto

import (
	"context"

	"github.com/sony/gobreaker"
)

// CircuitBreakerStore wraps a Store with a circuit breaker so that a failing
// backend sheds load instead of stacking up timed-out calls. It satisfies
// Store and can be dropped in front of any implementation.
type CircuitBreakerStore struct {
	store Store

	breaker *gobreaker.CircuitBreaker
	logger  Logger
	config  *CircuitBreakerConfig
}

// NewCircuitBreakerStore creates a breaker-wrapped store. When the breaker is
// disabled in config the wrapper passes calls straight through.
func NewCircuitBreakerStore(store Store, config *CircuitBreakerConfig, logger Logger) *CircuitBreakerStore {
	if !config.Enabled {
		return &CircuitBreakerStore{
			store:  store,
			logger: logger,
			config: config,
		}
	}

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange && logger != nil {
				logger.Info("Circuit breaker '%s' state changed from %s to %s", name, from, to)
			}
		},
		IsSuccessful: func(err error) bool {
			// Taxonomy errors are caller mistakes, not backend failures;
			// they must not trip the breaker.
			switch err {
			case nil, ErrDrawNotFound, ErrDrawAlreadyCompleted:
				return true
			}
			return false
		},
	}

	return &CircuitBreakerStore{
		store:   store,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
		config:  config,
	}
}

// executeWithBreaker runs one store operation through the breaker
func (c *CircuitBreakerStore) executeWithBreaker(operation func() (any, error)) (any, error) {
	if c.breaker == nil {
		return operation()
	}

	result, err := c.breaker.Execute(operation)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, ErrRedisConnectionFailed
	}

	return result, err
}

// CreateDraw persists a new draw through the breaker
func (c *CircuitBreakerStore) CreateDraw(ctx context.Context, draw *Draw) error {
	_, err := c.executeWithBreaker(func() (any, error) {
		return nil, c.store.CreateDraw(ctx, draw)
	})
	return err
}

// GetDraw fetches one draw through the breaker
func (c *CircuitBreakerStore) GetDraw(ctx context.Context, drawID string) (*Draw, error) {
	result, err := c.executeWithBreaker(func() (any, error) {
		return c.store.GetDraw(ctx, drawID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Draw), nil
}

// GetCurrentDraw fetches the current draw through the breaker
func (c *CircuitBreakerStore) GetCurrentDraw(ctx context.Context) (*Draw, error) {
	result, err := c.executeWithBreaker(func() (any, error) {
		return c.store.GetCurrentDraw(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Draw), nil
}

// GetRecentDraws fetches recent draws through the breaker
func (c *CircuitBreakerStore) GetRecentDraws(ctx context.Context, limit int) ([]*Draw, error) {
	result, err := c.executeWithBreaker(func() (any, error) {
		return c.store.GetRecentDraws(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*Draw), nil
}

// UpdateWinningNumbers completes a draw through the breaker
func (c *CircuitBreakerStore) UpdateWinningNumbers(ctx context.Context, drawID string, numbers NumberSet) (*Draw, error) {
	result, err := c.executeWithBreaker(func() (any, error) {
		return c.store.UpdateWinningNumbers(ctx, drawID, numbers)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Draw), nil
}

// CreateTicket persists a ticket through the breaker
func (c *CircuitBreakerStore) CreateTicket(ctx context.Context, ticket *Ticket) error {
	_, err := c.executeWithBreaker(func() (any, error) {
		return nil, c.store.CreateTicket(ctx, ticket)
	})
	return err
}

// GetTicketsForDraw fetches a draw's tickets through the breaker
func (c *CircuitBreakerStore) GetTicketsForDraw(ctx context.Context, drawID string) ([]*Ticket, error) {
	result, err := c.executeWithBreaker(func() (any, error) {
		return c.store.GetTicketsForDraw(ctx, drawID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*Ticket), nil
}

// GetTicketsForUser fetches a user's tickets through the breaker
func (c *CircuitBreakerStore) GetTicketsForUser(ctx context.Context, userID string) ([]*Ticket, error) {
	result, err := c.executeWithBreaker(func() (any, error) {
		return c.store.GetTicketsForUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*Ticket), nil
}

// SetTicketWinner persists a winner flag through the breaker
func (c *CircuitBreakerStore) SetTicketWinner(ctx context.Context, ticketID string, isWinner bool) error {
	_, err := c.executeWithBreaker(func() (any, error) {
		return nil, c.store.SetTicketWinner(ctx, ticketID, isWinner)
	})
	return err
}
