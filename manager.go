package lotto

import (
	"context"
	"fmt"
	"time"
)

// DrawManager runs the draw lifecycle on top of an injected Store: creating
// draws, selling tickets, conducting draws, and aggregating statistics. The
// Redis lock manager and ticket quota are optional; without them the manager
// relies on the store's own atomicity guarantees.
type DrawManager struct {
	store   Store
	logger  Logger
	monitor *PerformanceMonitor

	lockManager *DistributedLockManager
	quota       *TicketQuota

	ticketPrice       float64
	maxTicketsPerUser int
	minTotalPrize     float64
	basePrize         float64
	drawHour          int
	statsWindow       int

	// now is replaceable for deterministic scheduling in tests
	now func() time.Time
}

// NewDrawManager creates a manager with default game rules and a standard
// logger
func NewDrawManager(store Store) *DrawManager {
	return NewDrawManagerWithConfig(store, DefaultLotteryConfig(), &DefaultLogger{})
}

// NewDrawManagerWithLogger creates a manager with default game rules and the
// given logger
func NewDrawManagerWithLogger(store Store, logger Logger) *DrawManager {
	return NewDrawManagerWithConfig(store, DefaultLotteryConfig(), logger)
}

// NewDrawManagerWithConfig creates a manager with explicit game rules. A nil
// config or logger falls back to defaults.
func NewDrawManagerWithConfig(store Store, config *LotteryConfig, logger Logger) *DrawManager {
	if config == nil {
		config = DefaultLotteryConfig()
	}
	if logger == nil {
		logger = &DefaultLogger{}
	}

	return &DrawManager{
		store:             store,
		logger:            logger,
		monitor:           NewPerformanceMonitor(),
		ticketPrice:       config.TicketPrice,
		maxTicketsPerUser: config.MaxTicketsPerUser,
		minTotalPrize:     config.MinTotalPrize,
		basePrize:         config.BasePrize,
		drawHour:          config.DrawHour,
		statsWindow:       config.StatsWindow,
		now:               time.Now,
	}
}

// WithLockManager attaches a distributed lock manager used to serialize
// conduct attempts across processes
func (m *DrawManager) WithLockManager(lockManager *DistributedLockManager) *DrawManager {
	m.lockManager = lockManager
	return m
}

// WithTicketQuota attaches a Redis-backed per-user ticket quota that closes
// the read-then-write race on the per-draw ticket cap
func (m *DrawManager) WithTicketQuota(quota *TicketQuota) *DrawManager {
	m.quota = quota
	return m
}

// Monitor exposes the manager's performance monitor
func (m *DrawManager) Monitor() *PerformanceMonitor { return m.monitor }

// CreateDraw creates a new scheduled draw. The draw date must be strictly in
// the future and the prize pool at least the configured minimum.
func (m *DrawManager) CreateDraw(ctx context.Context, drawDate time.Time, totalPrize float64) (*Draw, error) {
	if !ValidateDrawParameters(drawDate, totalPrize, m.now(), m.minTotalPrize) {
		m.logger.Error("create draw rejected: date=%s prize=%.2f", drawDate.Format(time.RFC3339), totalPrize)
		return nil, ErrInvalidParameters
	}

	draw := &Draw{
		DrawDate:   drawDate,
		Status:     DrawStatusScheduled,
		TotalPrize: totalPrize,
	}

	if err := m.store.CreateDraw(ctx, draw); err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to create draw: %w", err)
	}

	m.logger.Info("draw created: id=%s date=%s prize=%.2f",
		draw.ID, draw.DrawDate.Format(time.RFC3339), draw.TotalPrize)
	return draw, nil
}

// PurchaseTicket sells one ticket on the given draw to the given user. The
// draw must be the current draw and still open, the numbers must be a valid
// set, and the user must be under the per-draw ticket cap.
func (m *DrawManager) PurchaseTicket(ctx context.Context, userID, drawID string, numbers []int) (*Ticket, error) {
	if !ValidateNumberSet(numbers) {
		m.monitor.RecordPurchase(false)
		return nil, ErrInvalidNumbers
	}

	current, err := m.store.GetCurrentDraw(ctx)
	if err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to load current draw: %w", err)
	}
	if current == nil || current.ID != drawID {
		m.monitor.RecordPurchase(false)
		return nil, ErrDrawUnavailable
	}
	if !current.Open() {
		m.monitor.RecordPurchase(false)
		return nil, ErrDrawClosed
	}

	if m.quota != nil {
		if err := m.quota.Reserve(ctx, userID, drawID); err != nil {
			m.monitor.RecordPurchase(false)
			return nil, err
		}
	} else {
		count, err := m.countUserTickets(ctx, userID, drawID)
		if err != nil {
			m.monitor.RecordStoreError()
			return nil, fmt.Errorf("failed to count user tickets: %w", err)
		}
		if count >= m.maxTicketsPerUser {
			m.monitor.RecordPurchase(false)
			return nil, ErrTicketLimitExceeded
		}
	}

	ticket := &Ticket{
		UserID:       userID,
		DrawID:       drawID,
		Numbers:      NumberSet(numbers).Sorted(),
		PurchaseDate: m.now(),
		Price:        m.ticketPrice,
	}

	if err := m.store.CreateTicket(ctx, ticket); err != nil {
		if m.quota != nil {
			if rerr := m.quota.Release(ctx, userID, drawID); rerr != nil {
				m.logger.Error("failed to release ticket quota: user=%s draw=%s err=%v", userID, drawID, rerr)
			}
		}
		m.monitor.RecordStoreError()
		m.monitor.RecordPurchase(false)
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	m.monitor.RecordPurchase(true)
	m.logger.Info("ticket purchased: id=%s user=%s draw=%s numbers=%v",
		ticket.ID, userID, drawID, ticket.Numbers)
	return ticket, nil
}

// countUserTickets counts the user's tickets on one draw
func (m *DrawManager) countUserTickets(ctx context.Context, userID, drawID string) (int, error) {
	tickets, err := m.store.GetTicketsForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, t := range tickets {
		if t.DrawID == drawID {
			count++
		}
	}
	return count, nil
}

// ConductDraw generates winning numbers for the draw, completes it, scores
// every ticket, and persists winner flags. Completion happens exactly once:
// a second conduct of the same draw fails with ErrDrawAlreadyCompleted and
// leaves the first outcome untouched.
func (m *DrawManager) ConductDraw(ctx context.Context, drawID string) (*DrawResult, error) {
	start := m.now()

	existing, err := m.store.GetDraw(ctx, drawID)
	if err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to load draw: %w", err)
	}
	if existing == nil {
		m.monitor.RecordConduct(false, m.now().Sub(start))
		return nil, ErrDrawNotFound
	}
	if existing.Status == DrawStatusCompleted {
		m.monitor.RecordConduct(false, m.now().Sub(start))
		return nil, ErrDrawAlreadyCompleted
	}

	if m.lockManager != nil {
		// AcquireLock prepends LockKeyPrefix itself
		lockKey := "conduct:" + drawID
		lockValue := generateLockValue()

		acquired, err := m.lockManager.AcquireLock(ctx, lockKey, lockValue, DefaultLockExpiration)
		m.monitor.RecordLockAcquisition(acquired)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrLockAcquisitionFailed
		}
		defer func() {
			released, rerr := m.lockManager.ReleaseLock(context.Background(), lockKey, lockValue)
			if rerr != nil || !released {
				m.logger.Error("failed to release conduct lock: draw=%s err=%v", drawID, rerr)
				return
			}
			m.monitor.RecordLockRelease()
		}()
	}

	winning, err := GenerateNumberSet()
	if err != nil {
		m.monitor.RecordConduct(false, m.now().Sub(start))
		return nil, fmt.Errorf("failed to generate winning numbers: %w", err)
	}

	draw, err := m.store.UpdateWinningNumbers(ctx, drawID, winning)
	if err != nil {
		m.monitor.RecordConduct(false, m.now().Sub(start))
		return nil, err
	}

	tickets, err := m.store.GetTicketsForDraw(ctx, drawID)
	if err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to load tickets for draw: %w", err)
	}

	winners := make([]WinningTicket, 0)
	for _, ticket := range tickets {
		validation := ScoreTicket(ticket.Numbers, draw.WinningNumbers, draw.TotalPrize)
		if !validation.IsWinner {
			continue
		}

		if err := m.store.SetTicketWinner(ctx, ticket.ID, true); err != nil {
			m.monitor.RecordStoreError()
			m.logger.Error("failed to flag winning ticket: id=%s err=%v", ticket.ID, err)
			continue
		}

		ticket.IsWinner = true
		winners = append(winners, WinningTicket{
			Ticket:     ticket,
			Validation: validation,
		})
	}

	m.monitor.RecordConduct(true, m.now().Sub(start))
	m.monitor.RecordWinners(len(winners))
	m.logger.Info("draw conducted: id=%s numbers=%v tickets=%d winners=%d",
		draw.ID, draw.WinningNumbers, len(tickets), len(winners))

	return &DrawResult{
		Draw:    draw,
		Winners: winners,
	}, nil
}

// ScheduleNextDraw creates the next scheduled draw for tomorrow at the
// configured draw hour, local time, with the base prize pool
func (m *DrawManager) ScheduleNextDraw(ctx context.Context) (*Draw, error) {
	now := m.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), m.drawHour, 0, 0, 0, now.Location())
	next = next.AddDate(0, 0, 1)

	draw, err := m.CreateDraw(ctx, next, m.basePrize)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule next draw: %w", err)
	}

	m.logger.Info("next draw scheduled: id=%s date=%s", draw.ID, draw.DrawDate.Format(time.RFC3339))
	return draw, nil
}

// GetDraw returns the draw with the given ID
func (m *DrawManager) GetDraw(ctx context.Context, drawID string) (*Draw, error) {
	draw, err := m.store.GetDraw(ctx, drawID)
	if err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to load draw: %w", err)
	}
	if draw == nil {
		return nil, ErrDrawNotFound
	}
	return draw, nil
}

// CurrentDraw returns the draw currently open for purchases, or nil when none
func (m *DrawManager) CurrentDraw(ctx context.Context) (*Draw, error) {
	draw, err := m.store.GetCurrentDraw(ctx)
	if err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to load current draw: %w", err)
	}
	return draw, nil
}

// RecentDraws returns up to limit past and pending draws, newest first
func (m *DrawManager) RecentDraws(ctx context.Context, limit int) ([]*Draw, error) {
	if limit <= 0 {
		limit = m.statsWindow
	}

	draws, err := m.store.GetRecentDraws(ctx, limit)
	if err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to load recent draws: %w", err)
	}
	return draws, nil
}

// DrawSummaries returns up to limit recent draws enriched with their ticket
// and winner tallies, newest first
func (m *DrawManager) DrawSummaries(ctx context.Context, limit int) ([]DrawSummary, error) {
	if limit <= 0 {
		limit = m.statsWindow
	}

	draws, err := m.store.GetRecentDraws(ctx, limit)
	if err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to load recent draws: %w", err)
	}

	summaries := make([]DrawSummary, 0, len(draws))
	for _, draw := range draws {
		tickets, err := m.store.GetTicketsForDraw(ctx, draw.ID)
		if err != nil {
			m.monitor.RecordStoreError()
			return nil, fmt.Errorf("failed to load tickets for draw: %w", err)
		}

		winning := 0
		for _, t := range tickets {
			if t.IsWinner {
				winning++
			}
		}

		summaries = append(summaries, DrawSummary{
			Draw:           draw,
			TicketCount:    len(tickets),
			WinningTickets: winning,
		})
	}
	return summaries, nil
}

// TicketsForDraw returns every ticket purchased for the draw
func (m *DrawManager) TicketsForDraw(ctx context.Context, drawID string) ([]*Ticket, error) {
	draw, err := m.store.GetDraw(ctx, drawID)
	if err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to load draw: %w", err)
	}
	if draw == nil {
		return nil, ErrDrawNotFound
	}

	tickets, err := m.store.GetTicketsForDraw(ctx, drawID)
	if err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to load tickets for draw: %w", err)
	}
	return tickets, nil
}

// TicketsForUser returns the user's tickets, most recent purchase first
func (m *DrawManager) TicketsForUser(ctx context.Context, userID string) ([]*Ticket, error) {
	tickets, err := m.store.GetTicketsForUser(ctx, userID)
	if err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to load user tickets: %w", err)
	}
	return tickets, nil
}

// QuickPick generates a random valid number set for a ticket
func (m *DrawManager) QuickPick() (NumberSet, error) {
	return GenerateNumberSet()
}

// Statistics aggregates totals over the most recent draws, bounded by the
// configured window. Prize totals count completed draws only.
func (m *DrawManager) Statistics(ctx context.Context) (*Statistics, error) {
	draws, err := m.store.GetRecentDraws(ctx, m.statsWindow)
	if err != nil {
		m.monitor.RecordStoreError()
		return nil, fmt.Errorf("failed to load recent draws: %w", err)
	}

	stats := &Statistics{
		Odds: Odds(),
	}
	for _, draw := range draws {
		stats.TotalDraws++
		stats.TotalTicketsSold += draw.TicketsSold
		if draw.Status == DrawStatusCompleted {
			stats.TotalPrizesAwarded += draw.TotalPrize
		}
	}

	return stats, nil
}
