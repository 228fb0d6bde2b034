package lotto

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DrawScheduler runs the daily draw on a cron schedule: at the configured
// hour it conducts the current draw once it is due, then schedules the next
// one for tomorrow.
type DrawScheduler struct {
	manager *DrawManager
	logger  Logger
	cron    *cron.Cron
	hour    int
}

// NewDrawScheduler creates a scheduler for the manager's draws
func NewDrawScheduler(manager *DrawManager, hour int, logger Logger) *DrawScheduler {
	if logger == nil {
		logger = &DefaultLogger{}
	}
	if hour < 0 || hour > 23 {
		hour = DefaultDrawHour
	}

	return &DrawScheduler{
		manager: manager,
		logger:  logger,
		cron:    cron.New(),
		hour:    hour,
	}
}

// Start registers the daily job and starts the cron loop
func (s *DrawScheduler) Start() error {
	spec := fmt.Sprintf("0 %d * * *", s.hour)
	if _, err := s.cron.AddFunc(spec, s.runDailyDraw); err != nil {
		return fmt.Errorf("failed to register draw job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("draw scheduler started: daily at %02d:00", s.hour)
	return nil
}

// Stop stops the cron loop and waits for a running job to finish
func (s *DrawScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("draw scheduler stopped")
}

// runDailyDraw conducts the current draw if its date has passed and then
// schedules tomorrow's draw
func (s *DrawScheduler) runDailyDraw() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	current, err := s.manager.CurrentDraw(ctx)
	if err != nil {
		s.logger.Error("scheduler: failed to load current draw: %v", err)
		return
	}

	if current != nil && !current.DrawDate.After(s.manager.now()) {
		result, err := s.manager.ConductDraw(ctx, current.ID)
		switch {
		case errors.Is(err, ErrDrawAlreadyCompleted):
			// another process got there first, nothing to do
		case err != nil:
			s.logger.Error("scheduler: failed to conduct draw %s: %v", current.ID, err)
			return
		default:
			s.logger.Info("scheduler: conducted draw %s: winners=%d", current.ID, len(result.Winners))
		}
	}

	if _, err := s.manager.ScheduleNextDraw(ctx); err != nil {
		s.logger.Error("scheduler: failed to schedule next draw: %v", err)
	}
}
