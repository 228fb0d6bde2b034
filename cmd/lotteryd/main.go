package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lottosix/lotto"
	"github.com/lottosix/lotto/httpapi"
)

func main() {
	logger := &lotto.DefaultLogger{}

	cm := lotto.NewConfigManager()
	config, err := cm.LoadConfig()
	if err != nil {
		logger.Error("failed to load config: %v", err)
		os.Exit(1)
	}

	sqlite, err := lotto.NewSQLiteStore(config.Server.DBPath)
	if err != nil {
		logger.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer sqlite.Close()

	var store lotto.Store = sqlite
	if config.CircuitBreaker.Enabled {
		store = lotto.NewCircuitBreakerStore(store, config.CircuitBreaker, logger)
	}

	manager := lotto.NewDrawManagerWithConfig(store, config.Lottery, logger)

	// Redis is optional; without it the manager falls back to store-level
	// guarantees for locking and ticket quotas
	if config.Redis.Addr != "" {
		redisClient := lotto.NewRedisClientFromConfig(config.Redis)

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Error("redis unavailable, continuing without it: %v", err)
		} else {
			manager.
				WithLockManager(lotto.NewLockManagerWithRetry(
					redisClient,
					config.Engine.LockTimeout,
					config.Engine.RetryAttempts,
					config.Engine.RetryInterval,
				)).
				WithTicketQuota(lotto.NewTicketQuota(redisClient, config.Lottery.MaxTicketsPerUser))
			logger.Info("redis connected: %s", config.Redis.Addr)
		}
		cancel()
	}

	// Make sure there is a draw to sell tickets on
	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	current, err := manager.CurrentDraw(startCtx)
	if err != nil {
		logger.Error("failed to check current draw: %v", err)
	} else if current == nil {
		if _, err := manager.ScheduleNextDraw(startCtx); err != nil {
			logger.Error("failed to schedule initial draw: %v", err)
		}
	}
	cancel()

	scheduler := lotto.NewDrawScheduler(manager, config.Lottery.DrawHour, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler: %v", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	auth := httpapi.NewAuthenticator(sqlite, config.Server.JWTSecret, config.Server.TokenTTL, logger)
	server := httpapi.NewServer(manager, auth, sqlite, logger)

	httpServer := &http.Server{
		Addr:         config.Server.Addr,
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening on %s", config.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed: %v", err)
	}
}
