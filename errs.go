package lotto

import "errors"

// Error codes and messages for the lotto system
var (
	// ErrInvalidParameters indicates draw parameter validation failure
	ErrInvalidParameters = errors.New("LOTTO_001: invalid draw parameters")

	// ErrInvalidNumbers indicates the submitted number set is not a valid pick
	ErrInvalidNumbers = errors.New("LOTTO_002: invalid lottery numbers")

	// ErrDrawUnavailable indicates no current draw matches the requested draw
	ErrDrawUnavailable = errors.New("LOTTO_003: draw not available for ticket purchases")

	// ErrDrawClosed indicates the draw is no longer accepting tickets
	ErrDrawClosed = errors.New("LOTTO_004: draw is no longer accepting tickets")

	// ErrTicketLimitExceeded indicates the user has reached the per-draw ticket cap
	ErrTicketLimitExceeded = errors.New("LOTTO_005: maximum tickets per draw exceeded")

	// ErrDrawNotFound indicates the draw to conduct does not exist
	ErrDrawNotFound = errors.New("LOTTO_006: draw not found")

	// ErrDrawAlreadyCompleted indicates the draw has already been conducted
	ErrDrawAlreadyCompleted = errors.New("LOTTO_007: draw already completed")

	// ErrLockAcquisitionFailed indicates failed to acquire distributed lock
	ErrLockAcquisitionFailed = errors.New("LOTTO_008: failed to acquire distributed lock")

	// ErrRedisConnectionFailed indicates Redis connection failure
	ErrRedisConnectionFailed = errors.New("LOTTO_009: Redis connection failed")

	// ErrInvalidRange indicates invalid random range parameters
	ErrInvalidRange = errors.New("invalid range: min must be less than or equal to max")

	// ErrLockTimeout indicates lock acquisition timeout
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrInvalidLockTimeout indicates invalid lock timeout configuration
	ErrInvalidLockTimeout = errors.New("invalid lock timeout: must be between 1s and 5m")

	// ErrInvalidRetryAttempts indicates invalid retry attempts configuration
	ErrInvalidRetryAttempts = errors.New("invalid retry attempts: must be between 0 and 10")

	// ErrInvalidRetryInterval indicates invalid retry interval configuration
	ErrInvalidRetryInterval = errors.New("invalid retry interval: cannot be negative")
)
