package lotto

import "time"

const (
	// MinNumber is the lowest selectable lottery number
	MinNumber = 1

	// MaxNumber is the highest selectable lottery number
	MaxNumber = 50

	// NumbersPerTicket is the count of distinct numbers on a ticket
	NumbersPerTicket = 6
)

const (
	// DefaultMinTotalPrize is the minimum prize pool accepted for a new draw
	DefaultMinTotalPrize = 1000.0

	// DefaultBasePrize is the prize pool used when scheduling the next draw
	DefaultBasePrize = 100000.0

	// DefaultTicketPrice is the fixed price of a single ticket
	DefaultTicketPrice = 5.00

	// DefaultMaxTicketsPerUser is the per-user ticket cap for one draw
	DefaultMaxTicketsPerUser = 10

	// DefaultDrawHour is the local hour (24h) at which scheduled draws run
	DefaultDrawHour = 20

	// DefaultStatsWindow is how many recent draws statistics aggregate over
	DefaultStatsWindow = 100
)

const (
	// DefaultLockTimeout is the default timeout for acquiring distributed locks
	DefaultLockTimeout = 30 * time.Second

	// DefaultRetryAttempts is the default number of retry attempts
	DefaultRetryAttempts = 3

	// DefaultRetryInterval is the default interval between retry attempts
	DefaultRetryInterval = 100 * time.Millisecond

	// DefaultLockExpiration is the default expiration time for locks
	DefaultLockExpiration = 30 * time.Second

	// LockKeyPrefix is the prefix for Redis lock keys
	LockKeyPrefix = "lotto:lock:"

	// QuotaKeyPrefix is the prefix for Redis per-user ticket quota keys
	QuotaKeyPrefix = "lotto:quota:"

	// MaxRetryAttempts is the maximum number of retry attempts allowed
	MaxRetryAttempts = 10

	// MinLockTimeout is the minimum lock timeout allowed
	MinLockTimeout = 1 * time.Second

	// MaxLockTimeout is the maximum lock timeout allowed
	MaxLockTimeout = 5 * time.Minute

	// QuotaTTL is how long a per-draw quota counter lives in Redis
	QuotaTTL = 48 * time.Hour
)

const (
	// DefaultCircuitBreakerName is the default name for the store circuit breaker
	DefaultCircuitBreakerName = "lotto-store"

	// DefaultCircuitBreakerMaxRequests is the default max requests in half-open state
	DefaultCircuitBreakerMaxRequests = 3

	// DefaultCircuitBreakerInterval is the default counting interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default open-state timeout
	DefaultCircuitBreakerTimeout = 30 * time.Second

	// DefaultCircuitBreakerFailureRatio is the default failure ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default min requests before tripping
	DefaultCircuitBreakerMinRequests = 3
)

const (
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPassword     = ""
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 50
	DefaultRedisMinIdleConns = 10
	DefaultRedisMaxRetries   = 3
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisPoolTimeout  = 4 * time.Second
)
