package lotto

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// Config is the full service configuration
type Config struct {
	// Lottery rules and schedule
	Lottery *LotteryConfig `mapstructure:"lottery"`

	// Engine lock/retry settings
	Engine *EngineConfig `mapstructure:"engine"`

	// HTTP server settings
	Server *ServerConfig `mapstructure:"server"`

	// Redis settings (optional; empty addr disables Redis features)
	Redis *RedisConfig `mapstructure:"redis"`

	// Store circuit breaker settings
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// Validate checks the configuration for out-of-range values
func (c *Config) Validate() error {
	if c.Lottery.TicketPrice <= 0 {
		return fmt.Errorf("ticket price must be positive")
	}
	if c.Lottery.MaxTicketsPerUser <= 0 {
		return fmt.Errorf("max tickets per user must be positive")
	}
	if c.Lottery.MinTotalPrize <= 0 {
		return fmt.Errorf("minimum total prize must be positive")
	}
	if c.Lottery.BasePrize < c.Lottery.MinTotalPrize {
		return fmt.Errorf("base prize must be at least the minimum total prize")
	}
	if c.Lottery.DrawHour < 0 || c.Lottery.DrawHour > 23 {
		return fmt.Errorf("draw hour must be between 0 and 23")
	}
	if c.Lottery.StatsWindow <= 0 {
		return fmt.Errorf("stats window must be positive")
	}

	if c.Engine.LockTimeout < MinLockTimeout || c.Engine.LockTimeout > MaxLockTimeout {
		return ErrInvalidLockTimeout
	}
	if c.Engine.RetryAttempts < 0 || c.Engine.RetryAttempts > MaxRetryAttempts {
		return ErrInvalidRetryAttempts
	}
	if c.Engine.RetryInterval < 0 {
		return ErrInvalidRetryInterval
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Server.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if c.Server.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}

	if c.Redis.Addr != "" && c.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool size must be positive")
	}

	return nil
}

// LotteryConfig holds game rules and the draw schedule
type LotteryConfig struct {
	TicketPrice       float64 `mapstructure:"ticket_price"`
	MaxTicketsPerUser int     `mapstructure:"max_tickets_per_user"`
	MinTotalPrize     float64 `mapstructure:"min_total_prize"`
	BasePrize         float64 `mapstructure:"base_prize"`
	DrawHour          int     `mapstructure:"draw_hour"`
	StatsWindow       int     `mapstructure:"stats_window"`
}

// DefaultLotteryConfig returns the default game rules
func DefaultLotteryConfig() *LotteryConfig {
	return &LotteryConfig{
		TicketPrice:       DefaultTicketPrice,
		MaxTicketsPerUser: DefaultMaxTicketsPerUser,
		MinTotalPrize:     DefaultMinTotalPrize,
		BasePrize:         DefaultBasePrize,
		DrawHour:          DefaultDrawHour,
		StatsWindow:       DefaultStatsWindow,
	}
}

// EngineConfig holds lock and retry settings
type EngineConfig struct {
	LockTimeout   time.Duration `mapstructure:"lock_timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// DefaultEngineConfig returns the default lock settings
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		LockTimeout:   DefaultLockTimeout,
		RetryAttempts: DefaultRetryAttempts,
		RetryInterval: DefaultRetryInterval,
	}
}

// ServerConfig holds HTTP and auth settings
type ServerConfig struct {
	Addr      string        `mapstructure:"addr"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	DBPath    string        `mapstructure:"db_path"`
}

// DefaultServerConfig returns the default server settings
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:      ":8080",
		JWTSecret: "change-me-in-production",
		TokenTTL:  7 * 24 * time.Hour,
		DBPath:    "lotto.db",
	}
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
	MaxRetries   int `mapstructure:"max_retries"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// DefaultRedisConfig returns the default Redis settings
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         DefaultRedisAddr,
		Password:     DefaultRedisPassword,
		DB:           DefaultRedisDB,
		PoolSize:     DefaultRedisPoolSize,
		MinIdleConns: DefaultRedisMinIdleConns,
		MaxRetries:   DefaultRedisMaxRetries,
		DialTimeout:  DefaultRedisDialTimeout,
		ReadTimeout:  DefaultRedisReadTimeout,
		WriteTimeout: DefaultRedisWriteTimeout,
		PoolTimeout:  DefaultRedisPoolTimeout,
	}
}

// CircuitBreakerConfig holds circuit breaker settings
type CircuitBreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Name          string        `mapstructure:"name"`
	MaxRequests   uint32        `mapstructure:"max_requests"`
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailureRatio  float64       `mapstructure:"failure_ratio"`
	MinRequests   uint32        `mapstructure:"min_requests"`
	OnStateChange bool          `mapstructure:"on_state_change"`
}

// DefaultCircuitBreakerConfig returns the default circuit breaker settings
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:       true,
		Name:          DefaultCircuitBreakerName,
		MaxRequests:   DefaultCircuitBreakerMaxRequests,
		Interval:      DefaultCircuitBreakerInterval,
		Timeout:       DefaultCircuitBreakerTimeout,
		FailureRatio:  DefaultCircuitBreakerFailureRatio,
		MinRequests:   DefaultCircuitBreakerMinRequests,
		OnStateChange: true,
	}
}

// ConfigManager loads and watches the service configuration
type ConfigManager struct {
	viper  *viper.Viper
	config *Config
}

// NewConfigManager creates a configuration manager reading config.yaml from
// the usual locations, with LOTTO_-prefixed environment overrides
func NewConfigManager() *ConfigManager {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lotto")
	v.AddConfigPath("$HOME/.lotto")

	v.SetEnvPrefix("LOTTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &ConfigManager{
		viper: v,
	}
}

// LoadConfig reads, unmarshals, and validates the configuration. A missing
// config file falls back to defaults.
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	cm.setDefaults()

	if err := cm.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := cm.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cm.config = config
	return config, nil
}

// setDefaults registers default values for every key
func (cm *ConfigManager) setDefaults() {
	cm.viper.SetDefault("lottery.ticket_price", DefaultTicketPrice)
	cm.viper.SetDefault("lottery.max_tickets_per_user", DefaultMaxTicketsPerUser)
	cm.viper.SetDefault("lottery.min_total_prize", DefaultMinTotalPrize)
	cm.viper.SetDefault("lottery.base_prize", DefaultBasePrize)
	cm.viper.SetDefault("lottery.draw_hour", DefaultDrawHour)
	cm.viper.SetDefault("lottery.stats_window", DefaultStatsWindow)

	cm.viper.SetDefault("engine.lock_timeout", "30s")
	cm.viper.SetDefault("engine.retry_attempts", 3)
	cm.viper.SetDefault("engine.retry_interval", "100ms")

	cm.viper.SetDefault("server.addr", ":8080")
	cm.viper.SetDefault("server.jwt_secret", "change-me-in-production")
	cm.viper.SetDefault("server.token_ttl", "168h")
	cm.viper.SetDefault("server.db_path", "lotto.db")

	cm.viper.SetDefault("redis.addr", "")
	cm.viper.SetDefault("redis.password", "")
	cm.viper.SetDefault("redis.db", 0)
	cm.viper.SetDefault("redis.pool_size", DefaultRedisPoolSize)
	cm.viper.SetDefault("redis.min_idle_conns", DefaultRedisMinIdleConns)
	cm.viper.SetDefault("redis.max_retries", DefaultRedisMaxRetries)
	cm.viper.SetDefault("redis.dial_timeout", "5s")
	cm.viper.SetDefault("redis.read_timeout", "3s")
	cm.viper.SetDefault("redis.write_timeout", "3s")
	cm.viper.SetDefault("redis.pool_timeout", "4s")

	cm.viper.SetDefault("circuit_breaker.enabled", true)
	cm.viper.SetDefault("circuit_breaker.name", DefaultCircuitBreakerName)
	cm.viper.SetDefault("circuit_breaker.max_requests", DefaultCircuitBreakerMaxRequests)
	cm.viper.SetDefault("circuit_breaker.interval", "60s")
	cm.viper.SetDefault("circuit_breaker.timeout", "30s")
	cm.viper.SetDefault("circuit_breaker.failure_ratio", DefaultCircuitBreakerFailureRatio)
	cm.viper.SetDefault("circuit_breaker.min_requests", DefaultCircuitBreakerMinRequests)
	cm.viper.SetDefault("circuit_breaker.on_state_change", true)
}

// WatchConfig reloads the configuration on file changes. Invalid updates are
// dropped and the previous configuration stays in effect.
func (cm *ConfigManager) WatchConfig(callback func(*Config)) error {
	cm.viper.WatchConfig()
	cm.viper.OnConfigChange(func(e fsnotify.Event) {
		config := &Config{}
		if err := cm.viper.Unmarshal(config); err != nil {
			return
		}

		if err := config.Validate(); err != nil {
			return
		}

		cm.config = config
		if callback != nil {
			callback(config)
		}
	})

	return nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config { return cm.config }

// ReloadConfig re-reads the configuration from disk
func (cm *ConfigManager) ReloadConfig() (*Config, error) { return cm.LoadConfig() }

// NewDefaultConfigManager creates a manager preloaded with defaults, without
// touching the filesystem
func NewDefaultConfigManager() *ConfigManager {
	cm := NewConfigManager()
	cm.setDefaults()

	cm.config = &Config{
		Lottery:        DefaultLotteryConfig(),
		Engine:         DefaultEngineConfig(),
		Server:         DefaultServerConfig(),
		Redis:          DefaultRedisConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
	}
	return cm
}

// NewRedisClientFromConfig creates a Redis client from config
func NewRedisClientFromConfig(config *RedisConfig) *redis.Client {
	if config == nil {
		config = DefaultRedisConfig()
	}

	return redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolTimeout:  config.PoolTimeout,
	})
}
