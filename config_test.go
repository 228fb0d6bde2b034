package lotto

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cm := NewDefaultConfigManager()
	config := cm.GetConfig()
	require.NotNil(t, config)

	assert.Equal(t, DefaultTicketPrice, config.Lottery.TicketPrice)
	assert.Equal(t, DefaultMaxTicketsPerUser, config.Lottery.MaxTicketsPerUser)
	assert.Equal(t, DefaultMinTotalPrize, config.Lottery.MinTotalPrize)
	assert.Equal(t, DefaultBasePrize, config.Lottery.BasePrize)
	assert.Equal(t, DefaultDrawHour, config.Lottery.DrawHour)
	assert.Equal(t, DefaultStatsWindow, config.Lottery.StatsWindow)
	assert.Equal(t, DefaultLockTimeout, config.Engine.LockTimeout)
	assert.True(t, config.CircuitBreaker.Enabled)

	assert.NoError(t, config.Validate())
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Lottery:        DefaultLotteryConfig(),
			Engine:         DefaultEngineConfig(),
			Server:         DefaultServerConfig(),
			Redis:          DefaultRedisConfig(),
			CircuitBreaker: DefaultCircuitBreakerConfig(),
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero ticket price", func(c *Config) { c.Lottery.TicketPrice = 0 }},
		{"negative ticket cap", func(c *Config) { c.Lottery.MaxTicketsPerUser = -1 }},
		{"zero minimum prize", func(c *Config) { c.Lottery.MinTotalPrize = 0 }},
		{"base prize below minimum", func(c *Config) { c.Lottery.BasePrize = c.Lottery.MinTotalPrize - 1 }},
		{"draw hour out of range", func(c *Config) { c.Lottery.DrawHour = 24 }},
		{"zero stats window", func(c *Config) { c.Lottery.StatsWindow = 0 }},
		{"lock timeout too small", func(c *Config) { c.Engine.LockTimeout = time.Millisecond }},
		{"lock timeout too large", func(c *Config) { c.Engine.LockTimeout = time.Hour }},
		{"too many retries", func(c *Config) { c.Engine.RetryAttempts = MaxRetryAttempts + 1 }},
		{"empty server address", func(c *Config) { c.Server.Addr = "" }},
		{"empty jwt secret", func(c *Config) { c.Server.JWTSecret = "" }},
		{"zero token ttl", func(c *Config) { c.Server.TokenTTL = 0 }},
		{"redis pool size zero with addr set", func(c *Config) { c.Redis.PoolSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			require.NoError(t, config.Validate())

			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
lottery:
  ticket_price: 2.50
  max_tickets_per_user: 5
  draw_hour: 21
server:
  addr: ":9090"
  jwt_secret: "test-secret"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cm := NewConfigManager()
	cm.viper.AddConfigPath(dir)

	config, err := cm.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2.50, config.Lottery.TicketPrice)
	assert.Equal(t, 5, config.Lottery.MaxTicketsPerUser)
	assert.Equal(t, 21, config.Lottery.DrawHour)
	assert.Equal(t, ":9090", config.Server.Addr)
	assert.Equal(t, "test-secret", config.Server.JWTSecret)

	// unspecified keys keep their defaults
	assert.Equal(t, DefaultMinTotalPrize, config.Lottery.MinTotalPrize)
	assert.Equal(t, DefaultStatsWindow, config.Lottery.StatsWindow)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cm := NewConfigManager()
	cm.viper.AddConfigPath(t.TempDir())
	cm.viper.SetConfigName("does-not-exist")

	config, err := cm.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultTicketPrice, config.Lottery.TicketPrice)
}
