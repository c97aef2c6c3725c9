package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Business  BusinessConfig  `mapstructure:"business"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	OverdueCron string `mapstructure:"SCHEDULER_OVERDUE_CRON"`
	Timezone    string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type BusinessConfig struct {
	MinPrincipal     string `mapstructure:"MIN_PRINCIPAL"`
	ScheduleCacheTTL string `mapstructure:"SCHEDULE_CACHE_TTL"`

	TierLimitBronze   string `mapstructure:"TIER_LIMIT_BRONZE"`
	TierLimitSilver   string `mapstructure:"TIER_LIMIT_SILVER"`
	TierLimitGold     string `mapstructure:"TIER_LIMIT_GOLD"`
	TierLimitPlatinum string `mapstructure:"TIER_LIMIT_PLATINUM"`
	TierLimitDiamond  string `mapstructure:"TIER_LIMIT_DIAMOND"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SCHEDULER_OVERDUE_CRON", "0 0 0 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Africa/Lagos")
	viper.SetDefault("MIN_PRINCIPAL", "1000.00")
	viper.SetDefault("SCHEDULE_CACHE_TTL", "24h")
	viper.SetDefault("TIER_LIMIT_BRONZE", "50000")
	viper.SetDefault("TIER_LIMIT_SILVER", "100000")
	viper.SetDefault("TIER_LIMIT_GOLD", "500000")
	viper.SetDefault("TIER_LIMIT_PLATINUM", "1000000")
	viper.SetDefault("TIER_LIMIT_DIAMOND", "5000000")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if _, err := decimal.NewFromString(c.Business.MinPrincipal); err != nil {
		return fmt.Errorf("MIN_PRINCIPAL must be a valid decimal: %w", err)
	}

	for name, limit := range map[string]string{
		"TIER_LIMIT_BRONZE":   c.Business.TierLimitBronze,
		"TIER_LIMIT_SILVER":   c.Business.TierLimitSilver,
		"TIER_LIMIT_GOLD":     c.Business.TierLimitGold,
		"TIER_LIMIT_PLATINUM": c.Business.TierLimitPlatinum,
		"TIER_LIMIT_DIAMOND":  c.Business.TierLimitDiamond,
	} {
		if _, err := decimal.NewFromString(limit); err != nil {
			return fmt.Errorf("%s must be a valid decimal: %w", name, err)
		}
	}

	if _, err := time.ParseDuration(c.Business.ScheduleCacheTTL); err != nil {
		return fmt.Errorf("SCHEDULE_CACHE_TTL must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetMinPrincipal returns the minimum loan principal as decimal
func (c *Config) GetMinPrincipal() decimal.Decimal {
	min, _ := decimal.NewFromString(c.Business.MinPrincipal)
	return min
}

// GetTierLimits returns the borrowing ceiling per client level
func (c *Config) GetTierLimits() map[string]decimal.Decimal {
	limits := make(map[string]decimal.Decimal, 5)
	for level, raw := range map[string]string{
		"bronze":   c.Business.TierLimitBronze,
		"silver":   c.Business.TierLimitSilver,
		"gold":     c.Business.TierLimitGold,
		"platinum": c.Business.TierLimitPlatinum,
		"diamond":  c.Business.TierLimitDiamond,
	} {
		limit, _ := decimal.NewFromString(raw)
		limits[level] = limit
	}
	return limits
}

// GetScheduleCacheTTL returns how long cached repayment schedules live
func (c *Config) GetScheduleCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Business.ScheduleCacheTTL)
	return ttl
}
