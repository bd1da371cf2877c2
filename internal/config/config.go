package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the dashboard service.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// AppConfig holds application configuration.
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// UpstreamConfig holds the upstream support/refund service endpoint.
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig holds Redis cache configuration.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// DashboardConfig holds dashboard workflow tuning.
type DashboardConfig struct {
	FlowTTL         time.Duration `mapstructure:"flow_ttl"`
	HistoryCacheTTL time.Duration `mapstructure:"history_cache_ttl"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Automatically load environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("") // No prefix, read exact variable names

	// Bind specific environment variables
	_ = v.BindEnv("app.name", "APP_NAME")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.port", "APP_PORT")

	_ = v.BindEnv("upstream.base_url", "SUPPORT_API_URL")
	_ = v.BindEnv("upstream.timeout", "SUPPORT_API_TIMEOUT")

	// Redis
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	_ = v.BindEnv("nats.url", "NATS_URL")

	_ = v.BindEnv("jwt.secret", "JWT_SECRET")

	// Dashboard
	_ = v.BindEnv("dashboard.flow_ttl", "DASHBOARD_FLOW_TTL")
	_ = v.BindEnv("dashboard.history_cache_ttl", "DASHBOARD_HISTORY_CACHE_TTL")

	// Set defaults
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "service-dashboard")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8011")

	// Upstream
	v.SetDefault("upstream.base_url", "http://localhost:8010")
	v.SetDefault("upstream.timeout", "15s")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// NATS
	v.SetDefault("nats.url", "")

	// Dashboard
	v.SetDefault("dashboard.flow_ttl", "30m")
	v.SetDefault("dashboard.history_cache_ttl", "5m")
}
