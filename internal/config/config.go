package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Alerts    AlertsConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings.
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the KPI database connection. Empty URL means the
// deployment runs without a database: the pure engines still serve, only
// campaign lookups and the shared alert store are disabled.
type DatabaseConfig struct {
	URL string
}

// AlertsConfig holds alert routing settings.
type AlertsConfig struct {
	Enabled           bool
	MinimumSeverity   string
	MaxPerCampaignDay int
	DedupWindow       time.Duration
	WebhookURL        string
	WebhookTimeout    time.Duration
}

// ProfilingConfig holds the pprof ops server settings.
type ProfilingConfig struct {
	Enabled bool
	Port    string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Alerts: AlertsConfig{
			Enabled:           getEnvBool("ALERTS_ENABLED", true),
			MinimumSeverity:   getEnv("ALERTS_MIN_SEVERITY", "warning"),
			MaxPerCampaignDay: getEnvInt("ALERTS_MAX_PER_CAMPAIGN_DAY", 3),
			DedupWindow:       getEnvDuration("ALERTS_DEDUP_WINDOW", 24*time.Hour),
			WebhookURL:        os.Getenv("ALERTS_WEBHOOK_URL"),
			WebhookTimeout:    getEnvDuration("ALERTS_WEBHOOK_TIMEOUT", 10*time.Second),
		},
		Profiling: ProfilingConfig{
			Enabled: getEnvBool("PROFILING_ENABLED", false),
			Port:    getEnv("PROFILING_PORT", "6060"),
		},
	}

	if cfg.Alerts.MaxPerCampaignDay <= 0 {
		return nil, fmt.Errorf("ALERTS_MAX_PER_CAMPAIGN_DAY must be positive, got %d", cfg.Alerts.MaxPerCampaignDay)
	}
	switch cfg.Alerts.MinimumSeverity {
	case "critical", "warning", "info":
	default:
		return nil, fmt.Errorf("ALERTS_MIN_SEVERITY must be critical, warning or info, got %q", cfg.Alerts.MinimumSeverity)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
