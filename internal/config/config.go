package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`

	// http
	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// plan actions
	RateLimitAllowedPerMin int      `toml:"rate_limit_allowed_per_min"`
	PlanLockTTL            Duration `toml:"plan_lock_ttl"`
	WriteRetries           int      `toml:"write_retries"`
	RecomputeConcurrency   int      `toml:"recompute_concurrency"`
	SnapshotCacheSizeMB    int      `toml:"snapshot_cache_size_mb"`
	SnapshotCacheTTL       Duration `toml:"snapshot_cache_ttl"`
	AlertsChannel          string   `toml:"alerts_channel"`
}

// Duration decodes TOML strings like "5s" or "2m30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration [%s]: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

const (
	defaultRateLimitAllowedPerMin = 120
	defaultPlanLockTTL            = 5 * time.Second
	defaultWriteRetries           = 3
	defaultRecomputeConcurrency   = 8
	defaultSnapshotCacheSizeMB    = 16
	defaultSnapshotCacheTTL       = 5 * time.Minute
	defaultAlertsChannel          = "rehab-alerts"
)

// applyDefaults fills in zero values for the settings that can be omitted from the file.
func (c *Config) applyDefaults() {
	if c.RateLimitAllowedPerMin <= 0 {
		c.RateLimitAllowedPerMin = defaultRateLimitAllowedPerMin
	}
	if c.PlanLockTTL.Duration <= 0 {
		c.PlanLockTTL.Duration = defaultPlanLockTTL
	}
	if c.WriteRetries <= 0 {
		c.WriteRetries = defaultWriteRetries
	}
	if c.RecomputeConcurrency <= 0 {
		c.RecomputeConcurrency = defaultRecomputeConcurrency
	}
	if c.SnapshotCacheSizeMB <= 0 {
		c.SnapshotCacheSizeMB = defaultSnapshotCacheSizeMB
	}
	if c.SnapshotCacheTTL.Duration <= 0 {
		c.SnapshotCacheTTL.Duration = defaultSnapshotCacheTTL
	}
	if c.AlertsChannel == "" {
		c.AlertsChannel = defaultAlertsChannel
	}
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config for env.
func Load(env, path string) (*Config, error) {
	var cfgToml Toml
	if _, err := toml.DecodeFile(path, &cfgToml); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := cfgToml.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing in [%s]", env, path)
	}

	cfg.applyDefaults()

	return cfg, nil
}
