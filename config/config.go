package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // renewal.timezone must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Job card automation specifics
	Simpro      SimproConfig
	Automation  AutomationConfig
	Idempotency IdempotencyConfig
	Renewal     RenewalConfig
	Worker      WorkerConfig
	Admin       AdminConfig

	// Webhooks
	Webhook WebhookConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port            int
	Mode            string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type SimproConfig struct {
	BaseURL         string
	CompanyID       int
	AccessToken     string
	ClientID        string
	ClientSecret    string
	TokenURL        string
	Timeout         time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
	RateLimitPerSec float64
}

// AutomationConfig is the set of named automation options.
type AutomationConfig struct {
	TriggerFieldID   string
	TriggerFieldName string
	YesValue         string
	AssigneeID       int
	ReviewerID       int // 0 falls back to AssigneeID
	MaintenanceTagID int
}

type IdempotencyConfig struct {
	Backend   string // memory or redis
	Capacity  int
	Target    int
	RedisURL  string
	KeyPrefix string
}

type RenewalConfig struct {
	Enabled  bool
	Schedule string // robfig/cron spec with seconds field
	Timezone string
}

type WorkerConfig struct {
	MaxConcurrency int
	JobTimeout     time.Duration
}

type AdminConfig struct {
	Token string // empty leaves /api/v1/admin unauthenticated
}

type WebhookConfig struct {
	Enabled         bool
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
// A .env file in the working directory, when present, is loaded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.HTTPServer.ShutdownTimeout = v.GetDuration("http_server.shutdown_timeout")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Simpro
	cfg.Simpro.BaseURL = v.GetString("simpro.base_url")
	cfg.Simpro.CompanyID = v.GetInt("simpro.company_id")
	cfg.Simpro.AccessToken = v.GetString("simpro.access_token")
	cfg.Simpro.ClientID = v.GetString("simpro.client_id")
	cfg.Simpro.ClientSecret = v.GetString("simpro.client_secret")
	cfg.Simpro.TokenURL = v.GetString("simpro.token_url")
	cfg.Simpro.Timeout = v.GetDuration("simpro.timeout")
	cfg.Simpro.RetryAttempts = v.GetInt("simpro.retry_attempts")
	cfg.Simpro.RetryDelay = v.GetDuration("simpro.retry_delay")
	cfg.Simpro.RateLimitPerSec = v.GetFloat64("simpro.rate_limit_per_sec")

	// Automation
	cfg.Automation.TriggerFieldID = v.GetString("automation.trigger_field_id")
	cfg.Automation.TriggerFieldName = v.GetString("automation.trigger_field_name")
	cfg.Automation.YesValue = v.GetString("automation.yes_value")
	cfg.Automation.AssigneeID = v.GetInt("automation.assignee_id")
	cfg.Automation.ReviewerID = v.GetInt("automation.reviewer_id")
	if cfg.Automation.ReviewerID == 0 {
		cfg.Automation.ReviewerID = cfg.Automation.AssigneeID
	}
	cfg.Automation.MaintenanceTagID = v.GetInt("automation.maintenance_tag_id")

	// Idempotency
	cfg.Idempotency.Backend = strings.ToLower(v.GetString("idempotency.backend"))
	cfg.Idempotency.Capacity = v.GetInt("idempotency.capacity")
	cfg.Idempotency.Target = v.GetInt("idempotency.target")
	cfg.Idempotency.RedisURL = v.GetString("idempotency.redis_url")
	cfg.Idempotency.KeyPrefix = v.GetString("idempotency.key_prefix")

	// Renewal runner
	cfg.Renewal.Enabled = v.GetBool("renewal.enabled")
	cfg.Renewal.Schedule = v.GetString("renewal.schedule")
	cfg.Renewal.Timezone = v.GetString("renewal.timezone")

	// Worker
	cfg.Worker.MaxConcurrency = v.GetInt("worker.max_concurrency")
	cfg.Worker.JobTimeout = v.GetDuration("worker.job_timeout")

	cfg.Admin.Token = v.GetString("admin.token")

	// Webhooks
	cfg.Webhook.Enabled = v.GetBool("webhook.enabled")
	cfg.Webhook.Secret = v.GetString("webhook.secret")
	cfg.Webhook.RateLimitPerMin = v.GetInt("webhook.rate_limit_per_min")

	// Split allowed IPs since viper might not parse array seamlessly from env
	var ips []string
	if rawIps := v.GetString("webhook.allowed_ips"); rawIps != "" {
		for _, ip := range strings.Split(rawIps, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				ips = append(ips, ip)
			}
		}
	} else {
		for _, ip := range v.GetStringSlice("webhook.allowed_ips") {
			if ip = strings.TrimSpace(ip); ip != "" {
				ips = append(ips, ip)
			}
		}
	}
	cfg.Webhook.AllowedIPs = ips

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("http_server.shutdown_timeout", "30s")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("simpro.base_url", "")
	v.SetDefault("simpro.company_id", 0)
	v.SetDefault("simpro.access_token", "")
	v.SetDefault("simpro.client_id", "")
	v.SetDefault("simpro.client_secret", "")
	v.SetDefault("simpro.token_url", "")
	v.SetDefault("simpro.timeout", "30s")
	v.SetDefault("simpro.retry_attempts", 3)
	v.SetDefault("simpro.retry_delay", "1s")
	v.SetDefault("simpro.rate_limit_per_sec", 5)

	v.SetDefault("automation.trigger_field_id", "73")
	v.SetDefault("automation.trigger_field_name", "Maintenance Contract")
	v.SetDefault("automation.yes_value", "YES")
	v.SetDefault("automation.assignee_id", 0)
	v.SetDefault("automation.reviewer_id", 0)
	v.SetDefault("automation.maintenance_tag_id", 256)

	v.SetDefault("idempotency.backend", "memory")
	v.SetDefault("idempotency.capacity", 5000)
	v.SetDefault("idempotency.target", 4000)
	v.SetDefault("idempotency.redis_url", "")
	v.SetDefault("idempotency.key_prefix", "jobcard:idem")

	v.SetDefault("renewal.enabled", true)
	v.SetDefault("renewal.schedule", "0 0 6 * * *")
	v.SetDefault("renewal.timezone", "UTC")

	v.SetDefault("worker.max_concurrency", 16)
	v.SetDefault("worker.job_timeout", "2m")

	v.SetDefault("admin.token", "")

	v.SetDefault("webhook.enabled", true)
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.allowed_ips", "")
	v.SetDefault("webhook.rate_limit_per_min", 600)
}

func (c *Config) validate() error {
	if c.Automation.MaintenanceTagID <= 0 {
		return fmt.Errorf("automation.maintenance_tag_id must be positive, got %d", c.Automation.MaintenanceTagID)
	}
	if c.Idempotency.Capacity <= 0 {
		return fmt.Errorf("idempotency.capacity must be positive, got %d", c.Idempotency.Capacity)
	}
	if c.Idempotency.Target > c.Idempotency.Capacity {
		return fmt.Errorf("idempotency.target (%d) exceeds capacity (%d)", c.Idempotency.Target, c.Idempotency.Capacity)
	}
	switch c.Idempotency.Backend {
	case "memory":
	case "redis":
		if c.Idempotency.RedisURL == "" {
			return fmt.Errorf("idempotency.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown idempotency.backend %q", c.Idempotency.Backend)
	}
	if _, err := time.LoadLocation(c.Renewal.Timezone); err != nil {
		return fmt.Errorf("invalid renewal.timezone %q: %w", c.Renewal.Timezone, err)
	}
	return nil
}
