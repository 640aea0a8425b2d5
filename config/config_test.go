package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTPServer.Port != 8080 || cfg.HTTPServer.Mode != "debug" {
		t.Errorf("unexpected http server config: %+v", cfg.HTTPServer)
	}
	if cfg.Simpro.Timeout != 30*time.Second || cfg.Simpro.RetryAttempts != 3 || cfg.Simpro.RetryDelay != time.Second {
		t.Errorf("unexpected simpro config: %+v", cfg.Simpro)
	}
	if cfg.Simpro.RateLimitPerSec != 5 {
		t.Errorf("expected 5 req/s, got %v", cfg.Simpro.RateLimitPerSec)
	}
	want := AutomationConfig{
		TriggerFieldID:   "73",
		TriggerFieldName: "Maintenance Contract",
		YesValue:         "YES",
		MaintenanceTagID: 256,
	}
	if cfg.Automation != want {
		t.Errorf("expected %+v, got %+v", want, cfg.Automation)
	}
	if cfg.Idempotency.Backend != "memory" || cfg.Idempotency.Capacity != 5000 || cfg.Idempotency.Target != 4000 {
		t.Errorf("unexpected idempotency config: %+v", cfg.Idempotency)
	}
	if !cfg.Renewal.Enabled || cfg.Renewal.Schedule != "0 0 6 * * *" || cfg.Renewal.Timezone != "UTC" {
		t.Errorf("unexpected renewal config: %+v", cfg.Renewal)
	}
	if cfg.Worker.MaxConcurrency != 16 || cfg.Worker.JobTimeout != 2*time.Minute {
		t.Errorf("unexpected worker config: %+v", cfg.Worker)
	}
	if cfg.Webhook.RateLimitPerMin != 600 || len(cfg.Webhook.AllowedIPs) != 0 {
		t.Errorf("unexpected webhook config: %+v", cfg.Webhook)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AUTOMATION_TRIGGER_FIELD_ID", "91")
	t.Setenv("AUTOMATION_ASSIGNEE_ID", "12")
	t.Setenv("SIMPRO_BASE_URL", "https://acme.simprosuite.com")
	t.Setenv("SIMPRO_RETRY_DELAY", "250ms")
	t.Setenv("WEBHOOK_ALLOWED_IPS", "10.0.0.0/8, 192.168.1.5")
	t.Setenv("RENEWAL_TIMEZONE", "Australia/Sydney")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Automation.TriggerFieldID != "91" {
		t.Errorf("expected trigger field 91, got %s", cfg.Automation.TriggerFieldID)
	}
	if cfg.Automation.AssigneeID != 12 || cfg.Automation.ReviewerID != 12 {
		t.Errorf("expected assignee and reviewer 12, got %+v", cfg.Automation)
	}
	if cfg.Simpro.BaseURL != "https://acme.simprosuite.com" || cfg.Simpro.RetryDelay != 250*time.Millisecond {
		t.Errorf("unexpected simpro config: %+v", cfg.Simpro)
	}
	if strings.Join(cfg.Webhook.AllowedIPs, ",") != "10.0.0.0/8,192.168.1.5" {
		t.Errorf("unexpected allowed ips: %v", cfg.Webhook.AllowedIPs)
	}
	if cfg.Renewal.Timezone != "Australia/Sydney" {
		t.Errorf("unexpected timezone: %s", cfg.Renewal.Timezone)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "Tag Not Positive", env: map[string]string{"AUTOMATION_MAINTENANCE_TAG_ID": "0"}},
		{name: "Target Above Capacity", env: map[string]string{"IDEMPOTENCY_CAPACITY": "10", "IDEMPOTENCY_TARGET": "20"}},
		{name: "Redis Without URL", env: map[string]string{"IDEMPOTENCY_BACKEND": "redis"}},
		{name: "Unknown Backend", env: map[string]string{"IDEMPOTENCY_BACKEND": "etcd"}},
		{name: "Bad Timezone", env: map[string]string{"RENEWAL_TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := load(viper.New()); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}
