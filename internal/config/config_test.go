package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"Alumni_Network/internal/config"
)

func TestValidate_InsecureJWT_FailsOutsideDevelopment(t *testing.T) {
	t.Setenv("ALUMNI_ENV", "production")

	cfg := config.Default()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail with default secrets in production")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	t.Setenv("ALUMNI_ENV", "development")

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development, got: %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	t.Setenv("ALUMNI_ENV", "development")

	cfg := config.Default()
	cfg.Database.Driver = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for unknown driver")
	}
}

func TestValidate_KafkaWithoutBrokers(t *testing.T) {
	t.Setenv("ALUMNI_ENV", "development")

	cfg := config.Default()
	cfg.Kafka.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail when kafka has no brokers")
	}
}

func TestValidate_FillsWorkerDefaults(t *testing.T) {
	t.Setenv("ALUMNI_ENV", "development")

	cfg := config.Default()
	cfg.Outbox = config.OutboxConfig{}
	cfg.Mentorship.MatchLimit = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed unexpectedly: %v", err)
	}
	if cfg.Outbox.BatchSize != 200 || cfg.Outbox.Interval != time.Second || cfg.Outbox.MaxRetry != 5 {
		t.Fatalf("unexpected outbox defaults: %+v", cfg.Outbox)
	}
	if cfg.Mentorship.MatchLimit != 5 {
		t.Fatalf("expected match limit 5, got %d", cfg.Mentorship.MatchLimit)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  addr: ":9090"
database:
  driver: sqlite
  dsn: "file::memory:"
jwt:
  access_ttl: 10m
mentorship:
  match_limit: 3
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ALUMNI_REDIS_ADDR", "redis:6380")
	t.Setenv("ALUMNI_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr from file not applied: %q", cfg.Server.Addr)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("driver from file not applied: %q", cfg.Database.Driver)
	}
	if cfg.JWT.AccessTTL != 10*time.Minute {
		t.Fatalf("access ttl: got %v", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 24*time.Hour {
		t.Fatalf("refresh ttl default lost: got %v", cfg.JWT.RefreshTTL)
	}
	if cfg.Mentorship.MatchLimit != 3 {
		t.Fatalf("match limit: got %d", cfg.Mentorship.MatchLimit)
	}
	if cfg.Redis.Addr != "redis:6380" {
		t.Fatalf("env override not applied: %q", cfg.Redis.Addr)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("kafka env not applied: %+v", cfg.Kafka)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
