package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAccessSecret  = "secret-key"
	defaultRefreshSecret = "refresh-key"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Log        LogConfig        `yaml:"log"`
	Outbox     OutboxConfig     `yaml:"outbox"`
	Mentorship MentorshipConfig `yaml:"mentorship"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Mode is passed to gin.SetMode: debug, release or test.
	Mode string `yaml:"mode"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // mysql | postgres | sqlite
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	AccessSecret  string        `yaml:"access_secret"`
	RefreshSecret string        `yaml:"refresh_secret"`
	AccessTTL     time.Duration `yaml:"access_ttl"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Port > 0
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dev   bool   `yaml:"dev"`
	// File enables daily-rotated output in addition to stdout. A plain name
	// such as "logs/alumni.log" gets a date inserted and becomes a symlink to
	// the current file; a strftime pattern is used as given.
	File string `yaml:"file"`
}

type OutboxConfig struct {
	Interval          time.Duration `yaml:"interval"`
	BatchSize         int           `yaml:"batch_size"`
	MaxRetry          int           `yaml:"max_retry"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
}

type MentorshipConfig struct {
	MatchLimit int     `yaml:"match_limit"`
	MaxJitter  float64 `yaml:"max_jitter"`
}

// Default returns the configuration used when neither a file nor the
// environment overrides a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", Mode: "debug"},
		Database: DatabaseConfig{
			Driver:          "mysql",
			DSN:             "user:password@tcp(127.0.0.1:3306)/alumni?charset=utf8mb4&parseTime=True",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			AutoMigrate:     true,
		},
		Redis: RedisConfig{Addr: "127.0.0.1:6379"},
		JWT: JWTConfig{
			AccessSecret:  defaultAccessSecret,
			RefreshSecret: defaultRefreshSecret,
			AccessTTL:     30 * time.Minute,
			RefreshTTL:    24 * time.Hour,
		},
		SMTP:  SMTPConfig{Port: 587, From: "Alumni Network <no-reply@example.com>"},
		Kafka: KafkaConfig{Topic: "alumni.events"},
		Log:   LogConfig{Level: "info"},
		Outbox: OutboxConfig{
			Interval:          time.Second,
			BatchSize:         200,
			MaxRetry:          5,
			ReconcileInterval: 5 * time.Minute,
		},
		Mentorship: MentorshipConfig{MatchLimit: 5, MaxJitter: 10},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// ALUMNI_* environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	// best-effort: a missing .env is fine
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = getEnv("ALUMNI_ADDR", cfg.Server.Addr)
	cfg.Server.Mode = getEnv("ALUMNI_MODE", cfg.Server.Mode)
	cfg.Database.Driver = getEnv("ALUMNI_DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("ALUMNI_DB_DSN", cfg.Database.DSN)
	cfg.Redis.Addr = getEnv("ALUMNI_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("ALUMNI_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("ALUMNI_REDIS_DB", cfg.Redis.DB)
	cfg.JWT.AccessSecret = getEnv("ALUMNI_JWT_ACCESS_SECRET", cfg.JWT.AccessSecret)
	cfg.JWT.RefreshSecret = getEnv("ALUMNI_JWT_REFRESH_SECRET", cfg.JWT.RefreshSecret)
	cfg.SMTP.Host = getEnv("ALUMNI_SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = getEnvInt("ALUMNI_SMTP_PORT", cfg.SMTP.Port)
	cfg.SMTP.Username = getEnv("ALUMNI_SMTP_USERNAME", cfg.SMTP.Username)
	cfg.SMTP.Password = getEnv("ALUMNI_SMTP_PASSWORD", cfg.SMTP.Password)
	if v := os.Getenv("ALUMNI_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
		cfg.Kafka.Enabled = true
	}
	cfg.Log.Level = getEnv("ALUMNI_LOG_LEVEL", cfg.Log.Level)
	if os.Getenv("ALUMNI_LOG_DEV") == "1" {
		cfg.Log.Dev = true
	}
}

// Validate checks for settings that would make the service misbehave at runtime.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("jwt ttl must be positive")
	}
	if os.Getenv("ALUMNI_ENV") != "development" &&
		(c.JWT.AccessSecret == defaultAccessSecret || c.JWT.RefreshSecret == defaultRefreshSecret) {
		return errors.New("insecure default jwt secrets outside development")
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return errors.New("kafka enabled without brokers or topic")
	}
	if c.Outbox.BatchSize <= 0 {
		c.Outbox.BatchSize = 200
	}
	if c.Outbox.Interval <= 0 {
		c.Outbox.Interval = time.Second
	}
	if c.Outbox.MaxRetry <= 0 {
		c.Outbox.MaxRetry = 5
	}
	if c.Outbox.ReconcileInterval <= 0 {
		c.Outbox.ReconcileInterval = 5 * time.Minute
	}
	if c.Mentorship.MatchLimit <= 0 {
		c.Mentorship.MatchLimit = 5
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
