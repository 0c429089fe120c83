package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcdev12/rikiki/go/internal/events"
	"github.com/mcdev12/rikiki/go/internal/poll"
	"github.com/mcdev12/rikiki/go/internal/reconcile"
)

type Config struct {
	StatusURL   string        `yaml:"status_url"`
	SelfID      string        `yaml:"self_id"`
	Language    string        `yaml:"language"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	StaleRows   string        `yaml:"stale_rows"`
	Headless    bool          `yaml:"headless"`

	Poll struct {
		BaseInterval  time.Duration `yaml:"base_interval"`
		BackoffFactor int           `yaml:"backoff_factor"`
		MaxDelay      time.Duration `yaml:"max_delay"`
	} `yaml:"poll"`

	Inspector struct {
		Addr string `yaml:"addr"`
	} `yaml:"inspector"`

	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
		Stream        string `yaml:"stream"`
	} `yaml:"nats"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

func defaultConfig() *Config {
	cfg := &Config{
		Language:    "en",
		HTTPTimeout: 30 * time.Second,
		StaleRows:   "keep",
	}
	cfg.Poll.BaseInterval = poll.DefaultBaseInterval
	cfg.Poll.BackoffFactor = poll.DefaultBackoffFactor
	cfg.NATS.SubjectPrefix = events.DefaultNATSConfig().SubjectPrefix
	cfg.Log.Level = "info"
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// loadConfig reads the optional YAML file at path, then applies environment
// overrides. An empty path skips the file.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.StatusURL = getEnv("RIKIKI_STATUS_URL", cfg.StatusURL)
	cfg.SelfID = getEnv("RIKIKI_SELF_ID", cfg.SelfID)
	cfg.Language = getEnv("RIKIKI_LANG", getEnv("LANG", cfg.Language))
	cfg.HTTPTimeout = getEnvAsDuration("RIKIKI_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.StaleRows = getEnv("RIKIKI_STALE_ROWS", cfg.StaleRows)
	cfg.Headless = getEnvAsBool("RIKIKI_HEADLESS", cfg.Headless)

	cfg.Poll.BaseInterval = getEnvAsDuration("RIKIKI_POLL_INTERVAL", cfg.Poll.BaseInterval)
	cfg.Poll.BackoffFactor = getEnvAsInt("RIKIKI_BACKOFF_FACTOR", cfg.Poll.BackoffFactor)
	cfg.Poll.MaxDelay = getEnvAsDuration("RIKIKI_MAX_DELAY", cfg.Poll.MaxDelay)

	cfg.Inspector.Addr = getEnv("RIKIKI_INSPECT_ADDR", cfg.Inspector.Addr)

	cfg.NATS.URL = getEnv("NATS_URL", cfg.NATS.URL)
	cfg.NATS.SubjectPrefix = getEnv("RIKIKI_NATS_PREFIX", cfg.NATS.SubjectPrefix)
	cfg.NATS.Stream = getEnv("RIKIKI_NATS_STREAM", cfg.NATS.Stream)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("RIKIKI_LOG_FILE", cfg.Log.File)

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.StatusURL == "" {
		errs = append(errs, errors.New("status URL is required (RIKIKI_STATUS_URL or first argument)"))
	}
	if c.Poll.BaseInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll base interval must be positive, got %s", c.Poll.BaseInterval))
	}
	if c.Poll.BackoffFactor < 1 {
		errs = append(errs, fmt.Errorf("backoff factor must be at least 1, got %d", c.Poll.BackoffFactor))
	}
	if _, err := c.stalePolicy(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) pollConfig() poll.Config {
	return poll.Config{
		BaseInterval:  c.Poll.BaseInterval,
		BackoffFactor: c.Poll.BackoffFactor,
		MaxDelay:      c.Poll.MaxDelay,
	}
}

func (c *Config) stalePolicy() (reconcile.StalePolicy, error) {
	switch strings.ToLower(c.StaleRows) {
	case "", "keep":
		return reconcile.StaleKeep, nil
	case "hide":
		return reconcile.StaleHide, nil
	default:
		return reconcile.StaleKeep, fmt.Errorf("stale_rows must be keep or hide, got %q", c.StaleRows)
	}
}

func (c *Config) natsConfig() events.NATSConfig {
	nc := events.DefaultNATSConfig()
	nc.URL = c.NATS.URL
	nc.SubjectPrefix = c.NATS.SubjectPrefix
	nc.Stream = c.NATS.Stream
	return nc
}
