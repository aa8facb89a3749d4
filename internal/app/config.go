package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "applybot/core/config"
	coredatabase "applybot/core/database"
)

// Store driver names accepted by store.driver.
const (
	StoreDriverSheets   = "sheets"
	StoreDriverPostgres = "postgres"
)

// Session backend names accepted by sessions.backend.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// StoreConfig selects and configures the respondent store driver.
type StoreConfig struct {
	Driver          string `yaml:"driver" envconfig:"STORE_DRIVER"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"SHEETS_CREDENTIALS_FILE"`
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SHEETS_SPREADSHEET_ID"`
	SheetName       string `yaml:"sheet_name" envconfig:"SHEETS_SHEET_NAME"`
}

// SessionsConfig selects the session manager backend.
type SessionsConfig struct {
	Backend       string `yaml:"backend" envconfig:"SESSIONS_BACKEND"`
	RedisAddr     string `yaml:"redis_addr" envconfig:"SESSIONS_REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" envconfig:"SESSIONS_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" envconfig:"SESSIONS_REDIS_DB"`
	TTLMinutes    int    `yaml:"ttl_minutes" envconfig:"SESSIONS_TTL_MINUTES"`
}

// BroadcastConfig tunes the relay.
type BroadcastConfig struct {
	PauseMS int `yaml:"pause_ms" envconfig:"BROADCAST_PAUSE_MS"`
}

// HealthConfig configures the liveness listener.
type HealthConfig struct {
	Listen string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
}

// Config aggregates core and bot-specific configuration.
type Config struct {
	Core coreconfig.Config `yaml:",inline"`

	Store     StoreConfig         `yaml:"store"`
	Database  coredatabase.Config `yaml:"database"`
	Sessions  SessionsConfig      `yaml:"sessions"`
	Broadcast BroadcastConfig     `yaml:"broadcast"`
	Health    HealthConfig        `yaml:"health"`

	// GroupInviteURL is included in the confirmation sent to applicants.
	GroupInviteURL string `yaml:"group_invite_url" envconfig:"GROUP_INVITE_URL"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// LoadConfig reads configuration from a YAML file and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalizeApp(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeApp(cfg *Config) error {
	driver := strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if driver == "" {
		driver = StoreDriverSheets
	}
	switch driver {
	case StoreDriverSheets:
		if strings.TrimSpace(cfg.Store.SpreadsheetID) == "" {
			return fmt.Errorf("store.spreadsheet_id is required for the sheets driver")
		}
	case StoreDriverPostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("database.host is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid store.driver %q; allowed: sheets, postgres", cfg.Store.Driver)
	}
	cfg.Store.Driver = driver

	backend := strings.ToLower(strings.TrimSpace(cfg.Sessions.Backend))
	if backend == "" {
		backend = SessionBackendMemory
	}
	switch backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if strings.TrimSpace(cfg.Sessions.RedisAddr) == "" {
			return fmt.Errorf("sessions.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid sessions.backend %q; allowed: memory, redis", cfg.Sessions.Backend)
	}
	cfg.Sessions.Backend = backend

	if cfg.Core.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.admin_id is required")
	}
	if cfg.Broadcast.PauseMS < 0 {
		return fmt.Errorf("broadcast.pause_ms must be >= 0")
	}
	if cfg.Health.Listen == "" {
		cfg.Health.Listen = ":10000"
	}
	return nil
}
