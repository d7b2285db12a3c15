package config

import "time"

// SessionBackend selects the session store implementation.
type SessionBackend string

const (
	BackendMemory SessionBackend = "memory"
	BackendRedis  SessionBackend = "redis"
	BackendSQLite SessionBackend = "sqlite"
)

// Config is the top-level chatrelay configuration, corresponding to
// .chatrelay.yml.
type Config struct {
	Port    int           `yaml:"port" koanf:"port"`
	Slack   SlackConfig   `yaml:"slack" koanf:"slack"`
	Engine  EngineConfig  `yaml:"engine" koanf:"engine"`
	Session SessionConfig `yaml:"session" koanf:"session"`
}

// SlackConfig holds Slack credentials. BotToken configures single-workspace
// mode; ClientID+ClientSecret configure the OAuth install flow instead. The
// two modes are mutually exclusive.
type SlackConfig struct {
	SigningSecret string `yaml:"signing_secret" koanf:"signing_secret"`
	BotToken      string `yaml:"bot_token" koanf:"bot_token"`
	ClientID      string `yaml:"client_id" koanf:"client_id"`
	ClientSecret  string `yaml:"client_secret" koanf:"client_secret"`
	RedirectURL   string `yaml:"redirect_url" koanf:"redirect_url"`
}

// EngineConfig locates the conversational engine.
type EngineConfig struct {
	URL string `yaml:"url" koanf:"url"`
}

// SessionConfig selects and tunes the session store backend.
type SessionConfig struct {
	Backend    SessionBackend `yaml:"backend" koanf:"backend"`
	TTL        time.Duration  `yaml:"ttl" koanf:"ttl"`
	RedisURL   string         `yaml:"redis_url" koanf:"redis_url"`
	SQLitePath string         `yaml:"sqlite_path" koanf:"sqlite_path"`
}

// MultiTenant reports whether the OAuth install flow is configured.
func (c *Config) MultiTenant() bool { return c.Slack.ClientID != "" }

// DefaultConfig returns a Config with sensible defaults. Credentials and the
// engine URL have no defaults and must come from the file or environment.
func DefaultConfig() *Config {
	return &Config{
		Port: 3000,
		Session: SessionConfig{
			Backend:    BackendMemory,
			TTL:        24 * time.Hour,
			SQLitePath: "chatrelay.db",
		},
	}
}
