package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads configuration from the given YAML file (if it exists), then
// overlays CHATRELAY_* environment variables ("__" nests: e.g.
// CHATRELAY_SESSION__BACKEND sets session.backend), then the plain variable
// names the connector has always used (SLACK_SIGNING_SECRET and friends).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: CHATRELAY_ENGINE__URL -> engine.url, etc.
	if err := k.Load(env.Provider("CHATRELAY_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "CHATRELAY_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	applyEnvAliases(cfg)
	return cfg, nil
}

// applyEnvAliases honors the conventional unprefixed variable names on top of
// the koanf layers. These win because deployment platforms typically inject
// exactly these.
func applyEnvAliases(cfg *Config) {
	if v := os.Getenv("SLACK_SIGNING_SECRET"); v != "" {
		cfg.Slack.SigningSecret = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		cfg.Slack.BotToken = v
	}
	if v := os.Getenv("SLACK_CLIENT_ID"); v != "" {
		cfg.Slack.ClientID = v
	}
	if v := os.Getenv("SLACK_CLIENT_SECRET"); v != "" {
		cfg.Slack.ClientSecret = v
	}
	if v := os.Getenv("SLACK_REDIRECT_URL"); v != "" {
		cfg.Slack.RedirectURL = v
	}
	if v := os.Getenv("ENGINE_URL"); v != "" {
		cfg.Engine.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Session.RedisURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
}

// validBackends is the set of recognized session backend values.
var validBackends = map[SessionBackend]bool{
	BackendMemory: true,
	BackendRedis:  true,
	BackendSQLite: true,
}

// Validate checks that the configuration can actually run. It is called once
// at startup so misconfiguration fails fast instead of at the first event.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Engine.URL == "" {
		return fmt.Errorf("engine.url is required")
	}
	if c.Slack.SigningSecret == "" {
		return fmt.Errorf("slack.signing_secret is required")
	}

	hasToken := c.Slack.BotToken != ""
	hasOAuth := c.Slack.ClientID != "" || c.Slack.ClientSecret != ""
	switch {
	case hasToken && hasOAuth:
		return fmt.Errorf("slack.bot_token and slack.client_id/client_secret are mutually exclusive")
	case !hasToken && !hasOAuth:
		return fmt.Errorf("either slack.bot_token or slack.client_id and slack.client_secret must be set")
	case hasOAuth && (c.Slack.ClientID == "" || c.Slack.ClientSecret == ""):
		return fmt.Errorf("slack.client_id and slack.client_secret must both be set")
	}

	if !validBackends[c.Session.Backend] {
		return fmt.Errorf("invalid session.backend %q: must be one of memory, redis, sqlite", c.Session.Backend)
	}
	if c.Session.Backend == BackendRedis && c.Session.RedisURL == "" {
		return fmt.Errorf("session.redis_url is required for the redis backend")
	}
	if c.Session.Backend == BackendSQLite && c.Session.SQLitePath == "" {
		return fmt.Errorf("session.sqlite_path is required for the sqlite backend")
	}
	if c.Session.Backend != BackendMemory && c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}

	return nil
}
