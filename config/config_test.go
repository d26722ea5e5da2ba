package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("AUTOSAVE_DELAY", "")

	cfg := Load()

	if cfg.JWT.Expiry != 7*24*time.Hour {
		t.Errorf("expected 7 day token expiry, got %v", cfg.JWT.Expiry)
	}
	if cfg.Client.AutosaveDelay != 500*time.Millisecond {
		t.Errorf("expected 500ms autosave delay, got %v", cfg.Client.AutosaveDelay)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("expected bcrypt cost 10, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.CORS.AllowOrigin != "*" {
		t.Errorf("expected wildcard origin, got %q", cfg.CORS.AllowOrigin)
	}
}

func TestLoadOverrides(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(*Config) bool
	}{
		{
			name:  "token expiry",
			key:   "JWT_EXPIRY",
			value: "1h",
			check: func(c *Config) bool { return c.JWT.Expiry == time.Hour },
		},
		{
			name:  "server port",
			key:   "SERVER_PORT",
			value: "9090",
			check: func(c *Config) bool { return c.Server.Port == 9090 },
		},
		{
			name:  "invalid int falls back to default",
			key:   "AUTOSAVE_MAX_RETRIES",
			value: "many",
			check: func(c *Config) bool { return c.Client.AutosaveMaxRetries == 3 },
		},
		{
			name:  "redis switch",
			key:   "REDIS_ENABLED",
			value: "false",
			check: func(c *Config) bool { return !c.Redis.Enabled },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if !tt.check(Load()) {
				t.Errorf("override of %s=%s not applied", tt.key, tt.value)
			}
		})
	}
}
