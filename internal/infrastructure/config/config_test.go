package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validConfigContent is a minimal configuration that passes validation.
const validConfigContent = `
yale:
  username: "someone@example.com"
  password: "hunter2"
  bootstrap_token: "VGhpcyBpcyBub3QgYSByZWFsIHRva2Vu"
poll:
  interval: 10
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8084
security:
  jwt:
    secret: "test-secret-key-at-least-32-chars!"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigContent))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Yale.Username != "someone@example.com" {
		t.Errorf("Yale.Username = %q, want %q", cfg.Yale.Username, "someone@example.com")
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}

	// Defaults applied where the file is silent
	if cfg.Yale.BaseURL != "https://mob.yalehomesystem.co.uk/yapi" {
		t.Errorf("Yale.BaseURL = %q, want vendor default", cfg.Yale.BaseURL)
	}
	if cfg.Yale.RequestTimeout != 5 {
		t.Errorf("Yale.RequestTimeout = %d, want 5", cfg.Yale.RequestTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
yale:
  username: ""
poll:
  interval: 10
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Error("Load() expected validation error for missing credentials, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOORMAN_YALE_USERNAME", "env@example.com")
	t.Setenv("DOORMAN_MQTT_HOST", "broker.internal")
	t.Setenv("DOORMAN_JWT_SECRET", "env-secret-key-that-is-32-chars-ok")

	cfg, err := Load(writeConfig(t, validConfigContent))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Yale.Username != "env@example.com" {
		t.Errorf("Yale.Username = %q, want env override", cfg.Yale.Username)
	}
	if cfg.MQTT.Broker.Host != "broker.internal" {
		t.Errorf("MQTT.Broker.Host = %q, want env override", cfg.MQTT.Broker.Host)
	}
	if cfg.Security.JWT.Secret != "env-secret-key-that-is-32-chars-ok" {
		t.Errorf("Security.JWT.Secret not overridden from environment")
	}
}

func TestConfig_Validate(t *testing.T) {
	validJWTSecret := "test-secret-key-at-least-32-chars!"

	base := func() *Config {
		cfg := defaultConfig()
		cfg.Yale.Username = "user"
		cfg.Yale.Password = "pass"
		cfg.Yale.BootstrapToken = "token"
		cfg.Security.JWT.Secret = validJWTSecret
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing username",
			mutate:  func(c *Config) { c.Yale.Username = "" },
			wantErr: "yale.username",
		},
		{
			name:    "missing bootstrap token",
			mutate:  func(c *Config) { c.Yale.BootstrapToken = "" },
			wantErr: "yale.bootstrap_token",
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.Poll.Interval = 0 },
			wantErr: "poll.interval",
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: "api.port",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWT.Secret = "short" },
			wantErr: "security.jwt.secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DurationHelpers(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.GetRequestTimeout(); got != 5*time.Second {
		t.Errorf("GetRequestTimeout() = %v, want 5s", got)
	}
	if got := cfg.GetTokenMargin(); got != 60*time.Second {
		t.Errorf("GetTokenMargin() = %v, want 60s", got)
	}
	if got := cfg.GetPollInterval(); got != 10*time.Second {
		t.Errorf("GetPollInterval() = %v, want 10s", got)
	}
	if got := cfg.GetReadTimeout(); got != 30*time.Second {
		t.Errorf("GetReadTimeout() = %v, want 30s", got)
	}
}
