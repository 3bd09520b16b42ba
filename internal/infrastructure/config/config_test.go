package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
service:
  id: "test-core"
zones:
  - id: "kitchen"
    name: "Kitchen"
  - id: "lounge"
    name: "Lounge"
mqtt:
  broker:
    host: "broker.local"
    port: 1884
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 3100
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "test-core" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "test-core")
	}

	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}

	if cfg.API.Port != 3100 {
		t.Errorf("API.Port = %d, want 3100", cfg.API.Port)
	}

	ids := cfg.ZoneIDs()
	if len(ids) != 2 || ids[0] != "kitchen" || ids[1] != "lounge" {
		t.Errorf("ZoneIDs() = %v, want [kitchen lounge]", ids)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Service: ServiceConfig{ID: "core-01"},
			Zones:   []ZoneConfig{{ID: "zone1"}, {ID: "zone2"}},
			MQTT: MQTTConfig{
				Broker: MQTTBrokerConfig{Host: "localhost"},
				QoS:    1,
			},
			API: APIConfig{Port: 3000},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing service ID",
			mutate:  func(c *Config) { c.Service.ID = "" },
			wantErr: true,
		},
		{
			name:    "no zones",
			mutate:  func(c *Config) { c.Zones = nil },
			wantErr: true,
		},
		{
			name:    "empty zone id",
			mutate:  func(c *Config) { c.Zones[0].ID = "" },
			wantErr: true,
		},
		{
			name:    "duplicate zone id",
			mutate:  func(c *Config) { c.Zones[1].ID = "zone1" },
			wantErr: true,
		},
		{
			name:    "zone id with topic separator",
			mutate:  func(c *Config) { c.Zones[0].ID = "zone/1" },
			wantErr: true,
		},
		{
			name:    "zone id with wildcard",
			mutate:  func(c *Config) { c.Zones[0].ID = "zone+" },
			wantErr: true,
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "missing broker host",
			mutate:  func(c *Config) { c.MQTT.Broker.Host = "" },
			wantErr: true,
		},
		{
			name:    "invalid port low",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid port high",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()

	t.Setenv("AURALIS_MQTT_HOST", "mqtt.example.com")
	t.Setenv("AURALIS_MQTT_PORT", "8883")
	t.Setenv("AURALIS_MQTT_USERNAME", "testuser")
	t.Setenv("AURALIS_MQTT_PASSWORD", "testpass")
	t.Setenv("AURALIS_API_PORT", "3001")
	t.Setenv("AURALIS_DATABASE_PATH", "/custom/path.db")
	t.Setenv("AURALIS_INFLUXDB_TOKEN", "secret-token")

	applyEnvOverrides(cfg)

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}
	if cfg.MQTT.Broker.Port != 8883 {
		t.Errorf("MQTT.Broker.Port = %d, want 8883", cfg.MQTT.Broker.Port)
	}
	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}
	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}
	if cfg.API.Port != 3001 {
		t.Errorf("API.Port = %d, want 3001", cfg.API.Port)
	}
	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
}

func TestApplyEnvOverrides_LegacyVariables(t *testing.T) {
	tests := []struct {
		name      string
		brokerURL string
		wantHost  string
		wantPort  int
		wantTLS   bool
	}{
		{
			name:      "plain mqtt URL",
			brokerURL: "mqtt://broker.example.com:1883",
			wantHost:  "broker.example.com",
			wantPort:  1883,
			wantTLS:   false,
		},
		{
			name:      "mqtts URL",
			brokerURL: "mqtts://secure.example.com:8883",
			wantHost:  "secure.example.com",
			wantPort:  8883,
			wantTLS:   true,
		},
		{
			name:      "URL without port keeps default",
			brokerURL: "mqtt://broker.example.com",
			wantHost:  "broker.example.com",
			wantPort:  1883,
			wantTLS:   false,
		},
		{
			name:      "garbage URL ignored",
			brokerURL: "://not-a-url",
			wantHost:  "localhost",
			wantPort:  1883,
			wantTLS:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			t.Setenv("MQTT_BROKER_URL", tt.brokerURL)
			t.Setenv("PORT", "4000")

			applyEnvOverrides(cfg)

			if cfg.MQTT.Broker.Host != tt.wantHost {
				t.Errorf("Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, tt.wantHost)
			}
			if cfg.MQTT.Broker.Port != tt.wantPort {
				t.Errorf("Broker.Port = %d, want %d", cfg.MQTT.Broker.Port, tt.wantPort)
			}
			if cfg.MQTT.Broker.TLS != tt.wantTLS {
				t.Errorf("Broker.TLS = %v, want %v", cfg.MQTT.Broker.TLS, tt.wantTLS)
			}
			if cfg.API.Port != 4000 {
				t.Errorf("API.Port = %d, want 4000", cfg.API.Port)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("Default MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}

	if cfg.API.Port != 3000 {
		t.Errorf("Default API.Port = %d, want 3000", cfg.API.Port)
	}

	if len(cfg.Zones) != 3 {
		t.Fatalf("Default zone count = %d, want 3", len(cfg.Zones))
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := APIConfig{
		Timeouts: APITimeoutConfig{
			Read:  30,
			Write: 45,
			Idle:  60,
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}
