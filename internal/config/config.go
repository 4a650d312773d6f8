package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "canbridge"
	configFile = "config.yaml"
)

// Defaults
const (
	DefaultPort      = 3000
	DefaultDevice    = "can0"
	DefaultHeartbeat = time.Second
)

// Environment variable names. Values here override the config file; command
// line flags override both.
const (
	EnvHost     = "CANBRIDGE_HOST"
	EnvPort     = "CANBRIDGE_PORT"
	EnvDevice   = "CANBRIDGE_DEVICE"
	EnvLogLevel = "CANBRIDGE_LOG_LEVEL"
)

// Config is the full server configuration.
type Config struct {
	// Host to bind the HTTP listener to. Empty means all interfaces.
	Host string `yaml:"host,omitempty"`

	// Port for HTTP and websocket traffic.
	Port int `yaml:"port"`

	// Device is the CAN interface name to bridge (e.g. "can0", "vcan0").
	Device string `yaml:"device"`

	// CertPath and KeyPath enable TLS when both are set.
	CertPath string `yaml:"cert,omitempty"`
	KeyPath  string `yaml:"key,omitempty"`

	// LogLevel controls zap verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`

	// Advertise enables mDNS registration of this bridge.
	Advertise bool `yaml:"advertise"`

	// HeartbeatSeconds overrides the heartbeat/reconnect tick period.
	// Zero means the one second default.
	HeartbeatSeconds int `yaml:"heartbeat_seconds,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Port:      DefaultPort,
		Device:    DefaultDevice,
		Advertise: true,
	}
}

// Heartbeat returns the configured tick period.
func (c *Config) Heartbeat() time.Duration {
	if c.HeartbeatSeconds <= 0 {
		return DefaultHeartbeat
	}
	return time.Duration(c.HeartbeatSeconds) * time.Second
}

// TLS reports whether the server should terminate TLS.
func (c *Config) TLS() bool {
	return c.CertPath != "" && c.KeyPath != ""
}

// Validate checks the configuration for obvious mistakes before startup.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Device == "" {
		return fmt.Errorf("device name must not be empty")
	}
	if (c.CertPath == "") != (c.KeyPath == "") {
		return fmt.Errorf("cert and key must be provided together, or neither")
	}
	return nil
}

// GetConfigDir returns the OS-appropriate configuration directory for the
// application:
//   - Linux: $XDG_CONFIG_HOME/canbridge or $HOME/.config/canbridge
//   - macOS: $HOME/.config/canbridge (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\canbridge
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load builds the effective configuration: defaults, overlaid with the config
// file if one exists, overlaid with environment variables. Flag handling is
// the CLI's job and comes last.
func Load() (*Config, error) {
	cfg := New()

	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnv(cfg)

	return cfg, nil
}

// applyEnv overlays CANBRIDGE_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv(EnvDevice); v != "" {
		cfg.Device = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// Save writes the configuration to disk. Performs an atomic write to prevent
// corruption on crash.
func (c *Config) Save() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# canbridge configuration file
#
# Values here are overridden by CANBRIDGE_* environment variables,
# which are in turn overridden by command line flags.
#
# Location: ` + configPath + `

`)
	data = append(header, data...)

	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}
