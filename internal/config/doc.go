// Package config provides configuration management for canbridge.
//
// The effective configuration is built from three layers, lowest precedence
// first: a YAML config file, CANBRIDGE_* environment variables, and command
// line flags (applied by the CLI after Load).
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/canbridge/config.yaml or $HOME/.config/canbridge/config.yaml
//   - macOS: $HOME/.config/canbridge/config.yaml
//   - Windows: %LOCALAPPDATA%\canbridge\config.yaml
//
// # Environment Variables
//
//   - CANBRIDGE_HOST: bind address
//   - CANBRIDGE_PORT: HTTP/websocket port
//   - CANBRIDGE_DEVICE: CAN interface name (default "can0")
//   - CANBRIDGE_LOG_LEVEL: zap log level (also read by the logging package)
package config
