// Package logging provides structured logging for the canbridge server.
//
// This package wraps zap logger with convenience functions for the logging
// patterns used throughout the bridge: connection lifecycle events, relayed
// frames, and CAN device state changes.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (relayed frames, discarded messages)
//   - Info: Normal operations (connections, device open/close, state changes)
//   - Warn: Non-fatal issues (malformed client frames, reopen failures)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Client connected",
//	    zap.String("remote_addr", "192.168.1.100"),
//	    zap.String("device", "can0"),
//	)
//
// # Configuration
//
// Initialize logging at server startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given, the CANBRIDGE_LOG_LEVEL environment variable is
// consulted; if that is also unset, logging is silent. CLI commands that
// render their own output (monitor, send) rely on the silent default.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
