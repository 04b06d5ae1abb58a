// Package logging provides structured logging for the parking binaries.
//
// It wraps log/slog so every component logs with the same handler, level
// filtering and default fields (service, version).
//
// Logging is configured via the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, discard
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("engine started", "total_slots", cfg.Parking.TotalSlots)
//
// Never log broker passwords or the InfluxDB token.
package logging
