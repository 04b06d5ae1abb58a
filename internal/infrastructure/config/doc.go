// Package config handles loading and validating the parking coordinator configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Broker and Redis passwords, and the InfluxDB token, should be set via
//     environment variables rather than committed to the config file
//   - The config file should have restricted permissions (0600)
//
// Configuration is loaded once at startup and never mutated afterwards; the
// topic root and slot capacity are static for the process lifetime.
//
// Usage:
//
//	cfg, path, err := config.LoadFrom(flagPath) // flag, then PARKING_CONFIG, then configs/config.yaml
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(path, cfg.Parking.TotalSlots)
package config
