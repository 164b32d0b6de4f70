// Package config loads and validates the Cinematic Wish configuration.
//
// This package manages:
//   - Hard-coded defaults that run the experience with no file at all
//   - Loading overrides from a YAML file
//   - Environment overrides (WISH_SECTION_KEY), optionally seeded from .env
//   - Validation that reports every problem at once
//
// Security Considerations:
//   - Broker and InfluxDB credentials should come from the environment
//     (WISH_MQTT_AUTH_PASSWORD, WISH_INFLUXDB_TOKEN), not the YAML file
//
// Usage:
//
//	if err := config.LoadDotEnv(".env"); err != nil {
//	    return err
//	}
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
package config
