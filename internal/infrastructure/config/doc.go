// Package config loads and validates Hearth configuration.
//
// Configuration is read from a YAML file, merged over hardcoded defaults,
// and finally overridden by environment variables (HEARTH_* plus the
// conventional HA_TOKEN and OPENAI_API_KEY credential variables).
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Validation happens as part of Load; a Config obtained from Load is
// always internally consistent and carries both required credentials.
package config
