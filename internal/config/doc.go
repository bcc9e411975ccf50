// Package config loads, normalizes, and validates the TOML configuration
// for the speaker matching pipeline. Load applies repository defaults
// first, so a missing file yields a usable configuration for everything
// except the oracle API key.
package config
