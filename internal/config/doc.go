// Package config loads, normalizes, and validates ascesc configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ASCESC_OUTPUT_DIR. The Config type lists the period extracts to
// consolidate, the column profiles used to read them, and the output sinks.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, resolved profiles, and clear validation errors.
package config
