// Package config loads, normalizes, and validates coursesys configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the COURSESYS_DATA_DIR environment fallback. Derived
// locations such as the content directory and database path are resolved from
// the data directory when left unset.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and one validation error listing
// every problem.
package config
