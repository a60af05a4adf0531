// Package config loads, normalizes, and validates sidecar configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours SIDECAR_LOG_LEVEL. Lookup order is an explicit
// path, then ~/.config/sidecar/config.toml, then ./sidecar.toml.
package config
