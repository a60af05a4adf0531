package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScan() error {
	if c.Scan.Workers < 1 || c.Scan.Workers > maxScanWorkers {
		return fmt.Errorf("scan.workers must be between 1 and %d, got %d", maxScanWorkers, c.Scan.Workers)
	}
	if len(c.Scan.MediaExtensions) == 0 {
		return errors.New("scan.media_extensions must list at least one extension")
	}
	for _, ext := range c.Scan.MediaExtensions {
		if ext == ".json" {
			return errors.New("scan.media_extensions must not include .json")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
