// Package config provides configuration management for the dgc CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	URL          string `koanf:"url"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Timeout      int    `koanf:"timeout"` // seconds
	Retries      int    `koanf:"retries"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
}

// Default configuration values.
const (
	DefaultTimeout = 30
	DefaultRetries = 3
	DefaultOutput  = "table"
)
