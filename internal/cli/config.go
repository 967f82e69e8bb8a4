package cli

import (
	"fmt"
	"os"
	"time"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
	Timeout   time.Duration
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("ACS_SERVER", "http://localhost:8080"),
		Output:    getEnvOrDefault("ACS_OUTPUT", OutputText),
		Timeout:   30 * time.Second,
		Verbose:   false,
	}
}

// Validate checks flag combinations the flag parser cannot
func (c *Config) Validate() error {
	if c.Output != OutputText && c.Output != OutputJSON {
		return fmt.Errorf("unknown output format %q (want text or json)", c.Output)
	}
	if c.ServerURL == "" {
		return fmt.Errorf("server URL is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
