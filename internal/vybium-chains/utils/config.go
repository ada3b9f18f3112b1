package utils

import (
	"fmt"
	"time"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
)

// Config represents the configuration of a chain search
type Config struct {
	// Search parameters
	MaxBitWidth int // Widest node allowed; also the exhaustive-report cutoff
	Rounds      int // Number of extension rounds

	// Execution
	Workers int           // Parallel workers for the pair loop
	Timeout time.Duration // Overall deadline, 0 disables it

	// Output
	LogLevel  string // "debug", "info", "warn" or "error"
	AllChains bool   // Report every minimal chain instead of one
}

// DefaultConfig returns the configuration of the reference search
func DefaultConfig() *Config {
	return &Config{
		MaxBitWidth: 10,
		Rounds:      4,
		Workers:     1,
		Timeout:     0,
		LogLevel:    "info",
		AllChains:   false,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxBitWidth < 2 || c.MaxBitWidth > core.MaxWidth {
		return fmt.Errorf("max bit width must be between 2 and %d, got %d", core.MaxWidth, c.MaxBitWidth)
	}

	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive")
	}

	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be 'debug', 'info', 'warn' or 'error', got '%s'", c.LogLevel)
	}

	return nil
}

// Threshold returns 2^(MaxBitWidth-1); values above it are reported as unverified
func (c *Config) Threshold() int64 {
	return int64(1) << uint(c.MaxBitWidth-1)
}

// WithMaxBitWidth sets the maximum node width
func (c *Config) WithMaxBitWidth(width int) *Config {
	c.MaxBitWidth = width
	return c
}

// WithRounds sets the number of extension rounds
func (c *Config) WithRounds(rounds int) *Config {
	c.Rounds = rounds
	return c
}

// WithWorkers sets the number of parallel workers
func (c *Config) WithWorkers(workers int) *Config {
	c.Workers = workers
	return c
}

// WithTimeout sets the overall deadline
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithLogLevel sets the log level
func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}

// WithAllChains selects whether reports list every minimal chain
func (c *Config) WithAllChains(all bool) *Config {
	c.AllChains = all
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	return &Config{
		MaxBitWidth: c.MaxBitWidth,
		Rounds:      c.Rounds,
		Workers:     c.Workers,
		Timeout:     c.Timeout,
		LogLevel:    c.LogLevel,
		AllChains:   c.AllChains,
	}
}
