// Package config wraps github.com/spf13/viper into the shape the teacher's
// internal/app already expects from a *config.Config (a GetBool(key)
// accessor) but never shipped a concrete definition for.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is a thin viper wrapper carrying the defaults a leaky deployment
// needs: shot counts, worker counts, decomposition tolerance, and server
// settings, sourced from env vars (LEAKY_ prefix) and an optional YAML file.
// Command-line flags are not bound into it.
type Config struct {
	v *viper.Viper
}

// New returns a Config with defaults set and LEAKY_-prefixed env vars wired
// in. Call LoadFile afterward to overlay an optional YAML file.
func New() *Config {
	v := viper.New()
	v.SetEnvPrefix("LEAKY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("shots", 1024)
	v.SetDefault("workers", 0) // 0 means runtime.NumCPU()
	v.SetDefault("tolerance", 1e-6)
	v.SetDefault("server.port", 8080)
	v.SetDefault("debug", false)

	return &Config{v: v}
}

// LoadFile merges an optional YAML config file into the current settings.
// A missing file is not an error; a malformed one is.
func (c *Config) LoadFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	c.v.SetConfigFile(path)
	c.v.SetConfigType("yaml")
	return c.v.ReadInConfig()
}

// GetBool matches the accessor internal/app.NewServer already expects from
// a *config.Config.
func (c *Config) GetBool(key string) bool { return c.v.GetBool(key) }

// Shots returns the default shot count for a sampling run.
func (c *Config) Shots() int { return c.v.GetInt("shots") }

// Workers returns the configured worker count (0 means runtime.NumCPU()).
func (c *Config) Workers() int { return c.v.GetInt("workers") }

// Tolerance returns the configured row-sum tolerance. TransitionTable.Validate
// does not read it; it checks against its own fixed 1e-6.
func (c *Config) Tolerance() float64 { return c.v.GetFloat64("tolerance") }

// ServerPort returns the HTTP service's listen port.
func (c *Config) ServerPort() int { return c.v.GetInt("server.port") }

// Debug reports whether debug-level logging is enabled.
func (c *Config) Debug() bool { return c.v.GetBool("debug") }
