package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds server and client configuration values.
type Config struct {
	Host               string        `mapstructure:"host" yaml:"host"`
	Port               int           `mapstructure:"port" yaml:"port"`
	Mode               string        `mapstructure:"mode" yaml:"mode"`
	LogLevel           string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat          string        `mapstructure:"log_format" yaml:"log_format"`
	ReadHeaderTimeout  time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes       int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins" yaml:"cors_allowed_origins"`
	FeedBuffer         int           `mapstructure:"feed_buffer" yaml:"feed_buffer"`
	Store              StoreConfig   `mapstructure:"store" yaml:"store"`
	APIBaseURL         string        `mapstructure:"api_base_url" yaml:"api_base_url"`
}

// StoreConfig selects the message store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Host:               "0.0.0.0",
		Port:               5000,
		Mode:               "auto",
		LogLevel:           "info",
		LogFormat:          "console",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		MaxBodyBytes:       100 << 10,
		CORSAllowedOrigins: []string{"*"},
		FeedBuffer:         16,
		Store:              StoreConfig{Driver: "memory"},
		APIBaseURL:         "http://localhost:5000",
	}
}

// Addr returns the host:port the server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate reports values the server cannot start with.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "", "auto", "listen", "lambda":
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Host != "" {
		c.Host = other.Host
	}
	if other.Port != 0 {
		c.Port = other.Port
	}
	if other.Mode != "" {
		c.Mode = other.Mode
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.MaxBodyBytes != 0 {
		c.MaxBodyBytes = other.MaxBodyBytes
	}
	if len(other.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = other.CORSAllowedOrigins
	}
	if other.FeedBuffer != 0 {
		c.FeedBuffer = other.FeedBuffer
	}
	if other.Store.Driver != "" {
		c.Store.Driver = other.Store.Driver
	}
	if other.APIBaseURL != "" {
		c.APIBaseURL = other.APIBaseURL
	}
}
