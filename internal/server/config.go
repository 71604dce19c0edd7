package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/creditcore/loan-advisor/internal/config"
	"github.com/creditcore/loan-advisor/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address        string               `yaml:"address"`
	MaxRequestSize string               `yaml:"maxRequestSize"`
	RateLimit      RateLimitConfig      `yaml:"rateLimit"`
	Redis          RedisConfig          `yaml:"redis"`
	Logging        config.LoggingConfig `yaml:"logging"`
	requestBytes   int64
}

// RateLimitConfig controls per-client request limiting.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   string        `yaml:"window"`
	window   time.Duration
}

// RedisConfig enables the shared quote cache when an address is set.
type RedisConfig struct {
	Address string        `yaml:"address"`
	TTL     string        `yaml:"ttl"`
	ttl     time.Duration
}

// LoadConfig loads the server configuration from YAML. If the file does not
// exist, defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:        constants.DefaultServerAddress,
		MaxRequestSize: fmt.Sprintf("%d", constants.DefaultMaxRequestBytes),
		RateLimit: RateLimitConfig{
			Requests: constants.DefaultRateLimitRequests,
			Window:   "1m",
		},
		requestBytes: constants.DefaultMaxRequestBytes,
	}

	if path == "" {
		if err := cfg.normalize(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := cfg.normalize(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequestBytes returns the configured maximum request body size in bytes.
func (c *Config) RequestBytes() int64 {
	return c.requestBytes
}

// RateLimitWindow returns the configured rate limit refill window.
func (c *Config) RateLimitWindow() time.Duration {
	return c.RateLimit.window
}

// RedisTTL returns the configured cache entry lifetime.
func (c *Config) RedisTTL() time.Duration {
	return c.Redis.ttl
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	sizeStr := strings.TrimSpace(c.MaxRequestSize)
	if sizeStr == "" {
		c.requestBytes = constants.DefaultMaxRequestBytes
		c.MaxRequestSize = fmt.Sprintf("%d", constants.DefaultMaxRequestBytes)
	} else {
		bytes, err := ParseSize(sizeStr)
		if err != nil {
			return err
		}
		if bytes <= 0 {
			bytes = constants.DefaultMaxRequestBytes
		}
		c.requestBytes = bytes
	}

	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = constants.DefaultRateLimitRequests
	}
	windowStr := strings.TrimSpace(c.RateLimit.Window)
	if windowStr == "" {
		windowStr = "1m"
		c.RateLimit.Window = windowStr
	}
	window, err := time.ParseDuration(windowStr)
	if err != nil {
		return fmt.Errorf("invalid rate limit window %q: %w", c.RateLimit.Window, err)
	}
	c.RateLimit.window = window

	if ttlStr := strings.TrimSpace(c.Redis.TTL); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return fmt.Errorf("invalid redis ttl %q: %w", c.Redis.TTL, err)
		}
		c.Redis.ttl = ttl
	}

	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxRequestBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	if numPart == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
