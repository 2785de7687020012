/*
Package config holds the face-mcp settings.

Settings are read from an optional YAML file and then overridden by
FACE_MCP_* environment variables. Command flags are applied by the caller
after Load.
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/ironsheep/face-tools-mcp/internal/embedding"
)

// EnvPrefix prefixes all environment overrides.
const EnvPrefix = "FACE_MCP_"

// Config contains the server and preprocessing defaults.
type Config struct {
	LogLevel        string        `yaml:"log-level"`
	FaceHeight      int           `yaml:"face-height"`
	FaceWidth       int           `yaml:"face-width"`
	Margin          float64       `yaml:"margin"`
	Metric          string        `yaml:"metric"`
	CacheTTL        time.Duration `yaml:"cache-ttl"`
	DownloadTimeout time.Duration `yaml:"download-timeout"`
}

// Defaults returns the built-in settings.
func Defaults() *Config {
	return &Config{
		LogLevel:        "info",
		FaceHeight:      112,
		FaceWidth:       112,
		Margin:          0,
		Metric:          embedding.EuclideanSquared.String(),
		CacheTTL:        10 * time.Minute,
		DownloadTimeout: 30 * time.Second,
	}
}

// Load returns the defaults overridden by the YAML file at path (if path is
// not empty) and then by the environment.
func Load(path string) (*Config, error) {
	c := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := yaml.UnmarshalStrict(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("METRIC"); ok {
		c.Metric = v
	}

	ints := map[string]*int{
		"FACE_HEIGHT": &c.FaceHeight,
		"FACE_WIDTH":  &c.FaceWidth,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup("MARGIN"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sMARGIN: %w", EnvPrefix, err)
		}
		c.Margin = f
	}

	durations := map[string]*time.Duration{
		"CACHE_TTL":        &c.CacheTTL,
		"DOWNLOAD_TIMEOUT": &c.DownloadTimeout,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
			}
			*dst = d
		}
	}

	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.FaceHeight <= 0 || c.FaceWidth <= 0 {
		return fmt.Errorf("face size must be positive, got %dx%d", c.FaceWidth, c.FaceHeight)
	}
	if c.Margin < 0 || c.Margin > 1 {
		return fmt.Errorf("margin must be between 0 and 1, got %g", c.Margin)
	}
	if _, err := embedding.ParseMetric(c.Metric); err != nil {
		return err
	}
	if c.DownloadTimeout < 0 {
		return fmt.Errorf("download timeout must not be negative, got %s", c.DownloadTimeout)
	}
	return nil
}

// DistanceMetric returns the configured metric.
func (c *Config) DistanceMetric() embedding.Metric {
	m, err := embedding.ParseMetric(c.Metric)
	if err != nil {
		return embedding.EuclideanSquared
	}
	return m
}
