package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ClientConfig configures the atelier CLI.
type ClientConfig struct {
	APIURL      string       `mapstructure:"api_url"`
	AdminAPIKey string       `mapstructure:"admin_api_key"`
	StateDir    string       `mapstructure:"state_dir"`
	Log         LoggerConfig `mapstructure:"log"`
	S3          S3Config     `mapstructure:"s3"`
}

// S3Config holds AWS S3 configuration for mirrored cart and order snapshots.
type S3Config struct {
	Enabled bool   `mapstructure:"enabled"`
	Bucket  string `mapstructure:"bucket"`
	Region  string `mapstructure:"region"`
	Prefix  string `mapstructure:"prefix"` // Path prefix within bucket (e.g., "atelier/")
}

// LoadClient reads CLI settings from defaults, an optional config file and
// ATELIER_* environment variables, in increasing priority.
func LoadClient(v *viper.Viper, configFile string) (*ClientConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("api_url", "http://localhost:4000")
	v.SetDefault("admin_api_key", "")
	v.SetDefault("state_dir", filepath.Join(home, ".atelier"))
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.prefix", "atelier/")

	v.SetEnvPrefix("ATELIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(home, ".atelier"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &ClientConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the CLI configuration.
func (c *ClientConfig) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url is required")
	}
	if c.StateDir == "" {
		return fmt.Errorf("state dir is required")
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}
	return nil
}
