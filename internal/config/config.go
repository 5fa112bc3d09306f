// Package config provides Viper-based configuration for clusterctl
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete clusterctl configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// APIConfig contains backend connection settings
type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	AuthToken       string        `mapstructure:"auth_token"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ArtifactTimeout time.Duration `mapstructure:"artifact_timeout"`
	DumpDir         string        `mapstructure:"dump_dir"`
}

// ExportConfig contains artifact download settings
type ExportConfig struct {
	Dir  string `mapstructure:"dir"`
	Mode string `mapstructure:"mode"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// Load reads configuration from file and environment variables.
// cfgFile overrides the search for .clusterctl.yaml.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".clusterctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/clusterctl")
	}

	// CLUSTERCTL_API_BASE_URL etc.
	v.SetEnvPrefix("CLUSTERCTL")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	// The frontend's own variables win over the prefixed ones
	_ = v.BindEnv("api.base_url", "CLUSTERING_API_URL", "CLUSTERCTL_API_BASE_URL")
	_ = v.BindEnv("api.auth_token", "CLUSTERING_AUTH_TOKEN", "CLUSTERCTL_API_AUTH_TOKEN")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         DefaultBaseURL,
			RequestTimeout:  30 * time.Second,
			ArtifactTimeout: 2 * time.Minute,
		},
		Export:  ExportConfig{Dir: ".", Mode: "yearly"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Output:  OutputConfig{Colors: true},
	}
}

// DefaultBaseURL is the backend root of a local development server
const DefaultBaseURL = "http://localhost:8000/api"

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.auth_token", "")
	v.SetDefault("api.request_timeout", d.API.RequestTimeout)
	v.SetDefault("api.artifact_timeout", d.API.ArtifactTimeout)
	v.SetDefault("api.dump_dir", "")

	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.mode", d.Export.Mode)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("output.colors", d.Output.Colors)
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url: %q (must be an http or https URL)", cfg.API.BaseURL)
	}

	if cfg.API.RequestTimeout <= 0 {
		return fmt.Errorf("invalid api.request_timeout: %s (must be positive)", cfg.API.RequestTimeout)
	}
	if cfg.API.ArtifactTimeout <= 0 {
		return fmt.Errorf("invalid api.artifact_timeout: %s (must be positive)", cfg.API.ArtifactTimeout)
	}

	if cfg.Export.Dir == "" {
		return fmt.Errorf("export.dir must not be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}
