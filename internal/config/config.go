// Package config loads and validates the apps configuration file that
// drives a discovery run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/autopatch/internal/types"
)

// Settings holds run-wide behavior switches.
type Settings struct {
	Architectures                 []string `json:"architectures" validate:"omitempty,dive,oneof=armeabi-v7a arm64-v8a x86 x86_64 universal"`
	PreferNoDPI                   bool     `json:"prefer_nodpi"`
	DownloadMultipleArchitectures *bool    `json:"download_multiple_architectures"`
	MaxRetries                    int      `json:"max_retries" validate:"gte=0,lte=20"`
	RetryDelaySeconds             int      `json:"retry_delay" validate:"gte=0,lte=300"`
	ParallelApps                  int      `json:"parallel_apps" validate:"gte=0,lte=16"`
}

// App is one catalog entry in the configuration.
type App struct {
	Name        string `json:"name" validate:"required"`
	PackageName string `json:"package_name" validate:"required"`
	DownloadURL string `json:"download_url" validate:"required,url"`
	Enabled     *bool  `json:"enabled"`
}

// IsEnabled reports whether the app participates in the run. Apps are
// enabled unless explicitly disabled.
func (a *App) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// Config is the full parsed configuration file.
type Config struct {
	Settings Settings `json:"settings"`
	Apps     []App    `json:"apps" validate:"required,min=1,dive"`
}

// Load reads, schema-checks, parses, and validates a configuration file.
// Any failure here is a fatal configuration error.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := validateSchema(string(data)); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON %s: %w", path, err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills unset settings with their defaults.
func (c *Config) applyDefaults() {
	if len(c.Settings.Architectures) == 0 {
		for _, a := range types.AllArchitectures() {
			c.Settings.Architectures = append(c.Settings.Architectures, string(a))
		}
	}
	if c.Settings.MaxRetries == 0 {
		c.Settings.MaxRetries = 3
	}
	if c.Settings.RetryDelaySeconds == 0 {
		c.Settings.RetryDelaySeconds = 5
	}
	if c.Settings.ParallelApps == 0 {
		c.Settings.ParallelApps = 1
	}
}

// EnabledApps filters the app list to the enabled entries.
func (c *Config) EnabledApps() []App {
	apps := make([]App, 0, len(c.Apps))
	for _, app := range c.Apps {
		if app.IsEnabled() {
			apps = append(apps, app)
		}
	}
	return apps
}

// ArchitectureSet converts the configured architecture names into the typed
// enum. Validation guarantees membership; this only converts.
func (s *Settings) ArchitectureSet() []types.Architecture {
	set := make([]types.Architecture, 0, len(s.Architectures))
	for _, name := range s.Architectures {
		arch, err := types.ParseArchitecture(name)
		if err != nil {
			continue
		}
		set = append(set, arch)
	}
	return set
}

// RetryDelay returns the configured retry delay as a duration.
func (s *Settings) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

// DownloadMultiple reports whether discovery continues past the first
// retained architecture. Defaults to true.
func (s *Settings) DownloadMultiple() bool {
	return s.DownloadMultipleArchitectures == nil || *s.DownloadMultipleArchitectures
}
