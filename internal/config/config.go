package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	coreconfig "ticketbot/core/config"
	"ticketbot/core/database"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Department binds a selectable support department to its staff group chat.
type Department struct {
	Tag    string `yaml:"tag"`
	Label  string `yaml:"label"`
	ChatID int64  `yaml:"chat_id"`
}

// SessionConfig controls the intake conversation lifetime.
type SessionConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" envconfig:"SESSION_TTL_MINUTES"`
}

// TTL returns the configured session lifetime as a duration.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// Config is the full application configuration: the reusable bot core
// settings plus the ticket-intake specifics.
type Config struct {
	Core        coreconfig.Config `yaml:",inline"`
	Database    database.Config   `yaml:"database"`
	Departments []Department      `yaml:"departments"`
	Session     SessionConfig     `yaml:"session"`
}

// Load reads configuration from a YAML file, then applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: env overrides: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates and fills defaults. It is exported so tests can
// assemble configs without going through a file.
func Normalize(cfg *Config) error {
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return err
	}

	if len(cfg.Departments) == 0 {
		return fmt.Errorf("config: at least one department must be configured")
	}
	seen := make(map[string]struct{}, len(cfg.Departments))
	for i := range cfg.Departments {
		d := &cfg.Departments[i]
		d.Tag = strings.ToLower(strings.TrimSpace(d.Tag))
		d.Label = strings.TrimSpace(d.Label)
		if d.Tag == "" {
			return fmt.Errorf("config: department %d has an empty tag", i)
		}
		if d.Label == "" {
			return fmt.Errorf("config: department %q has an empty label", d.Tag)
		}
		if d.ChatID == 0 {
			return fmt.Errorf("config: department %q has no chat_id", d.Tag)
		}
		if _, dup := seen[d.Tag]; dup {
			return fmt.Errorf("config: duplicate department tag %q", d.Tag)
		}
		seen[d.Tag] = struct{}{}
	}

	if cfg.Session.TTLMinutes <= 0 {
		cfg.Session.TTLMinutes = 30
	}
	return nil
}

// CoreConfig exposes the embedded bot core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// Department looks up a department by its callback tag.
func (c *Config) Department(tag string) (Department, bool) {
	for _, d := range c.Departments {
		if d.Tag == tag {
			return d, true
		}
	}
	return Department{}, false
}
