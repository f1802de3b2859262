// Package app wires the form engine, storage, and Telegram transport into a
// runnable bot.
package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/roshaa-market/hrbot/core/config"
	coredatabase "github.com/roshaa-market/hrbot/core/database"
)

// ReviewConfig points at the HR destination that receives finalized
// applications.
type ReviewConfig struct {
	ChatID int64 `yaml:"chat_id" envconfig:"REVIEW_CHAT_ID"`
}

// FormConfig tunes the conversation layer.
type FormConfig struct {
	// SessionTTLMinutes evicts sessions idle longer than this; 0 disables
	// eviction and sessions live until submit, cancel, or restart.
	SessionTTLMinutes int `yaml:"session_ttl_minutes" envconfig:"FORM_SESSION_TTL_MINUTES"`
}

// Config is the full bot configuration: the shared core settings plus the
// application-specific sections.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Review   ReviewConfig        `yaml:"review"`
	Form     FormConfig          `yaml:"form"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads configuration from a YAML file and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if cfg.Review.ChatID == 0 {
		return nil, fmt.Errorf("review.chat_id is required")
	}
	if cfg.Form.SessionTTLMinutes < 0 {
		return nil, fmt.Errorf("form.session_ttl_minutes must be >= 0")
	}
	return &cfg, nil
}
