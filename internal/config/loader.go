package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvChatDatabasePath names the variable holding the chat database directory.
const EnvChatDatabasePath = "CHAT_DATABASE_PATH"

// ErrConfiguration is matched by every ConfigurationError.
var ErrConfiguration = errors.New("configuration error")

// Config captures environment driven configuration values for the migrator.
type Config struct {
	ChatDatabasePath string `env:"CHAT_DATABASE_PATH"`
}

// ConfigurationError reports a missing or unusable configuration value.
type ConfigurationError struct {
	Variable string
	Reason   string
}

// Reasons carried by ConfigurationError.
const (
	ReasonNotSpecified = "path not specified"
	ReasonNotDirectory = "not a directory"
)

func (e *ConfigurationError) Error() string {
	switch e.Reason {
	case ReasonNotSpecified:
		return fmt.Sprintf("%s is not specified", e.Variable)
	case ReasonNotDirectory:
		return fmt.Sprintf("%s is not directory", e.Variable)
	default:
		return fmt.Sprintf("%s: %s", e.Variable, e.Reason)
	}
}

// Is lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Load parses configuration values from the current process environment.
//
// Load does not validate the result so callers can apply overrides first;
// call Validate before touching the filesystem.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.ChatDatabasePath = strings.TrimSpace(cfg.ChatDatabasePath)
	return cfg, nil
}

// Validate checks that the database path is set and names an existing directory.
func (c Config) Validate() error {
	path := strings.TrimSpace(c.ChatDatabasePath)
	if path == "" {
		return &ConfigurationError{Variable: EnvChatDatabasePath, Reason: ReasonNotSpecified}
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return &ConfigurationError{Variable: EnvChatDatabasePath, Reason: ReasonNotDirectory}
	}
	return nil
}
