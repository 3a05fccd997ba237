package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/rail-roster/pkg/core/fatigue"
	"github.com/jakechorley/rail-roster/pkg/core/roster"
)

// Roster sources
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	// DefaultParameters are applied to every shift that does not override them.
	// Omitted fields keep their fatigue.DefaultParameters value.
	DefaultParameters fatigue.Parameters `yaml:"defaultParameters"`

	RosterSource string `yaml:"rosterSource" validate:"oneof=file postgres"`
	// RosterFile is resolved relative to the config file
	RosterFile  string `yaml:"rosterFile" validate:"required_if=RosterSource file"`
	DatabaseURL string `yaml:"databaseURL" validate:"required_if=RosterSource postgres"`

	RosterRules []roster.Rule `yaml:"rosterRules,omitempty" validate:"dive"`

	// MetricsFile, when set, receives Prometheus text-format metrics after each command
	MetricsFile string `yaml:"metricsFile,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used for fields a config file leaves out
func Default() Config {
	return Config{
		DefaultParameters: fatigue.DefaultParameters(),
		RosterSource:      SourceFile,
		RosterFile:        "roster.yaml",
	}
}

// Load loads and validates the configuration from roster_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads roster_config_<env>.yaml, or roster_config.yaml when env is empty
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(configFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	if cfg.RosterFile != "" && !filepath.IsAbs(cfg.RosterFile) {
		cfg.RosterFile = filepath.Join(filepath.Dir(path), cfg.RosterFile)
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := fatigue.ValidateParameters(cfg.DefaultParameters); err != nil {
		return fmt.Errorf("invalid defaultParameters: %w", err)
	}

	for i, rule := range cfg.RosterRules {
		if err := roster.ValidateRule(rule); err != nil {
			return fmt.Errorf("invalid rosterRules[%d]: %w", i, err)
		}
	}

	return nil
}

func configFileName(env string) string {
	if env == "" {
		return "roster_config.yaml"
	}
	return fmt.Sprintf("roster_config_%s.yaml", env)
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
