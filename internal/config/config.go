// Package config provides Viper-based configuration loading for the
// skirmish simulation harness and engine tuning.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// EngineConfig holds tactical engine tuning.
type EngineConfig struct {
	// Seed feeds the engine's injectable randomness source; a fixed seed
	// makes every bounded position search reproducible.
	Seed int64 `mapstructure:"seed"`
	// DoctrineScript is an optional path to a Lua doctrine-hook script;
	// empty disables doctrine hooks.
	DoctrineScript string `mapstructure:"doctrine_script"`
	// ScriptInstructionLimit caps Lua opcodes per hook call; 0 uses the
	// scripting package default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// SimulationConfig holds harness settings.
type SimulationConfig struct {
	// ScenarioPath is the YAML scenario to run.
	ScenarioPath string `mapstructure:"scenario_path"`
	// Turns is how many turn boundaries the harness simulates.
	Turns int `mapstructure:"turns"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Engine.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("engine.script_instruction_limit must be >= 0, got %d", c.Engine.ScriptInstructionLimit))
	}
	if c.Simulation.Turns < 1 {
		errs = append(errs, fmt.Sprintf("simulation.turns must be >= 1, got %d", c.Simulation.Turns))
	}
	if c.Simulation.ScenarioPath == "" {
		errs = append(errs, "simulation.scenario_path must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("engine.seed", 1)
	v.SetDefault("engine.doctrine_script", "")
	v.SetDefault("engine.script_instruction_limit", 0)

	v.SetDefault("simulation.scenario_path", "content/scenarios/patrol.yaml")
	v.SetDefault("simulation.turns", 10)
}
