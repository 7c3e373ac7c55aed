// Package config provides tool settings management for lily-assistant.
package config

import "path/filepath"

// Config is the root configuration for lily-assistant. It tunes the tool
// itself; the per-project release record lives in .lily/config.json.
type Config struct {
	// Git configures git operations.
	Git GitConfig `mapstructure:"git" json:"git"`
	// Environment configures environment checks.
	Environment EnvironmentConfig `mapstructure:"environment" json:"environment"`
	// Structure configures the project layout check.
	Structure StructureConfig `mapstructure:"structure" json:"structure"`
	// Output configures output settings.
	Output OutputConfig `mapstructure:"output" json:"output"`
}

// GitConfig configures git operations.
type GitConfig struct {
	// Remote is the remote pushed to and pulled from (default: "origin").
	Remote string `mapstructure:"remote" json:"remote"`
	// ProtectedBranch is the branch is-not-master refuses (default: "master").
	ProtectedBranch string `mapstructure:"protected_branch" json:"protected_branch"`
}

// EnvironmentConfig configures environment checks.
type EnvironmentConfig struct {
	// VirtualEnvVar is the variable that marks an active virtualenv (default: "VIRTUAL_ENV").
	VirtualEnvVar string `mapstructure:"virtualenv_var" json:"virtualenv_var"`
}

// StructureConfig configures the project layout check.
type StructureConfig struct {
	// RulesFile is the YAML rules file, relative to the project root.
	// Missing file means built-in rules.
	RulesFile string `mapstructure:"rules_file" json:"rules_file"`
}

// OutputConfig configures output settings.
type OutputConfig struct {
	// Format is the log format (text, json).
	Format string `mapstructure:"format" json:"format"`
	// Color enables colored output.
	Color bool `mapstructure:"color" json:"color"`
	// Verbose enables verbose output.
	Verbose bool `mapstructure:"verbose" json:"verbose"`
	// LogLevel is the log level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" json:"log_level"`
}

// MetadataDir is where settings and the project record live.
const MetadataDir = ".lily"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Git: GitConfig{
			Remote:          "origin",
			ProtectedBranch: "master",
		},
		Environment: EnvironmentConfig{
			VirtualEnvVar: "VIRTUAL_ENV",
		},
		Structure: StructureConfig{
			RulesFile: filepath.Join(MetadataDir, "structure.yaml"),
		},
		Output: OutputConfig{
			Format:   "text",
			Color:    true,
			Verbose:  false,
			LogLevel: "info",
		},
	}
}

// ConfigFileNames to search for inside the metadata directory.
var ConfigFileNames = []string{
	"settings",
}

// ConfigFileExtensions supported by Viper.
var ConfigFileExtensions = []string{
	"yaml",
	"yml",
	"json",
	"toml",
}

// EnvPrefix prefixes environment overrides, e.g. LILY_GIT_REMOTE.
const EnvPrefix = "LILY"
