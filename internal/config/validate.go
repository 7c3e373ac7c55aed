package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	apperrors "github.com/relicta-tech/lily-assistant/internal/errors"
)

// ValidationError contains all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if len(e.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("Errors:\n  - %s", strings.Join(e.Errors, "\n  - ")))
	}

	if len(e.Warnings) > 0 {
		parts = append(parts, fmt.Sprintf("Warnings:\n  - %s", strings.Join(e.Warnings, "\n  - ")))
	}

	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(parts, "\n"))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (e *ValidationError) HasWarnings() bool {
	return len(e.Warnings) > 0
}

// Addf adds a formatted error to the validation error.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// Warnf adds a formatted warning to the validation error.
func (e *ValidationError) Warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Validator validates configuration.
type Validator struct {
	errors *ValidationError
	logger *log.Logger
}

// NewValidator creates a new configuration validator. Warnings are logged
// to logger when it is not nil.
func NewValidator(logger *log.Logger) *Validator {
	return &Validator{
		errors: &ValidationError{},
		logger: logger,
	}
}

// Warnings returns the warnings collected by the last Validate call.
func (v *Validator) Warnings() []string {
	return v.errors.Warnings
}

// Validate validates the configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateGit(cfg.Git)
	v.validateEnvironment(cfg.Environment)
	v.validateStructure(cfg.Structure)
	v.validateOutput(cfg.Output)

	if v.logger != nil {
		for _, warning := range v.errors.Warnings {
			v.logger.Warn("configuration warning", "detail", warning)
		}
	}

	if v.errors.HasErrors() {
		return apperrors.ValidationWrap(v.errors, "config.Validate", "invalid settings")
	}

	return nil
}

func (v *Validator) validateGit(cfg GitConfig) {
	if strings.TrimSpace(cfg.Remote) == "" {
		v.errors.Addf("git.remote: must not be empty")
	} else if strings.ContainsAny(cfg.Remote, " \t\n") || strings.HasPrefix(cfg.Remote, "-") {
		v.errors.Addf("git.remote: invalid remote name %q", cfg.Remote)
	}

	if strings.TrimSpace(cfg.ProtectedBranch) == "" {
		v.errors.Warnf("git.protected_branch: empty, falling back to \"master\"")
	}
}

func (v *Validator) validateEnvironment(cfg EnvironmentConfig) {
	if strings.TrimSpace(cfg.VirtualEnvVar) == "" {
		v.errors.Addf("environment.virtualenv_var: must not be empty")
	} else if strings.ContainsAny(cfg.VirtualEnvVar, "= \t") {
		v.errors.Addf("environment.virtualenv_var: invalid variable name %q", cfg.VirtualEnvVar)
	}
}

func (v *Validator) validateStructure(cfg StructureConfig) {
	if cfg.RulesFile == "" {
		return
	}
	if filepath.IsAbs(cfg.RulesFile) {
		v.errors.Warnf("structure.rules_file: absolute path %s ignores the project root", cfg.RulesFile)
	}
	ext := strings.ToLower(filepath.Ext(cfg.RulesFile))
	if ext != ".yaml" && ext != ".yml" {
		v.errors.Addf("structure.rules_file: must be a .yaml or .yml file, got %q", cfg.RulesFile)
	}
}

func (v *Validator) validateOutput(cfg OutputConfig) {
	validFormats := []string{"text", "json"}
	if !slices.Contains(validFormats, cfg.Format) {
		v.errors.Addf("output.format: must be one of %v, got %q", validFormats, cfg.Format)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(cfg.LogLevel)) {
		v.errors.Addf("output.log_level: must be one of %v, got %q", validLevels, cfg.LogLevel)
	}
}

// Validate validates cfg with a fresh Validator.
func Validate(cfg *Config, logger *log.Logger) error {
	return NewValidator(logger).Validate(cfg)
}
