package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/glamour/styles"
	"github.com/hay-kot/criterio"

	corestyles "github.com/colonyops/preview/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// glob syntax, theme names, and file accessibility. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		criterio.Run("preview.theme", c.Preview.Theme, isKnownTheme),
		c.validateOverrides(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	for i, o := range c.Overrides {
		if o.Theme == nil && o.WordWrap == nil && o.ScrollSync == nil && o.RenderTimeout == nil {
			warnings = append(warnings, ValidationWarning{
				Category: "Overrides",
				Item:     fmt.Sprintf("overrides[%d]", i),
				Message:  fmt.Sprintf("override for %q changes no settings", o.Pattern),
			})
		}
	}

	return warnings
}

// validateFileAccess checks config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isKnownTheme validates a glamour standard style or built-in palette name.
func isKnownTheme(theme string) error {
	if theme == "" || theme == styles.AutoStyle {
		return nil
	}
	if _, ok := corestyles.GetPalette(theme); ok {
		return nil
	}
	if _, ok := styles.DefaultStyles[theme]; !ok {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return nil
}

// validateOverrides checks glob syntax and per-override theme names.
func (c *Config) validateOverrides() error {
	var errs criterio.FieldErrorsBuilder
	for i, o := range c.Overrides {
		field := fmt.Sprintf("overrides[%d]", i)
		if !doublestar.ValidatePattern(o.Pattern) {
			errs = errs.Append(field+".pattern", fmt.Errorf("invalid glob %q", o.Pattern))
		}
		if o.Theme != nil {
			if err := isKnownTheme(*o.Theme); err != nil {
				errs = errs.Append(field+".theme", err)
			}
		}
	}
	return errs.ToError()
}
