package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/preview/internal/core/display"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func ptr[T any](v T) *T { return &v }

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Preview.Theme = "dark"
	cfg.Overrides = []display.Override{
		{Pattern: "docs/**/*.md", Theme: ptr("light")},
		{Pattern: "*.markdown", WordWrap: ptr(72)},
	}

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_UnknownTheme(t *testing.T) {
	cfg := validConfig(t)
	cfg.Preview.Theme = "solarized-ish"

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "preview.theme")
	assert.Contains(t, fieldErrs[0].Err.Error(), "unknown theme")
}

func TestValidateDeep_InvalidOverrides(t *testing.T) {
	cfg := validConfig(t)
	cfg.Overrides = []display.Override{
		{Pattern: "docs/[a-", WordWrap: ptr(10)},
		{Pattern: "*.md", Theme: ptr("nope")},
	}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 2)
	assert.Contains(t, fieldErrs[0].Field, "overrides[0].pattern")
	assert.Contains(t, fieldErrs[0].Err.Error(), "invalid glob")
	assert.Contains(t, fieldErrs[1].Field, "overrides[1].theme")
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs[0].Field, "data_dir")
	assert.Contains(t, fieldErrs[0].Err.Error(), "not a directory")
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs[0].Field, "config_file")
}

func TestValidateDeep_MissingConfigFileIsFine(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep(filepath.Join(t.TempDir(), "config.yaml")))
}

func TestValidateDeep_RunsStructuralValidationFirst(t *testing.T) {
	cfg := validConfig(t)
	cfg.State.Backend = "redis"

	err := cfg.ValidateDeep("")
	require.Error(t, err)

	var fieldErrs criterio.FieldErrors
	assert.NotErrorAs(t, err, &fieldErrs)
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	cfg.Overrides = []display.Override{
		{Pattern: "*.md"},
		{Pattern: "*.txt", WordWrap: ptr(60)},
	}

	warnings := cfg.Warnings()

	require.Len(t, warnings, 1)
	assert.Equal(t, "Overrides", warnings[0].Category)
	assert.Equal(t, "overrides[0]", warnings[0].Item)
}

func TestValidateDeep_AcceptsPaletteTheme(t *testing.T) {
	cfg := validConfig(t)
	cfg.Preview.Theme = "gruvbox"
	cfg.Overrides = []display.Override{{Pattern: "*.md", Theme: ptr("notty")}}

	assert.NoError(t, cfg.ValidateDeep(""))
}
