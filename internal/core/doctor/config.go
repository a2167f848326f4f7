package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/preview/internal/core/config"
)

// ConfigCheck validates the loaded configuration and reports warnings.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

// NewConfigCheck creates a config check. path is the file the config was
// loaded from and may not exist.
func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Section {
	section := Section{Title: c.Name()}

	switch _, err := os.Stat(c.path); {
	case c.path == "":
	case os.IsNotExist(err):
		section.Findings = append(section.Findings, Finding{
			Subject:  "config file",
			Status: StatusPass,
			Detail: "not found, using defaults",
		})
	case err == nil:
		section.Findings = append(section.Findings, Finding{
			Subject:  "config file",
			Status: StatusPass,
			Detail: c.path,
		})
	}

	clean := true
	if err := c.cfg.ValidateDeep(c.path); err != nil {
		clean = false
		var fieldErrs criterio.FieldErrors
		if !errors.As(err, &fieldErrs) {
			section.Findings = append(section.Findings, Finding{
				Subject:  "config",
				Status: StatusFail,
				Detail: err.Error(),
			})
		}
		for _, fe := range fieldErrs {
			section.Findings = append(section.Findings, Finding{
				Subject:  fe.Field,
				Status: StatusFail,
				Detail: fmt.Sprint(fe.Err),
			})
		}
	}

	for _, w := range c.cfg.Warnings() {
		clean = false
		label := w.Category
		if w.Item != "" {
			label = w.Item
		}
		section.Findings = append(section.Findings, Finding{
			Subject:  label,
			Status: StatusWarn,
			Detail: w.Message,
		})
	}

	if clean {
		section.Findings = append(section.Findings, Finding{
			Subject:  "settings",
			Status: StatusPass,
			Detail: "valid",
		})
	}

	return section
}
