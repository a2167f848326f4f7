package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/preview/internal/core/preview"
)

// statFunc is used to check whether a restored document still exists.
// Package-level variable to allow test overrides.
var statFunc = os.Stat

// StateCheck inspects persisted panel states. States that can no longer be
// restored are fixable: autofix deletes them from the store.
type StateCheck struct {
	store   preview.StateStore
	autofix bool
}

// NewStateCheck creates a state check against store.
func NewStateCheck(store preview.StateStore, autofix bool) *StateCheck {
	return &StateCheck{store: store, autofix: autofix}
}

func (c *StateCheck) Name() string {
	return "Persisted Panels"
}

func (c *StateCheck) Run(ctx context.Context) Section {
	section := Section{Title: c.Name()}

	states, err := c.store.List(ctx)
	if err != nil {
		section.Findings = append(section.Findings, Finding{
			Subject:  "state store",
			Status: StatusFail,
			Detail: fmt.Sprintf("cannot list states: %v", err),
		})
		return section
	}

	if len(states) == 0 {
		section.Findings = append(section.Findings, Finding{
			Subject:  "state store",
			Status: StatusPass,
			Detail: "no persisted panels",
		})
		return section
	}

	for _, st := range states {
		item := c.inspect(st)
		if item.Removable && c.autofix {
			item = c.fix(ctx, st.PanelID, item)
		}
		section.Findings = append(section.Findings, item)
	}

	return section
}

func (c *StateCheck) inspect(st preview.StoredState) Finding {
	decoded, err := preview.DecodeState(st.Blob)
	if err != nil {
		return Finding{
			Subject:   st.PanelID,
			Status:  StatusFail,
			Detail:  fmt.Sprintf("invalid state: %v", err),
			Removable: true,
		}
	}

	path := decoded.Resource.Path()
	if _, err := statFunc(path); os.IsNotExist(err) {
		return Finding{
			Subject:   st.PanelID,
			Status:  StatusWarn,
			Detail:  fmt.Sprintf("document %s no longer exists", path),
			Removable: true,
		}
	}

	return Finding{
		Subject:  st.PanelID,
		Status: StatusPass,
		Detail: path,
	}
}

func (c *StateCheck) fix(ctx context.Context, panelID string, item Finding) Finding {
	if err := c.store.Delete(ctx, panelID); err != nil {
		item.Detail = fmt.Sprintf("%s (delete failed: %v)", item.Detail, err)
		return item
	}
	return Finding{
		Subject:  panelID,
		Status: StatusPass,
		Detail: "removed: " + item.Detail,
	}
}
