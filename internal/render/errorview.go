package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/preview/internal/core/preview"
	"github.com/colonyops/preview/internal/core/styles"
)

// ErrorView formats a render failure as panel content.
func ErrorView(resource preview.Resource, err error) string {
	title := styles.ErrorTitleStyle.Render(fmt.Sprintf("%s Could not render %s", styles.IconError, resource.Base()))
	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		err.Error(),
		"",
		styles.TextMutedStyle.Render(resource.Path()),
	)
	return styles.ErrorBoxStyle.Render(body) + "\n"
}
