package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/preview/internal/core/preview"
	"github.com/colonyops/preview/internal/core/styles"
	"github.com/colonyops/preview/internal/host"
	"github.com/colonyops/preview/internal/render"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.renderTabs()
	status := m.renderStatus()
	helpView := styles.HelpStyle.Render(m.help.View(m.keys))
	toasts := m.toasts.View(m.width)

	used := lipgloss.Height(header) + lipgloss.Height(status) + lipgloss.Height(helpView)
	if toasts != "" {
		used += lipgloss.Height(toasts)
	}
	body := m.renderPanels(max(m.height-used, 3))

	parts := []string{header, body}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, status, helpView)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderTabs() string {
	if len(m.opts.Documents) == 0 {
		return styles.TextMutedStyle.Render("no documents")
	}

	tabs := make([]string, 0, len(m.opts.Documents))
	for i, doc := range m.opts.Documents {
		label := documentIcon(doc) + doc.Base()
		if i == m.editor {
			tabs = append(tabs, styles.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderPanels(height int) string {
	panels := m.opts.Workspace.Visible()
	if len(panels) == 0 {
		hint := "No previews open. Press enter to preview the current document."
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.TextMutedStyle.Render(hint))
	}

	focused, _ := m.opts.Workspace.Focused()
	colWidth := m.width / len(panels)

	cols := make([]string, 0, len(panels))
	for _, p := range panels {
		cols = append(cols, m.renderPanel(p, p == focused, colWidth, height))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// renderPanel draws one slot. Border cells come out of width and height.
func (m Model) renderPanel(p *host.Panel, focused bool, width, height int) string {
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)

	title := p.Title()
	if s, ok := m.opts.Registry.Find(p.ID()); ok && s.Locked() {
		title = styles.LockedBadgeStyle.Render(styles.IconLock) + " " + title
	}
	title = lipgloss.NewStyle().Bold(true).MaxWidth(innerW).Render(fmt.Sprintf("%d: %s", p.Slot(), title))

	vp := viewport.New(innerW, max(innerH-1, 1))
	vp.SetContent(p.Content())
	vp.SetYOffset(p.Line())

	style := styles.PanelStyle
	if focused {
		style = styles.PanelFocusedStyle
	}
	return style.
		Width(innerW).
		Height(innerH).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, vp.View()))
}

func (m Model) renderStatus() string {
	var b strings.Builder

	if doc, ok := m.currentDocument(); ok {
		fmt.Fprintf(&b, "%s:%d", doc.Base(), m.lines[doc]+1)
	}
	fmt.Fprintf(&b, "  slot %d", m.slot)

	if active := m.opts.Registry.ActiveSession(); active != nil {
		fmt.Fprintf(&b, "  active %s", active.Resource().Base())
	}
	if m.opts.Workspace.Context(preview.ContextPreviewFocus) {
		b.WriteString("  [preview focus]")
	}
	fmt.Fprintf(&b, "  %d open", m.opts.Registry.Len())

	return styles.StatusBarStyle.Width(m.width).MaxHeight(1).Render(b.String())
}

func documentIcon(doc preview.Resource) string {
	if render.IsMarkdown(doc.Path()) {
		return styles.IconFileMarkdown
	}
	return styles.IconFileDefault
}
