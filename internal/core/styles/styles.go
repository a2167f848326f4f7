// Package styles provides shared lipgloss styles for the CLI, the terminal
// host, and rendered previews.
package styles

import (
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// CurrentPalette holds the active chrome palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	TextBoldStyle      lipgloss.Style
	TextMutedStyle     lipgloss.Style
	TextSuccessStyle   lipgloss.Style
	TextWarningStyle   lipgloss.Style
	TextErrorStyle     lipgloss.Style

	// Terminal host styles.
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	TabStyle          lipgloss.Style
	TabActiveStyle    lipgloss.Style
	LockedBadgeStyle  lipgloss.Style
	StatusBarStyle    lipgloss.Style
	HelpStyle         lipgloss.Style

	// Render failure indicator.
	ErrorBoxStyle   lipgloss.Style
	ErrorTitleStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	TextBoldStyle = lipgloss.NewStyle().Foreground(p.Foreground).Bold(true)
	TextMutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	TextWarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(p.Error)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface)
	PanelFocusedStyle = PanelStyle.
		BorderForeground(p.Primary)
	TabStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Muted)
	TabActiveStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Background).
		Background(p.Primary).
		Bold(true)
	LockedBadgeStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Surface).
		Padding(0, 1)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	ErrorBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(p.Error).
		PaddingLeft(1)
	ErrorTitleStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorHexPtr(c lipgloss.Color) *string {
	cc, err := colorful.Hex(string(c))
	if err != nil {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a glamour style config derived from p.
func GlamourStyle(p Palette) glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(p.Foreground)
	primary := colorHexPtr(p.Primary)
	secondary := colorHexPtr(p.Secondary)
	muted := colorHexPtr(p.Muted)
	surface := colorHexPtr(p.Surface)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary
	cfg.H4.Color = primary
	cfg.H5.Color = primary
	cfg.H6.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	return cfg
}
