package tui

import "github.com/charmbracelet/lipgloss"

// One Dark Pro color palette
var (
	ColorFgPrimary   = lipgloss.Color("#ABB2BF")
	ColorFgSecondary = lipgloss.Color("#828997")
	ColorFgMuted     = lipgloss.Color("#636B78")

	ColorRed     = lipgloss.Color("#E06C75")
	ColorGreen   = lipgloss.Color("#98C379")
	ColorYellow  = lipgloss.Color("#E5C07B")
	ColorBlue    = lipgloss.Color("#61AFEF")
	ColorMagenta = lipgloss.Color("#C678DD")
	ColorOrange  = lipgloss.Color("#D19A66")

	ColorBorder = lipgloss.Color("#3F4451")
)

// Component styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	MentionStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary)

	MetaStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	EpicStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	NameStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	SelectedRowStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorBlue).
				PaddingLeft(1)

	RowStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	BlockedStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	FlashStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true).
			MarginBottom(1)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)
)

// stateBadgeStyle colors a workflow state badge by its coarse type
func stateBadgeStyle(stateType string) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)
	switch stateType {
	case "started":
		return base.Foreground(ColorBlue)
	case "done":
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorFgSecondary)
	}
}

// storyTypeGlyph returns the list glyph for a story type
func storyTypeGlyph(storyType string) string {
	switch storyType {
	case "bug":
		return lipgloss.NewStyle().Foreground(ColorRed).Render("●")
	case "chore":
		return lipgloss.NewStyle().Foreground(ColorFgSecondary).Render("◆")
	default:
		return lipgloss.NewStyle().Foreground(ColorYellow).Render("★")
	}
}
