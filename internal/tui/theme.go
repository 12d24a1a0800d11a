package tui

import "github.com/charmbracelet/lipgloss"

// Theme 定义 TUI 主题色彩和样式
// Theme defines TUI colors and styles
type Theme struct {
	// 基础色 / Base colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Danger    lipgloss.Color
	Success   lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	TextDim   lipgloss.Color
	Border    lipgloss.Color

	// 预构建样式 / Pre-built styles
	TitleStyle     lipgloss.Style
	HeaderStyle    lipgloss.Style
	LabelStyle     lipgloss.Style
	FocusStyle     lipgloss.Style
	StatusBarStyle lipgloss.Style
	PanelStyle     lipgloss.Style
	SelectedStyle  lipgloss.Style
	DoneStyle      lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	MutedStyle     lipgloss.Style
	DangerStyle    lipgloss.Style
	UserMsgStyle   lipgloss.Style
	BotMsgStyle    lipgloss.Style
}

// DefaultTheme 默认主题，酒红色系
// DefaultTheme is the default burgundy theme.
func DefaultTheme() Theme {
	t := Theme{
		Primary:   lipgloss.Color("#7F1734"),
		Secondary: lipgloss.Color("#C44569"),
		Accent:    lipgloss.Color("#FF6B9D"),
		Danger:    lipgloss.Color("#EF4444"),
		Success:   lipgloss.Color("#10B981"),
		Muted:     lipgloss.Color("#6B7280"),
		Text:      lipgloss.Color("#E5E7EB"),
		TextDim:   lipgloss.Color("#9CA3AF"),
		Border:    lipgloss.Color("#374151"),
	}

	t.TitleStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	t.HeaderStyle = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Bold(true)

	t.LabelStyle = lipgloss.NewStyle().
		Foreground(t.TextDim)

	t.FocusStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	t.StatusBarStyle = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(lipgloss.Color("#1F1F23"))

	t.PanelStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.SelectedStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	t.DoneStyle = lipgloss.NewStyle().
		Foreground(t.Muted).
		Strikethrough(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Danger).
		Bold(true)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.MutedStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.DangerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Danger).
		Bold(true).
		Padding(0, 1)

	t.UserMsgStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	t.BotMsgStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	return t
}
