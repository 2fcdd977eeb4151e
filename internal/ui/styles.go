// internal/ui/styles.go
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Cyan     = lipgloss.Color("#00FFFF")
	Green    = lipgloss.Color("#00FF00")
	Yellow   = lipgloss.Color("#FFD700")
	Orange   = lipgloss.Color("#FFA500")
	Red      = lipgloss.Color("#FF6B6B")
	Magenta  = lipgloss.Color("#FF00FF")
	SkyBlue  = lipgloss.Color("#87CEEB")
	Dim      = lipgloss.Color("#555555")
	White    = lipgloss.Color("#FFFFFF")
	DarkGray = lipgloss.Color("#333333")

	UserColor   = SkyBlue
	SystemColor = Yellow
	JudgeColor  = Yellow

	// Debaters are colored by registration order, cycling.
	agentPalette = []lipgloss.Color{Cyan, Green, Magenta, Orange, SkyBlue, Red}

	// Box styles
	ActiveBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Cyan)

	InactiveBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Dim)

	// Text styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	UserStyle = lipgloss.NewStyle().
			Foreground(SkyBlue).
			Bold(true)

	SystemStyle = lipgloss.NewStyle().
			Foreground(Yellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(Dim)

	// Status indicators
	StatusOK   = lipgloss.NewStyle().Foreground(Green).Bold(true)
	StatusWarn = lipgloss.NewStyle().Foreground(Orange).Bold(true)
	StatusCrit = lipgloss.NewStyle().Foreground(Red).Bold(true)
)

// AgentColor returns the color for the i-th debater.
func AgentColor(i int) lipgloss.Color {
	if i < 0 {
		return White
	}
	return agentPalette[i%len(agentPalette)]
}

// AgentStyle returns the style for the i-th debater.
func AgentStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(AgentColor(i)).Bold(true)
}

// RoleStyle returns the style for a council role or a reserved source
// name (user, system, judge).
func RoleStyle(role string) lipgloss.Style {
	switch role {
	case "analyst":
		return lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	case "builder":
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case "strategist":
		return lipgloss.NewStyle().Foreground(Magenta).Bold(true)
	case "auditor":
		return lipgloss.NewStyle().Foreground(Orange).Bold(true)
	case "moderator", "judge":
		return lipgloss.NewStyle().Foreground(JudgeColor).Bold(true)
	case "user":
		return UserStyle
	case "system":
		return SystemStyle
	default:
		return lipgloss.NewStyle().Foreground(White)
	}
}
