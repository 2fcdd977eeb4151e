// internal/ui/help.go
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Help overlay content and rendering

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Yellow).
				MarginTop(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	helpCmdStyle = lipgloss.NewStyle().
			Foreground(Magenta)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(White)

	helpDimStyle = lipgloss.NewStyle().
			Foreground(Dim)

	helpStatusOK   = lipgloss.NewStyle().Foreground(Green).Bold(true)
	helpStatusWarn = lipgloss.NewStyle().Foreground(Orange).Bold(true)
	helpStatusDim  = lipgloss.NewStyle().Foreground(Dim)
	helpStatusErr  = lipgloss.NewStyle().Foreground(Red).Bold(true)
)

// HelpContent returns the formatted help overlay content
func HelpContent(width, height int) string {
	var content strings.Builder

	title := helpTitleStyle.Render("SYMPOSIUM HELP")
	content.WriteString(title)
	content.WriteString("\n\n")

	content.WriteString(helpSectionStyle.Render("KEYBINDINGS"))
	content.WriteString("\n\n")

	keybindings := []struct {
		key  string
		desc string
	}{
		{"Enter", "Submit input"},
		{"F1 / ?", "Toggle this help overlay"},
		{"Ctrl+H", "Browse stored sessions"},
		{"PgUp/PgDn", "Scroll the transcript"},
		{"Esc", "Close overlay / Return to input"},
		{"Ctrl+C / Ctrl+Q", "Quit Symposium"},
	}

	for _, kb := range keybindings {
		key := helpKeyStyle.Width(16).Render(kb.key)
		desc := helpDescStyle.Render(kb.desc)
		content.WriteString("  " + key + "  " + desc + "\n")
	}

	content.WriteString("\n")
	content.WriteString(helpSectionStyle.Render("SLASH COMMANDS"))
	content.WriteString("\n\n")

	cmds := []struct {
		cmd  string
		desc string
	}{
		{"/debate [opts] <question>", "Start a debate (format=, system=, rounds=, threshold=)"},
		{"/council [mode=<m>] <question>", "Convene the council (quick/deliberative/ethical/builder)"},
		{"/pause", "Pause the running council session"},
		{"/resume", "Resume a paused council session"},
		{"/stop", "Checkpoint and halt the running session"},
		{"/history", "Browse stored sessions"},
		{"/load <id>", "Load a stored session"},
		{"/delete <id>", "Delete a stored session"},
		{"/export [markdown|json]", "Export the loaded session to a file"},
		{"/agents", "Show debater personas and council seats"},
		{"/analytics", "Show analytics for the loaded debate"},
		{"/mode <mode>", "Set the default council mode"},
		{"/voting <system>", "Set the default voting system"},
		{"/quit", "Exit Symposium"},
		{"/help", "Show this help overlay"},
	}

	for _, c := range cmds {
		cmdStr := helpCmdStyle.Width(32).Render(c.cmd)
		desc := helpDescStyle.Render(c.desc)
		content.WriteString("  " + cmdStr + "  " + desc + "\n")
	}

	content.WriteString("\n")
	content.WriteString(helpSectionStyle.Render("AGENT STATUS INDICATORS"))
	content.WriteString("\n\n")

	indicators := []struct {
		symbol string
		style  lipgloss.Style
		desc   string
	}{
		{"●", helpStatusOK, "Done - Agent has contributed this round"},
		{"●", helpStatusWarn, "Thinking - Agent is generating a response"},
		{"○", helpStatusDim, "Waiting - Agent is queued for its turn"},
		{"✗", helpStatusErr, "Error - Agent's last call failed"},
	}

	for _, ind := range indicators {
		symbol := ind.style.Width(3).Render(ind.symbol)
		desc := helpDescStyle.Render(ind.desc)
		content.WriteString("  " + symbol + "  " + desc + "\n")
	}

	content.WriteString("\n")
	content.WriteString(helpSectionStyle.Render("HOW A SESSION RUNS"))
	content.WriteString("\n\n")

	protocol := []string{
		"Debate: persona agents argue in rounds, rank each other after",
		"every round, and stop when agreement crosses the threshold.",
		"A neutral judge then synthesizes the final decision.",
		"",
		"Council: five fixed seats (analyst, builder, strategist,",
		"auditor, moderator) move through opinions, debate, proposals,",
		"weighted voting and a moderated decision. The strategist holds",
		"an ethics veto in the stricter modes.",
		"",
		"Natural language works too: \"start a debate about X\" or",
		"\"convene an ethical council on Y\".",
	}

	for _, line := range protocol {
		if line == "" {
			content.WriteString("\n")
		} else {
			content.WriteString("  " + helpDimStyle.Render(line) + "\n")
		}
	}

	content.WriteString("\n")
	footer := helpDimStyle.Render("Press F1 or Esc to close this help")
	content.WriteString(lipgloss.PlaceHorizontal(width-8, lipgloss.Center, footer))

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(1, 3).
		MaxWidth(width - 10).
		MaxHeight(height - 4)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlayStyle.Render(content.String()),
	)
}

// renderHelp renders the help overlay (called from app.go)
func (m Model) renderHelp() string {
	return HelpContent(m.width, m.height)
}
