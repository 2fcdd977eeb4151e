// internal/ui/history.go
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/podsni/symposium/internal/store"
)

// ViewMode represents the current view state
type ViewMode int

const (
	ViewNormal ViewMode = iota
	ViewHistory
	ViewHelp
)

// HistoryState holds the state for the session browser
type HistoryState struct {
	sessions  []store.SessionInfo
	cursor    int
	scrollTop int
	maxHeight int
}

// NewHistoryState creates a new history state
func NewHistoryState() *HistoryState {
	return &HistoryState{
		maxHeight: 20, // default, updated from terminal size
	}
}

// Up moves the cursor up
func (h *HistoryState) Up() {
	if h.cursor > 0 {
		h.cursor--
		if h.cursor < h.scrollTop {
			h.scrollTop = h.cursor
		}
	}
}

// Down moves the cursor down
func (h *HistoryState) Down() {
	if h.cursor < len(h.sessions)-1 {
		h.cursor++
		if h.cursor >= h.scrollTop+h.maxHeight {
			h.scrollTop = h.cursor - h.maxHeight + 1
		}
	}
}

// Selected returns the currently selected session, or nil
func (h *HistoryState) Selected() *store.SessionInfo {
	if h.cursor >= 0 && h.cursor < len(h.sessions) {
		return &h.sessions[h.cursor]
	}
	return nil
}

// Load refreshes the listing from the store, newest first.
func (h *HistoryState) Load(st *store.Store) error {
	if st == nil {
		return fmt.Errorf("session store not available")
	}
	sessions, err := st.List("")
	if err != nil {
		return err
	}
	h.sessions = sessions
	h.cursor = 0
	h.scrollTop = 0
	return nil
}

// SetMaxHeight updates the max visible height
func (h *HistoryState) SetMaxHeight(height int) {
	h.maxHeight = height - 10 // room for header/footer
	if h.maxHeight < 5 {
		h.maxHeight = 5
	}
}

// Render renders the history browser overlay
func (h *HistoryState) Render(width, height int) string {
	var content strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Render("SESSION HISTORY")
	content.WriteString(title)
	content.WriteString("\n")
	content.WriteString(DimStyle.Render("Select a past session to load"))
	content.WriteString("\n\n")

	if len(h.sessions) == 0 {
		content.WriteString(DimStyle.Render("No stored sessions."))
		content.WriteString("\n\n")
		content.WriteString(DimStyle.Render("Start a debate or council and it will appear here."))
	} else {
		visibleEnd := h.scrollTop + h.maxHeight
		if visibleEnd > len(h.sessions) {
			visibleEnd = len(h.sessions)
		}

		header := fmt.Sprintf("  %-8s  %-8s  %-34s  %-10s  %s",
			"ID", "Kind", "Question", "Status", "Updated")
		content.WriteString(DimStyle.Render(header))
		content.WriteString("\n")
		content.WriteString(DimStyle.Render(strings.Repeat("-", 82)))
		content.WriteString("\n")

		for i := h.scrollTop; i < visibleEnd; i++ {
			info := h.sessions[i]

			question := info.Question
			if len(question) > 32 {
				question = question[:32] + ".."
			}

			updated := time.UnixMilli(info.UpdatedAt)
			timeStr := updated.Format("2006-01-02 15:04")
			if time.Since(updated) < 24*time.Hour {
				timeStr = updated.Format("Today 15:04")
			}

			var statusStyle lipgloss.Style
			switch info.Status {
			case "completed":
				statusStyle = lipgloss.NewStyle().Foreground(Green)
			case "paused", "stopped":
				statusStyle = StatusWarn
			case "error":
				statusStyle = StatusCrit
			default:
				statusStyle = DimStyle
			}

			cursor := "  "
			lineStyle := DimStyle
			if i == h.cursor {
				cursor = "> "
				lineStyle = lipgloss.NewStyle().Foreground(Cyan)
			}

			statusStr := statusStyle.Width(10).Render(info.Status)
			line := fmt.Sprintf("%-8s  %-8s  %-34s  %s  %s",
				info.ID[:8], info.Kind, question, statusStr, timeStr)

			content.WriteString(cursor)
			content.WriteString(lineStyle.Render(line))
			content.WriteString("\n")
		}

		if len(h.sessions) > h.maxHeight {
			content.WriteString("\n")
			content.WriteString(DimStyle.Render(fmt.Sprintf("Showing %d-%d of %d",
				h.scrollTop+1, visibleEnd, len(h.sessions))))
		}
	}

	content.WriteString("\n\n")
	content.WriteString(DimStyle.Render("Up/Down: Navigate | Enter: Load | x: Delete | Esc: Cancel"))

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(1, 2).
		MaxWidth(width - 6).
		MaxHeight(height - 4)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlayStyle.Render(content.String()),
	)
}
