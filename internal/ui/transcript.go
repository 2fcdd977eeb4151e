// internal/ui/transcript.go
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// AgentState is the per-agent activity indicator shown in the sidebar.
type AgentState int

const (
	StateIdle AgentState = iota
	StateWaiting
	StateThinking
	StateError
)

// Entry is one line-group in the transcript: a user input, an agent
// contribution, or a system notice.
type Entry struct {
	Source    string // agent name, role name, "user", "system"
	Style     lipgloss.Style
	Content   string
	Timestamp time.Time
	IsError   bool
	Raw       bool // pre-rendered content (glamour output), no indent
}

// Transcript holds the scrollback of the current session plus the
// activity state of every agent.
type Transcript struct {
	Entries []Entry

	agentOrder []string
	agentState map[string]AgentState
	agentStart map[string]time.Time
	frame      int
}

func NewTranscript() *Transcript {
	return &Transcript{
		Entries:    []Entry{},
		agentState: make(map[string]AgentState),
		agentStart: make(map[string]time.Time),
	}
}

// SetAgents resets the sidebar roster. Order is display order.
func (t *Transcript) SetAgents(names []string) {
	t.agentOrder = names
	t.agentState = make(map[string]AgentState)
	t.agentStart = make(map[string]time.Time)
	for _, n := range names {
		t.agentState[n] = StateWaiting
	}
}

// SetState updates one agent's activity indicator and tracks how long it
// has been thinking.
func (t *Transcript) SetState(name string, state AgentState) {
	old := t.agentState[name]
	t.agentState[name] = state
	if state == StateThinking && old != StateThinking {
		t.agentStart[name] = time.Now()
	}
	if state != StateThinking && old == StateThinking {
		delete(t.agentStart, name)
	}
}

// SetAllStates sets every agent to the same state.
func (t *Transcript) SetAllStates(state AgentState) {
	for _, n := range t.agentOrder {
		t.SetState(n, state)
	}
}

func (t *Transcript) Add(source string, style lipgloss.Style, content string) {
	t.Entries = append(t.Entries, Entry{
		Source:    source,
		Style:     style,
		Content:   content,
		Timestamp: time.Now(),
	})
}

func (t *Transcript) AddSystem(content string) {
	t.Add("System", SystemStyle, content)
}

func (t *Transcript) AddError(content string) {
	t.Entries = append(t.Entries, Entry{
		Source:    "Error",
		Style:     ErrorStyle,
		Content:   content,
		Timestamp: time.Now(),
		IsError:   true,
	})
}

// AddRaw appends pre-rendered content (markdown already passed through
// glamour) without the indent treatment.
func (t *Transcript) AddRaw(source string, style lipgloss.Style, content string) {
	t.Entries = append(t.Entries, Entry{
		Source:    source,
		Style:     style,
		Content:   content,
		Timestamp: time.Now(),
		Raw:       true,
	})
}

// AppendToLast grows the most recent entry in place, for streamed
// responses.
func (t *Transcript) AppendToLast(text string) {
	if len(t.Entries) == 0 {
		return
	}
	t.Entries[len(t.Entries)-1].Content += text
}

// Clear drops the scrollback but keeps the roster.
func (t *Transcript) Clear() {
	t.Entries = []Entry{}
}

// TickAnimation advances the thinking indicator animation.
func (t *Transcript) TickAnimation() {
	t.frame = (t.frame + 1) % 4
}

func (t *Transcript) thinkingSuffix() string {
	frames := []string{"", ".", "..", "..."}
	return frames[t.frame]
}

// Render renders the full scrollback for the viewport.
func (t *Transcript) Render(width int) string {
	var sb strings.Builder

	for _, e := range t.Entries {
		ts := e.Timestamp.Format("15:04")
		header := e.Style.Render(fmt.Sprintf("[%s] %s:", ts, e.Source))
		sb.WriteString(header)
		sb.WriteString("\n")

		if e.Raw {
			sb.WriteString(e.Content)
			sb.WriteString("\n")
			continue
		}

		for _, line := range strings.Split(e.Content, "\n") {
			sb.WriteString("  ")
			if e.IsError {
				sb.WriteString(ErrorStyle.Render(line))
			} else {
				sb.WriteString(line)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderAgentPanel renders the agent status sidebar.
func (t *Transcript) RenderAgentPanel() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("AGENTS"))
	sb.WriteString("\n\n")

	if len(t.agentOrder) == 0 {
		sb.WriteString(DimStyle.Render("No session running."))
		sb.WriteString("\n")
		return sb.String()
	}

	for i, name := range t.agentOrder {
		state := t.agentState[name]
		display := name
		suffix := ""

		if state == StateThinking {
			display += t.thinkingSuffix()
			if start, ok := t.agentStart[name]; ok {
				suffix = " " + DimStyle.Render("("+formatElapsed(time.Since(start))+")")
			}
		}

		sb.WriteString(fmt.Sprintf("%s %s%s\n",
			stateIndicator(state),
			AgentStyle(i).Render(display),
			suffix))
	}

	return sb.String()
}

func stateIndicator(state AgentState) string {
	switch state {
	case StateThinking:
		return StatusWarn.Render("●")
	case StateWaiting:
		return DimStyle.Render("○")
	case StateError:
		return StatusCrit.Render("✗")
	default:
		return StatusOK.Render("●")
	}
}

func formatElapsed(elapsed time.Duration) string {
	if elapsed < time.Second {
		return "<1s"
	}
	if elapsed < time.Minute {
		return fmt.Sprintf("%ds", int(elapsed.Seconds()))
	}
	return fmt.Sprintf("%dm%ds", int(elapsed.Minutes()), int(elapsed.Seconds())%60)
}

// TranscriptView pairs a transcript with a scrolling viewport.
type TranscriptView struct {
	Transcript *Transcript
	Viewport   viewport.Model
}

func NewTranscriptView(t *Transcript, width, height int) *TranscriptView {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return &TranscriptView{Transcript: t, Viewport: vp}
}

// Refresh re-renders the transcript into the viewport and scrolls to the
// bottom.
func (v *TranscriptView) Refresh() {
	v.Viewport.SetContent(v.Transcript.Render(v.Viewport.Width))
	v.Viewport.GotoBottom()
}
