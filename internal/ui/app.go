// internal/ui/app.go
// The root bubbletea model: one input line, a scrolling transcript, an
// agent sidebar and overlay views for history and help. Sessions run on
// worker goroutines; the model only touches a session before launch and
// after the done message arrives.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/podsni/symposium/internal/commands"
	"github.com/podsni/symposium/internal/config"
	"github.com/podsni/symposium/internal/council"
	"github.com/podsni/symposium/internal/debate"
	"github.com/podsni/symposium/internal/events"
	"github.com/podsni/symposium/internal/export"
	"github.com/podsni/symposium/internal/intents"
	"github.com/podsni/symposium/internal/llm"
	"github.com/podsni/symposium/internal/store"
)

const sidebarWidth = 26

// animTickMsg drives the thinking animation while a session runs.
type animTickMsg struct{}

func animTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
		return animTickMsg{}
	})
}

// Client is the provider surface the UI needs: engine calls plus the
// streamed plain-chat path.
type Client interface {
	llm.Invoker
	llm.Streamer
}

// Model is the application root.
type Model struct {
	cfg      *config.Config
	client   Client
	registry *llm.Registry
	store    *store.Store
	emitter  *events.Emitter

	width, height int
	ready         bool

	input      textinput.Model
	spin       spinner.Model
	transcript *Transcript
	view       *TranscriptView
	history    *HistoryState
	mode       ViewMode

	events chan tea.Msg

	debateSess  *debate.Session
	debateEng   *debate.Engine
	councilSess *council.Session
	councilEng  *council.Engine

	running bool
	paused  bool
	status  string
}

// New builds the root model. store may be nil; sessions then live only
// in memory.
func New(cfg *config.Config, client Client, registry *llm.Registry, st *store.Store, emitter *events.Emitter) Model {
	input := textinput.New()
	input.Placeholder = "Ask a question, or /help for commands"
	input.Prompt = "> "
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Cyan)

	transcript := NewTranscript()

	return Model{
		cfg:        cfg,
		client:     client,
		registry:   registry,
		store:      st,
		emitter:    emitter,
		input:      input,
		spin:       sp,
		transcript: transcript,
		view:       NewTranscriptView(transcript, 80, 20),
		history:    NewHistoryState(),
		events:     make(chan tea.Msg, 256),
		status:     fmt.Sprintf("Ready - %d providers, judge %s/%s", registry.Count(), registry.Judge().Provider, registry.Judge().Model),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, waitEvent(m.events), animTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.view.Viewport.Width = maxInt(m.width-sidebarWidth-6, 20)
		m.view.Viewport.Height = maxInt(m.height-7, 5)
		m.history.SetMaxHeight(m.height)
		m.view.Refresh()
		return m, nil

	case progressMsg:
		m.handleProgress(msg)
		m.view.Refresh()
		return m, waitEvent(m.events)

	case runDoneMsg:
		m.handleDone(msg)
		m.view.Refresh()
		return m, waitEvent(m.events)

	case chatChunkMsg:
		m.transcript.AppendToLast(msg.text)
		m.view.Refresh()
		return m, waitEvent(m.events)

	case chatDoneMsg:
		m.running = false
		m.status = "Ready"
		if msg.err != nil {
			m.transcript.AddError(msg.err.Error())
		}
		m.view.Refresh()
		return m, waitEvent(m.events)

	case animTickMsg:
		if m.running {
			m.transcript.TickAnimation()
		}
		return m, animTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || key == "ctrl+q" {
		return m, tea.Quit
	}

	switch m.mode {
	case ViewHistory:
		return m.handleHistoryKey(key)
	case ViewHelp:
		if key == "esc" || key == "f1" || key == "?" {
			m.mode = ViewNormal
		}
		return m, nil
	}

	switch key {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		if text == "" {
			return m, nil
		}
		return m, m.submit(text)

	case "f1":
		m.mode = ViewHelp
		return m, nil

	case "?":
		if m.input.Value() == "" {
			m.mode = ViewHelp
			return m, nil
		}

	case "ctrl+h":
		m.openHistory()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.view.Viewport, cmd = m.view.Viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		m.history.Up()
	case "down", "j":
		m.history.Down()
	case "enter":
		if sel := m.history.Selected(); sel != nil {
			m.mode = ViewNormal
			m.loadSession(sel.ID)
			m.view.Refresh()
		}
	case "x":
		if sel := m.history.Selected(); sel != nil && m.store != nil {
			if err := m.store.Delete(sel.ID); err != nil {
				m.transcript.AddError("delete session: " + err.Error())
			}
			if err := m.history.Load(m.store); err != nil {
				m.transcript.AddError(err.Error())
				m.mode = ViewNormal
			}
		}
	case "esc":
		m.mode = ViewNormal
	}
	return m, nil
}

// submit routes input: slash command first, then natural-language
// intent, otherwise the plain-chat path.
func (m *Model) submit(text string) tea.Cmd {
	m.transcript.Add("You", UserStyle, text)

	cmd := commands.Parse(text)
	if cmd == nil {
		if det := intents.Detect(text); det != nil {
			cmd = det.Command
		}
	}
	if cmd == nil {
		if m.running {
			m.transcript.AddSystem("A session is running; commands only (see /help).")
		} else {
			m.launchChat(text)
		}
		m.view.Refresh()
		return nil
	}

	teaCmd := m.dispatch(cmd)
	m.view.Refresh()
	return teaCmd
}

func (m *Model) dispatch(cmd commands.Command) tea.Cmd {
	switch c := cmd.(type) {
	case commands.Help:
		m.mode = ViewHelp

	case commands.StartDebate:
		if m.running {
			m.transcript.AddError("a session is already running; /stop it first")
			return nil
		}
		m.transcript.AddSystem(fmt.Sprintf("Starting debate: %s", c.Question))
		m.status = "Debate running"
		m.paused = false
		m.launchDebate(c)

	case commands.StartCouncil:
		if m.running {
			m.transcript.AddError("a session is already running; /stop it first")
			return nil
		}
		m.transcript.AddSystem(fmt.Sprintf("Convening council: %s", c.Question))
		m.status = "Council running"
		m.paused = false
		m.launchCouncil(c)

	case commands.Pause:
		if !m.running || m.councilEng == nil {
			m.transcript.AddError("no pausable session is running")
			return nil
		}
		m.councilEng.Pause()
		m.paused = true
		m.status = "Paused"
		m.transcript.AddSystem("Session paused.")

	case commands.Resume:
		return m.handleResume()

	case commands.Stop:
		if !m.running {
			m.transcript.AddError("no session is running")
			return nil
		}
		if m.councilEng != nil {
			m.councilEng.Stop()
		}
		if m.debateEng != nil {
			m.debateEng.Stop()
		}
		m.paused = false
		m.status = "Stopping"
		m.transcript.AddSystem("Stopping after the in-flight call completes.")

	case commands.ShowHistory:
		m.openHistory()

	case commands.LoadSession:
		m.loadSession(c.ID)

	case commands.DeleteSession:
		if m.store == nil {
			m.transcript.AddError("session store not available")
			return nil
		}
		if err := m.store.Delete(c.ID); err != nil {
			m.transcript.AddError("delete session: " + err.Error())
			return nil
		}
		m.transcript.AddSystem("Deleted session " + c.ID)

	case commands.Export:
		m.exportCurrent(c.Format)

	case commands.ShowAgents:
		m.transcript.AddSystem(renderAgents(m.cfg))

	case commands.ShowAnalytics:
		if m.running {
			m.transcript.AddError("wait for the session to finish")
			return nil
		}
		if m.debateSess == nil {
			m.transcript.AddError("no debate session loaded")
			return nil
		}
		m.transcript.AddSystem(renderAnalytics(m.debateSess))

	case commands.SetMode:
		m.cfg.Defaults.CouncilMode = c.Mode
		m.transcript.AddSystem("Default council mode set to " + c.Mode)

	case commands.SetVoting:
		m.cfg.Defaults.VotingSystem = c.System
		m.transcript.AddSystem("Default voting system set to " + c.System)

	case commands.Quit:
		return tea.Quit

	case commands.ParseError:
		m.transcript.AddError(c.Message)
	}

	return nil
}

func (m *Model) handleResume() tea.Cmd {
	switch {
	case m.running && m.paused && m.councilEng != nil:
		m.councilEng.Resume()
		m.paused = false
		m.status = "Council running"
		m.transcript.AddSystem("Session resumed.")
	case !m.running && m.councilSess != nil && m.councilSess.State == council.StatePaused:
		m.transcript.AddSystem("Resuming council from its checkpoint.")
		m.status = "Council running"
		m.resumeCouncil(m.councilSess)
	default:
		m.transcript.AddError("nothing to resume")
	}
	return nil
}

func (m *Model) openHistory() {
	if err := m.history.Load(m.store); err != nil {
		m.transcript.AddError(err.Error())
		m.view.Refresh()
		return
	}
	m.mode = ViewHistory
}

// loadSession pulls a stored session of either kind into the transcript.
func (m *Model) loadSession(id string) {
	if m.store == nil {
		m.transcript.AddError("session store not available")
		return
	}
	if m.running {
		m.transcript.AddError("a session is already running; /stop it first")
		return
	}

	if sess, err := m.store.LoadDebate(id); err != nil {
		m.transcript.AddError("load session: " + err.Error())
		return
	} else if sess != nil {
		m.debateSess = sess
		m.debateEng = nil
		m.councilSess = nil
		m.councilEng = nil
		m.transcript.Clear()
		m.transcript.SetAgents(debaterNames(sess))
		m.transcript.SetAllStates(StateIdle)
		m.transcript.AddSystem(fmt.Sprintf("Loaded debate %s: %s", sess.ID[:8], sess.Question))
		appendDebate(m.transcript, sess, m.view.Viewport.Width)
		m.status = "Loaded " + string(sess.Status)
		return
	}

	if sess, err := m.store.LoadCouncil(id); err != nil {
		m.transcript.AddError("load session: " + err.Error())
		return
	} else if sess != nil {
		m.councilSess = sess
		m.councilEng = nil
		m.debateSess = nil
		m.debateEng = nil
		m.transcript.Clear()
		m.transcript.SetAgents(roleNames())
		m.transcript.SetAllStates(StateIdle)
		m.transcript.AddSystem(fmt.Sprintf("Loaded council %s: %s", sess.ID[:8], sess.Question))
		appendCouncil(m.transcript, sess, m.view.Viewport.Width)
		if sess.State == council.StatePaused {
			m.transcript.AddSystem("Session is checkpointed; /resume continues it.")
		}
		m.status = "Loaded " + string(sess.State)
		return
	}

	m.transcript.AddError("no session with id " + id)
}

func (m *Model) exportCurrent(format string) {
	if m.running {
		m.transcript.AddError("wait for the session to finish")
		return
	}

	baseDir, err := store.DataDir()
	if err != nil {
		m.transcript.AddError("resolve export directory: " + err.Error())
		return
	}

	var path string
	switch {
	case m.debateSess != nil && format == "json":
		data, jerr := export.DebateJSON(m.debateSess)
		if jerr != nil {
			err = jerr
			break
		}
		path, err = export.WriteJSON(data, m.debateSess.Question, m.debateSess.CreatedAt, baseDir)
	case m.debateSess != nil:
		content := export.DebateMarkdown(m.debateSess)
		path, err = export.WriteMarkdown(content, m.debateSess.Question, m.debateSess.CreatedAt, baseDir)
	case m.councilSess != nil && format == "json":
		data, jerr := export.CouncilJSON(m.councilSess)
		if jerr != nil {
			err = jerr
			break
		}
		path, err = export.WriteJSON(data, m.councilSess.Question, m.councilSess.CreatedAt, baseDir)
	case m.councilSess != nil:
		content := export.CouncilMarkdown(m.councilSess)
		path, err = export.WriteMarkdown(content, m.councilSess.Question, m.councilSess.CreatedAt, baseDir)
	default:
		m.transcript.AddError("no session loaded")
		return
	}

	if err != nil {
		m.transcript.AddError("export: " + err.Error())
		return
	}
	m.transcript.AddSystem("Exported to " + path)
}

// handleProgress reflects engine progress into the status bar and the
// agent sidebar. Content is rendered only after the run hands the
// session back.
func (m *Model) handleProgress(p progressMsg) {
	switch p.stage {
	case events.EventSessionStarted, events.EventSessionResumed:
		m.transcript.SetAllStates(StateWaiting)

	case "argument":
		m.transcript.SetState(p.payload["debater"], StateIdle)
		m.status = fmt.Sprintf("Round %s: %s spoke", p.payload["round"], p.payload["debater"])

	case "opinion", "proposal":
		name := council.ProfileFor(council.Role(p.payload["role"])).Name
		m.transcript.SetState(name, StateIdle)
		m.status = name + " contributed"

	case events.EventRoundCompleted:
		m.transcript.SetAllStates(StateWaiting)
		m.status = "Round " + p.payload["round"] + " complete"

	case events.EventStageCompleted:
		m.transcript.SetAllStates(StateWaiting)
		m.status = "Stage complete: " + p.payload["stage"]
		m.transcript.AddSystem("Stage complete: " + p.payload["stage"])

	case events.EventConsensusReached:
		m.transcript.AddSystem(fmt.Sprintf("Consensus reached (agreement %s)", p.payload["agreement"]))

	case "decision":
		m.status = "Decision: " + p.payload["proposal"]

	case events.EventSessionPaused:
		m.status = "Paused"
	}
}

// handleDone renders the finished session and returns control to the
// input line.
func (m *Model) handleDone(d runDoneMsg) {
	m.running = false
	m.paused = false
	m.transcript.SetAllStates(StateIdle)

	if d.err != nil {
		m.status = "Failed"
		m.transcript.AddError(d.err.Error())
	}

	switch d.kind {
	case store.KindDebate:
		if m.debateSess == nil {
			return
		}
		m.transcript.Clear()
		appendDebate(m.transcript, m.debateSess, m.view.Viewport.Width)
		m.status = "Debate " + string(m.debateSess.Status)
	case store.KindCouncil:
		if m.councilSess == nil {
			return
		}
		m.transcript.Clear()
		appendCouncil(m.transcript, m.councilSess, m.view.Viewport.Width)
		m.status = "Council " + string(m.councilSess.State)
		if m.councilSess.State == council.StatePaused {
			m.transcript.AddSystem("Session checkpointed; /resume continues it.")
		}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case ViewHistory:
		return m.history.Render(m.width, m.height)
	case ViewHelp:
		return m.renderHelp()
	}

	title := TitleStyle.Render(" SYMPOSIUM ")
	subtitle := DimStyle.Render(m.currentQuestion())
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", subtitle)

	main := ActiveBox.Width(m.view.Viewport.Width + 2).Render(m.view.Viewport.View())
	sidebar := InactiveBox.Width(sidebarWidth).Render(m.transcript.RenderAgentPanel())
	body := lipgloss.JoinHorizontal(lipgloss.Top, main, sidebar)

	statusLine := m.status
	if m.running {
		statusLine = m.spin.View() + " " + statusLine
	}
	footer := DimStyle.Render(statusLine)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		m.input.View(),
		footer,
	)
}

func (m Model) currentQuestion() string {
	switch {
	case m.debateSess != nil:
		return truncate(m.debateSess.Question, 60)
	case m.councilSess != nil:
		return truncate(m.councilSess.Question, 60)
	}
	return "multi-agent deliberation"
}

func debaterNames(s *debate.Session) []string {
	names := make([]string, len(s.Debaters))
	for i, d := range s.Debaters {
		names[i] = d.Name
	}
	return names
}

func roleNames() []string {
	names := make([]string, len(council.AllRoles))
	for i, role := range council.AllRoles {
		names[i] = council.ProfileFor(role).Name
	}
	return names
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
