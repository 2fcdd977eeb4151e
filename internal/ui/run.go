// internal/ui/run.go
// Session launching and the bridge between engine goroutines and the
// bubbletea event loop. Engine progress callbacks post messages onto a
// buffered channel; the Update loop drains it one message at a time.
package ui

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/podsni/symposium/internal/analytics"
	"github.com/podsni/symposium/internal/commands"
	"github.com/podsni/symposium/internal/config"
	"github.com/podsni/symposium/internal/council"
	"github.com/podsni/symposium/internal/debate"
	"github.com/podsni/symposium/internal/llm"
	"github.com/podsni/symposium/internal/store"
	"github.com/podsni/symposium/internal/voting"
)

// progressMsg is one engine progress callback, delivered on the tea loop.
type progressMsg struct {
	stage   string
	payload map[string]string
}

// runDoneMsg signals that the engine goroutine returned.
type runDoneMsg struct {
	kind store.Kind
	err  error
}

// chatChunkMsg is one streamed delta of a plain-chat response.
type chatChunkMsg struct {
	text string
}

// chatDoneMsg signals the end of a plain-chat stream.
type chatDoneMsg struct {
	err error
}

// waitEvent re-arms the channel listener. Every received message must
// re-issue this command to keep draining.
func waitEvent(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

// postProgress adapts the engines' synchronous callback to the channel.
// Drops on overflow rather than stalling an LLM call behind a slow UI.
func postProgress(ch chan tea.Msg) func(stage string, payload map[string]string) {
	return func(stage string, payload map[string]string) {
		select {
		case ch <- progressMsg{stage: stage, payload: payload}:
		default:
		}
	}
}

// Built-in personas used when the config defines no debaters.
var builtinPresets = []config.DebaterPreset{
	{
		Name: "Advocate", Icon: "🔥",
		Perspective:       "Argue for the strongest version of the idea and what is gained by acting on it.",
		BeliefPersistence: 0.5, ReasoningDepth: 0.7, TruthSeeking: 0.6,
	},
	{
		Name: "Skeptic", Icon: "🧐",
		Perspective:       "Probe for weaknesses, hidden costs and reasons the idea fails in practice.",
		BeliefPersistence: 0.7, ReasoningDepth: 0.8, TruthSeeking: 0.7,
	},
	{
		Name: "Pragmatist", Icon: "⚖️",
		Perspective:       "Weigh both sides against real-world constraints and look for the workable middle.",
		BeliefPersistence: 0.4, ReasoningDepth: 0.6, TruthSeeking: 0.9,
	},
}

// buildDebaters turns config presets into session debaters. Presets
// without a binding fall back to the judge.
func buildDebaters(cfg *config.Config) []debate.Debater {
	presets := cfg.Debaters
	if len(presets) == 0 {
		presets = builtinPresets
	}

	out := make([]debate.Debater, 0, len(presets))
	for _, p := range presets {
		binding := llm.Binding{Provider: p.Binding.Provider, Model: p.Binding.Model}
		if binding.Provider == "" {
			binding = llm.Binding{Provider: cfg.Judge.Provider, Model: cfg.Judge.Model}
		}
		out = append(out, debate.Debater{
			ID:                uuid.NewString(),
			Name:              p.Name,
			Icon:              p.Icon,
			Binding:           binding,
			Perspective:       p.Perspective,
			BeliefPersistence: p.BeliefPersistence,
			ReasoningDepth:    p.ReasoningDepth,
			TruthSeeking:      p.TruthSeeking,
		})
	}
	return out
}

// councilBindings resolves every seat's binding from the config.
func councilBindings(cfg *config.Config) map[council.Role]llm.Binding {
	out := make(map[council.Role]llm.Binding, len(council.AllRoles))
	for _, role := range council.AllRoles {
		b := cfg.CouncilBinding(string(role))
		out[role] = llm.Binding{Provider: b.Provider, Model: b.Model}
	}
	return out
}

// launchDebate builds a session from the command and starts the engine
// on its own goroutine.
func (m *Model) launchDebate(c commands.StartDebate) {
	format := debate.Format(c.Format)
	if c.Format == "" {
		format = debate.FormatVoting
	}
	system := voting.System(c.System)
	if c.System == "" {
		system = voting.System(m.cfg.Defaults.VotingSystem)
	}
	rounds := c.Rounds
	if rounds == 0 {
		rounds = m.cfg.Defaults.MaxRounds
	}
	threshold := c.Threshold
	if threshold == 0 {
		threshold = m.cfg.Defaults.ConsensusThreshold
	}

	debaters := buildDebaters(m.cfg)
	sess := debate.NewSession(c.Question, format, system, debaters, threshold, rounds)

	judge := llm.Binding{Provider: m.cfg.Judge.Provider, Model: m.cfg.Judge.Model}
	eng := debate.NewEngine(m.client, judge,
		debate.WithProgress(m.progressFn(sess.ID)),
		debate.WithMaxTokens(m.cfg.Defaults.MaxTokens),
	)

	m.debateSess = sess
	m.debateEng = eng
	m.councilSess = nil
	m.councilEng = nil
	m.running = true

	names := make([]string, len(debaters))
	for i, d := range debaters {
		names[i] = d.Name
	}
	m.transcript.SetAgents(names)

	go m.runDebate(eng, sess)
}

func (m *Model) runDebate(eng *debate.Engine, sess *debate.Session) {
	err := eng.Run(context.Background(), sess)
	if err == nil {
		if sess.Status == debate.StatusCompleted {
			if aerr := analytics.Attach(sess); aerr != nil {
				log.Printf("[ui] attach analytics: %v", aerr)
			}
		}
		if m.store != nil {
			if perr := m.store.SaveDebate(sess); perr != nil {
				log.Printf("[ui] save debate session %s: %v", sess.ID, perr)
			}
		}
	}
	m.events <- runDoneMsg{kind: store.KindDebate, err: err}
}

// launchCouncil builds a council session and starts its engine.
func (m *Model) launchCouncil(c commands.StartCouncil) {
	mode := council.Mode(c.Mode)
	if c.Mode == "" {
		mode = council.Mode(m.cfg.Defaults.CouncilMode)
	}

	sess := council.NewSession(c.Question, mode, councilBindings(m.cfg))
	m.startCouncil(sess)
}

// resumeCouncil re-runs a checkpointed session; the engine picks up at
// the first incomplete stage.
func (m *Model) resumeCouncil(sess *council.Session) {
	m.startCouncil(sess)
}

func (m *Model) startCouncil(sess *council.Session) {
	opts := []council.Option{
		council.WithProgress(m.progressFn(sess.ID)),
		council.WithMaxTokens(m.cfg.Defaults.MaxTokens),
	}
	if m.store != nil {
		opts = append(opts, council.WithStore(m.store.Councils()))
	}
	eng := council.NewEngine(m.client, opts...)

	m.councilSess = sess
	m.councilEng = eng
	m.debateSess = nil
	m.debateEng = nil
	m.running = true

	names := make([]string, len(council.AllRoles))
	for i, role := range council.AllRoles {
		names[i] = council.ProfileFor(role).Name
	}
	m.transcript.SetAgents(names)

	go func() {
		err := eng.Run(context.Background(), sess)
		m.events <- runDoneMsg{kind: store.KindCouncil, err: err}
	}()
}

// launchChat streams a single judge-model answer for input that is
// neither a command nor an intent. Chunks arrive as chatChunkMsg and
// grow the last transcript entry in place.
func (m *Model) launchChat(question string) {
	judge := llm.Binding{Provider: m.cfg.Judge.Provider, Model: m.cfg.Judge.Model}
	m.running = true
	m.status = "Thinking"
	m.transcript.Add(judge.Model, RoleStyle("judge"), "")

	go func() {
		_, err := m.client.Stream(context.Background(), judge,
			[]llm.Message{llm.UserMessage(question)},
			m.cfg.Defaults.MaxTokens,
			func(chunk string) {
				m.events <- chatChunkMsg{text: chunk}
			})
		m.events <- chatDoneMsg{err: err}
	}()
}

func (m *Model) progressFn(sessionID string) func(stage string, payload map[string]string) {
	post := postProgress(m.events)
	if m.emitter == nil {
		return post
	}
	emit := m.emitter.Progress(sessionID)
	return func(stage string, payload map[string]string) {
		post(stage, payload)
		emit(stage, payload)
	}
}
