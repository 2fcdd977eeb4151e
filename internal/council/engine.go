// internal/council/engine.go
package council

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/podsni/symposium/internal/events"
	"github.com/podsni/symposium/internal/llm"
	"github.com/podsni/symposium/internal/parse"
)

const defaultMaxTokens = 1024

// perCallOverhead is the fixed token allowance per agent call on top of
// the question itself: role prompt, transcript scaffolding and the
// response budget.
const perCallOverhead = 600

// errHalted signals that a stop or cancellation was observed inside a
// stage loop. Internal: Run converts it into a checkpoint, never an error.
var errHalted = errors.New("run halted")

// Store is the session persistence contract. Save is best-effort from
// the engine's perspective: failures are logged, never fatal. Load
// returning (nil, nil) means the session does not exist.
type Store interface {
	Save(s *Session) error
	Load(id string) (*Session, error)
}

// Engine drives the six-stage council pipeline. One agent call at a
// time: every prompt depends on the full transcript before it. A single
// Engine instance owns one session per Run call.
type Engine struct {
	invoker    llm.Invoker
	store      Store
	maxTokens  int
	onProgress events.ProgressFunc

	mu      sync.Mutex
	cond    *sync.Cond
	paused  bool
	stopped bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore sets the session store used for checkpoints.
func WithStore(st Store) Option {
	return func(e *Engine) { e.store = st }
}

// WithProgress sets the synchronous progress callback.
func WithProgress(fn events.ProgressFunc) Option {
	return func(e *Engine) { e.onProgress = fn }
}

// WithMaxTokens sets the per-call response budget.
func WithMaxTokens(n int) Option {
	return func(e *Engine) { e.maxTokens = n }
}

// NewEngine creates a council engine.
func NewEngine(invoker llm.Invoker, opts ...Option) *Engine {
	e := &Engine{
		invoker:   invoker,
		maxTokens: defaultMaxTokens,
	}
	e.cond = sync.NewCond(&e.mu)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pause requests that the run block at the next loop boundary. The
// in-flight call (if any) completes and its result is stored first.
func (e *Engine) Pause() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()
}

// Resume releases a paused run.
func (e *Engine) Resume() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()
	e.cond.Broadcast()
}

// Stop requests a checkpoint: the run finishes its in-flight call,
// persists the session with state paused and returns. Stop never
// discards work; re-entering Run on the saved session resumes it.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()
	e.cond.Broadcast()
}

// Run executes the pipeline from wherever the session's stage markers
// say it left off. Completed stages are skipped; a stage interrupted
// mid-loop has its partial output cleared and restarts from its first
// call, so resumption never duplicates stored outputs.
//
// The only error returns are fatal: every proposal vetoed, or a failed
// moderator decision call. Everything else degrades per stage.
func (e *Engine) Run(ctx context.Context, s *Session) error {
	// Cancellation must wake a paused waiter. The lock ensures a waiter
	// between its ctx check and Wait cannot miss the broadcast.
	stopWake := context.AfterFunc(ctx, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.cond.Broadcast()
	})
	defer stopWake()

	e.mu.Lock()
	e.stopped = false
	e.mu.Unlock()

	params := ParamsFor(s.Mode)
	resuming := s.startedBefore()
	s.State = StateRunning
	s.Tokens.Estimated = estimateRun(s, params)
	s.UpdatedAt = nowMillis()

	startEvent := events.EventSessionStarted
	if resuming {
		startEvent = events.EventSessionResumed
	}
	e.progress(startEvent, map[string]string{
		"session_id": s.ID,
		"mode":       string(s.Mode),
		"question":   events.Truncate(s.Question, 120),
	})

	for _, stage := range StageOrder {
		if skipReason := stageSkip(stage, params); skipReason != "" {
			s.Stages[stage] = StageDone
			continue
		}
		if s.Stages[stage] == StageDone {
			continue
		}
		if s.Stages[stage] == StageInProgress {
			clearPartial(s, stage)
		}

		if e.halted(ctx, s) {
			e.checkpoint(s)
			return nil
		}

		s.Stages[stage] = StageInProgress
		e.save(s)

		err := e.runStage(ctx, s, stage, params)
		switch {
		case errors.Is(err, errHalted):
			e.checkpoint(s)
			return nil
		case err != nil:
			s.State = StateError
			s.Error = err.Error()
			s.UpdatedAt = nowMillis()
			e.save(s)
			e.progress(events.EventSessionFailed, map[string]string{
				"session_id": s.ID,
				"error":      err.Error(),
			})
			return err
		}

		s.Stages[stage] = StageDone
		s.UpdatedAt = nowMillis()
		e.save(s)
		e.progress(events.EventStageCompleted, map[string]string{
			"session_id": s.ID,
			"stage":      string(stage),
		})
	}

	s.State = StateCompleted
	s.UpdatedAt = nowMillis()
	e.save(s)
	e.progress(events.EventSessionCompleted, map[string]string{
		"session_id":  s.ID,
		"tokens_used": fmt.Sprintf("%d", s.Tokens.Used),
	})
	return nil
}

func (e *Engine) runStage(ctx context.Context, s *Session, stage Stage, params Params) error {
	switch stage {
	case StageOpinions:
		return e.runOpinions(ctx, s)
	case StageDebate:
		return e.runDebate(ctx, s, params)
	case StageProposals:
		return e.runProposals(ctx, s)
	case StageVoting:
		return e.runVoting(ctx, s, params)
	case StageDecision:
		return e.runDecision(ctx, s, params)
	case StageReflection:
		return e.runReflection(ctx, s)
	}
	return nil
}

// stageSkip names why a stage does not run at all under the mode, or
// returns "" if it does.
func stageSkip(stage Stage, params Params) string {
	if stage == StageDebate && params.MaxDebateRounds <= 1 {
		return "no debate rounds in this mode"
	}
	if stage == StageReflection && !params.ReflectionEnabled {
		return "reflection disabled in this mode"
	}
	return ""
}

// runOpinions gathers one opening perspective per voting role. A failed
// call is logged and skipped: that seat simply contributes no opinion.
func (e *Engine) runOpinions(ctx context.Context, s *Session) error {
	prompt := opinionPrompt(s)
	for _, role := range VotingRoles {
		if e.halted(ctx, s) {
			return errHalted
		}
		text, err := e.call(ctx, s, role, prompt)
		if err != nil {
			log.Printf("[council] %s contributes no opinion: %v", role, err)
			continue
		}
		s.Opinions = append(s.Opinions, Opinion{
			Role: role, Round: 0, Content: text, CreatedAt: nowMillis(),
		})
		e.progress("opinion", map[string]string{
			"session_id": s.ID,
			"role":       string(role),
		})
	}
	return nil
}

// runDebate runs maxDebateRounds-1 additional rounds, each role
// responding to the full transcript of everything before the round.
func (e *Engine) runDebate(ctx context.Context, s *Session, params Params) error {
	for round := 1; round < params.MaxDebateRounds; round++ {
		prompt := debatePrompt(s, round)
		for _, role := range VotingRoles {
			if e.halted(ctx, s) {
				return errHalted
			}
			text, err := e.call(ctx, s, role, prompt)
			if err != nil {
				log.Printf("[council] %s sits out debate round %d: %v", role, round, err)
				continue
			}
			s.Opinions = append(s.Opinions, Opinion{
				Role: role, Round: round, Content: text, CreatedAt: nowMillis(),
			})
		}
		e.progress(events.EventRoundCompleted, map[string]string{
			"session_id": s.ID,
			"round":      fmt.Sprintf("%d", round),
		})
	}
	return nil
}

// runProposals asks each voting role for a structured proposal.
// Unparseable output still yields a proposal via the raw-text fallback.
func (e *Engine) runProposals(ctx context.Context, s *Session) error {
	prompt := proposalPrompt(s)
	for _, role := range VotingRoles {
		if e.halted(ctx, s) {
			return errHalted
		}
		text, err := e.call(ctx, s, role, prompt)
		if err != nil {
			log.Printf("[council] %s submits no proposal: %v", role, err)
			continue
		}
		res := parse.Proposal(text)
		s.Proposals = append(s.Proposals, Proposal{
			ID:          NewProposalID(),
			Role:        role,
			Title:       res.Value.Title,
			Description: res.Value.Description,
			Steps:       res.Value.Steps,
			Risks:       res.Value.Risks,
			Benefits:    res.Value.Benefits,
			Fallback:    res.Fallback,
			CreatedAt:   nowMillis(),
		})
		e.progress("proposal", map[string]string{
			"session_id": s.ID,
			"role":       string(role),
		})
	}
	return nil
}

// runVoting has every voting role score every proposal on the five
// dimensions. The audit scan's findings ride along in the prompt. A
// strategist ethics score below the mode threshold marks the vote as a
// veto; whether that excludes the proposal is decided at selection time.
func (e *Engine) runVoting(ctx context.Context, s *Session, params Params) error {
	for i := range s.Proposals {
		p := &s.Proposals[i]
		findings := AuditProposal(p)
		if len(findings) > 0 {
			log.Printf("[council] audit flagged proposal %q: %v", p.Title, findings)
		}
		prompt := votePrompt(s, p, findings)

		for _, role := range VotingRoles {
			if e.halted(ctx, s) {
				return errHalted
			}
			text, err := e.call(ctx, s, role, prompt)
			if err != nil {
				log.Printf("[council] %s abstains on proposal %q: %v", role, p.Title, err)
				continue
			}
			res := parse.Vote(text)
			scores := DimensionScores{
				Logic:       res.Value.Logic,
				Feasibility: res.Value.Feasibility,
				Safety:      res.Value.Safety,
				Benefit:     res.Value.Benefit,
				Ethics:      res.Value.Ethics,
			}
			s.Votes = append(s.Votes, Vote{
				Role:       role,
				ProposalID: p.ID,
				Scores:     scores,
				Overall:    scores.Mean(),
				Veto:       role == RoleStrategist && scores.Ethics < params.EthicsThreshold,
				Reasoning:  res.Value.Reasoning,
				CreatedAt:  nowMillis(),
			})
		}
	}
	return nil
}

// runDecision is the fatal path: an empty post-veto candidate set or a
// failed moderator call propagates up and marks the session errored.
func (e *Engine) runDecision(ctx context.Context, s *Session, params Params) error {
	weights := WeightsFor(params.WeightStrategy, s.Question)
	scores := Weigh(s.Proposals, s.Votes, weights)
	winner, err := SelectWinner(scores, params.VetoEnabled)
	if err != nil {
		return err
	}

	p := s.ProposalByID(winner.ProposalID)
	if p == nil {
		return fmt.Errorf("winning proposal %s not found", winner.ProposalID)
	}
	notes := MinorityNotes(s.Votes, winner.ProposalID)

	if e.halted(ctx, s) {
		return errHalted
	}
	text, err := e.call(ctx, s, RoleModerator, decisionPrompt(s, p, winner.Score, notes))
	if err != nil {
		return fmt.Errorf("moderator decision: %w", err)
	}

	res := parse.Decision(text)
	s.Decision = &Decision{
		SelectedProposalID: winner.ProposalID,
		FinalScore:         winner.Score,
		Reasoning:          res.Value.Reasoning,
		Recommendations:    res.Value.Recommendations,
		Risks:              res.Value.Risks,
		Mitigations:        res.Value.Mitigations,
		Consensus:          res.Value.Consensus,
		MinorityNotes:      notes,
	}
	e.progress("decision", map[string]string{
		"session_id": s.ID,
		"proposal":   p.Title,
		"score":      fmt.Sprintf("%.2f", winner.Score),
	})
	return nil
}

// runReflection degrades gracefully: a failed moderator call leaves the
// session without a reflection but still completed.
func (e *Engine) runReflection(ctx context.Context, s *Session) error {
	if e.halted(ctx, s) {
		return errHalted
	}
	text, err := e.call(ctx, s, RoleModerator, reflectionPrompt(s))
	if err != nil {
		log.Printf("[council] reflection skipped: %v", err)
		return nil
	}
	res := parse.Reflection(text)
	s.Reflection = &Reflection{
		WentWell:          res.Value.WentWell,
		CouldHaveImproved: res.Value.CouldHaveImproved,
		Learnings:         res.Value.Learnings,
		Summary:           res.Value.Summary,
	}
	return nil
}

// call issues one agent invocation under the role's profile prompt and
// records its token cost.
func (e *Engine) call(ctx context.Context, s *Session, role Role, prompt string) (string, error) {
	msgs := []llm.Message{
		llm.SystemPrompt(ProfileFor(role).Prompt),
		llm.UserMessage(prompt),
	}
	text, err := e.invoker.Complete(ctx, s.Bindings[role], msgs, e.maxTokens)
	if err != nil {
		return "", err
	}
	s.Tokens.Record(prompt, text)
	return text, nil
}

// halted blocks while paused and reports whether the run should
// checkpoint. Wakeups come from Resume, Stop and context cancellation.
// Entering the paused wait is announced once per pause; the lock is
// released around the callback so it may call Resume.
func (e *Engine) halted(ctx context.Context, s *Session) bool {
	e.mu.Lock()
	if e.paused && !e.stopped && ctx.Err() == nil {
		e.mu.Unlock()
		e.progress(events.EventSessionPaused, map[string]string{"session_id": s.ID})
		e.mu.Lock()
	}
	for e.paused && !e.stopped && ctx.Err() == nil {
		e.cond.Wait()
	}
	h := e.stopped || ctx.Err() != nil
	e.mu.Unlock()
	return h
}

// checkpoint persists the session as paused. Stop means "save here",
// never "discard".
func (e *Engine) checkpoint(s *Session) {
	s.State = StatePaused
	s.UpdatedAt = nowMillis()
	e.save(s)
	e.progress(events.EventSessionStopped, map[string]string{"session_id": s.ID})
}

// clearPartial drops everything an interrupted stage produced so that
// re-running it cannot duplicate stored outputs.
func clearPartial(s *Session, stage Stage) {
	switch stage {
	case StageOpinions:
		s.Opinions = filterOpinions(s.Opinions, func(o Opinion) bool { return o.Round != 0 })
	case StageDebate:
		s.Opinions = filterOpinions(s.Opinions, func(o Opinion) bool { return o.Round == 0 })
	case StageProposals:
		s.Proposals = []Proposal{}
	case StageVoting:
		s.Votes = []Vote{}
	case StageDecision:
		s.Decision = nil
	case StageReflection:
		s.Reflection = nil
	}
	s.Stages[stage] = StageNotStarted
}

func filterOpinions(in []Opinion, keep func(Opinion) bool) []Opinion {
	out := make([]Opinion, 0, len(in))
	for _, o := range in {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// startedBefore reports whether any stage has progressed, marking this
// Run call a resumption.
func (s *Session) startedBefore() bool {
	for _, st := range s.Stages {
		if st != StageNotStarted {
			return true
		}
	}
	return false
}

// estimateRun is the advisory closed-form token estimate: call count per
// stage times a per-call budget derived from the question length. Never
// used to abort a run.
func estimateRun(s *Session, params Params) int {
	q := llm.EstimateTokens(s.Question)

	// Opinions, then debate rounds, then one proposal per role, then
	// one vote per role per proposal, then the moderator calls.
	calls := len(VotingRoles)
	if params.MaxDebateRounds > 1 {
		calls += len(VotingRoles) * (params.MaxDebateRounds - 1)
	}
	calls += len(VotingRoles)
	calls += len(VotingRoles) * len(VotingRoles)
	calls++
	if params.ReflectionEnabled {
		calls++
	}
	return calls * (q + perCallOverhead)
}

func (e *Engine) save(s *Session) {
	if e.store == nil {
		return
	}
	if err := e.store.Save(s); err != nil {
		log.Printf("[council] save session %s: %v", s.ID, err)
	}
}

func (e *Engine) progress(stage string, payload map[string]string) {
	if e.onProgress != nil {
		e.onProgress(stage, payload)
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
