// internal/debate/engine.go
package debate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/podsni/symposium/internal/events"
	"github.com/podsni/symposium/internal/llm"
	"github.com/podsni/symposium/internal/parse"
	"github.com/podsni/symposium/internal/voting"
)

// ErrTooFewDebaters is returned when a session has fewer than two debaters.
var ErrTooFewDebaters = errors.New("debate needs at least two debaters")

const defaultMaxTokens = 1024

// Engine drives a debate session round by round. One call at a time: each
// prompt depends on the full transcript of everything before it, so there
// is no per-agent fan-out.
type Engine struct {
	invoker    llm.Invoker
	judge      llm.Binding
	maxTokens  int
	rng        *rand.Rand
	onProgress events.ProgressFunc
	stopped    atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithProgress sets the synchronous progress callback.
func WithProgress(fn events.ProgressFunc) Option {
	return func(e *Engine) { e.onProgress = fn }
}

// WithRand sets the random source for the belief-noise sign. The default
// is time-seeded; tests inject a fixed seed. The noise itself is a
// deliberate, documented non-determinism of belief revision.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithMaxTokens sets the per-call response budget.
func WithMaxTokens(n int) Option {
	return func(e *Engine) { e.maxTokens = n }
}

// NewEngine creates a debate engine. judge is the binding used for the
// single judge-decision call, by convention the most capable model.
func NewEngine(invoker llm.Invoker, judge llm.Binding, opts ...Option) *Engine {
	e := &Engine{
		invoker:   invoker,
		judge:     judge,
		maxTokens: defaultMaxTokens,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stop requests cooperative cancellation. The in-flight agent call (if
// any) runs to completion and its result is stored; no new calls start.
func (e *Engine) Stop() {
	e.stopped.Store(true)
}

// Run executes the session to completion (or cancellation). Per-agent
// failures are logged and skipped; only a malformed session errors out.
func (e *Engine) Run(ctx context.Context, s *Session) error {
	if len(s.Debaters) < 2 {
		return ErrTooFewDebaters
	}
	e.stopped.Store(false)
	s.Status = StatusInProgress
	s.Resumable = false
	e.progress(events.EventSessionStarted, map[string]string{
		"session_id": s.ID,
		"format":     string(s.Format),
		"question":   events.Truncate(s.Question, 120),
	})

	switch s.Format {
	case FormatClassic:
		e.runClassic(ctx, s)
	case FormatTournament:
		e.runTournament(ctx, s)
	case FormatTeam:
		assignTeams(s)
		e.runRoundLoop(ctx, s)
	default: // voting, panel
		e.runRoundLoop(ctx, s)
	}

	if s.Status == StatusStopped {
		s.UpdatedAt = nowMillis()
		e.progress(events.EventSessionStopped, map[string]string{"session_id": s.ID})
		return nil
	}

	e.judgeDecision(ctx, s)

	s.Status = StatusCompleted
	s.UpdatedAt = nowMillis()
	e.progress(events.EventSessionCompleted, map[string]string{"session_id": s.ID})
	return nil
}

// runRoundLoop is the standard loop: an opening round, then argument
// rounds each followed by a ranked vote, until consensus or the round
// budget (rounds 0..MaxRounds) is exhausted.
func (e *Engine) runRoundLoop(ctx context.Context, s *Session) {
	for i := 0; i <= s.MaxRounds; i++ {
		if e.cancelled(ctx) {
			s.Status = StatusStopped
			return
		}

		rt := RoundArgument
		if i == 0 {
			rt = RoundOpening
		}
		round := e.runRound(ctx, s, i, rt)
		s.Rounds = append(s.Rounds, round)
		s.UpdatedAt = nowMillis()
		e.progress(events.EventRoundCompleted, map[string]string{
			"session_id": s.ID,
			"round":      fmt.Sprintf("%d", i),
			"arguments":  fmt.Sprintf("%d", len(round.Arguments)),
		})

		if e.cancelled(ctx) {
			s.Status = StatusStopped
			return
		}

		// Round 0 is always an opening round with no voting.
		if i == 0 {
			continue
		}

		res, reached := e.runVote(ctx, s, &s.Rounds[len(s.Rounds)-1])
		if reached {
			s.WinnerID = res.Leader
			e.progress(events.EventConsensusReached, map[string]string{
				"session_id": s.ID,
				"leader":     res.Leader,
				"agreement":  fmt.Sprintf("%.2f", res.Agreement),
			})
			return
		}
	}
}

// runClassic fixes the round count at exactly three (opening, argument,
// rebuttal) with no voting between rounds.
func (e *Engine) runClassic(ctx context.Context, s *Session) {
	types := []RoundType{RoundOpening, RoundArgument, RoundRebuttal}
	for i, rt := range types {
		if e.cancelled(ctx) {
			s.Status = StatusStopped
			return
		}
		round := e.runRound(ctx, s, i, rt)
		s.Rounds = append(s.Rounds, round)
		s.UpdatedAt = nowMillis()
		e.progress(events.EventRoundCompleted, map[string]string{
			"session_id": s.ID,
			"round":      fmt.Sprintf("%d", i),
		})
	}
}

// runRound gathers one argument per debater in stable registration order.
// A failed call means that debater abstains this round; the round proceeds
// with fewer arguments.
func (e *Engine) runRound(ctx context.Context, s *Session, idx int, rt RoundType) Round {
	round := Round{Index: idx, Type: rt, Arguments: []Argument{}}
	prompt := userPrompt(s, rt)

	for i := range s.Debaters {
		if e.cancelled(ctx) {
			return round
		}
		d := &s.Debaters[i]

		msgs := []llm.Message{
			llm.SystemPrompt(systemPrompt(s, d)),
			llm.UserMessage(prompt),
		}
		text, err := e.invoker.Complete(ctx, d.Binding, msgs, e.maxTokens)
		if err != nil {
			log.Printf("[debate] %s abstains round %d: %v", d.Name, idx, err)
			continue
		}

		belief := e.updateBelief(d, text)
		round.Arguments = append(round.Arguments, Argument{
			DebaterID: d.ID,
			Content:   text,
			CreatedAt: nowMillis(),
			Belief:    belief,
		})
		e.progress("argument", map[string]string{
			"session_id": s.ID,
			"debater":    d.Name,
			"round":      fmt.Sprintf("%d", idx),
		})
	}
	return round
}

// runVote asks every debater to rank all participants, tallies the
// ballots under the session's voting system and attaches the outcome to
// the round. Unparseable responses contribute no vote.
func (e *Engine) runVote(ctx context.Context, s *Session, round *Round) (voting.Result, bool) {
	prompt := votePrompt(s, round)

	for i := range s.Debaters {
		if e.cancelled(ctx) {
			break
		}
		d := &s.Debaters[i]

		msgs := []llm.Message{
			llm.SystemPrompt(fmt.Sprintf("You are %s, voting on the debate round you just took part in.", d.Name)),
			llm.UserMessage(prompt),
		}
		text, err := e.invoker.Complete(ctx, d.Binding, msgs, e.maxTokens)
		if err != nil {
			log.Printf("[debate] %s abstains from round %d vote: %v", d.Name, round.Index, err)
			continue
		}

		ranking, ok := parse.ExtractJSONArray(text)
		if !ok {
			log.Printf("[debate] %s ballot unparseable, no vote recorded", d.Name)
			continue
		}
		round.Votes = append(round.Votes, voting.Ballot{VoterID: d.ID, Ranking: ranking})
	}

	res := voting.Tally(round.Votes, s.DebaterIDs(), s.VotingSystem)
	reached := res.Reached(s.ConsensusThreshold)
	round.ConsensusReached = &reached
	return res, reached
}

// judgeDecision makes the single neutral-judge call and stores the full
// response verbatim. A failure here is the only top-level degradation:
// logged, FinalDecision left empty, session still completes.
func (e *Engine) judgeDecision(ctx context.Context, s *Session) {
	msgs := []llm.Message{llm.UserMessage(judgePrompt(s))}
	text, err := e.invoker.Complete(ctx, e.judge, msgs, e.maxTokens*2)
	if err != nil {
		log.Printf("[debate] judge decision failed, session completes without one: %v", err)
		return
	}
	s.FinalDecision = text
}

// updateBelief applies the belief revision rule: shift scaled by how much
// new information the argument carries (capped at 0.3), damped by the
// persistence trait, amplified by truth seeking, with a random ±1 sign.
// The result always stays in [0,1].
func (e *Engine) updateBelief(d *Debater, text string) *float64 {
	current := 0.5
	if d.InternalBelief != nil {
		current = *d.InternalBelief
	}

	strength := math.Min(float64(len(text))/1000.0, 0.3)
	shift := strength * (1 - d.BeliefPersistence) * (0.5 + d.TruthSeeking/2)
	if e.rng.Intn(2) == 0 {
		shift = -shift
	}

	next := clamp01(current + shift)
	d.InternalBelief = &next

	b := next
	return &b
}

// assignTeams partitions debaters into two teams at ceil(N/2).
func assignTeams(s *Session) {
	split := (len(s.Debaters) + 1) / 2
	teamA := Team{Name: "Team A"}
	teamB := Team{Name: "Team B"}
	for i := range s.Debaters {
		if i < split {
			s.Debaters[i].Team = teamA.Name
			teamA.DebaterIDs = append(teamA.DebaterIDs, s.Debaters[i].ID)
		} else {
			s.Debaters[i].Team = teamB.Name
			teamB.DebaterIDs = append(teamB.DebaterIDs, s.Debaters[i].ID)
		}
	}
	s.Teams = []Team{teamA, teamB}
}

func (e *Engine) cancelled(ctx context.Context) bool {
	return e.stopped.Load() || ctx.Err() != nil
}

func (e *Engine) progress(stage string, payload map[string]string) {
	if e.onProgress != nil {
		e.onProgress(stage, payload)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
