// internal/debate/engine_test.go
package debate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/podsni/symposium/internal/llm"
	"github.com/podsni/symposium/internal/voting"
)

// scriptedInvoker routes calls to a handler and counts them. The vote
// prompt is recognized by its ranking instruction.
type scriptedInvoker struct {
	calls  atomic.Int64
	handle func(system, user string, call int64) (string, error)
}

func (m *scriptedInvoker) Complete(_ context.Context, _ llm.Binding, msgs []llm.Message, _ int) (string, error) {
	var system, user string
	for _, msg := range msgs {
		switch msg.Role {
		case llm.RoleSystem:
			system = msg.Content
		case llm.RoleUser:
			user = msg.Content
		}
	}
	n := m.calls.Add(1)
	return m.handle(system, user, n)
}

func isVotePrompt(user string) bool {
	return strings.Contains(user, "Rank ALL participants")
}

func isJudgePrompt(user string) bool {
	return strings.Contains(user, "You are a neutral judge")
}

func mkDebaters(n int) []Debater {
	out := make([]Debater, n)
	for i := range out {
		out[i] = Debater{
			ID:                fmt.Sprintf("d%d", i+1),
			Name:              fmt.Sprintf("Debater %d", i+1),
			Binding:           llm.Binding{Provider: "test", Model: "test-model"},
			BeliefPersistence: 0.5,
			ReasoningDepth:    0.5,
			TruthSeeking:      0.5,
		}
	}
	return out
}

func fixedEngine(inv llm.Invoker) *Engine {
	judge := llm.Binding{Provider: "test", Model: "judge-model"}
	return NewEngine(inv, judge, WithRand(rand.New(rand.NewSource(1))))
}

func TestRunTooFewDebaters(t *testing.T) {
	e := fixedEngine(&scriptedInvoker{handle: func(string, string, int64) (string, error) { return "x", nil }})
	s := NewSession("q", FormatVoting, voting.Ranked, mkDebaters(1), 0.6, 3)
	if err := e.Run(context.Background(), s); !errors.Is(err, ErrTooFewDebaters) {
		t.Fatalf("expected ErrTooFewDebaters, got %v", err)
	}
}

func TestRunUnanimousConsensusStopsAfterRoundOne(t *testing.T) {
	// All four ballots rank d1 first: agreement 4/4 = 1.0 >= 0.6, so the
	// loop must stop after round 1 with no round 2.
	inv := &scriptedInvoker{handle: func(_, user string, _ int64) (string, error) {
		switch {
		case isVotePrompt(user):
			return `["d1","d2","d3","d4"]`, nil
		case isJudgePrompt(user):
			return "d1 carried the debate", nil
		default:
			return "an argument", nil
		}
	}}
	e := fixedEngine(inv)
	s := NewSession("Is the plan sound", FormatVoting, voting.Ranked, mkDebaters(4), 0.6, 5)

	if err := e.Run(context.Background(), s); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(s.Rounds) != 2 {
		t.Fatalf("expected rounds 0 and 1 only, got %d rounds", len(s.Rounds))
	}
	if s.WinnerID != "d1" {
		t.Errorf("expected winner d1, got %q", s.WinnerID)
	}
	last := s.Rounds[len(s.Rounds)-1]
	if last.ConsensusReached == nil || !*last.ConsensusReached {
		t.Error("expected consensus flag on the voted round")
	}
	if s.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", s.Status)
	}
	if s.FinalDecision == "" {
		t.Error("judge decision missing")
	}
}

func TestRunRoundBudgetTermination(t *testing.T) {
	// Every voter ranks itself first: agreement 1/4 forever, no consensus.
	// With MaxRounds=K the session must produce at most K+1 rounds.
	voter := 0
	inv := &scriptedInvoker{handle: func(_, user string, _ int64) (string, error) {
		switch {
		case isVotePrompt(user):
			ids := []string{"d1", "d2", "d3", "d4"}
			self := ids[voter%4]
			voter++
			rest := make([]string, 0, 3)
			for _, id := range ids {
				if id != self {
					rest = append(rest, id)
				}
			}
			return fmt.Sprintf(`["%s","%s","%s","%s"]`, self, rest[0], rest[1], rest[2]), nil
		case isJudgePrompt(user):
			return "split decision", nil
		default:
			return "an argument", nil
		}
	}}
	e := fixedEngine(inv)
	s := NewSession("q", FormatVoting, voting.Ranked, mkDebaters(4), 0.6, 2)

	if err := e.Run(context.Background(), s); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(s.Rounds) != 3 {
		t.Errorf("MaxRounds=2 must yield rounds 0..2, got %d rounds", len(s.Rounds))
	}
	if s.WinnerID != "" {
		t.Errorf("no consensus means no winner, got %q", s.WinnerID)
	}
	if s.FinalDecision == "" {
		t.Error("judge must still decide after the budget is exhausted")
	}
}

func TestRunClassicFormat(t *testing.T) {
	inv := &scriptedInvoker{handle: func(_, user string, _ int64) (string, error) {
		if isVotePrompt(user) {
			t.Error("classic format must never vote")
		}
		return "an argument", nil
	}}
	e := fixedEngine(inv)
	s := NewSession("q", FormatClassic, voting.Ranked, mkDebaters(3), 0.6, 5)

	if err := e.Run(context.Background(), s); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(s.Rounds) != 3 {
		t.Fatalf("classic is exactly 3 rounds, got %d", len(s.Rounds))
	}
	wantTypes := []RoundType{RoundOpening, RoundArgument, RoundRebuttal}
	for i, want := range wantTypes {
		if s.Rounds[i].Type != want {
			t.Errorf("round %d: expected type %s, got %s", i, want, s.Rounds[i].Type)
		}
	}
}

func TestRunFailedDebaterAbstains(t *testing.T) {
	inv := &scriptedInvoker{handle: func(system, user string, _ int64) (string, error) {
		if strings.Contains(system, "Debater 2") && !isVotePrompt(user) {
			return "", errors.New("provider down")
		}
		if isVotePrompt(user) {
			return `["d1","d2","d3"]`, nil
		}
		if isJudgePrompt(user) {
			return "verdict", nil
		}
		return "an argument", nil
	}}
	e := fixedEngine(inv)
	s := NewSession("q", FormatVoting, voting.Ranked, mkDebaters(3), 2.0, 1)

	if err := e.Run(context.Background(), s); err != nil {
		t.Fatalf("a single debater failure must not fail the session: %v", err)
	}
	for _, r := range s.Rounds {
		if len(r.Arguments) != 2 {
			t.Errorf("round %d: expected 2 arguments with one debater down, got %d", r.Index, len(r.Arguments))
		}
	}
}

func TestRunUnparseableBallotContributesNoVote(t *testing.T) {
	inv := &scriptedInvoker{handle: func(system, user string, _ int64) (string, error) {
		if isVotePrompt(user) {
			if strings.Contains(system, "Debater 1") {
				return `I think the answer is ["d1","d3","d2"] based on...`, nil
			}
			return "no ranking here, sorry", nil
		}
		if isJudgePrompt(user) {
			return "verdict", nil
		}
		return "an argument", nil
	}}
	e := fixedEngine(inv)
	s := NewSession("q", FormatVoting, voting.Ranked, mkDebaters(3), 2.0, 1)

	if err := e.Run(context.Background(), s); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	voted := s.Rounds[1]
	if len(voted.Votes) != 1 {
		t.Fatalf("expected exactly 1 parseable ballot, got %d", len(voted.Votes))
	}
	want := []string{"d1", "d3", "d2"}
	for i, id := range want {
		if voted.Votes[0].Ranking[i] != id {
			t.Errorf("ballot position %d: expected %s, got %s", i, id, voted.Votes[0].Ranking[i])
		}
	}
}

func TestRunBeliefStaysBounded(t *testing.T) {
	long := strings.Repeat("a strong argument ", 300)
	inv := &scriptedInvoker{handle: func(_, user string, _ int64) (string, error) {
		if isVotePrompt(user) {
			return `["d1","d2"]`, nil
		}
		if isJudgePrompt(user) {
			return "verdict", nil
		}
		return long, nil
	}}
	judge := llm.Binding{Provider: "test", Model: "judge-model"}
	debaters := mkDebaters(2)
	// Extreme traits maximize the shift per round.
	for i := range debaters {
		debaters[i].BeliefPersistence = 0
		debaters[i].TruthSeeking = 1
	}
	e := NewEngine(inv, judge, WithRand(rand.New(rand.NewSource(7))))
	s := NewSession("q", FormatVoting, voting.Ranked, debaters, 2.0, 6)

	if err := e.Run(context.Background(), s); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, d := range s.Debaters {
		if d.InternalBelief == nil {
			t.Fatalf("%s never updated belief", d.Name)
		}
		if *d.InternalBelief < 0 || *d.InternalBelief > 1 {
			t.Errorf("%s belief %v out of [0,1]", d.Name, *d.InternalBelief)
		}
	}
	for _, r := range s.Rounds {
		for _, a := range r.Arguments {
			if a.Belief != nil && (*a.Belief < 0 || *a.Belief > 1) {
				t.Errorf("recorded belief %v out of [0,1]", *a.Belief)
			}
		}
	}
}

func TestRunStopSkipsJudge(t *testing.T) {
	var e *Engine
	inv := &scriptedInvoker{handle: func(_, user string, n int64) (string, error) {
		if isJudgePrompt(user) {
			t.Error("judge must not run after a stop")
		}
		if n == 3 {
			e.Stop()
		}
		return "an argument", nil
	}}
	e = fixedEngine(inv)
	s := NewSession("q", FormatVoting, voting.Ranked, mkDebaters(4), 0.6, 5)

	if err := e.Run(context.Background(), s); err != nil {
		t.Fatalf("stopped run must not error: %v", err)
	}
	if s.Status != StatusStopped {
		t.Errorf("expected stopped, got %s", s.Status)
	}
	// The in-flight third call completed and was stored.
	if len(s.Rounds) != 1 || len(s.Rounds[0].Arguments) != 3 {
		t.Errorf("expected the in-flight result stored before exit, got %+v", s.Rounds)
	}
	if s.FinalDecision != "" {
		t.Error("no judge decision after a stop")
	}
}

func TestRunJudgeFailureDegrades(t *testing.T) {
	inv := &scriptedInvoker{handle: func(_, user string, _ int64) (string, error) {
		if isJudgePrompt(user) {
			return "", errors.New("judge offline")
		}
		if isVotePrompt(user) {
			return `["d1","d2"]`, nil
		}
		return "an argument", nil
	}}
	e := fixedEngine(inv)
	s := NewSession("q", FormatVoting, voting.Ranked, mkDebaters(2), 2.0, 1)

	if err := e.Run(context.Background(), s); err != nil {
		t.Fatalf("judge failure must not fail the run: %v", err)
	}
	if s.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", s.Status)
	}
	if s.FinalDecision != "" {
		t.Error("final decision must stay empty when the judge fails")
	}
}

func TestRunTeamFormatAssignsTeams(t *testing.T) {
	inv := &scriptedInvoker{handle: func(_, user string, _ int64) (string, error) {
		if isVotePrompt(user) {
			return `["d1","d2","d3","d4","d5"]`, nil
		}
		if isJudgePrompt(user) {
			return "verdict", nil
		}
		return "an argument", nil
	}}
	e := fixedEngine(inv)
	s := NewSession("q", FormatTeam, voting.Ranked, mkDebaters(5), 0.6, 2)

	if err := e.Run(context.Background(), s); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(s.Teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(s.Teams))
	}
	// ceil(5/2) = 3 on the first team.
	if len(s.Teams[0].DebaterIDs) != 3 || len(s.Teams[1].DebaterIDs) != 2 {
		t.Errorf("expected a 3/2 split, got %d/%d", len(s.Teams[0].DebaterIDs), len(s.Teams[1].DebaterIDs))
	}
	for _, d := range s.Debaters {
		if d.Team == "" {
			t.Errorf("%s has no team", d.Name)
		}
	}
}
