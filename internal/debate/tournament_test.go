// internal/debate/tournament_test.go
package debate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/podsni/symposium/internal/llm"
	"github.com/podsni/symposium/internal/voting"
)

// rankByIndex builds a ballot from whichever debater ids appear in the
// vote prompt, lowest index first, so the lower-numbered debater always
// wins its match.
func rankByIndex(user string, total int) string {
	var ids []string
	for i := 1; i <= total; i++ {
		id := fmt.Sprintf("d%d", i)
		if strings.Contains(user, fmt.Sprintf("%q", id)) {
			ids = append(ids, fmt.Sprintf("%q", id))
		}
	}
	return "[" + strings.Join(ids, ",") + "]"
}

func TestRunTournamentFiveDebaters(t *testing.T) {
	inv := &scriptedInvoker{handle: func(_, user string, _ int64) (string, error) {
		if isVotePrompt(user) {
			return rankByIndex(user, 5), nil
		}
		if isJudgePrompt(user) {
			return "d1 wins the tournament", nil
		}
		return "an argument", nil
	}}
	judge := llm.Binding{Provider: "test", Model: "judge-model"}
	e := NewEngine(inv, judge, WithRand(rand.New(rand.NewSource(1))))
	s := NewSession("q", FormatTournament, voting.Ranked, mkDebaters(5), 0.6, 2)

	if err := e.Run(context.Background(), s); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if s.Bracket == nil {
		t.Fatal("tournament must record a bracket")
	}
	if len(s.Bracket.Rounds) != 3 {
		t.Fatalf("5 debaters need 3 bracket rounds, got %d", len(s.Bracket.Rounds))
	}

	// Round 0: (d1,d2), (d3,d4), d5 auto-advances unpaired.
	r0 := s.Bracket.Rounds[0]
	if len(r0) != 3 {
		t.Fatalf("round 0: expected 3 matches, got %d", len(r0))
	}
	if r0[0].A != "d1" || r0[0].B != "d2" || r0[1].A != "d3" || r0[1].B != "d4" {
		t.Errorf("round 0 pairing wrong: %+v", r0)
	}
	if r0[2].A != "d5" || r0[2].B != "" || r0[2].WinnerID != "d5" {
		t.Errorf("round 0: d5 must auto-advance unpaired, got %+v", r0[2])
	}

	// Round 1: 3 competitors, one pair plus one auto-advance.
	r1 := s.Bracket.Rounds[1]
	if len(r1) != 2 {
		t.Fatalf("round 1: expected 2 matches, got %d", len(r1))
	}
	if r1[1].B != "" {
		t.Errorf("round 1: expected an auto-advance, got %+v", r1[1])
	}

	// Final round: a single deciding match.
	r2 := s.Bracket.Rounds[2]
	if len(r2) != 1 || r2[0].B == "" {
		t.Fatalf("final round must be one real match, got %+v", r2)
	}

	if s.WinnerID != "d1" {
		t.Errorf("lower-indexed debater wins every match, expected d1 overall, got %q", s.WinnerID)
	}
	if s.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", s.Status)
	}
	if len(s.Rounds) == 0 {
		t.Error("match rounds must fold into the parent transcript")
	}
	if s.FinalDecision == "" {
		t.Error("judge must decide after the tournament")
	}
}
