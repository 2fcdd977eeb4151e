// internal/debate/tournament.go
package debate

import (
	"context"
	"log"

	"github.com/podsni/symposium/internal/voting"
)

// runTournament repeatedly pairs surviving debaters by index ((0,1),
// (2,3), ...), runs an independent standard debate per pair, and advances
// each winner until one debater remains. An odd debater out advances
// automatically. Sub-session rounds are folded into the parent transcript
// so the judge and analytics see the full history.
func (e *Engine) runTournament(ctx context.Context, s *Session) {
	remaining := make([]Debater, len(s.Debaters))
	copy(remaining, s.Debaters)

	bracket := &Bracket{}
	s.Bracket = bracket

	for len(remaining) > 1 {
		if e.cancelled(ctx) {
			s.Status = StatusStopped
			return
		}

		var advancing []Debater
		var matches []Match

		for i := 0; i < len(remaining); i += 2 {
			if i+1 >= len(remaining) {
				// Odd one out advances unpaired.
				advancing = append(advancing, remaining[i])
				matches = append(matches, Match{A: remaining[i].ID, WinnerID: remaining[i].ID})
				continue
			}
			if e.cancelled(ctx) {
				s.Status = StatusStopped
				bracket.Rounds = append(bracket.Rounds, matches)
				return
			}

			a, b := remaining[i], remaining[i+1]
			winnerID := e.runMatch(ctx, s, a, b)
			matches = append(matches, Match{A: a.ID, B: b.ID, WinnerID: winnerID})

			if winnerID == b.ID {
				advancing = append(advancing, b)
			} else {
				advancing = append(advancing, a)
			}
		}

		bracket.Rounds = append(bracket.Rounds, matches)
		remaining = advancing
	}

	if len(remaining) == 1 && s.Status != StatusStopped {
		s.WinnerID = remaining[0].ID
	}
}

// runMatch runs one pairing as a full standard debate at the fixed 0.5
// tournament threshold and picks the winner from the last voted round's
// tally. With no usable ballots the first debater advances.
func (e *Engine) runMatch(ctx context.Context, s *Session, a, b Debater) string {
	sub := NewSession(s.Question, FormatVoting, s.VotingSystem, []Debater{a, b}, 0.5, s.MaxRounds)
	e.runRoundLoop(ctx, sub)

	// Fold the sub-debate into the parent transcript, re-indexed.
	base := len(s.Rounds)
	for _, r := range sub.Rounds {
		r.Index = base + r.Index
		s.Rounds = append(s.Rounds, r)
	}
	s.UpdatedAt = nowMillis()

	winner := matchWinner(sub)
	if winner == "" {
		log.Printf("[debate] match %s vs %s had no usable ballots, %s advances", a.Name, b.Name, a.Name)
		return a.ID
	}
	return winner
}

// matchWinner reads the leader of the last round that gathered votes.
func matchWinner(sub *Session) string {
	for i := len(sub.Rounds) - 1; i >= 0; i-- {
		r := sub.Rounds[i]
		if len(r.Votes) == 0 {
			continue
		}
		res := voting.Tally(r.Votes, sub.DebaterIDs(), sub.VotingSystem)
		if !res.Reached(0.5) {
			// No majority either way; the leader still advances.
			log.Printf("[debate] match tally below 0.5 agreement, advancing leader %s", res.Leader)
		}
		return res.Leader
	}
	return ""
}
