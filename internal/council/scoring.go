// internal/council/scoring.go
package council

import (
	"errors"
	"sort"
)

// ErrAllVetoed is the fatal decision-stage failure: every proposal was
// excluded by an ethics veto, leaving nothing to select.
var ErrAllVetoed = errors.New("all proposals vetoed on ethics grounds")

// ProposalScore is one proposal's weighted outcome.
type ProposalScore struct {
	ProposalID string  `json:"proposalId"`
	Score      float64 `json:"score"`
	Vetoed     bool    `json:"vetoed"`
}

// Weigh computes each proposal's weighted mean vote score using the
// per-role weight vector. Pure. A proposal with zero votes scores
// exactly 0, never NaN. Results are sorted by score descending.
func Weigh(proposals []Proposal, votes []Vote, weights Weights) []ProposalScore {
	out := make([]ProposalScore, 0, len(proposals))

	for _, p := range proposals {
		var weightedSum, weightTotal float64
		vetoed := false
		for _, v := range votes {
			if v.ProposalID != p.ID {
				continue
			}
			w, ok := weights[v.Role]
			if !ok {
				w = 1.0
			}
			weightedSum += w * v.Overall
			weightTotal += w
			if v.Veto {
				vetoed = true
			}
		}

		score := 0.0
		if weightTotal > 0 {
			score = weightedSum / weightTotal
		}
		out = append(out, ProposalScore{ProposalID: p.ID, Score: score, Vetoed: vetoed})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// SelectWinner picks the highest-scoring survivor. With veto enabled,
// vetoed proposals are excluded regardless of score; an empty survivor
// set is the fatal ErrAllVetoed case.
func SelectWinner(scores []ProposalScore, vetoEnabled bool) (ProposalScore, error) {
	for _, sc := range scores {
		if vetoEnabled && sc.Vetoed {
			continue
		}
		return sc, nil
	}
	if len(scores) == 0 {
		return ProposalScore{}, errors.New("no proposals to select from")
	}
	return ProposalScore{}, ErrAllVetoed
}

// VetoedIDs lists the proposals carrying a veto flag.
func VetoedIDs(scores []ProposalScore) []string {
	var ids []string
	for _, sc := range scores {
		if sc.Vetoed {
			ids = append(ids, sc.ProposalID)
		}
	}
	return ids
}

// MinorityNotes collects free-text notes from votes on the winning
// proposal whose overall score fell below 7: the dissent the moderator
// must represent.
func MinorityNotes(votes []Vote, winnerID string) []string {
	var notes []string
	for _, v := range votes {
		if v.ProposalID == winnerID && v.Overall < 7 && v.Reasoning != "" {
			notes = append(notes, string(v.Role)+": "+v.Reasoning)
		}
	}
	return notes
}
