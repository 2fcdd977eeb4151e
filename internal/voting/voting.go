// internal/voting/voting.go
// Social-choice scoring over ranked ballots. Four interchangeable rules;
// all of them pure functions of the ballot set.
package voting

import "math"

// System selects the scoring rule.
type System string

const (
	Ranked    System = "ranked"    // first-place counting
	Borda     System = "borda"     // positional scoring
	Approval  System = "approval"  // top-half approval
	Condorcet System = "condorcet" // pairwise majority
)

// Ballot is one voter's complete ranking of candidates, best to worst.
type Ballot struct {
	VoterID string   `json:"voterId"`
	Ranking []string `json:"ranking"`
}

// Result is the outcome of tallying one ballot set.
// Tie-break between equal top scores is map-iteration order, i.e.
// unspecified: callers must not rely on tie ordering.
type Result struct {
	Scores    map[string]int `json:"scores"`
	Leader    string         `json:"leader"`
	Agreement float64        `json:"agreement"` // normalized [0,1]
}

// Reached reports whether the agreement fraction meets the threshold.
func (r Result) Reached(threshold float64) bool {
	if len(r.Scores) == 0 {
		return false
	}
	return r.Agreement >= threshold
}

// Tally scores the ballots under the given system. candidates is the full
// participant set (a candidate may receive zero votes and still appear in
// Scores). An empty ballot set yields no leader and agreement 0.
func Tally(ballots []Ballot, candidates []string, system System) Result {
	res := Result{Scores: make(map[string]int)}
	if len(ballots) == 0 || len(candidates) == 0 {
		return res
	}

	for _, c := range candidates {
		res.Scores[c] = 0
	}

	switch system {
	case Borda:
		tallyBorda(ballots, res.Scores)
	case Approval:
		tallyApproval(ballots, candidates, res.Scores)
	case Condorcet:
		tallyCondorcet(ballots, candidates, res.Scores)
	default: // Ranked
		tallyRanked(ballots, res.Scores)
	}

	top := 0
	for c, score := range res.Scores {
		if res.Leader == "" || score > top {
			res.Leader = c
			top = score
		}
	}

	res.Agreement = agreement(system, top, len(ballots), len(candidates))
	return res
}

// tallyRanked counts first-place appearances.
func tallyRanked(ballots []Ballot, scores map[string]int) {
	for _, b := range ballots {
		if len(b.Ranking) > 0 {
			scores[b.Ranking[0]]++
		}
	}
}

// tallyBorda awards N-position points per ballot, position zero-indexed.
func tallyBorda(ballots []Ballot, scores map[string]int) {
	for _, b := range ballots {
		n := len(b.Ranking)
		for pos, c := range b.Ranking {
			scores[c] += n - pos
		}
	}
}

// tallyApproval counts appearances in the top half (ceil(N/2)) of a ballot.
func tallyApproval(ballots []Ballot, candidates []string, scores map[string]int) {
	cutoff := int(math.Ceil(float64(len(candidates)) / 2))
	for _, b := range ballots {
		limit := cutoff
		if limit > len(b.Ranking) {
			limit = len(b.Ranking)
		}
		for _, c := range b.Ranking[:limit] {
			scores[c]++
		}
	}
}

// tallyCondorcet scores each candidate by the number of opponents it beats
// in pairwise majority comparisons.
func tallyCondorcet(ballots []Ballot, candidates []string, scores map[string]int) {
	half := float64(len(ballots)) / 2
	for _, a := range candidates {
		wins := 0
		for _, b := range candidates {
			if a == b {
				continue
			}
			prefer := 0
			for _, ballot := range ballots {
				if ranksAbove(ballot.Ranking, a, b) {
					prefer++
				}
			}
			if float64(prefer) > half {
				wins++
			}
		}
		scores[a] = wins
	}
}

// ranksAbove reports whether a appears before b in the ranking. A candidate
// missing from the ranking never beats one that is present.
func ranksAbove(ranking []string, a, b string) bool {
	posA, posB := -1, -1
	for i, c := range ranking {
		switch c {
		case a:
			posA = i
		case b:
			posB = i
		}
	}
	if posA == -1 {
		return false
	}
	if posB == -1 {
		return true
	}
	return posA < posB
}

// agreement normalizes the top score into a [0,1] fraction per system.
func agreement(system System, top, totalBallots, candidateCount int) float64 {
	switch system {
	case Borda:
		denom := totalBallots * candidateCount
		if denom == 0 {
			return 0
		}
		return float64(top) / float64(denom)
	case Condorcet:
		if candidateCount <= 1 {
			return 0
		}
		return float64(top) / float64(candidateCount-1)
	default: // Ranked, Approval
		if totalBallots == 0 {
			return 0
		}
		return float64(top) / float64(totalBallots)
	}
}
