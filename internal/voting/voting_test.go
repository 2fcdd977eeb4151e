// internal/voting/voting_test.go
package voting

import (
	"testing"
)

func ballots(rankings ...[]string) []Ballot {
	out := make([]Ballot, 0, len(rankings))
	for i, r := range rankings {
		out = append(out, Ballot{VoterID: string(rune('a' + i)), Ranking: r})
	}
	return out
}

func TestRankedFirstPlaceCounting(t *testing.T) {
	cands := []string{"d1", "d2", "d3"}
	bs := ballots(
		[]string{"d1", "d2", "d3"},
		[]string{"d1", "d3", "d2"},
		[]string{"d2", "d1", "d3"},
	)

	res := Tally(bs, cands, Ranked)

	if res.Scores["d1"] != 2 || res.Scores["d2"] != 1 || res.Scores["d3"] != 0 {
		t.Errorf("unexpected scores: %v", res.Scores)
	}
	if res.Leader != "d1" {
		t.Errorf("leader = %q, want d1", res.Leader)
	}
	if got, want := res.Agreement, 2.0/3.0; got != want {
		t.Errorf("agreement = %v, want %v", got, want)
	}
}

// Every ballot contributes exactly one first-place vote, so ranked scores
// always sum to the ballot count.
func TestRankedScoresSumToBallotCount(t *testing.T) {
	cands := []string{"a", "b", "c", "d"}
	sets := [][]Ballot{
		ballots([]string{"a", "b", "c", "d"}),
		ballots(
			[]string{"a", "b", "c", "d"},
			[]string{"d", "c", "b", "a"},
			[]string{"b", "a", "d", "c"},
		),
		ballots(
			[]string{"c", "a", "b", "d"},
			[]string{"c", "d", "a", "b"},
			[]string{"c", "b", "d", "a"},
			[]string{"a", "c", "b", "d"},
			[]string{"b", "c", "a", "d"},
		),
	}

	for _, bs := range sets {
		res := Tally(bs, cands, Ranked)
		sum := 0
		for _, s := range res.Scores {
			sum += s
		}
		if sum != len(bs) {
			t.Errorf("scores sum to %d, want %d ballots", sum, len(bs))
		}
	}
}

func TestBordaScoring(t *testing.T) {
	cands := []string{"a", "b", "c"}
	bs := ballots(
		[]string{"a", "b", "c"}, // a=3 b=2 c=1
		[]string{"b", "a", "c"}, // b=3 a=2 c=1
	)

	res := Tally(bs, cands, Borda)

	if res.Scores["a"] != 5 || res.Scores["b"] != 5 || res.Scores["c"] != 2 {
		t.Errorf("unexpected borda scores: %v", res.Scores)
	}
	// agreement = top / (ballots * N)
	if got, want := res.Agreement, 5.0/6.0; got != want {
		t.Errorf("agreement = %v, want %v", got, want)
	}
}

// Moving a candidate up one rank in a single ballot never decreases its
// Borda score.
func TestBordaMonotonicity(t *testing.T) {
	cands := []string{"a", "b", "c", "d"}
	base := ballots(
		[]string{"a", "b", "c", "d"},
		[]string{"d", "c", "b", "a"},
	)
	before := Tally(base, cands, Borda).Scores["c"]

	// Promote c one position in ballot 0.
	promoted := ballots(
		[]string{"a", "c", "b", "d"},
		[]string{"d", "c", "b", "a"},
	)
	after := Tally(promoted, cands, Borda).Scores["c"]

	if after < before {
		t.Errorf("borda score decreased after promotion: %d -> %d", before, after)
	}
}

func TestApprovalTopHalf(t *testing.T) {
	cands := []string{"a", "b", "c", "d", "e"} // cutoff = ceil(5/2) = 3
	bs := ballots(
		[]string{"a", "b", "c", "d", "e"},
		[]string{"b", "a", "e", "c", "d"},
	)

	res := Tally(bs, cands, Approval)

	want := map[string]int{"a": 2, "b": 2, "c": 1, "d": 0, "e": 1}
	for c, w := range want {
		if res.Scores[c] != w {
			t.Errorf("approval score %s = %d, want %d", c, res.Scores[c], w)
		}
	}
}

func TestCondorcetPairwise(t *testing.T) {
	cands := []string{"a", "b", "c"}
	bs := ballots(
		[]string{"a", "b", "c"},
		[]string{"a", "c", "b"},
		[]string{"b", "a", "c"},
	)

	res := Tally(bs, cands, Condorcet)

	// a beats b (2/3) and c (3/3); b beats c (2/3).
	if res.Scores["a"] != 2 || res.Scores["b"] != 1 || res.Scores["c"] != 0 {
		t.Errorf("unexpected condorcet scores: %v", res.Scores)
	}
	if res.Leader != "a" {
		t.Errorf("leader = %q, want a", res.Leader)
	}
	if got, want := res.Agreement, 1.0; got != want {
		t.Errorf("agreement = %v, want %v", got, want)
	}
}

// Under pairwise majority it can never be true that A beats B and B beats A.
func TestCondorcetAsymmetry(t *testing.T) {
	bs := ballots(
		[]string{"a", "b"},
		[]string{"b", "a"},
		[]string{"a", "b"},
		[]string{"b", "a"},
	)
	prefer := func(x, y string) int {
		n := 0
		for _, b := range bs {
			if ranksAbove(b.Ranking, x, y) {
				n++
			}
		}
		return n
	}
	half := float64(len(bs)) / 2
	aBeatsB := float64(prefer("a", "b")) > half
	bBeatsA := float64(prefer("b", "a")) > half
	if aBeatsB && bBeatsA {
		t.Error("both a beats b and b beats a")
	}
}

// Raising the threshold can only flip reached from true to false.
func TestConsensusThresholdMonotonicity(t *testing.T) {
	cands := []string{"a", "b"}
	bs := ballots(
		[]string{"a", "b"},
		[]string{"a", "b"},
		[]string{"b", "a"},
	)
	res := Tally(bs, cands, Ranked)

	prev := true
	for _, threshold := range []float64{0.0, 0.25, 0.5, 0.66, 0.67, 0.9, 1.0} {
		reached := res.Reached(threshold)
		if reached && !prev {
			t.Errorf("reached flipped false->true at threshold %v", threshold)
		}
		prev = reached
	}
}

func TestUnanimousBallotsReachConsensus(t *testing.T) {
	// Four debaters all rank the same agent first: agreement 4/4.
	cands := []string{"a", "b", "c", "d"}
	bs := ballots(
		[]string{"a", "b", "c", "d"},
		[]string{"a", "c", "b", "d"},
		[]string{"a", "d", "c", "b"},
		[]string{"a", "b", "d", "c"},
	)

	res := Tally(bs, cands, Ranked)

	if res.Agreement != 1.0 {
		t.Errorf("agreement = %v, want 1.0", res.Agreement)
	}
	if !res.Reached(0.6) {
		t.Error("consensus not reached at threshold 0.6")
	}
}

func TestEmptyBallots(t *testing.T) {
	for _, system := range []System{Ranked, Borda, Approval, Condorcet} {
		res := Tally(nil, []string{"a", "b"}, system)
		if res.Leader != "" {
			t.Errorf("%s: leader = %q, want empty", system, res.Leader)
		}
		if res.Agreement != 0 {
			t.Errorf("%s: agreement = %v, want 0", system, res.Agreement)
		}
		if res.Reached(0.0) {
			t.Errorf("%s: empty ballot set must not reach consensus", system)
		}
	}
}

func TestMissingCandidateScoresZero(t *testing.T) {
	cands := []string{"a", "b", "c"}
	bs := ballots([]string{"a", "b", "c"})
	res := Tally(bs, cands, Ranked)
	if score, ok := res.Scores["c"]; !ok || score != 0 {
		t.Errorf("candidate without votes: score = %d present=%v, want 0 present", score, ok)
	}
}
