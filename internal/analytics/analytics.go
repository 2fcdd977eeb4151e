// internal/analytics/analytics.go
// Post-hoc, read-only analysis of a debate session: participation,
// argument strength heuristics, belief drift and consensus evolution.
// Everything here is derived data, safe to discard and recompute from
// the session at any time.
package analytics

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/podsni/symposium/internal/debate"
)

// AgentStats summarizes one debater's performance across the session.
type AgentStats struct {
	DebaterID     string  `json:"debaterId"`
	Name          string  `json:"name"`
	ArgumentCount int     `json:"argumentCount"`
	MeanLength    float64 `json:"meanLength"`
	RankPoints    int     `json:"rankPoints"`
	BeliefDrift   float64 `json:"beliefDrift"`
	Consistency   float64 `json:"consistency"`
	Influence     int     `json:"influence"`
	Composite     float64 `json:"composite"`
	Rank          int     `json:"rank"` // 1-based, by composite descending
}

// RoundStats summarizes one round.
type RoundStats struct {
	Index             int     `json:"index"`
	ArgumentCount     int     `json:"argumentCount"`
	MeanLength        float64 `json:"meanLength"`
	ConsensusProgress float64 `json:"consensusProgress"` // percent, 0-100
	Sentiment         string  `json:"sentiment"`         // positive/negative/neutral
}

// ArgumentKind classifies an argument's rhetorical role.
type ArgumentKind string

const (
	KindClaim      ArgumentKind = "claim"
	KindEvidence   ArgumentKind = "evidence"
	KindRebuttal   ArgumentKind = "rebuttal"
	KindConcession ArgumentKind = "concession"
)

// MinedArgument is one argument with its classification, strength score
// and the other debaters it references by name.
type MinedArgument struct {
	DebaterID  string       `json:"debaterId"`
	Round      int          `json:"round"`
	Kind       ArgumentKind `json:"kind"`
	Strength   float64      `json:"strength"` // [0,1]
	References []string     `json:"references,omitempty"`
	Excerpt    string       `json:"excerpt"`
}

// Report is the full analytics snapshot.
type Report struct {
	Agents    []AgentStats    `json:"agents"`
	Rounds    []RoundStats    `json:"rounds"`
	Arguments []MinedArgument `json:"arguments"`
}

// Fixed keyword lists for the coarse heuristics. Substring matches over
// lowercased text, same approach the position detector takes.
var (
	positiveWords = []string{"agree", "good", "great", "excellent", "strong", "convincing", "support", "right", "correct", "valid"}
	negativeWords = []string{"disagree", "wrong", "weak", "flawed", "incorrect", "fail", "bad", "poor", "mistaken", "object"}

	evidenceWords   = []string{"evidence", "study", "research"}
	rebuttalWords   = []string{"however", "but", "counter"}
	concessionWords = []string{"agree", "you're right", "concede"}
)

const excerptLen = 120

// Compute builds a report from a finished (or in-progress) session.
// Pure: the session is never mutated.
func Compute(s *debate.Session) *Report {
	return &Report{
		Agents:    agentStats(s),
		Rounds:    roundStats(s),
		Arguments: mineArguments(s),
	}
}

// Attach computes the report and stores its JSON form on the session,
// the only session field analytics ever writes.
func Attach(s *debate.Session) error {
	raw, err := json.Marshal(Compute(s))
	if err != nil {
		return err
	}
	s.Analytics = raw
	return nil
}

func agentStats(s *debate.Session) []AgentStats {
	n := len(s.Debaters)
	byID := make(map[string]*AgentStats, n)
	lengths := make(map[string][]float64, n)
	firstBelief := make(map[string]float64)
	lastBelief := make(map[string]float64)
	beliefSamples := make(map[string]int)

	for _, d := range s.Debaters {
		byID[d.ID] = &AgentStats{DebaterID: d.ID, Name: d.Name}
	}

	for _, r := range s.Rounds {
		for _, a := range r.Arguments {
			st, ok := byID[a.DebaterID]
			if !ok {
				continue
			}
			st.ArgumentCount++
			lengths[a.DebaterID] = append(lengths[a.DebaterID], float64(len(a.Content)))
			if a.Belief != nil {
				if beliefSamples[a.DebaterID] == 0 {
					firstBelief[a.DebaterID] = *a.Belief
				}
				lastBelief[a.DebaterID] = *a.Belief
				beliefSamples[a.DebaterID]++
			}

			// Influence: other agents naming this one.
			lower := strings.ToLower(a.Content)
			for _, d := range s.Debaters {
				if d.ID == a.DebaterID || d.Name == "" {
					continue
				}
				if strings.Contains(lower, strings.ToLower(d.Name)) {
					byID[d.ID].Influence++
				}
			}
		}

		// Rank points: N - position per ballot appearance.
		for _, b := range r.Votes {
			for pos, id := range b.Ranking {
				if st, ok := byID[id]; ok {
					st.RankPoints += n - pos
				}
			}
		}
	}

	out := make([]AgentStats, 0, n)
	for _, d := range s.Debaters {
		st := byID[d.ID]
		ls := lengths[d.ID]
		st.MeanLength = mean(ls)
		st.Consistency = math.Max(0, 100-math.Sqrt(variance(ls))/10)
		if beliefSamples[d.ID] >= 2 {
			st.BeliefDrift = math.Abs(lastBelief[d.ID] - firstBelief[d.ID])
		}
		st.Composite = float64(st.RankPoints)*10 + st.Consistency + float64(st.Influence)*5
		out = append(out, *st)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Composite > out[j].Composite })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func roundStats(s *debate.Session) []RoundStats {
	out := make([]RoundStats, 0, len(s.Rounds))
	for _, r := range s.Rounds {
		var lengths []float64
		var all strings.Builder
		for _, a := range r.Arguments {
			lengths = append(lengths, float64(len(a.Content)))
			all.WriteString(a.Content)
			all.WriteString("\n")
		}

		out = append(out, RoundStats{
			Index:             r.Index,
			ArgumentCount:     len(r.Arguments),
			MeanLength:        mean(lengths),
			ConsensusProgress: consensusProgress(r),
			Sentiment:         sentiment(all.String()),
		})
	}
	return out
}

// consensusProgress is the share of ballots whose first choice matches the
// modal first choice, as a percentage. Needs at least two ballots.
func consensusProgress(r debate.Round) float64 {
	if len(r.Votes) < 2 {
		return 0
	}
	firsts := make(map[string]int)
	total := 0
	for _, b := range r.Votes {
		if len(b.Ranking) == 0 {
			continue
		}
		firsts[b.Ranking[0]]++
		total++
	}
	if total < 2 {
		return 0
	}
	top := 0
	for _, count := range firsts {
		if count > top {
			top = count
		}
	}
	return float64(top) / float64(total) * 100
}

// sentiment counts fixed positive/negative keyword occurrences; ties are
// neutral.
func sentiment(text string) string {
	lower := strings.ToLower(text)
	pos, neg := 0, 0
	for _, w := range positiveWords {
		pos += strings.Count(lower, w)
	}
	for _, w := range negativeWords {
		neg += strings.Count(lower, w)
	}
	switch {
	case pos > neg:
		return "positive"
	case neg > pos:
		return "negative"
	default:
		return "neutral"
	}
}

// mineArguments classifies every argument and scores its strength.
// Sorted descending by strength; consumers typically take the top few.
func mineArguments(s *debate.Session) []MinedArgument {
	var out []MinedArgument
	for _, r := range s.Rounds {
		for _, a := range r.Arguments {
			d := s.Debater(a.DebaterID)
			depth := 0.0
			if d != nil {
				depth = d.ReasoningDepth
			}

			strength := math.Min(float64(len(a.Content))/500, 1)*0.5 + depth*0.3
			if a.Belief != nil {
				strength += 0.2
			}
			if strength > 1 {
				strength = 1
			}

			out = append(out, MinedArgument{
				DebaterID:  a.DebaterID,
				Round:      r.Index,
				Kind:       classify(a.Content),
				Strength:   strength,
				References: references(s, a),
				Excerpt:    excerpt(a.Content),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Strength > out[j].Strength })
	return out
}

// classify tags an argument by keyword: evidence, rebuttal and concession
// markers in that priority order, claim as the default.
func classify(text string) ArgumentKind {
	lower := strings.ToLower(text)
	for _, w := range evidenceWords {
		if strings.Contains(lower, w) {
			return KindEvidence
		}
	}
	for _, w := range rebuttalWords {
		if strings.Contains(lower, w) {
			return KindRebuttal
		}
	}
	for _, w := range concessionWords {
		if strings.Contains(lower, w) {
			return KindConcession
		}
	}
	return KindClaim
}

func references(s *debate.Session, a debate.Argument) []string {
	lower := strings.ToLower(a.Content)
	var refs []string
	for _, d := range s.Debaters {
		if d.ID == a.DebaterID || d.Name == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(d.Name)) {
			refs = append(refs, d.ID)
		}
	}
	return refs
}

func excerpt(text string) string {
	if len(text) <= excerptLen {
		return text
	}
	return text[:excerptLen-3] + "..."
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return sum / float64(len(values))
}
