// internal/parse/structured.go
package parse

import "encoding/json"

// DefaultDimensionScore is used when a vote response has no parseable
// JSON: the vote still counts, scored neutrally.
const DefaultDimensionScore = 5

// ProposalData is the structured form of a solution proposal.
type ProposalData struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	Risks       []string `json:"risks"`
	Benefits    []string `json:"benefits"`
}

// ProposalResult tags a parsed proposal with whether the fallback path
// was taken (raw text as description, empty lists).
type ProposalResult struct {
	Value    ProposalData
	Fallback bool
}

// Proposal parses a proposal from model output. Never fails: unparseable
// output falls back to the raw text as the description.
func Proposal(text string) ProposalResult {
	if raw, ok := ExtractJSONObject(text); ok {
		var p ProposalData
		if err := json.Unmarshal(raw, &p); err == nil && (p.Title != "" || p.Description != "") {
			normalizeProposal(&p)
			return ProposalResult{Value: p}
		}
	}
	return ProposalResult{
		Value: ProposalData{
			Description: text,
			Steps:       []string{},
			Risks:       []string{},
			Benefits:    []string{},
		},
		Fallback: true,
	}
}

func normalizeProposal(p *ProposalData) {
	if p.Steps == nil {
		p.Steps = []string{}
	}
	if p.Risks == nil {
		p.Risks = []string{}
	}
	if p.Benefits == nil {
		p.Benefits = []string{}
	}
}

// VoteData is the structured form of a council vote: five dimensions
// scored 1-10 plus free-text reasoning.
type VoteData struct {
	Logic       int    `json:"logic"`
	Feasibility int    `json:"feasibility"`
	Safety      int    `json:"safety"`
	Benefit     int    `json:"benefit"`
	Ethics      int    `json:"ethics"`
	Reasoning   string `json:"reasoning"`
}

// VoteResult tags a parsed vote with the fallback flag.
type VoteResult struct {
	Value    VoteData
	Fallback bool
}

// Vote parses a five-dimension vote. Unparseable output falls back to a
// neutral 5 on every dimension with the raw text as reasoning; out-of-range
// dimensions are clamped to [1,10].
func Vote(text string) VoteResult {
	if raw, ok := ExtractJSONObject(text); ok {
		var v VoteData
		if err := json.Unmarshal(raw, &v); err == nil && (v.Logic != 0 || v.Feasibility != 0 || v.Safety != 0 || v.Benefit != 0 || v.Ethics != 0) {
			v.Logic = clampScore(v.Logic)
			v.Feasibility = clampScore(v.Feasibility)
			v.Safety = clampScore(v.Safety)
			v.Benefit = clampScore(v.Benefit)
			v.Ethics = clampScore(v.Ethics)
			return VoteResult{Value: v}
		}
	}
	return VoteResult{
		Value: VoteData{
			Logic:       DefaultDimensionScore,
			Feasibility: DefaultDimensionScore,
			Safety:      DefaultDimensionScore,
			Benefit:     DefaultDimensionScore,
			Ethics:      DefaultDimensionScore,
			Reasoning:   text,
		},
		Fallback: true,
	}
}

func clampScore(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// DecisionData is the structured form of the moderator's synthesis.
type DecisionData struct {
	Reasoning       string   `json:"reasoning"`
	Recommendations []string `json:"recommendations"`
	Risks           []string `json:"risks"`
	Mitigations     []string `json:"mitigations"`
	Consensus       float64  `json:"consensus"` // 0-10
}

// DecisionResult tags a parsed decision with the fallback flag.
type DecisionResult struct {
	Value    DecisionData
	Fallback bool
}

// Decision parses the moderator synthesis. Unparseable output falls back
// to the raw text as reasoning with empty lists.
func Decision(text string) DecisionResult {
	if raw, ok := ExtractJSONObject(text); ok {
		var d DecisionData
		if err := json.Unmarshal(raw, &d); err == nil && d.Reasoning != "" {
			normalizeDecision(&d)
			return DecisionResult{Value: d}
		}
	}
	return DecisionResult{
		Value: DecisionData{
			Reasoning:       text,
			Recommendations: []string{},
			Risks:           []string{},
			Mitigations:     []string{},
		},
		Fallback: true,
	}
}

func normalizeDecision(d *DecisionData) {
	if d.Recommendations == nil {
		d.Recommendations = []string{}
	}
	if d.Risks == nil {
		d.Risks = []string{}
	}
	if d.Mitigations == nil {
		d.Mitigations = []string{}
	}
	if d.Consensus < 0 {
		d.Consensus = 0
	}
	if d.Consensus > 10 {
		d.Consensus = 10
	}
}

// ReflectionData is the structured form of the post-decision self-review.
type ReflectionData struct {
	WentWell          []string `json:"went_well"`
	CouldHaveImproved []string `json:"could_have_improved"`
	Learnings         []string `json:"learnings"`
	Summary           string   `json:"summary"`
}

// ReflectionResult tags a parsed reflection with the fallback flag.
type ReflectionResult struct {
	Value    ReflectionData
	Fallback bool
}

// Reflection parses the reflection stage output, falling back to the raw
// text as summary.
func Reflection(text string) ReflectionResult {
	if raw, ok := ExtractJSONObject(text); ok {
		var r ReflectionData
		if err := json.Unmarshal(raw, &r); err == nil && (r.Summary != "" || len(r.Learnings) > 0) {
			if r.WentWell == nil {
				r.WentWell = []string{}
			}
			if r.CouldHaveImproved == nil {
				r.CouldHaveImproved = []string{}
			}
			if r.Learnings == nil {
				r.Learnings = []string{}
			}
			return ReflectionResult{Value: r}
		}
	}
	return ReflectionResult{
		Value: ReflectionData{
			WentWell:          []string{},
			CouldHaveImproved: []string{},
			Learnings:         []string{},
			Summary:           text,
		},
		Fallback: true,
	}
}
