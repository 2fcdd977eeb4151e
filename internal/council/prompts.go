// internal/council/prompts.go
package council

import (
	"fmt"
	"strings"
)

func opinionPrompt(s *Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The council has been convened on the question:\n\n%s\n\n", s.Question)
	sb.WriteString("Give your opening perspective from your seat's point of view: what matters most here, what you would watch out for, and where you stand.")
	return sb.String()
}

func debatePrompt(s *Session, round int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Council question: %s\n\n", s.Question)
	sb.WriteString("Discussion so far:\n")
	sb.WriteString(opinionTranscript(s, round))
	fmt.Fprintf(&sb, "\nThis is debate round %d. Respond to the other members' points: challenge what you disagree with, concede what you must, sharpen your own position.", round)
	return sb.String()
}

func proposalPrompt(s *Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Council question: %s\n\n", s.Question)
	sb.WriteString("Full discussion:\n")
	sb.WriteString(opinionTranscript(s, -1))
	sb.WriteString("\nPropose your concrete solution. Reply with a JSON object:\n")
	sb.WriteString(`{"title": "...", "description": "...", "steps": ["..."], "risks": ["..."], "benefits": ["..."]}`)
	return sb.String()
}

func votePrompt(s *Session, p *Proposal, findings []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Council question: %s\n\n", s.Question)
	fmt.Fprintf(&sb, "Proposal under vote (from the %s):\n", ProfileFor(p.Role).Name)
	fmt.Fprintf(&sb, "Title: %s\nDescription: %s\n", p.Title, p.Description)
	if len(p.Steps) > 0 {
		fmt.Fprintf(&sb, "Steps: %s\n", strings.Join(p.Steps, "; "))
	}
	if len(p.Risks) > 0 {
		fmt.Fprintf(&sb, "Stated risks: %s\n", strings.Join(p.Risks, "; "))
	}
	if len(findings) > 0 {
		fmt.Fprintf(&sb, "\nAudit findings (automated scan): %s\n", strings.Join(findings, "; "))
	}
	sb.WriteString("\nScore the proposal 1-10 on each dimension and explain. Reply with a JSON object:\n")
	sb.WriteString(`{"logic": n, "feasibility": n, "safety": n, "benefit": n, "ethics": n, "reasoning": "..."}`)
	return sb.String()
}

func decisionPrompt(s *Session, winner *Proposal, score float64, minorityNotes []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Council question: %s\n\n", s.Question)
	fmt.Fprintf(&sb, "The council selected this proposal (weighted score %.2f):\n", score)
	fmt.Fprintf(&sb, "Title: %s\nDescription: %s\n", winner.Title, winner.Description)
	if len(winner.Steps) > 0 {
		fmt.Fprintf(&sb, "Steps: %s\n", strings.Join(winner.Steps, "; "))
	}
	if len(minorityNotes) > 0 {
		sb.WriteString("\nMinority notes (dissenting votes, represent them honestly):\n")
		for _, note := range minorityNotes {
			fmt.Fprintf(&sb, "- %s\n", note)
		}
	}
	sb.WriteString("\nSynthesize the final decision. Reply with a JSON object:\n")
	sb.WriteString(`{"reasoning": "...", "recommendations": ["..."], "risks": ["..."], "mitigations": ["..."], "consensus": 0-10}`)
	return sb.String()
}

func reflectionPrompt(s *Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The council has decided on the question: %s\n\n", s.Question)
	if s.Decision != nil {
		fmt.Fprintf(&sb, "Decision reasoning: %s\n\n", s.Decision.Reasoning)
	}
	sb.WriteString("Review the council's own process. Reply with a JSON object:\n")
	sb.WriteString(`{"went_well": ["..."], "could_have_improved": ["..."], "learnings": ["..."], "summary": "..."}`)
	return sb.String()
}

// opinionTranscript renders opinions up to (and excluding) the given
// round; round < 0 means everything.
func opinionTranscript(s *Session, beforeRound int) string {
	var sb strings.Builder
	current := -1
	for _, op := range s.Opinions {
		if beforeRound >= 0 && op.Round >= beforeRound {
			continue
		}
		if op.Round != current {
			current = op.Round
			if current == 0 {
				sb.WriteString("--- Initial opinions ---\n")
			} else {
				fmt.Fprintf(&sb, "--- Debate round %d ---\n", current)
			}
		}
		fmt.Fprintf(&sb, "%s: %s\n\n", ProfileFor(op.Role).Name, op.Content)
	}
	return sb.String()
}
