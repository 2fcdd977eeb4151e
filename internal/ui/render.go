// internal/ui/render.go
// Turns finished sessions into transcript entries. The engines mutate
// their session on a worker goroutine, so the transcript only renders a
// session after the run goroutine has handed it back.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/podsni/symposium/internal/analytics"
	"github.com/podsni/symposium/internal/config"
	"github.com/podsni/symposium/internal/council"
	"github.com/podsni/symposium/internal/debate"
)

// renderMarkdown renders markdown for terminal display. Falls back to
// the raw text when glamour fails.
func renderMarkdown(md string, width int) string {
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// appendDebate replays a debate session into the transcript.
func appendDebate(t *Transcript, s *debate.Session, width int) {
	idx := make(map[string]int, len(s.Debaters))
	for i, d := range s.Debaters {
		idx[d.ID] = i
	}

	for _, round := range s.Rounds {
		t.AddSystem(fmt.Sprintf("Round %d (%s)", round.Index+1, round.Type))

		for _, arg := range round.Arguments {
			name := s.DebaterName(arg.DebaterID)
			t.Add(name, AgentStyle(idx[arg.DebaterID]), arg.Content)
		}

		for _, b := range round.Votes {
			names := make([]string, len(b.Ranking))
			for i, id := range b.Ranking {
				names[i] = s.DebaterName(id)
			}
			t.AddSystem(fmt.Sprintf("%s votes: %s",
				s.DebaterName(b.VoterID), strings.Join(names, " > ")))
		}

		if round.ConsensusReached != nil && *round.ConsensusReached {
			t.AddSystem("Consensus reached.")
		}
	}

	if s.WinnerID != "" {
		t.AddSystem(fmt.Sprintf("Winner: %s", s.DebaterName(s.WinnerID)))
	}
	if s.FinalDecision != "" {
		t.AddRaw("Judge", RoleStyle("judge"), renderMarkdown(s.FinalDecision, width))
	}
}

// appendCouncil replays a council session into the transcript.
func appendCouncil(t *Transcript, s *council.Session, width int) {
	round := -1
	for _, op := range s.Opinions {
		if op.Round != round {
			round = op.Round
			if round == 0 {
				t.AddSystem("Initial opinions")
			} else {
				t.AddSystem(fmt.Sprintf("Debate round %d", round))
			}
		}
		profile := council.ProfileFor(op.Role)
		t.Add(profile.Name, RoleStyle(string(op.Role)), op.Content)
	}

	for _, p := range s.Proposals {
		profile := council.ProfileFor(p.Role)
		t.Add(profile.Name, RoleStyle(string(p.Role)), renderProposal(&p))
	}

	if len(s.Votes) > 0 {
		t.AddSystem(renderVotes(s))
	}

	if s.Decision != nil {
		t.AddRaw("Moderator", RoleStyle("moderator"),
			renderMarkdown(decisionMarkdown(s, s.Decision), width))
	}

	if s.Reflection != nil {
		t.Add("Moderator", RoleStyle("moderator"), renderReflection(s.Reflection))
	}

	if s.State == council.StateError && s.Error != "" {
		t.AddError(s.Error)
	}
}

func renderProposal(p *council.Proposal) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Proposal: %s\n%s\n", p.Title, p.Description)
	if len(p.Steps) > 0 {
		sb.WriteString("Steps:\n")
		for i, step := range p.Steps {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, step)
		}
	}
	if len(p.Risks) > 0 {
		sb.WriteString("Risks: " + strings.Join(p.Risks, "; ") + "\n")
	}
	if len(p.Benefits) > 0 {
		sb.WriteString("Benefits: " + strings.Join(p.Benefits, "; "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderVotes(s *council.Session) string {
	var sb strings.Builder
	sb.WriteString("Votes (logic/feasibility/safety/benefit/ethics):\n")
	for _, v := range s.Votes {
		p := s.ProposalByID(v.ProposalID)
		title := v.ProposalID
		if p != nil {
			title = p.Title
		}
		veto := ""
		if v.Veto {
			veto = "  VETO"
		}
		fmt.Fprintf(&sb, "  %-10s on %-30s %d/%d/%d/%d/%d  avg %.1f%s\n",
			council.ProfileFor(v.Role).Name, truncate(title, 30),
			v.Scores.Logic, v.Scores.Feasibility, v.Scores.Safety,
			v.Scores.Benefit, v.Scores.Ethics, v.Overall, veto)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func decisionMarkdown(s *council.Session, d *council.Decision) string {
	var sb strings.Builder
	title := d.SelectedProposalID
	if p := s.ProposalByID(d.SelectedProposalID); p != nil {
		title = p.Title
	}
	fmt.Fprintf(&sb, "## Decision: %s\n\n", title)
	fmt.Fprintf(&sb, "Weighted score %.2f, consensus %.1f/10.\n\n%s\n", d.FinalScore, d.Consensus, d.Reasoning)
	writeMDList(&sb, "Recommendations", d.Recommendations)
	writeMDList(&sb, "Risks", d.Risks)
	writeMDList(&sb, "Mitigations", d.Mitigations)
	writeMDList(&sb, "Minority positions", d.MinorityNotes)
	return sb.String()
}

func renderReflection(r *council.Reflection) string {
	var sb strings.Builder
	sb.WriteString("Reflection\n")
	for _, item := range r.WentWell {
		sb.WriteString("  + " + item + "\n")
	}
	for _, item := range r.CouldHaveImproved {
		sb.WriteString("  - " + item + "\n")
	}
	for _, item := range r.Learnings {
		sb.WriteString("  * " + item + "\n")
	}
	if r.Summary != "" {
		sb.WriteString(r.Summary)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeMDList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n**%s**\n\n", title)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}

// renderAnalytics formats a debate analytics report as plain text.
func renderAnalytics(s *debate.Session) string {
	rep := analytics.Compute(s)
	var sb strings.Builder

	sb.WriteString("Agent performance:\n")
	for _, a := range rep.Agents {
		fmt.Fprintf(&sb, "  #%d %-12s args %d  rank pts %d  drift %.2f  influence %d  score %.1f\n",
			a.Rank, a.Name, a.ArgumentCount, a.RankPoints, a.BeliefDrift, a.Influence, a.Composite)
	}

	sb.WriteString("Rounds:\n")
	for _, r := range rep.Rounds {
		fmt.Fprintf(&sb, "  round %d: %d args, consensus %.0f%%, sentiment %s\n",
			r.Index+1, r.ArgumentCount, r.ConsensusProgress, r.Sentiment)
	}

	if len(rep.Arguments) > 0 {
		sb.WriteString("Strongest arguments:\n")
		max := 5
		if len(rep.Arguments) < max {
			max = len(rep.Arguments)
		}
		for _, a := range rep.Arguments[:max] {
			fmt.Fprintf(&sb, "  [%.2f %s] %s: %s\n",
				a.Strength, a.Kind, s.DebaterName(a.DebaterID), a.Excerpt)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderAgents lists configured debater presets and the council seats.
func renderAgents(cfg *config.Config) string {
	var sb strings.Builder

	sb.WriteString("Debaters:\n")
	if len(cfg.Debaters) == 0 {
		sb.WriteString("  (none configured; built-in personas are used)\n")
	}
	for _, d := range cfg.Debaters {
		fmt.Fprintf(&sb, "  %s %s (%s/%s)", d.Icon, d.Name, d.Binding.Provider, d.Binding.Model)
		if d.Perspective != "" {
			sb.WriteString(" - " + truncate(d.Perspective, 50))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Council:\n")
	for _, role := range council.AllRoles {
		profile := council.ProfileFor(role)
		binding := cfg.CouncilBinding(string(role))
		fmt.Fprintf(&sb, "  %-10s %s/%s", profile.Name, binding.Provider, binding.Model)
		if len(profile.Focus) > 0 {
			sb.WriteString("  focus: " + strings.Join(profile.Focus, ", "))
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-2] + ".."
}
