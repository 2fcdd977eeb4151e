// internal/export/markdown.go
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/podsni/symposium/internal/council"
	"github.com/podsni/symposium/internal/debate"
)

// DebateMarkdown renders a debate session as a formatted markdown
// document: metadata, roster, round transcript with attribution, vote
// outcomes and the judge's decision.
func DebateMarkdown(s *debate.Session) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(s.Question)
	sb.WriteString("\n\n")

	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("**Session ID:** `%s`\n\n", s.ID))
	sb.WriteString(fmt.Sprintf("**Created:** %s\n\n", formatMillis(s.CreatedAt)))
	sb.WriteString(fmt.Sprintf("**Format:** %s | **Voting:** %s | **Status:** %s\n\n", s.Format, s.VotingSystem, s.Status))

	if len(s.Debaters) > 0 {
		sb.WriteString("**Debaters:** ")
		names := make([]string, len(s.Debaters))
		for i, d := range s.Debaters {
			names[i] = d.Name
			if d.Team != "" {
				names[i] += " (" + d.Team + ")"
			}
		}
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString("\n\n")
	}

	sb.WriteString("---\n\n")
	sb.WriteString("## Transcript\n\n")

	for _, r := range s.Rounds {
		sb.WriteString(fmt.Sprintf("### Round %d (%s)\n\n", r.Index, r.Type))
		for _, a := range r.Arguments {
			sb.WriteString(fmt.Sprintf("**%s:**\n\n", s.DebaterName(a.DebaterID)))
			writeQuoted(&sb, a.Content)
			sb.WriteString("\n")
		}
		if len(r.Votes) > 0 {
			sb.WriteString("**Ballots:**\n\n")
			for _, b := range r.Votes {
				ranked := make([]string, len(b.Ranking))
				for i, id := range b.Ranking {
					ranked[i] = s.DebaterName(id)
				}
				sb.WriteString(fmt.Sprintf("- %s: %s\n", s.DebaterName(b.VoterID), strings.Join(ranked, " > ")))
			}
			sb.WriteString("\n")
		}
		if r.ConsensusReached != nil && *r.ConsensusReached {
			sb.WriteString("*Consensus reached this round.*\n\n")
		}
	}

	if s.WinnerID != "" {
		sb.WriteString(fmt.Sprintf("## Winner\n\n%s\n\n", s.DebaterName(s.WinnerID)))
	}
	if s.FinalDecision != "" {
		sb.WriteString("## Judge's Decision\n\n")
		writeQuoted(&sb, s.FinalDecision)
		sb.WriteString("\n")
	}

	writeFooter(&sb)
	return sb.String()
}

// CouncilMarkdown renders a council session: opinions by round,
// proposals, the vote table, the decision with minority notes, and the
// reflection when present.
func CouncilMarkdown(s *council.Session) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(s.Question)
	sb.WriteString("\n\n")

	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("**Session ID:** `%s`\n\n", s.ID))
	sb.WriteString(fmt.Sprintf("**Created:** %s\n\n", formatMillis(s.CreatedAt)))
	sb.WriteString(fmt.Sprintf("**Mode:** %s | **State:** %s | **Tokens used:** %d\n\n", s.Mode, s.State, s.Tokens.Used))
	sb.WriteString("---\n\n")

	if len(s.Opinions) > 0 {
		sb.WriteString("## Discussion\n\n")
		current := -1
		for _, op := range s.Opinions {
			if op.Round != current {
				current = op.Round
				if current == 0 {
					sb.WriteString("### Initial Opinions\n\n")
				} else {
					sb.WriteString(fmt.Sprintf("### Debate Round %d\n\n", current))
				}
			}
			sb.WriteString(fmt.Sprintf("**%s:**\n\n", council.ProfileFor(op.Role).Name))
			writeQuoted(&sb, op.Content)
			sb.WriteString("\n")
		}
	}

	if len(s.Proposals) > 0 {
		sb.WriteString("## Proposals\n\n")
		for _, p := range s.Proposals {
			sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", proposalTitle(&p), council.ProfileFor(p.Role).Name))
			sb.WriteString(p.Description)
			sb.WriteString("\n\n")
			writeList(&sb, "Steps", p.Steps)
			writeList(&sb, "Risks", p.Risks)
			writeList(&sb, "Benefits", p.Benefits)
		}
	}

	if len(s.Votes) > 0 {
		sb.WriteString("## Votes\n\n")
		sb.WriteString("| Role | Proposal | Logic | Feasibility | Safety | Benefit | Ethics | Overall | Veto |\n")
		sb.WriteString("|------|----------|-------|-------------|--------|---------|--------|---------|------|\n")
		for _, v := range s.Votes {
			title := "?"
			if p := s.ProposalByID(v.ProposalID); p != nil {
				title = proposalTitle(p)
			}
			veto := ""
			if v.Veto {
				veto = "VETO"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %d | %d | %.1f | %s |\n",
				council.ProfileFor(v.Role).Name, title,
				v.Scores.Logic, v.Scores.Feasibility, v.Scores.Safety, v.Scores.Benefit, v.Scores.Ethics,
				v.Overall, veto))
		}
		sb.WriteString("\n")
	}

	if s.Decision != nil {
		sb.WriteString("## Decision\n\n")
		if p := s.ProposalByID(s.Decision.SelectedProposalID); p != nil {
			sb.WriteString(fmt.Sprintf("**Selected:** %s (weighted score %.2f, consensus %.1f/10)\n\n",
				proposalTitle(p), s.Decision.FinalScore, s.Decision.Consensus))
		}
		writeQuoted(&sb, s.Decision.Reasoning)
		sb.WriteString("\n")
		writeList(&sb, "Recommendations", s.Decision.Recommendations)
		writeList(&sb, "Risks", s.Decision.Risks)
		writeList(&sb, "Mitigations", s.Decision.Mitigations)
		writeList(&sb, "Minority Notes", s.Decision.MinorityNotes)
	}

	if s.Reflection != nil {
		sb.WriteString("## Reflection\n\n")
		writeList(&sb, "Went Well", s.Reflection.WentWell)
		writeList(&sb, "Could Have Improved", s.Reflection.CouldHaveImproved)
		writeList(&sb, "Learnings", s.Reflection.Learnings)
		if s.Reflection.Summary != "" {
			sb.WriteString(s.Reflection.Summary)
			sb.WriteString("\n\n")
		}
	}

	writeFooter(&sb)
	return sb.String()
}

// WriteMarkdown writes content under baseDir/sessions with a
// YYYY-MM-DD-question.md filename and returns the full path.
func WriteMarkdown(content, question string, createdAt int64, baseDir string) (string, error) {
	datePart := time.UnixMilli(createdAt).Format("2006-01-02")
	filename := fmt.Sprintf("%s-%s.md", datePart, sanitizeFilename(question))

	dir := filepath.Join(baseDir, "sessions")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create sessions directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

func proposalTitle(p *council.Proposal) string {
	if p.Title != "" {
		return p.Title
	}
	return "Untitled proposal"
}

// writeQuoted blockquotes plain text; content that already carries code
// fences is written as-is.
func writeQuoted(sb *strings.Builder, content string) {
	content = strings.TrimSpace(content)
	if strings.Contains(content, "```") {
		sb.WriteString(content)
		sb.WriteString("\n")
		return
	}
	for _, line := range strings.Split(content, "\n") {
		sb.WriteString("> ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("**%s:**\n\n", title))
	for _, item := range items {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func writeFooter(sb *strings.Builder) {
	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from Symposium on %s*\n", time.Now().Format("2006-01-02 15:04:05")))
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}

// sanitizeFilename lowercases and strips everything but [a-z0-9-_].
func sanitizeFilename(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")

	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '-' || r == '_':
			sb.WriteRune(r)
		}
	}

	result := sb.String()
	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	result = strings.Trim(result, "-")
	if result == "" {
		result = "session"
	}
	if len(result) > 50 {
		result = result[:50]
	}
	return result
}
