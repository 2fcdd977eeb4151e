// internal/debate/prompts.go
package debate

import (
	"fmt"
	"strings"
)

// systemPrompt embeds the debater's persona, trait percentages and current
// private belief. Team debaters additionally get coordination framing.
func systemPrompt(s *Session, d *Debater) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s %s, a debater in a structured multi-agent debate.\n", d.Icon, d.Name)
	if d.Perspective != "" {
		fmt.Fprintf(&sb, "Your perspective: %s\n", d.Perspective)
	}
	fmt.Fprintf(&sb, "Your traits: belief persistence %d%%, reasoning depth %d%%, truth seeking %d%%.\n",
		pct(d.BeliefPersistence), pct(d.ReasoningDepth), pct(d.TruthSeeking))
	if d.InternalBelief != nil {
		fmt.Fprintf(&sb, "Your current private conviction in your position: %d%%.\n", pct(*d.InternalBelief))
	}

	if s.Format == FormatTeam && d.Team != "" {
		fmt.Fprintf(&sb, "You argue for %s. Coordinate with your teammates: reinforce their points and cover the gaps the other team is attacking.\n", d.Team)
		if mates := teammates(s, d); len(mates) > 0 {
			fmt.Fprintf(&sb, "Your teammates: %s.\n", strings.Join(mates, ", "))
		}
	}
	if s.Format == FormatPanel {
		sb.WriteString("This is a panel discussion: respond to the other panelists by name and build on or challenge their specific points.\n")
	}

	sb.WriteString("Argue your position directly and substantively. Address other debaters' points by name when rebutting.")
	return sb.String()
}

// userPrompt contains the question plus a transcript of all prior rounds.
// Round 0 gets no transcript: opening statements stand alone.
func userPrompt(s *Session, roundType RoundType) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Debate question: %s\n\n", s.Question)

	if len(s.Rounds) == 0 {
		sb.WriteString("Give your opening statement on the question.")
		return sb.String()
	}

	sb.WriteString("Transcript so far:\n")
	sb.WriteString(transcript(s))
	sb.WriteString("\n")

	switch roundType {
	case RoundRebuttal:
		sb.WriteString("Rebut the strongest opposing arguments above, then restate your position.")
	default:
		sb.WriteString("Respond to the arguments above and advance your own position.")
	}
	return sb.String()
}

// votePrompt asks a debater to rank every participant best-to-worst based
// on the round's arguments. The reply must contain a JSON array of ids.
func votePrompt(s *Session, round *Round) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Debate question: %s\n\n", s.Question)
	fmt.Fprintf(&sb, "Arguments from round %d:\n", round.Index)
	for _, a := range round.Arguments {
		fmt.Fprintf(&sb, "%s: %s\n\n", attribution(s, a.DebaterID), a.Content)
	}

	ids := make([]string, 0, len(s.Debaters))
	for _, d := range s.Debaters {
		ids = append(ids, fmt.Sprintf("%q", d.ID))
	}
	fmt.Fprintf(&sb, "Rank ALL participants from strongest to weakest argument. Participant ids: [%s].\n", strings.Join(ids, ", "))
	sb.WriteString("Reply with a JSON array of participant ids, best first, e.g. [\"id1\",\"id2\"]. You may vote for yourself.")
	return sb.String()
}

// judgePrompt concatenates every argument from every round with
// attribution for the neutral judge.
func judgePrompt(s *Session) string {
	var sb strings.Builder

	sb.WriteString("You are a neutral judge. Several debaters argued the question below across multiple rounds.\n\n")
	fmt.Fprintf(&sb, "Question: %s\n\n", s.Question)
	sb.WriteString("Full transcript:\n")
	sb.WriteString(transcript(s))
	sb.WriteString("\nWeigh the arguments on their merits, name the strongest position, and give a synthesized final judgment with your reasoning.")
	return sb.String()
}

// transcript renders all completed rounds with attribution.
func transcript(s *Session) string {
	var sb strings.Builder
	for _, r := range s.Rounds {
		fmt.Fprintf(&sb, "--- Round %d (%s) ---\n", r.Index, r.Type)
		for _, a := range r.Arguments {
			fmt.Fprintf(&sb, "%s: %s\n\n", attribution(s, a.DebaterID), a.Content)
		}
	}
	return sb.String()
}

func attribution(s *Session, debaterID string) string {
	d := s.Debater(debaterID)
	if d == nil {
		return debaterID
	}
	if d.Icon != "" {
		return d.Icon + " " + d.Name
	}
	return d.Name
}

func teammates(s *Session, d *Debater) []string {
	var mates []string
	for _, other := range s.Debaters {
		if other.ID != d.ID && other.Team == d.Team {
			mates = append(mates, other.Name)
		}
	}
	return mates
}

func pct(v float64) int {
	return int(v * 100)
}
