// internal/council/safety.go
// Automated audit scan over proposal text. Findings are advisory: they
// are injected into the voting prompts so every seat sees them, but the
// only hard gate remains the strategist's ethics veto.
package council

import (
	"regexp"
	"strings"
)

// riskPatterns flag proposal text that describes destructive or
// irreversible operations.
var riskPatterns = []struct {
	label   string
	pattern string
}{
	{"irreversible deletion", `rm\s+-rf`},
	{"irreversible deletion", `delete\s+(all|every)`},
	{"irreversible deletion", `wipe|purge\s+data`},
	{"destructive database operation", `DROP\s+(TABLE|DATABASE)`},
	{"destructive database operation", `TRUNCATE`},
	{"destructive database operation", `DELETE\s+FROM\s+\w+\s*;`},
	{"force push", `push\s+(--force|-f)\b`},
	{"service disruption", `(shut\s*down|disable|stop)\s+(the\s+)?(service|server|system)`},
	{"privilege escalation", `chmod\s+777`},
	{"privilege escalation", `run\s+as\s+root`},
	{"credential exposure", `(hardcode|embed|commit)\w*\s+(the\s+)?(password|secret|credential|api\s*key)`},
	{"bypassing review", `(skip|bypass)\w*\s+(the\s+)?(review|approval|test)`},
}

var riskRegexes []*regexp.Regexp

func init() {
	riskRegexes = make([]*regexp.Regexp, len(riskPatterns))
	for i, rp := range riskPatterns {
		riskRegexes[i] = regexp.MustCompile("(?i)" + rp.pattern)
	}
}

// AuditProposal scans a proposal's text for risk patterns and returns
// one finding per matched label, deduplicated, in pattern order.
func AuditProposal(p *Proposal) []string {
	var sb strings.Builder
	sb.WriteString(p.Title)
	sb.WriteString("\n")
	sb.WriteString(p.Description)
	sb.WriteString("\n")
	sb.WriteString(strings.Join(p.Steps, "\n"))
	text := sb.String()

	var findings []string
	seen := make(map[string]bool)
	for i, re := range riskRegexes {
		if !re.MatchString(text) {
			continue
		}
		label := riskPatterns[i].label
		if !seen[label] {
			findings = append(findings, label)
			seen[label] = true
		}
	}
	return findings
}
