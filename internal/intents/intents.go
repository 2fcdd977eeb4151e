// Package intents maps free natural-language input to the same commands
// the slash syntax produces, so "start a debate about X" works without
// remembering /debate.
package intents

import (
	"regexp"
	"strings"

	"github.com/podsni/symposium/internal/commands"
)

// Intent names for observability.
const (
	IntentStartDebate  = "START_DEBATE"
	IntentStartCouncil = "START_COUNCIL"
	IntentPause        = "PAUSE"
	IntentResume       = "RESUME"
	IntentStop         = "STOP"
	IntentHistory      = "HISTORY"
	IntentExport       = "EXPORT"
)

// Detection couples the resolved command with the intent that matched.
type Detection struct {
	Intent  string
	Command commands.Command
}

var (
	debatePattern  = regexp.MustCompile(`(?:start|begin|open|launch|run)\s+(?:a\s+)?debate\s+(?:about|on|over|regarding)?\s*(.+)`)
	// The optional word slot between the article and "council" admits a
	// mode adjective, as in "convene an ethical council on X".
	councilPattern = regexp.MustCompile(`(?:start|convene|begin|run|ask)\s+(?:an?\s+|the\s+)?(?:\w+\s+)?council\s+(?:about|on|over|regarding)?\s*(.+)`)
	pausePattern   = regexp.MustCompile(`pause\s+(?:the\s+)?(?:debate|council|session)`)
	resumePattern  = regexp.MustCompile(`(?:resume|continue)\s+(?:the\s+)?(?:debate|council|session)`)
	stopPattern    = regexp.MustCompile(`(?:stop|halt|end|finish)\s+(?:the\s+)?(?:debate|council|session)`)
	historyPattern = regexp.MustCompile(`(?:show|list)\s+(?:the\s+)?(?:history|past\s+sessions|previous\s+sessions)`)
	exportPattern  = regexp.MustCompile(`export\s+(?:the\s+)?(?:debate|council|session)(?:\s+(?:as|to)\s+(\w+))?`)

	// Mode words recognized inside a council request, e.g. "convene an
	// ethical council on ...".
	modePattern = regexp.MustCompile(`\b(quick|deliberative|ethical|builder)\b.*\bcouncil\b`)
)

// Detect classifies free text. Returns nil when no intent matches; the
// caller falls back to treating the input as plain chat.
func Detect(input string) *Detection {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return nil
	}

	// Council before debate: "start a council debate about X" should
	// convene a council.
	if m := councilPattern.FindStringSubmatch(text); m != nil {
		topic := strings.TrimSpace(m[1])
		if topic == "" {
			return nil
		}
		mode := ""
		if mm := modePattern.FindStringSubmatch(text); mm != nil {
			mode = mm[1]
		}
		return &Detection{
			Intent:  IntentStartCouncil,
			Command: commands.StartCouncil{Question: topic, Mode: mode},
		}
	}

	if m := debatePattern.FindStringSubmatch(text); m != nil {
		topic := strings.TrimSpace(m[1])
		if topic == "" {
			return nil
		}
		return &Detection{
			Intent:  IntentStartDebate,
			Command: commands.StartDebate{Question: topic},
		}
	}

	switch {
	case pausePattern.MatchString(text):
		return &Detection{Intent: IntentPause, Command: commands.Pause{}}
	case resumePattern.MatchString(text):
		return &Detection{Intent: IntentResume, Command: commands.Resume{}}
	case stopPattern.MatchString(text):
		return &Detection{Intent: IntentStop, Command: commands.Stop{}}
	case historyPattern.MatchString(text):
		return &Detection{Intent: IntentHistory, Command: commands.ShowHistory{}}
	}

	if m := exportPattern.FindStringSubmatch(text); m != nil {
		format := "markdown"
		if m[1] == "json" {
			format = "json"
		}
		return &Detection{Intent: IntentExport, Command: commands.Export{Format: format}}
	}

	return nil
}
