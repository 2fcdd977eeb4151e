// Package commands handles slash command parsing for the symposium TUI.
package commands

import (
	"strconv"
	"strings"
)

// Command interface for all command types
type Command interface {
	Type() string
}

// Help returns help text
type Help struct{}

func (Help) Type() string { return "help" }

// StartDebate starts a debate session on a question. Options arrive as
// key=value tokens before the question text.
type StartDebate struct {
	Question  string
	Format    string  // voting, classic, tournament, team, panel
	System    string  // ranked, borda, approval, condorcet
	Rounds    int     // 0 means use the configured default
	Threshold float64 // 0 means use the configured default
}

func (StartDebate) Type() string { return "debate" }

// StartCouncil starts a council session on a question.
type StartCouncil struct {
	Question string
	Mode     string // quick, deliberative, ethical, builder
}

func (StartCouncil) Type() string { return "council" }

// Pause pauses the running session
type Pause struct{}

func (Pause) Type() string { return "pause" }

// Resume resumes a paused session
type Resume struct{}

func (Resume) Type() string { return "resume" }

// Stop checkpoints the running session and halts it
type Stop struct{}

func (Stop) Type() string { return "stop" }

// ShowHistory shows stored sessions
type ShowHistory struct{}

func (ShowHistory) Type() string { return "history" }

// LoadSession loads a stored session by id
type LoadSession struct {
	ID string
}

func (LoadSession) Type() string { return "load" }

// DeleteSession deletes a stored session by id
type DeleteSession struct {
	ID string
}

func (DeleteSession) Type() string { return "delete" }

// Export exports the current session
type Export struct {
	Format string // markdown or json
}

func (Export) Type() string { return "export" }

// ShowAgents shows the configured debater presets and council roles
type ShowAgents struct{}

func (ShowAgents) Type() string { return "agents" }

// ShowAnalytics shows analytics for the current debate session
type ShowAnalytics struct{}

func (ShowAnalytics) Type() string { return "analytics" }

// SetMode changes the default council mode
type SetMode struct {
	Mode string
}

func (SetMode) Type() string { return "mode" }

// SetVoting changes the default voting system
type SetVoting struct {
	System string
}

func (SetVoting) Type() string { return "voting" }

// Quit exits the program
type Quit struct{}

func (Quit) Type() string { return "quit" }

// ParseError represents a command parsing error
type ParseError struct {
	Message string
}

func (ParseError) Type() string { return "error" }

// Parse parses user input and returns the appropriate Command.
// Returns nil if the input is not a slash command.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help":
		return Help{}

	case "/debate":
		return parseDebate(args)

	case "/council":
		return parseCouncil(args)

	case "/pause":
		return Pause{}

	case "/resume":
		return Resume{}

	case "/stop":
		return Stop{}

	case "/history":
		return ShowHistory{}

	case "/load":
		if len(args) == 0 {
			return ParseError{Message: "/load requires a session id"}
		}
		return LoadSession{ID: args[0]}

	case "/delete":
		if len(args) == 0 {
			return ParseError{Message: "/delete requires a session id"}
		}
		return DeleteSession{ID: args[0]}

	case "/export":
		format := "markdown"
		if len(args) > 0 {
			format = strings.ToLower(args[0])
		}
		if format != "markdown" && format != "json" {
			return ParseError{Message: "unknown export format: " + format}
		}
		return Export{Format: format}

	case "/agents":
		return ShowAgents{}

	case "/analytics":
		return ShowAnalytics{}

	case "/mode":
		if len(args) == 0 {
			return ParseError{Message: "/mode requires one of: quick, deliberative, ethical, builder"}
		}
		mode := strings.ToLower(args[0])
		switch mode {
		case "quick", "deliberative", "ethical", "builder":
			return SetMode{Mode: mode}
		}
		return ParseError{Message: "unknown council mode: " + mode}

	case "/voting":
		if len(args) == 0 {
			return ParseError{Message: "/voting requires one of: ranked, borda, approval, condorcet"}
		}
		system := strings.ToLower(args[0])
		switch system {
		case "ranked", "borda", "approval", "condorcet":
			return SetVoting{System: system}
		}
		return ParseError{Message: "unknown voting system: " + system}

	case "/quit", "/exit":
		return Quit{}

	default:
		return ParseError{Message: "unknown command: " + cmd}
	}
}

// parseDebate consumes key=value options until the first plain token,
// which starts the question.
func parseDebate(args []string) Command {
	out := StartDebate{}
	var question []string
	for i, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			question = args[i:]
			break
		}
		switch strings.ToLower(key) {
		case "format":
			out.Format = strings.ToLower(value)
		case "system":
			out.System = strings.ToLower(value)
		case "rounds":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return ParseError{Message: "rounds must be a positive integer"}
			}
			out.Rounds = n
		case "threshold":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || f <= 0 || f > 1 {
				return ParseError{Message: "threshold must be in (0,1]"}
			}
			out.Threshold = f
		default:
			return ParseError{Message: "unknown debate option: " + key}
		}
	}
	out.Question = strings.Join(question, " ")
	if out.Question == "" {
		return ParseError{Message: "/debate requires a question"}
	}
	return out
}

func parseCouncil(args []string) Command {
	out := StartCouncil{}
	var question []string
	for i, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			question = args[i:]
			break
		}
		switch strings.ToLower(key) {
		case "mode":
			out.Mode = strings.ToLower(value)
		default:
			return ParseError{Message: "unknown council option: " + key}
		}
	}
	out.Question = strings.Join(question, " ")
	if out.Question == "" {
		return ParseError{Message: "/council requires a question"}
	}
	return out
}

// HelpText returns the help text for all available commands.
func HelpText() string {
	return `Available commands:
  /help                          - Show this help
  /debate [options] <question>   - Start a debate (format=, system=, rounds=, threshold=)
  /council [mode=<mode>] <question> - Start a council session
  /pause                         - Pause the running session
  /resume                        - Resume a paused session
  /stop                          - Checkpoint and halt the running session
  /history                       - Show stored sessions
  /load <id>                     - Load a stored session
  /delete <id>                   - Delete a stored session
  /export [markdown|json]        - Export the current session
  /agents                        - Show debater presets and council roles
  /analytics                     - Show analytics for the current debate
  /mode <mode>                   - Set the default council mode
  /voting <system>               - Set the default voting system
  /quit                          - Exit`
}
