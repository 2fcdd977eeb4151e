// internal/commands/commands_test.go
package commands

import (
	"strings"
	"testing"
)

func TestParseNonCommand(t *testing.T) {
	inputs := []string{"", "hello", "what about /debate", "  plain text  "}
	for _, in := range inputs {
		if got := Parse(in); got != nil {
			t.Errorf("Parse(%q): expected nil, got %T", in, got)
		}
	}
}

func TestParseSimpleCommands(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "help"},
		{"/pause", "pause"},
		{"/resume", "resume"},
		{"/stop", "stop"},
		{"/history", "history"},
		{"/agents", "agents"},
		{"/analytics", "analytics"},
		{"/quit", "quit"},
		{"/exit", "quit"},
		{"/HELP", "help"},
		{"  /pause  ", "pause"},
	}
	for _, tt := range tests {
		got := Parse(tt.input)
		if got == nil || got.Type() != tt.want {
			t.Errorf("Parse(%q): expected type %q, got %v", tt.input, tt.want, got)
		}
	}
}

func TestParseDebate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  StartDebate
	}{
		{
			name:  "plain question",
			input: "/debate Is Go better than Rust",
			want:  StartDebate{Question: "Is Go better than Rust"},
		},
		{
			name:  "with options",
			input: "/debate format=tournament system=borda rounds=4 threshold=0.7 Who wins",
			want:  StartDebate{Question: "Who wins", Format: "tournament", System: "borda", Rounds: 4, Threshold: 0.7},
		},
		{
			name:  "options stop at first plain token",
			input: "/debate format=classic Is format=json better",
			want:  StartDebate{Question: "Is format=json better", Format: "classic"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input).(StartDebate)
			if !ok {
				t.Fatalf("Parse(%q): expected StartDebate, got %v", tt.input, Parse(tt.input))
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDebateErrors(t *testing.T) {
	inputs := []string{
		"/debate",
		"/debate rounds=zero How",
		"/debate rounds=0 How",
		"/debate threshold=1.5 How",
		"/debate speed=fast How",
	}
	for _, in := range inputs {
		if _, ok := Parse(in).(ParseError); !ok {
			t.Errorf("Parse(%q): expected ParseError, got %v", in, Parse(in))
		}
	}
}

func TestParseCouncil(t *testing.T) {
	got, ok := Parse("/council mode=ethical Should we sell user data").(StartCouncil)
	if !ok {
		t.Fatal("expected StartCouncil")
	}
	if got.Mode != "ethical" || got.Question != "Should we sell user data" {
		t.Errorf("unexpected parse: %+v", got)
	}

	got, ok = Parse("/council Just decide something").(StartCouncil)
	if !ok {
		t.Fatal("expected StartCouncil")
	}
	if got.Mode != "" || got.Question != "Just decide something" {
		t.Errorf("unexpected parse: %+v", got)
	}

	if _, ok := Parse("/council").(ParseError); !ok {
		t.Error("bare /council must be a parse error")
	}
	if _, ok := Parse("/council speed=fast Q").(ParseError); !ok {
		t.Error("unknown council option must be a parse error")
	}
}

func TestParseLoadDelete(t *testing.T) {
	load, ok := Parse("/load abc-123").(LoadSession)
	if !ok || load.ID != "abc-123" {
		t.Errorf("load parse failed: %v", Parse("/load abc-123"))
	}
	del, ok := Parse("/delete abc-123").(DeleteSession)
	if !ok || del.ID != "abc-123" {
		t.Errorf("delete parse failed: %v", Parse("/delete abc-123"))
	}
	if _, ok := Parse("/load").(ParseError); !ok {
		t.Error("bare /load must be a parse error")
	}
	if _, ok := Parse("/delete").(ParseError); !ok {
		t.Error("bare /delete must be a parse error")
	}
}

func TestParseExport(t *testing.T) {
	exp, ok := Parse("/export").(Export)
	if !ok || exp.Format != "markdown" {
		t.Errorf("default export format must be markdown, got %v", Parse("/export"))
	}
	exp, ok = Parse("/export json").(Export)
	if !ok || exp.Format != "json" {
		t.Errorf("json export parse failed: %v", Parse("/export json"))
	}
	if _, ok := Parse("/export pdf").(ParseError); !ok {
		t.Error("unknown export format must be a parse error")
	}
}

func TestParseModeAndVoting(t *testing.T) {
	mode, ok := Parse("/mode ethical").(SetMode)
	if !ok || mode.Mode != "ethical" {
		t.Errorf("mode parse failed: %v", Parse("/mode ethical"))
	}
	if _, ok := Parse("/mode fast").(ParseError); !ok {
		t.Error("unknown mode must be a parse error")
	}
	if _, ok := Parse("/mode").(ParseError); !ok {
		t.Error("bare /mode must be a parse error")
	}

	sys, ok := Parse("/voting borda").(SetVoting)
	if !ok || sys.System != "borda" {
		t.Errorf("voting parse failed: %v", Parse("/voting borda"))
	}
	if _, ok := Parse("/voting plurality").(ParseError); !ok {
		t.Error("unknown voting system must be a parse error")
	}
}

func TestParseUnknownCommand(t *testing.T) {
	got, ok := Parse("/frobnicate").(ParseError)
	if !ok {
		t.Fatalf("expected ParseError, got %v", Parse("/frobnicate"))
	}
	if !strings.Contains(got.Message, "/frobnicate") {
		t.Errorf("error should name the command, got %q", got.Message)
	}
}

func TestHelpTextMentionsEveryCommand(t *testing.T) {
	help := HelpText()
	for _, cmd := range []string{"/debate", "/council", "/pause", "/resume", "/stop", "/history", "/load", "/delete", "/export", "/agents", "/analytics", "/mode", "/voting", "/quit"} {
		if !strings.Contains(help, cmd) {
			t.Errorf("help text missing %s", cmd)
		}
	}
}
