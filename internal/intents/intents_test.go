// internal/intents/intents_test.go
package intents

import (
	"testing"

	"github.com/podsni/symposium/internal/commands"
)

func TestDetectStartDebate(t *testing.T) {
	tests := []struct {
		input string
		topic string
	}{
		{"start a debate about whether tabs beat spaces", "whether tabs beat spaces"},
		{"Begin debate on microservices", "microservices"},
		{"launch a debate regarding the rewrite", "the rewrite"},
	}
	for _, tt := range tests {
		det := Detect(tt.input)
		if det == nil || det.Intent != IntentStartDebate {
			t.Errorf("Detect(%q): expected START_DEBATE, got %+v", tt.input, det)
			continue
		}
		cmd, ok := det.Command.(commands.StartDebate)
		if !ok || cmd.Question != tt.topic {
			t.Errorf("Detect(%q): expected topic %q, got %+v", tt.input, tt.topic, det.Command)
		}
	}
}

func TestDetectStartCouncil(t *testing.T) {
	det := Detect("convene a council on the caching strategy")
	if det == nil || det.Intent != IntentStartCouncil {
		t.Fatalf("expected START_COUNCIL, got %+v", det)
	}
	cmd := det.Command.(commands.StartCouncil)
	if cmd.Question != "the caching strategy" {
		t.Errorf("unexpected topic %q", cmd.Question)
	}
	if cmd.Mode != "" {
		t.Errorf("no mode word given, got %q", cmd.Mode)
	}
}

func TestDetectCouncilMode(t *testing.T) {
	tests := []struct {
		input string
		mode  string
		topic string
	}{
		{"convene an ethical council on selling user data", "ethical", "selling user data"},
		{"run a quick council about the launch date", "quick", "the launch date"},
		{"start the deliberative council on hiring", "deliberative", "hiring"},
	}
	for _, tt := range tests {
		det := Detect(tt.input)
		if det == nil || det.Intent != IntentStartCouncil {
			t.Errorf("Detect(%q): expected START_COUNCIL, got %+v", tt.input, det)
			continue
		}
		cmd := det.Command.(commands.StartCouncil)
		if cmd.Mode != tt.mode {
			t.Errorf("Detect(%q): expected mode %q, got %q", tt.input, tt.mode, cmd.Mode)
		}
		if cmd.Question != tt.topic {
			t.Errorf("Detect(%q): expected topic %q, got %q", tt.input, tt.topic, cmd.Question)
		}
	}
}

func TestDetectRunControl(t *testing.T) {
	tests := []struct {
		input  string
		intent string
	}{
		{"pause the debate", IntentPause},
		{"please pause the session", IntentPause},
		{"resume the council", IntentResume},
		{"continue the session", IntentResume},
		{"stop the debate", IntentStop},
		{"end the session", IntentStop},
		{"show history", IntentHistory},
		{"list past sessions", IntentHistory},
	}
	for _, tt := range tests {
		det := Detect(tt.input)
		if det == nil || det.Intent != tt.intent {
			t.Errorf("Detect(%q): expected %s, got %+v", tt.input, tt.intent, det)
		}
	}
}

func TestDetectExport(t *testing.T) {
	det := Detect("export the session as json")
	if det == nil || det.Intent != IntentExport {
		t.Fatalf("expected EXPORT, got %+v", det)
	}
	if det.Command.(commands.Export).Format != "json" {
		t.Errorf("expected json format, got %+v", det.Command)
	}

	det = Detect("export the debate")
	if det == nil || det.Command.(commands.Export).Format != "markdown" {
		t.Errorf("default export format must be markdown, got %+v", det)
	}
}

func TestDetectNoIntent(t *testing.T) {
	inputs := []string{
		"",
		"what is the weather like",
		"I debated whether to go",
		"the council of elders was wise",
	}
	for _, in := range inputs {
		if det := Detect(in); det != nil {
			t.Errorf("Detect(%q): expected nil, got %+v", in, det)
		}
	}
}
