// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Judge.Provider != "openai" {
		t.Errorf("judge provider should default to openai, got %s", cfg.Judge.Provider)
	}
	if cfg.Defaults.VotingSystem != "ranked" {
		t.Errorf("voting system should default to ranked, got %s", cfg.Defaults.VotingSystem)
	}
	if cfg.Defaults.ConsensusThreshold != 0.6 {
		t.Errorf("consensus threshold should default to 0.6, got %v", cfg.Defaults.ConsensusThreshold)
	}
	if cfg.Defaults.CouncilMode != "deliberative" {
		t.Errorf("council mode should default to deliberative, got %s", cfg.Defaults.CouncilMode)
	}
}

func TestLoadPathMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadPath() failed: %v", err)
	}
	if cfg.Defaults.MaxRounds != 3 {
		t.Errorf("expected default max rounds 3, got %d", cfg.Defaults.MaxRounds)
	}
}

func TestLoadPathExpandsEnvAndAppliesDefaults(t *testing.T) {
	os.Setenv("SYMPOSIUM_TEST_KEY", "sk-test-123")
	raw := `
providers:
  deepseek:
    api_key: ${SYMPOSIUM_TEST_KEY}
judge:
  provider: deepseek
  model: deepseek-chat
council:
  strategist:
    provider: deepseek
    model: deepseek-reasoner
defaults:
  consensus_threshold: 0.75
debaters:
  - name: Skeptic
    binding:
      provider: deepseek
      model: deepseek-chat
    belief_persistence: 0.8
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPath(path)
	if err != nil {
		t.Fatalf("LoadPath() failed: %v", err)
	}
	if cfg.Providers["deepseek"].APIKey != "sk-test-123" {
		t.Errorf("env var not expanded, got %q", cfg.Providers["deepseek"].APIKey)
	}
	if cfg.Defaults.ConsensusThreshold != 0.75 {
		t.Errorf("explicit threshold lost, got %v", cfg.Defaults.ConsensusThreshold)
	}
	if cfg.Defaults.MaxRounds != 3 {
		t.Errorf("unset max rounds should default to 3, got %d", cfg.Defaults.MaxRounds)
	}
	if len(cfg.Debaters) != 1 || cfg.Debaters[0].Name != "Skeptic" {
		t.Errorf("debater preset lost: %+v", cfg.Debaters)
	}
	if cfg.Debaters[0].BeliefPersistence != 0.8 {
		t.Errorf("trait lost, got %v", cfg.Debaters[0].BeliefPersistence)
	}

	// Role with a binding resolves to it; others fall back to the judge.
	if got := cfg.CouncilBinding("strategist"); got.Model != "deepseek-reasoner" {
		t.Errorf("strategist binding wrong: %+v", got)
	}
	if got := cfg.CouncilBinding("builder"); got.Model != "deepseek-chat" {
		t.Errorf("builder must fall back to judge, got %+v", got)
	}
}
