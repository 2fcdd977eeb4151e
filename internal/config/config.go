// internal/config/config.go
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProviderConfig is one OpenAI-compatible backend. APIKey supports
// ${ENV_VAR} expansion at load time.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
}

// BindingConfig names a provider/model pair.
type BindingConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// DebaterPreset is a reusable persona for debate sessions.
type DebaterPreset struct {
	Name        string        `yaml:"name"`
	Icon        string        `yaml:"icon,omitempty"`
	Perspective string        `yaml:"perspective,omitempty"`
	Binding     BindingConfig `yaml:"binding"`

	BeliefPersistence float64 `yaml:"belief_persistence"`
	ReasoningDepth    float64 `yaml:"reasoning_depth"`
	TruthSeeking      float64 `yaml:"truth_seeking"`
}

type Config struct {
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Judge is the binding for the debate judge call.
	Judge BindingConfig `yaml:"judge"`

	// Council maps role names (analyst, builder, strategist, auditor,
	// moderator) to bindings. Unset roles fall back to the judge binding.
	Council map[string]BindingConfig `yaml:"council"`

	Debaters []DebaterPreset `yaml:"debaters"`

	Defaults struct {
		VotingSystem       string  `yaml:"voting_system"`
		ConsensusThreshold float64 `yaml:"consensus_threshold"`
		MaxRounds          int     `yaml:"max_rounds"`
		CouncilMode        string  `yaml:"council_mode"`
		MaxTokens          int     `yaml:"max_tokens"`
	} `yaml:"defaults"`

	Events struct {
		Endpoint string `yaml:"endpoint,omitempty"`
		Enabled  bool   `yaml:"enabled"`
	} `yaml:"events"`
}

// Load reads the config file, falling back to defaults when it is
// missing. Environment variables in the file are expanded before parse.
func Load() (*Config, error) {
	return LoadPath(Path())
}

// LoadPath reads a config from an explicit path.
func LoadPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultConfig(), nil
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"openai": {APIKey: os.Getenv("OPENAI_API_KEY")},
		},
		Judge: BindingConfig{Provider: "openai", Model: "gpt-4o"},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Providers == nil {
		cfg.Providers = map[string]ProviderConfig{}
	}
	if cfg.Judge.Provider == "" {
		cfg.Judge = BindingConfig{Provider: "openai", Model: "gpt-4o"}
	}
	if cfg.Defaults.VotingSystem == "" {
		cfg.Defaults.VotingSystem = "ranked"
	}
	if cfg.Defaults.ConsensusThreshold == 0 {
		cfg.Defaults.ConsensusThreshold = 0.6
	}
	if cfg.Defaults.MaxRounds == 0 {
		cfg.Defaults.MaxRounds = 3
	}
	if cfg.Defaults.CouncilMode == "" {
		cfg.Defaults.CouncilMode = "deliberative"
	}
	if cfg.Defaults.MaxTokens == 0 {
		cfg.Defaults.MaxTokens = 1024
	}
}

// CouncilBinding resolves a role's binding, falling back to the judge.
func (c *Config) CouncilBinding(role string) BindingConfig {
	if b, ok := c.Council[role]; ok && b.Provider != "" {
		return b
	}
	return c.Judge
}

// Path returns the config file location under the user config dir.
func Path() string {
	configDir, err := os.UserConfigDir()
	if err != nil || configDir == "" {
		configDir = os.ExpandEnv("$HOME/.config")
	}
	return filepath.Join(configDir, "symposium", "config.yaml")
}
