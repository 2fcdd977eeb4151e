package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/podsni/symposium/internal/config"
	"github.com/podsni/symposium/internal/events"
	"github.com/podsni/symposium/internal/llm"
	"github.com/podsni/symposium/internal/store"
	"github.com/podsni/symposium/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}

	providers := make([]llm.ProviderConfig, 0, len(cfg.Providers))
	for name, p := range cfg.Providers {
		providers = append(providers, llm.ProviderConfig{Name: name, BaseURL: p.BaseURL, APIKey: p.APIKey})
	}

	client, err := llm.NewClient(providers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	registry := llm.NewRegistry(providers, llm.Binding{Provider: cfg.Judge.Provider, Model: cfg.Judge.Model})

	st, err := store.Open()
	if err != nil {
		// Sessions still work, they just will not survive a restart.
		log.Printf("[main] session store unavailable: %v", err)
		st = nil
	} else {
		defer st.Close()
	}

	// The endpoint may be configured while emission is switched off.
	emitter := events.NewEmitter(cfg.Events.Endpoint)
	emitter.SetEnabled(cfg.Events.Enabled)

	p := tea.NewProgram(ui.New(cfg, client, registry, st, emitter), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
