// internal/llm/registry.go
package llm

// Registry holds the configured providers and the distinguished judge
// binding. Built once at startup and passed by injection; nothing in the
// engines reaches for ambient global state.
type Registry struct {
	providers map[string]ProviderConfig
	order     []string // preserve config order for consistent display
	judge     Binding
}

// NewRegistry creates a registry from provider configs and a judge binding.
func NewRegistry(providers []ProviderConfig, judge Binding) *Registry {
	r := &Registry{
		providers: make(map[string]ProviderConfig),
		order:     []string{},
		judge:     judge,
	}
	for _, p := range providers {
		if _, ok := r.providers[p.Name]; ok {
			continue
		}
		r.providers[p.Name] = p
		r.order = append(r.order, p.Name)
	}
	return r
}

// Judge returns the binding reserved for single-call synthesis stages
// (debate judge, council moderator). By convention the most capable model.
func (r *Registry) Judge() Binding {
	return r.judge
}

// Has reports whether a provider is configured.
func (r *Registry) Has(provider string) bool {
	_, ok := r.providers[provider]
	return ok
}

// Providers returns provider names in config order.
func (r *Registry) Providers() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of configured providers.
func (r *Registry) Count() int {
	return len(r.order)
}
