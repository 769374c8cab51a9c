package providers

import (
	"errors"
	"sync"
)

var (
	// ErrNoProviders is returned when a registry is built without providers
	ErrNoProviders = errors.New("no providers configured")

	// ErrProviderNotFound is returned when a provider is not registered
	ErrProviderNotFound = errors.New("provider not found")

	// ErrProviderAlreadyRegistered is returned when registering a duplicate provider
	ErrProviderAlreadyRegistered = errors.New("provider already registered")
)

// Registry holds the provider chain in failover order: the primary first,
// fallbacks after it. The order is fixed at construction and never
// reordered, so callers can rely on cheap providers staying behind the
// primary.
type Registry struct {
	mu     sync.RWMutex
	order  []Provider
	byName map[string]Provider
}

// NewRegistry creates a registry from providers in the given order
func NewRegistry(provs ...Provider) (*Registry, error) {
	if len(provs) == 0 {
		return nil, ErrNoProviders
	}

	r := &Registry{
		order:  make([]Provider, 0, len(provs)),
		byName: make(map[string]Provider, len(provs)),
	}

	for _, p := range provs {
		if p == nil {
			return nil, errors.New("provider cannot be nil")
		}
		name := p.Name()
		if name == "" {
			return nil, errors.New("provider name cannot be empty")
		}
		if _, exists := r.byName[name]; exists {
			return nil, ErrProviderAlreadyRegistered
		}
		r.order = append(r.order, p)
		r.byName[name] = p
	}

	return r, nil
}

// List returns the providers in failover order. The slice is a copy;
// mutating it does not affect the registry.
func (r *Registry) List() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, len(r.order))
	copy(out, r.order)
	return out
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.byName[name]
	if !exists {
		return nil, ErrProviderNotFound
	}
	return p, nil
}

// Names returns the provider names in failover order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	for i, p := range r.order {
		names[i] = p.Name()
	}
	return names
}

// Len returns the number of registered providers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
