package router

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/routekit/routekit/catalog"
)

// Mux is an Executor that dispatches each attempt to the executor
// registered for the attempt's provider. It lets a fallback chain span
// providers with independent backends.
type Mux struct {
	mu        sync.RWMutex
	executors map[catalog.Provider]Executor
}

// NewMux creates an empty executor mux.
func NewMux() *Mux {
	return &Mux{executors: make(map[catalog.Provider]Executor)}
}

// Register adds an executor for a provider.
// Panics if the provider is already registered.
func (m *Mux) Register(provider catalog.Provider, exec Executor) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.executors[provider]; exists {
		panic(fmt.Sprintf("executor for provider %q already registered", provider))
	}
	m.executors[provider] = exec
}

// Unregister removes a provider's executor.
// This is primarily useful for testing.
func (m *Mux) Unregister(provider catalog.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.executors, provider)
}

// IsRegistered checks if a provider has an executor.
func (m *Mux) IsRegistered(provider catalog.Provider) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.executors[provider]
	return ok
}

// Providers returns the registered providers, sorted alphabetically for
// consistent ordering.
func (m *Mux) Providers() []catalog.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	providers := make([]catalog.Provider, 0, len(m.executors))
	for p := range m.executors {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}

// Execute implements Executor by dispatching on req.Provider. An attempt
// against a provider with no registered executor fails, which advances the
// router to the next fallback entry.
func (m *Mux) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error) {
	m.mu.RLock()
	exec, ok := m.executors[req.Provider]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoExecutor, req.Provider)
	}
	return exec.Execute(ctx, req)
}
