// Package module describes site adapters and the registry that hosts them.
// A module bundles a site's metadata, its configuration surface and a
// constructor for its backend; applications hold an explicit Registry
// instead of a process-global one so tests and embedders can build their
// own.
package module

import (
	"context"
	"fmt"
	"sync"
)

// Module is the static descriptor of one site adapter.
type Module struct {
	// Name identifies the module; registry keys and config files use it.
	Name        string
	Description string
	Maintainer  string
	Version     string
	License     string
	// Options declares the configuration the backend constructor needs.
	Options Options
	// Build constructs a backend from resolved configuration. The
	// returned value implements whichever capability interfaces from
	// pkg/capabilities the site supports.
	Build func(ctx context.Context, cfg Values) (any, error)
}

// Registry holds registered modules. The zero value is not usable; call
// NewRegistry.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{modules: map[string]*Module{}}
}

// Register adds a module. Registering a nil module, one without a name or
// constructor, or a duplicate name is an error.
func (r *Registry) Register(m *Module) error {
	if m == nil || m.Name == "" {
		return fmt.Errorf("module needs a name")
	}
	if m.Build == nil {
		return fmt.Errorf("module %q needs a constructor", m.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[m.Name]; exists {
		return fmt.Errorf("module %q already registered", m.Name)
	}
	r.modules[m.Name] = m
	r.order = append(r.order, m.Name)
	return nil
}

// Get looks a module up by name.
func (r *Registry) Get(name string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

// Names lists registered modules in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Build resolves the configuration against the module's options and
// constructs its backend.
func (r *Registry) Build(ctx context.Context, name string, vals Values) (any, error) {
	m, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown module %q", name)
	}
	cfg, err := m.Options.Resolve(vals)
	if err != nil {
		return nil, fmt.Errorf("module %q: %w", name, err)
	}
	backend, err := m.Build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("module %q: %w", name, err)
	}
	return backend, nil
}

// As reports whether the backend supports a capability interface and
// returns it typed.
func As[T any](backend any) (T, bool) {
	t, ok := backend.(T)
	return t, ok
}
