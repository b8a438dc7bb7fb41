package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownRenderer is returned when no renderer answers to a format name.
	ErrUnknownRenderer = errors.New("render: unknown renderer")
	// ErrDuplicateRenderer is returned when a format name is registered twice.
	ErrDuplicateRenderer = errors.New("render: renderer already registered")
)

// Registry maps output formats ("html", "markdown", "text") to the renderer
// that produces them. Format names are matched case-insensitively so a query
// string such as ?format=HTML resolves.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Renderer)}
}

func formatKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds renderer under its Name.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: nil renderer")
	}
	key := formatKey(renderer.Name())
	if key == "" {
		return errors.New("render: renderer has no format name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[key]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateRenderer, key)
	}
	r.byName[key] = renderer
	return nil
}

// MustRegister is Register for wiring code that cannot recover.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get resolves a format name. The error wraps ErrUnknownRenderer and lists
// the formats that are available.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byName[formatKey(name)]
	r.mu.RUnlock()
	if ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownRenderer, name, strings.Join(r.List(), ", "))
}

func (r *Registry) MustGet(name string) Renderer {
	renderer, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return renderer
}

// List returns the registered format names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[formatKey(name)]
	return ok
}
