// Package modules implements the host import machinery: a catalog of module
// builders and the default import entry point that loads from it.
package modules

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry maps absolute module names to their builders.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]ports.ModuleBuilder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]ports.ModuleBuilder)}
}

// Add registers a builder. Names are unique.
func (r *Registry) Add(name string, b ports.ModuleBuilder) error {
	if !domain.ValidModuleName(name) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidModuleName, "register module"), "module", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.builders[name]; exists {
		return zerr.With(zerr.Wrap(domain.ErrModuleBuildFailed, "module already registered"), "module", name)
	}
	r.builders[name] = b
	return nil
}

// AddAll registers every builder in bs, in name order.
func (r *Registry) AddAll(bs map[string]ports.ModuleBuilder) error {
	for _, name := range slices.Sorted(maps.Keys(bs)) {
		if err := r.Add(name, bs[name]); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the builder for name.
func (r *Registry) Lookup(name string) (ports.ModuleBuilder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[name]
	return b, ok
}

// IsPackage reports whether some registered module lives below name.
func (r *Registry) IsPackage(name string) bool {
	prefix := name + "."
	r.mu.RLock()
	defer r.mu.RUnlock()
	for n := range r.builders {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.builders))
}
