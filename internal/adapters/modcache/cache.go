// Package modcache implements the process-wide loaded-module table.
package modcache

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/kunlun/internal/core/domain"
)

// Store implements ports.ModuleCache in memory. Entries are never evicted.
//
// Each call holds the lock only for the map access, so a module builder may
// import through the cache while another import is in flight. Two concurrent
// first loads of the same name both build; the later Put wins.
type Store struct {
	mu      sync.RWMutex
	modules map[string]*domain.Module
}

// New creates an empty cache.
func New() *Store {
	return &Store{modules: make(map[string]*domain.Module)}
}

// Get returns the module cached under name.
func (s *Store) Get(name string) (*domain.Module, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mod, ok := s.modules[name]
	return mod, ok
}

// Put stores mod under name.
func (s *Store) Put(name string, mod *domain.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[name] = mod
}

// Names returns the cached names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.modules))
}
