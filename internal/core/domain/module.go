package domain

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Module is a named symbol table. Identity matters: two importers observe the
// same module only when they hold the same *Module, which is what makes a
// patch applied to the object visible everywhere.
type Module struct {
	name    string
	mu      sync.RWMutex
	symbols map[string]any
}

// NewModule creates an empty module with the given dotted name.
func NewModule(name string) *Module {
	return &Module{
		name:    name,
		symbols: make(map[string]any),
	}
}

// NewModuleWith creates a module pre-populated with symbols.
func NewModuleWith(name string, symbols map[string]any) *Module {
	m := NewModule(name)
	maps.Copy(m.symbols, symbols)
	return m
}

// Name returns the dotted name the module was built under.
func (m *Module) Name() string {
	return m.name
}

// Get returns the symbol bound to key.
func (m *Module) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.symbols[key]
	return v, ok
}

// Set binds a symbol, replacing any previous binding.
func (m *Module) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.symbols[key] = value
}

// Symbols returns the sorted symbol names.
func (m *Module) Symbols() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.symbols))
}

// Wrap returns a new module carrying a shallow copy of m's symbols with
// overrides applied on top. The original module is left untouched.
func (m *Module) Wrap(overrides map[string]any) *Module {
	m.mu.RLock()
	wrapped := NewModuleWith(m.name, m.symbols)
	m.mu.RUnlock()

	maps.Copy(wrapped.symbols, overrides)
	return wrapped
}

// ImportRequest describes one call into the import entry point.
type ImportRequest struct {
	// Name is the requested module name, possibly relative when Level > 0.
	Name string
	// FromList lists the names requested with a "from name import ..." form.
	// An empty list asks for the top-level package.
	FromList []string
	// Level is the number of leading dots of a relative import.
	Level int
	// Package is the importing package, used to resolve relative imports.
	Package string
}

// ParentNames returns the dotted prefixes of name, outermost first,
// excluding name itself: "a.b.c" yields ["a", "a.b"].
func ParentNames(name string) []string {
	parts := strings.Split(name, ".")
	parents := make([]string, 0, len(parts)-1)
	for i := 1; i < len(parts); i++ {
		parents = append(parents, strings.Join(parts[:i], "."))
	}
	return parents
}

// ValidModuleName reports whether name is a non-empty dotted identifier path.
func ValidModuleName(name string) bool {
	if name == "" {
		return false
	}
	for part := range strings.SplitSeq(name, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			isLetter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
			isDigit := r >= '0' && r <= '9'
			if !isLetter && (!isDigit || i == 0) {
				return false
			}
		}
	}
	return true
}
