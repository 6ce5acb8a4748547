package ports

import "go.trai.ch/kunlun/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=modules.go -destination=mocks/mock_modules.go -package=mocks

// ImportFunc is the single process-wide import entry point.
type ImportFunc func(req domain.ImportRequest) (*domain.Module, error)

// ModuleBuilder populates a freshly created module. Other modules are
// imported through imp, the entry point installed at build time.
type ModuleBuilder func(mod *domain.Module, imp ImportFunc) error

// ModuleLoader loads a module by absolute dotted name.
type ModuleLoader interface {
	// Load returns the module, building it and its parents on first use.
	// Loaded modules are recorded in the module cache.
	Load(name string) (*domain.Module, error)
}

// ModuleCache is the name→module table consulted before any module is built.
// Entries are never evicted.
type ModuleCache interface {
	// Get returns the module cached under name.
	Get(name string) (*domain.Module, bool)
	// Put stores mod under name, replacing any previous entry.
	Put(name string, mod *domain.Module)
	// Names returns the cached names in sorted order.
	Names() []string
}

// ImportSystem owns the installed import entry point.
type ImportSystem interface {
	// Current returns the installed entry point.
	Current() ImportFunc
	// Install replaces the installed entry point.
	Install(fn ImportFunc)
	// Import calls the installed entry point.
	Import(req domain.ImportRequest) (*domain.Module, error)
}
