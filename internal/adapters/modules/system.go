package modules

import (
	"errors"
	"strings"
	"sync"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/zerr"
)

// System is the host import machinery. It implements ports.ModuleLoader and
// ports.ImportSystem; its DefaultImport is the entry point installed until
// something replaces it.
type System struct {
	registry *Registry
	cache    ports.ModuleCache

	mu      sync.RWMutex
	current ports.ImportFunc
}

// NewSystem creates an import system loading from registry into cache.
func NewSystem(registry *Registry, cache ports.ModuleCache) *System {
	s := &System{
		registry: registry,
		cache:    cache,
	}
	s.current = s.DefaultImport
	return s
}

// Current returns the installed entry point.
func (s *System) Current() ports.ImportFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Install replaces the installed entry point.
func (s *System) Install(fn ports.ImportFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = fn
}

// Import calls the installed entry point.
func (s *System) Import(req domain.ImportRequest) (*domain.Module, error) {
	return s.Current()(req)
}

// Load returns the module with the given absolute name, loading its parents
// first and binding each freshly built child as an attribute of its parent.
func (s *System) Load(name string) (*domain.Module, error) {
	if !domain.ValidModuleName(name) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidModuleName, "load module"), "module", name)
	}
	if mod, ok := s.cache.Get(name); ok {
		return mod, nil
	}

	var parent *domain.Module
	parents := domain.ParentNames(name)
	if len(parents) > 0 {
		var err error
		parent, err = s.Load(parents[len(parents)-1])
		if err != nil {
			return nil, err
		}
		// Loading the parent may have loaded name as a side effect.
		if mod, ok := s.cache.Get(name); ok {
			return mod, nil
		}
	}

	mod := domain.NewModule(name)
	builder, ok := s.registry.Lookup(name)
	switch {
	case ok:
		if err := builder(mod, s.Import); err != nil {
			return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrModuleBuildFailed, err), "build module"),
				"module", name)
		}
	case s.registry.IsPackage(name):
		// Namespace package: no code of its own.
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrModuleNotFound, "load module"), "module", name)
	}

	s.cache.Put(name, mod)
	if parent != nil {
		parent.Set(name[strings.LastIndexByte(name, '.')+1:], mod)
	}
	return mod, nil
}

// DefaultImport implements the host's import statement semantics.
//
// Without a from-list the top-level package of the requested name is
// returned; with one, the named module itself is returned after each listed
// item that is not already an attribute has been tried as a submodule.
func (s *System) DefaultImport(req domain.ImportRequest) (*domain.Module, error) {
	name, err := absoluteName(req)
	if err != nil {
		return nil, err
	}

	mod, err := s.Load(name)
	if err != nil {
		return nil, err
	}

	if len(req.FromList) == 0 {
		if req.Level == 0 {
			return s.Load(strings.SplitN(name, ".", 2)[0])
		}
		if req.Name == "" {
			return mod, nil
		}
		cut := len(req.Name) - len(strings.SplitN(req.Name, ".", 2)[0])
		return s.Load(name[:len(name)-cut])
	}

	for _, item := range req.FromList {
		if item == "*" {
			continue
		}
		if _, ok := mod.Get(item); ok {
			continue
		}
		if _, err := s.Load(name + "." + item); err != nil && !errors.Is(err, domain.ErrModuleNotFound) {
			return nil, err
		}
	}
	return mod, nil
}

func absoluteName(req domain.ImportRequest) (string, error) {
	if req.Level == 0 {
		return req.Name, nil
	}

	parts := strings.Split(req.Package, ".")
	if req.Package == "" || req.Level > len(parts) {
		return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidModuleName,
			"relative import beyond top-level package"), "module", req.Name), "package", req.Package)
	}
	base := strings.Join(parts[:len(parts)-req.Level+1], ".")
	if req.Name == "" {
		return base, nil
	}
	return base + "." + req.Name, nil
}
