// Package redirect swaps a fixed set of host modules for the plugin's own
// implementations at import time.
package redirect

import (
	"fmt"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolve is the injection point consulted for every import.
//
// A mapped name already in the cache is returned with handled set to true.
// A mapped name not yet cached has its target loaded and stored under both the
// logical and the target name; handled stays false so the caller still runs
// its regular import, which then finds the cached object. Names outside the
// table are left alone.
func Resolve(
	name string,
	table *domain.RedirectTable,
	cache ports.ModuleCache,
	loader ports.ModuleLoader,
) (mod *domain.Module, handled bool, err error) {
	target, ok := table.Lookup(name)
	if !ok {
		return nil, false, nil
	}

	if cached, ok := cache.Get(name); ok {
		return cached, true, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.Wrap(domain.ErrModuleBuildFailed, fmt.Sprint(r)), "module", target)
		}
	}()

	loaded, err := loader.Load(target)
	if err != nil {
		return nil, false, zerr.With(zerr.With(zerr.Wrap(err, "redirect load failed"),
			"logical", name), "target", target)
	}
	cache.Put(name, loaded)
	cache.Put(target, loaded)
	return loaded, false, nil
}

// Hook wraps the import entry point that was installed when it was built.
// The previous entry point is fixed at construction.
type Hook struct {
	table    *domain.RedirectTable
	cache    ports.ModuleCache
	loader   ports.ModuleLoader
	previous ports.ImportFunc
	logger   ports.Logger
}

// NewHook creates a hook that delegates to previous.
func NewHook(
	table *domain.RedirectTable,
	cache ports.ModuleCache,
	loader ports.ModuleLoader,
	previous ports.ImportFunc,
	logger ports.Logger,
) *Hook {
	return &Hook{
		table:    table,
		cache:    cache,
		loader:   loader,
		previous: previous,
		logger:   logger,
	}
}

// Install makes the hook the installed entry point. Installing again
// overwrites the entry point with the same hook, so hooks never chain.
func (h *Hook) Install(sys ports.ImportSystem) {
	sys.Install(h.Import)
}

// Table returns the redirects the hook applies.
func (h *Hook) Table() *domain.RedirectTable {
	return h.table
}

// Previous returns the entry point the hook delegates to.
func (h *Hook) Previous() ports.ImportFunc {
	return h.previous
}

// Import is a ports.ImportFunc. Redirect failures never surface here; they
// are logged and the request proceeds through the previous entry point.
func (h *Hook) Import(req domain.ImportRequest) (*domain.Module, error) {
	mod, handled, err := Resolve(req.Name, h.table, h.cache, h.loader)
	if err != nil {
		h.logger.Debug("module redirect skipped", "module", req.Name, "error", err)
	}
	if handled {
		return mod, nil
	}
	return h.previous(req)
}
