package redirect

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kunlun/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kunlun/internal/adapters/modcache" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kunlun/internal/adapters/modules"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
)

const (
	// TableNodeID is the unique identifier for the redirect table Graft node.
	TableNodeID graft.ID = "engine.redirect_table"
	// HookNodeID is the unique identifier for the import hook Graft node.
	HookNodeID graft.ID = "engine.redirect_hook"
)

func init() {
	graft.Register(graft.Node[*domain.RedirectTable]{
		ID:        TableNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (*domain.RedirectTable, error) {
			return DefaultTable()
		},
	})

	graft.Register(graft.Node[*Hook]{
		ID:        HookNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			TableNodeID,
			modcache.NodeID,
			modules.NodeID,
			logger.NodeID,
		},
		Run: runHookNode,
	})
}

func runHookNode(ctx context.Context) (*Hook, error) {
	table, err := graft.Dep[*domain.RedirectTable](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[ports.ModuleCache](ctx)
	if err != nil {
		return nil, err
	}

	sys, err := graft.Dep[*modules.System](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	// The entry point installed now is the one every later import falls back to.
	return NewHook(table, cache, sys, sys.Current(), log), nil
}

// DefaultTable builds the table of the built-in redirects. The mapping is
// fixed at build time.
func DefaultTable() (*domain.RedirectTable, error) {
	return domain.NewRedirectTable(domain.DefaultRedirects()...)
}
