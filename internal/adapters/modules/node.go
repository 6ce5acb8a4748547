package modules

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kunlun/internal/adapters/modcache"
	"go.trai.ch/kunlun/internal/core/ports"
)

const (
	// RegistryNodeID is the unique identifier for the module registry Graft node.
	RegistryNodeID graft.ID = "adapter.module_registry"
	// NodeID is the unique identifier for the import system Graft node.
	NodeID graft.ID = "adapter.import_system"
)

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        RegistryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Registry, error) {
			r := NewRegistry()
			if err := r.AddAll(HostModules()); err != nil {
				return nil, err
			}
			return r, nil
		},
	})

	graft.Register(graft.Node[*System]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{RegistryNodeID, modcache.NodeID},
		Run: func(ctx context.Context) (*System, error) {
			registry, err := graft.Dep[*Registry](ctx)
			if err != nil {
				return nil, err
			}

			cache, err := graft.Dep[ports.ModuleCache](ctx)
			if err != nil {
				return nil, err
			}

			return NewSystem(registry, cache), nil
		},
	})
}
