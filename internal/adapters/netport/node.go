package netport

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kunlun/internal/adapters/config"
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
)

// NodeID is the unique identifier for the port allocator Graft node.
const NodeID graft.ID = "adapter.port_allocator"

func init() {
	graft.Register(graft.Node[ports.PortAllocator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.PortAllocator, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewAllocator(settings.BasePort), nil
		},
	})
}
