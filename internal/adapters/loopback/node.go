package loopback

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kunlun/internal/adapters/config"
	"go.trai.ch/kunlun/internal/core/domain"
)

// NodeID is the unique identifier for the loopback network Graft node.
const NodeID graft.ID = "adapter.loopback"

func init() {
	graft.Register(graft.Node[*Network]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (*Network, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			size := settings.WorldSize
			if size == 0 {
				size = 1
			}
			return NewNetwork(size)
		},
	})
}
