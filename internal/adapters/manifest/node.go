package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kunlun/internal/adapters/config"
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
)

// NodeID is the unique identifier for the manifest store Graft node.
const NodeID graft.ID = "adapter.manifest_store"

func init() {
	graft.Register(graft.Node[ports.ManifestStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.ManifestStore, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			path := settings.ManifestPath
			if path == "" {
				path = domain.DefaultManifestPath
			}
			return NewStore(path), nil
		},
	})
}
