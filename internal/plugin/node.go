package plugin

import (
	"context"
	"maps"
	"slices"

	"github.com/grindlemire/graft"
	"go.trai.ch/kunlun/internal/adapters/config"  //nolint:depguard // Wired in plugin wiring
	"go.trai.ch/kunlun/internal/adapters/modules" //nolint:depguard // Wired in plugin wiring
	"go.trai.ch/kunlun/internal/core/domain"
)

// NodeID is the unique identifier for the plugin targets Graft node.
const NodeID graft.ID = "plugin.targets"

// Targets lists the module names the plugin added to the host registry.
type Targets []string

func init() {
	graft.Register(graft.Node[Targets]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, modules.RegistryNodeID},
		Run: func(ctx context.Context) (Targets, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			registry, err := graft.Dep[*modules.Registry](ctx)
			if err != nil {
				return nil, err
			}

			builders := TargetModules(settings.Platform)
			if err := registry.AddAll(builders); err != nil {
				return nil, err
			}
			return slices.Sorted(maps.Keys(builders)), nil
		},
	})
}
