package collective

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kunlun/internal/adapters/loopback" //nolint:depguard // Wired in engine wiring
)

const (
	// StrategyNodeID is the unique identifier for the collective strategy Graft node.
	StrategyNodeID graft.ID = "engine.collective_strategy"
	// NodeID is the unique identifier for the process group table Graft node.
	NodeID graft.ID = "engine.collective_groups"
)

// DefaultGroups are the groups created for this process at startup.
var DefaultGroups = []string{"world", "tp"}

func init() {
	graft.Register(graft.Node[Strategy]{
		ID:        StrategyNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Strategy, error) {
			return NewDeviceStrategy(), nil
		},
	})

	graft.Register(graft.Node[*Groups]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{StrategyNodeID, loopback.NodeID},
		Run:       runGroupsNode,
	})
}

func runGroupsNode(ctx context.Context) (*Groups, error) {
	strategy, err := graft.Dep[Strategy](ctx)
	if err != nil {
		return nil, err
	}

	network, err := graft.Dep[*loopback.Network](ctx)
	if err != nil {
		return nil, err
	}

	factory := NewFactory(strategy)
	groups := NewGroups()
	for _, name := range DefaultGroups {
		// This process drives rank 0; the remaining ranks join through the hub.
		g, err := factory.NewGroup(name, network.Hub(name).Member(0))
		if err != nil {
			return nil, err
		}
		groups.Add(g)
	}
	return groups, nil
}
