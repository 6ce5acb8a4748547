package modcache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kunlun/internal/core/ports"
)

// NodeID is the unique identifier for the module cache Graft node.
const NodeID graft.ID = "adapter.module_cache"

func init() {
	graft.Register(graft.Node[ports.ModuleCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ModuleCache, error) {
			return New(), nil
		},
	})
}
