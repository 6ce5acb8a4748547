package collective

import (
	"context"
	"maps"
	"slices"
	"sync"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/zerr"
)

// GroupCoordinator binds one rank's communicator to the strategy chosen at
// startup.
type GroupCoordinator struct {
	name     string
	comm     ports.DeviceCommunicator
	strategy Strategy
}

// Name returns the group name.
func (c *GroupCoordinator) Name() string {
	return c.name
}

// WorldSize returns the number of ranks in the group.
func (c *GroupCoordinator) WorldSize() int {
	return c.comm.WorldSize()
}

// Rank returns this member's rank.
func (c *GroupCoordinator) Rank() int {
	return c.comm.Rank()
}

// Communicator returns the device communicator of this rank.
func (c *GroupCoordinator) Communicator() ports.DeviceCommunicator {
	return c.comm
}

// AllReduce runs the strategy's reduce on t.
func (c *GroupCoordinator) AllReduce(ctx context.Context, t *domain.Tensor) (*domain.Tensor, error) {
	return c.strategy.AllReduce(ctx, c, t)
}

// AllGather runs the strategy's gather on t along dim.
func (c *GroupCoordinator) AllGather(ctx context.Context, t *domain.Tensor, dim int) (*domain.Tensor, error) {
	return c.strategy.AllGather(ctx, c, t, dim)
}

// Factory creates group coordinators sharing one strategy.
type Factory struct {
	strategy Strategy
}

// NewFactory creates a factory injecting strategy into every group.
func NewFactory(strategy Strategy) *Factory {
	return &Factory{strategy: strategy}
}

// NewGroup creates the coordinator of the rank behind comm.
func (f *Factory) NewGroup(name string, comm ports.DeviceCommunicator) (*GroupCoordinator, error) {
	if ws := comm.WorldSize(); ws <= 0 {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidWorldSize, "new group"),
			"group", name), "world_size", ws)
	}
	return &GroupCoordinator{name: name, comm: comm, strategy: f.strategy}, nil
}

// Groups is the name→group table the registered collective ops resolve
// their group_name argument against.
type Groups struct {
	mu     sync.RWMutex
	groups map[string]*GroupCoordinator
}

// NewGroups creates an empty table.
func NewGroups() *Groups {
	return &Groups{groups: make(map[string]*GroupCoordinator)}
}

// Add registers g under its name, replacing any previous group.
func (gs *Groups) Add(g *GroupCoordinator) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.groups[g.Name()] = g
}

// Get returns the group registered under name.
func (gs *Groups) Get(name string) (*GroupCoordinator, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	g, ok := gs.groups[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrGroupNotFound, "lookup group"), "group", name)
	}
	return g, nil
}

// Names returns the registered group names in sorted order.
func (gs *Groups) Names() []string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return slices.Sorted(maps.Keys(gs.groups))
}
