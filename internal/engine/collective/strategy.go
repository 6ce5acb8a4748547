// Package collective provides the group collectives the host runtime calls
// during distributed execution, routed through an injectable strategy.
package collective

import (
	"context"
	"fmt"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/zerr"
)

// Group is a process group as seen by a single rank.
type Group interface {
	Name() string
	WorldSize() int
	Communicator() ports.DeviceCommunicator
}

// Strategy implements the reduce and gather collectives for a group.
type Strategy interface {
	// AllReduce sums t across the group and returns it.
	AllReduce(ctx context.Context, g Group, t *domain.Tensor) (*domain.Tensor, error)
	// AllGather concatenates every rank's t along dim.
	AllGather(ctx context.Context, g Group, t *domain.Tensor, dim int) (*domain.Tensor, error)
}

// DeviceStrategy runs collectives on the group's device communicator.
type DeviceStrategy struct{}

// NewDeviceStrategy creates the device-backed strategy.
func NewDeviceStrategy() *DeviceStrategy {
	return &DeviceStrategy{}
}

// AllReduce reduces t in place. A single-member group returns t untouched
// without reaching the communicator.
func (*DeviceStrategy) AllReduce(ctx context.Context, g Group, t *domain.Tensor) (*domain.Tensor, error) {
	if t == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotATensor, "all_reduce"), "group", g.Name())
	}
	if g.WorldSize() == 1 {
		return t, nil
	}
	if err := g.Communicator().AllReduce(ctx, t); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "all_reduce"), "group", g.Name())
	}
	return t, nil
}

// AllGather returns a new tensor whose size at dim is world_size times the
// input's, holding each rank's block in rank order. dim may be negative.
// A single-member group returns t itself.
func (*DeviceStrategy) AllGather(ctx context.Context, g Group, t *domain.Tensor, dim int) (*domain.Tensor, error) {
	if t == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotATensor, "all_gather"), "group", g.Name())
	}
	ws := g.WorldSize()
	if ws == 1 {
		return t, nil
	}

	shape := t.Shape()
	d, ok := domain.NormalizeDim(dim, len(shape))
	if !ok {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidDim, "all_gather"),
			"dim", dim), "shape", fmt.Sprint(shape))
	}

	stacked := t.Like(append([]int{ws}, shape...)...)
	if err := g.Communicator().AllGatherInto(ctx, stacked, t); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "all_gather"), "group", g.Name())
	}

	moved, err := stacked.MoveDim(0, d)
	if err != nil {
		return nil, err
	}
	shape[d] *= ws
	return moved.Reshape(shape...)
}
