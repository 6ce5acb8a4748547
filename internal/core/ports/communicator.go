package ports

import (
	"context"

	"go.trai.ch/kunlun/internal/core/domain"
)

// DeviceCommunicator is the backend channel of one rank in a process group.
// Calls block until every rank of the group has joined; ctx bounds the wait.
//
//go:generate go run go.uber.org/mock/mockgen -source=communicator.go -destination=mocks/mock_communicator.go -package=mocks
type DeviceCommunicator interface {
	Rank() int
	WorldSize() int
	// AllReduce sums t element-wise across ranks, in place.
	AllReduce(ctx context.Context, t *domain.Tensor) error
	// AllGatherInto fills out, shaped (world_size*n, ...) or (world_size, ...),
	// with the concatenation of every rank's in along the first axis.
	AllGatherInto(ctx context.Context, out, in *domain.Tensor) error
}
