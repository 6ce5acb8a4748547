// Package loopback implements an in-process device communicator. Every rank
// of a group is a goroutine of the same process, meeting at a shared hub.
package loopback

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

type opKind string

const (
	opAllReduce opKind = "all_reduce"
	opAllGather opKind = "all_gather"
)

// Hub is the rendezvous point of one group. A collective completes once
// every rank has joined the current round; the last rank to arrive computes
// the result.
//
// A rank must not join the same round twice. A round abandoned because a
// rank's context ended fails for every rank that joined it.
type Hub struct {
	size int

	mu      sync.Mutex
	pending *round
}

type round struct {
	kind    opKind
	inputs  []*domain.Tensor
	arrived int
	done    chan struct{}

	result []float64
	err    error
}

// NewHub creates a hub for size ranks.
func NewHub(size int) (*Hub, error) {
	if size <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidWorldSize, "new hub"), "world_size", size)
	}
	return &Hub{size: size}, nil
}

// Size returns the number of ranks.
func (h *Hub) Size() int {
	return h.size
}

// Member returns the communicator of rank. It panics when rank is out of
// range.
func (h *Hub) Member(rank int) ports.DeviceCommunicator {
	if rank < 0 || rank >= h.size {
		panic(fmt.Sprintf("loopback: rank %d out of range [0, %d)", rank, h.size))
	}
	return &member{hub: h, rank: rank}
}

// Run calls fn concurrently for every rank and waits for all of them. The
// first error cancels the context handed to the others.
func Run(ctx context.Context, h *Hub, fn func(ctx context.Context, comm ports.DeviceCommunicator) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for rank := range h.size {
		comm := h.Member(rank)
		g.Go(func() error {
			return fn(ctx, comm)
		})
	}
	return g.Wait()
}

func (h *Hub) join(ctx context.Context, rank int, kind opKind, in *domain.Tensor) (*round, error) {
	h.mu.Lock()
	r := h.pending
	if r == nil {
		r = &round{
			kind:   kind,
			inputs: make([]*domain.Tensor, h.size),
			done:   make(chan struct{}),
		}
		h.pending = r
	}
	if r.kind != kind && r.err == nil {
		r.err = zerr.With(zerr.With(zerr.Wrap(domain.ErrCollectiveMismatch, "loopback round"),
			"want", string(r.kind)), "got", string(kind))
	}
	r.inputs[rank] = in
	r.arrived++
	if r.arrived == h.size {
		h.pending = nil
		if r.err == nil {
			r.result, r.err = r.compute()
		}
		close(r.done)
	}
	h.mu.Unlock()

	select {
	case <-r.done:
		return r, r.err
	case <-ctx.Done():
		h.abort(r, ctx.Err())
		<-r.done
		return r, r.err
	}
}

func (h *Hub) abort(r *round, cause error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending != r {
		return
	}
	h.pending = nil
	r.err = zerr.With(zerr.Wrap(cause, "loopback round abandoned"), "arrived", r.arrived)
	close(r.done)
}

func (r *round) compute() ([]float64, error) {
	n := r.inputs[0].Numel()
	for rank, t := range r.inputs {
		if t.Numel() != n {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrShapeMismatch, string(r.kind)),
				"rank", rank), "shape", fmt.Sprint(t.Shape()))
		}
	}

	switch r.kind {
	case opAllReduce:
		sum := make([]float64, n)
		for _, t := range r.inputs {
			for i, v := range t.Data() {
				sum[i] += v
			}
		}
		return sum, nil
	default:
		out := make([]float64, 0, n*len(r.inputs))
		for _, t := range r.inputs {
			out = append(out, t.Data()...)
		}
		return out, nil
	}
}

type member struct {
	hub  *Hub
	rank int
}

func (m *member) Rank() int {
	return m.rank
}

func (m *member) WorldSize() int {
	return m.hub.size
}

func (m *member) AllReduce(ctx context.Context, t *domain.Tensor) error {
	r, err := m.hub.join(ctx, m.rank, opAllReduce, t)
	if err != nil {
		return err
	}
	copy(t.Data(), r.result)
	return nil
}

func (m *member) AllGatherInto(ctx context.Context, out, in *domain.Tensor) error {
	if out.Numel() != m.hub.size*in.Numel() {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrShapeMismatch, "all_gather output"),
			"out", fmt.Sprint(out.Shape())), "in", fmt.Sprint(in.Shape()))
	}
	r, err := m.hub.join(ctx, m.rank, opAllGather, in)
	if err != nil {
		return err
	}
	copy(out.Data(), r.result)
	return nil
}

// Network hands out one hub per group name, each sized for the same number
// of ranks.
type Network struct {
	size int

	mu   sync.Mutex
	hubs map[string]*Hub
}

// NewNetwork creates a network whose groups have size ranks.
func NewNetwork(size int) (*Network, error) {
	if size <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidWorldSize, "new network"), "world_size", size)
	}
	return &Network{size: size, hubs: make(map[string]*Hub)}, nil
}

// Hub returns the hub of group, creating it on first use.
func (n *Network) Hub(group string) *Hub {
	n.mu.Lock()
	defer n.mu.Unlock()
	h, ok := n.hubs[group]
	if !ok {
		h = &Hub{size: n.size}
		n.hubs[group] = h
	}
	return h
}

// Groups returns the names of the hubs created so far.
func (n *Network) Groups() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Sorted(maps.Keys(n.hubs))
}
