package collective

import (
	"context"
	"fmt"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/engine/oplib"
	"go.trai.ch/kunlun/internal/engine/schema"
	"go.trai.ch/zerr"
)

// Names of the collective operators registered in the shared namespace.
const (
	AllReduceOp = "all_reduce"
	AllGatherOp = "all_gather"
)

const (
	allReduceSignature = "tensor: Tensor, group_name: str -> Tensor"
	allGatherSignature = "tensor: Tensor, dim: int, world_size: int, group_name: str -> Tensor"
)

// RegisterOps registers all_reduce and all_gather as dispatched operators
// that look their group up in groups on every call.
func RegisterOps(r *oplib.Registrar, groups *Groups) error {
	reduce, err := function(AllReduceOp, allReduceSignature, func(args ...any) (any, error) {
		t, g, err := tensorAndGroup(groups, args[0], args[1])
		if err != nil {
			return nil, err
		}
		// Host ops carry no context; timeouts belong to the communicator.
		return g.AllReduce(context.Background(), t)
	})
	if err != nil {
		return err
	}
	if err := r.Register(AllReduceOp, reduce, oplib.WithFake(fakeAllReduce)); err != nil {
		return err
	}

	gather, err := function(AllGatherOp, allGatherSignature, func(args ...any) (any, error) {
		t, g, err := tensorAndGroup(groups, args[0], args[3])
		if err != nil {
			return nil, err
		}
		dim, err := intArg("dim", args[1])
		if err != nil {
			return nil, err
		}
		return g.AllGather(context.Background(), t, dim)
	})
	if err != nil {
		return err
	}
	return r.Register(AllGatherOp, gather, oplib.WithFake(fakeAllGather))
}

func function(name, sig string, impl domain.Kernel) (*domain.Function, error) {
	s, err := schema.ParseSignature(sig)
	if err != nil {
		return nil, err
	}
	return &domain.Function{Name: name, Signature: s, Impl: impl}, nil
}

func fakeAllReduce(args ...any) (any, error) {
	t, err := tensorArg(args[0])
	if err != nil {
		return nil, err
	}
	return t.Like(t.Shape()...), nil
}

func fakeAllGather(args ...any) (any, error) {
	t, err := tensorArg(args[0])
	if err != nil {
		return nil, err
	}
	dim, err := intArg("dim", args[1])
	if err != nil {
		return nil, err
	}
	ws, err := intArg("world_size", args[2])
	if err != nil {
		return nil, err
	}

	shape := t.Shape()
	d, ok := domain.NormalizeDim(dim, len(shape))
	if !ok {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidDim, "all_gather"),
			"dim", dim), "shape", fmt.Sprint(shape))
	}
	shape[d] *= ws
	return t.Like(shape...), nil
}

func tensorAndGroup(groups *Groups, tensor, name any) (*domain.Tensor, *GroupCoordinator, error) {
	t, err := tensorArg(tensor)
	if err != nil {
		return nil, nil, err
	}
	groupName, ok := name.(string)
	if !ok {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrGroupNotFound, "group_name must be a string"),
			"type", fmt.Sprintf("%T", name))
	}
	g, err := groups.Get(groupName)
	if err != nil {
		return nil, nil, err
	}
	return t, g, nil
}

func tensorArg(v any) (*domain.Tensor, error) {
	t, ok := v.(*domain.Tensor)
	if !ok || t == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotATensor, "tensor argument"), "type", fmt.Sprintf("%T", v))
	}
	return t, nil
}

func intArg(name string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	}
	return 0, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidSignature, "expected an integer argument"),
		"param", name), "type", fmt.Sprintf("%T", v))
}
