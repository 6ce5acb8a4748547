package plugin

import (
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/engine/oplib"
	"go.trai.ch/kunlun/internal/engine/schema"
	"go.trai.ch/zerr"
)

// NativeNamespace is the namespace of the plugin's own operator library.
const NativeNamespace = "_kunlun"

// WeakRefOp returns a tensor that shares its argument's storage.
const WeakRefOp = "weak_ref_tensor"

// Native is the plugin's private operator library.
type Native struct {
	lib        *oplib.Library
	dispatcher *oplib.Dispatcher
	key        domain.DispatchKey
}

// RegisterNative defines the _kunlun library and registers its operators for
// key.
func RegisterNative(r *oplib.Registrar, key domain.DispatchKey) (*Native, error) {
	lib, err := r.Dispatcher().NewLibrary(NativeNamespace, domain.LibraryDef)
	if err != nil {
		return nil, err
	}

	sig, err := schema.ParseSignature("tensor: Tensor -> Tensor")
	if err != nil {
		lib.Close()
		return nil, err
	}
	fn := &domain.Function{Name: WeakRefOp, Signature: sig, Impl: weakRefKernel}
	if err := r.Register(WeakRefOp, fn, oplib.WithLibrary(lib), oplib.WithDispatchKey(key)); err != nil {
		lib.Close()
		return nil, err
	}

	return &Native{lib: lib, dispatcher: r.Dispatcher(), key: key}, nil
}

// Close unregisters the native operators.
func (n *Native) Close() {
	n.lib.Close()
}

// WeakRefTensor returns a tensor sharing v's storage when v is a tensor, and
// v itself otherwise.
func (n *Native) WeakRefTensor(v any) (any, error) {
	t, ok := v.(*domain.Tensor)
	if !ok || t == nil {
		return v, nil
	}
	return n.dispatcher.Call(domain.QualifiedName(NativeNamespace, WeakRefOp), n.key, t)
}

// WeakRefTensors applies WeakRefTensor to a tensor or to each element of a
// slice of values.
func (n *Native) WeakRefTensors(v any) (any, error) {
	switch vs := v.(type) {
	case *domain.Tensor:
		return n.WeakRefTensor(vs)
	case []*domain.Tensor:
		out := make([]any, len(vs))
		for i, t := range vs {
			ref, err := n.WeakRefTensor(t)
			if err != nil {
				return nil, err
			}
			out[i] = ref
		}
		return out, nil
	case []any:
		out := make([]any, len(vs))
		for i, t := range vs {
			ref, err := n.WeakRefTensor(t)
			if err != nil {
				return nil, err
			}
			out[i] = ref
		}
		return out, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidTensorsType, "weak_ref_tensors"),
			"type", typeName(v))
	}
}

func weakRefKernel(args ...any) (any, error) {
	t, ok := args[0].(*domain.Tensor)
	if !ok || t == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotATensor, WeakRefOp), "type", typeName(args[0]))
	}
	return t.Reshape(t.Shape()...)
}
