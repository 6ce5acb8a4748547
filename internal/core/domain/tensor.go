package domain

import (
	"fmt"
	"slices"

	"go.trai.ch/zerr"
)

// Tensor is a dense row-major buffer with shape, element type and device
// metadata. Reshape returns a view sharing the buffer; every other derived
// tensor owns a fresh copy.
//
// Tensor is not safe for concurrent mutation.
type Tensor struct {
	data   []float64
	shape  []int
	dtype  DType
	device string
}

// NewTensor allocates a zero-filled tensor. It panics on a negative
// dimension, which is a programming error.
func NewTensor(dtype DType, device string, shape ...int) *Tensor {
	size := 1
	for i, d := range shape {
		if d < 0 {
			panic(fmt.Sprintf("tensor: shape[%d] must be non-negative, got %d", i, d))
		}
		size *= d
	}
	return &Tensor{
		data:   make([]float64, size),
		shape:  slices.Clone(shape),
		dtype:  dtype,
		device: device,
	}
}

// FromValues builds a float32 CPU tensor over a copy of values.
func FromValues(values []float64, shape ...int) (*Tensor, error) {
	t := NewTensor(DTypeFloat32, "cpu", shape...)
	if len(values) != len(t.data) {
		return nil, zerr.With(zerr.With(zerr.Wrap(ErrShapeMismatch, "from values"),
			"values", len(values)), "shape", fmt.Sprint(shape))
	}
	copy(t.data, values)
	return t, nil
}

// Shape returns a copy of the shape.
func (t *Tensor) Shape() []int {
	return slices.Clone(t.shape)
}

// Dim returns the rank.
func (t *Tensor) Dim() int {
	return len(t.shape)
}

// Numel returns the element count.
func (t *Tensor) Numel() int {
	return len(t.data)
}

// Data exposes the underlying buffer. Writes are visible through every view.
func (t *Tensor) Data() []float64 {
	return t.data
}

// DType returns the element type.
func (t *Tensor) DType() DType {
	return t.dtype
}

// Device returns the device the tensor lives on.
func (t *Tensor) Device() string {
	return t.device
}

// Like allocates a zero tensor with t's dtype and device and the given shape.
func (t *Tensor) Like(shape ...int) *Tensor {
	return NewTensor(t.dtype, t.device, shape...)
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	c := t.Like(t.shape...)
	copy(c.data, t.data)
	return c
}

// Reshape returns a view with a new shape over the same buffer.
func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	size := 1
	for _, d := range shape {
		size *= d
	}
	if size != len(t.data) || slices.ContainsFunc(shape, func(d int) bool { return d < 0 }) {
		return nil, zerr.With(zerr.With(zerr.Wrap(ErrShapeMismatch, "reshape"),
			"from", fmt.Sprint(t.shape)), "to", fmt.Sprint(shape))
	}
	return &Tensor{
		data:   t.data,
		shape:  slices.Clone(shape),
		dtype:  t.dtype,
		device: t.device,
	}, nil
}

// MoveDim returns a contiguous copy with axis src moved to position dst,
// the remaining axes keeping their relative order.
func (t *Tensor) MoveDim(src, dst int) (*Tensor, error) {
	rank := len(t.shape)
	s, ok := NormalizeDim(src, rank)
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrInvalidDim, "move dim"), "dim", src)
	}
	d, ok := NormalizeDim(dst, rank)
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrInvalidDim, "move dim"), "dim", dst)
	}
	if s == d {
		return t.Clone(), nil
	}

	// perm[i] is the source axis that lands at output axis i.
	perm := make([]int, 0, rank)
	for i := range rank {
		if i != s {
			perm = append(perm, i)
		}
	}
	perm = slices.Insert(perm, d, s)

	outShape := make([]int, rank)
	for i, p := range perm {
		outShape[i] = t.shape[p]
	}
	out := t.Like(outShape...)

	srcStrides := strides(t.shape)
	idx := make([]int, rank)
	for flat := range out.data {
		rem := flat
		for i := rank - 1; i >= 0; i-- {
			idx[i] = rem % outShape[i]
			rem /= outShape[i]
		}
		off := 0
		for i, p := range perm {
			off += idx[i] * srcStrides[p]
		}
		out.data[flat] = t.data[off]
	}
	return out, nil
}

// Equal reports whether two tensors have the same metadata, shape and values.
func (t *Tensor) Equal(o *Tensor) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.dtype == o.dtype && t.device == o.device &&
		slices.Equal(t.shape, o.shape) && slices.Equal(t.data, o.data)
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v, dtype=%s, device=%s)", t.shape, t.dtype, t.device)
}

// NormalizeDim maps a possibly negative axis into [0, rank).
func NormalizeDim(dim, rank int) (int, bool) {
	if dim < -rank || dim >= rank {
		return 0, false
	}
	if dim < 0 {
		dim += rank
	}
	return dim, true
}

func strides(shape []int) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}
