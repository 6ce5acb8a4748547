package domain

import "strings"

// Kernel is an operator implementation bound to a dispatch key.
type Kernel func(args ...any) (any, error)

// Function is a callable with an inspectable signature.
type Function struct {
	Name      string
	Signature Signature
	Impl      Kernel
}

// DispatchKey selects the backend a kernel is registered for.
type DispatchKey string

// Dispatch keys understood by the host dispatcher.
const (
	DispatchCUDA                      DispatchKey = "CUDA"
	DispatchCPU                       DispatchKey = "CPU"
	DispatchXPU                       DispatchKey = "XPU"
	DispatchPrivateUse1               DispatchKey = "PrivateUse1"
	DispatchMeta                      DispatchKey = "Meta"
	DispatchCompositeExplicitAutograd DispatchKey = "CompositeExplicitAutograd"
)

// Tag is a declarative behavior tag attached to an operator definition.
type Tag string

// Tags understood by the host compiler.
const (
	TagNeedsFixedStrideOrder Tag = "needs_fixed_stride_order"
	TagPT2Compliant          Tag = "pt2_compliant_tag"
	TagInplaceView           Tag = "inplace_view"
	TagNondeterministicSeed  Tag = "nondeterministic_seeded"
	TagCUDAGraphUnsafe       Tag = "cudagraph_unsafe"
)

// LibraryKind is the kind of a registration scope.
type LibraryKind string

// Library kinds.
const (
	// LibraryDef owns a namespace and may define operators in it.
	LibraryDef LibraryKind = "DEF"
	// LibraryFragment adds definitions to a namespace owned elsewhere.
	LibraryFragment LibraryKind = "FRAGMENT"
	// LibraryImpl only binds kernels to existing definitions.
	LibraryImpl LibraryKind = "IMPL"
)

// OperatorRecord describes a registered operator.
type OperatorRecord struct {
	Namespace    string
	Name         string
	Schema       string
	DispatchKeys []DispatchKey
	HasFake      bool
	Tags         []Tag
	// Library names the scope that defined the operator.
	Library string
}

// QualifiedName returns "namespace::name".
func (r OperatorRecord) QualifiedName() string {
	return QualifiedName(r.Namespace, r.Name)
}

// QualifiedName joins a namespace and an operator name.
func QualifiedName(namespace, name string) string {
	return namespace + "::" + name
}

// SplitQualifiedName splits "namespace::name".
func SplitQualifiedName(qualified string) (namespace, name string, ok bool) {
	return strings.Cut(qualified, "::")
}
