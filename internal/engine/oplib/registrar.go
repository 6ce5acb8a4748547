package oplib

import (
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/kunlun/internal/engine/schema"
	"go.trai.ch/zerr"
)

// SharedNamespace is the namespace of the process-wide shared library.
const SharedNamespace = "vllm"

// Option configures a single registration.
type Option func(*registration)

type registration struct {
	mutates []string
	fake    domain.Kernel
	library *Library
	key     domain.DispatchKey
	tags    []domain.Tag
}

// WithMutates names the parameters the operator writes in place.
func WithMutates(names ...string) Option {
	return func(r *registration) {
		r.mutates = append(r.mutates, names...)
	}
}

// WithFake attaches a shape-only implementation.
func WithFake(k domain.Kernel) Option {
	return func(r *registration) {
		r.fake = k
	}
}

// WithLibrary registers into lib instead of the shared library.
func WithLibrary(lib *Library) Option {
	return func(r *registration) {
		r.library = lib
	}
}

// WithDispatchKey binds the implementation to key instead of CUDA.
func WithDispatchKey(key domain.DispatchKey) Option {
	return func(r *registration) {
		r.key = key
	}
}

// WithTags attaches behavior tags to the definition.
func WithTags(tags ...domain.Tag) Option {
	return func(r *registration) {
		r.tags = append(r.tags, tags...)
	}
}

// Registrar turns plain functions into dispatched operators, deriving their
// schemas from their signatures.
type Registrar struct {
	dispatcher *Dispatcher
	shared     *Library
	caps       domain.Capabilities
	platform   domain.Platform
	primary    ports.SchemaInferrer
	legacy     ports.SchemaInferrer
	logger     ports.Logger
}

// NewRegistrar creates a registrar whose default scope is a FRAGMENT library
// of the shared namespace.
func NewRegistrar(
	dispatcher *Dispatcher,
	caps domain.Capabilities,
	platform domain.Platform,
	primary, legacy ports.SchemaInferrer,
	logger ports.Logger,
) (*Registrar, error) {
	shared, err := dispatcher.NewLibrary(SharedNamespace, domain.LibraryFragment)
	if err != nil {
		return nil, err
	}
	return &Registrar{
		dispatcher: dispatcher,
		shared:     shared,
		caps:       caps,
		platform:   platform,
		primary:    primary,
		legacy:     legacy,
		logger:     logger,
	}, nil
}

// Dispatcher returns the operator table registrations land in.
func (r *Registrar) Dispatcher() *Dispatcher {
	return r.dispatcher
}

// Shared returns the default registration scope.
func (r *Registrar) Shared() *Library {
	return r.shared
}

// Register defines name in the target library with a schema inferred from
// fn's signature and binds fn.Impl for the dispatch key.
//
// When the runtime cannot register custom operators the call is a no-op,
// unless the platform depends on them, which is fatal. With the primary
// inferrer the signature is normalized first and the normalized signature is
// stored back on fn. Inference and definition errors are returned unchanged.
func (r *Registrar) Register(name string, fn *domain.Function, opts ...Option) error {
	reg := registration{key: domain.DispatchCUDA}
	for _, opt := range opts {
		opt(&reg)
	}

	if !r.caps.CustomOp {
		if r.platform.CUDAAlike {
			return zerr.With(zerr.With(zerr.Wrap(domain.ErrCustomOpUnsupported,
				"the native runtime is too old for custom ops, upgrade it"),
				"platform", r.platform.Name), "op", name)
		}
		r.logger.Debug("custom ops unsupported, skipping registration", "op", name)
		return nil
	}

	var (
		schemaStr string
		err       error
	)
	if r.caps.InferSchema {
		fn.Signature = schema.Normalize(fn.Signature)
		schemaStr, err = r.primary.Infer(fn.Signature, reg.mutates)
	} else {
		schemaStr, err = r.legacy.Infer(fn.Signature, reg.mutates)
	}
	if err != nil {
		return err
	}

	lib := reg.library
	if lib == nil {
		lib = r.shared
	}
	if _, err := lib.Define(name+schemaStr, reg.tags...); err != nil {
		return err
	}
	if err := lib.Impl(name, fn.Impl, reg.key); err != nil {
		return err
	}
	if reg.fake != nil {
		if err := lib.RegisterFake(name, reg.fake); err != nil {
			return err
		}
	}

	r.logger.Debug("registered operator",
		"op", domain.QualifiedName(lib.Namespace(), name), "schema", schemaStr, "dispatch_key", reg.key)
	return nil
}
