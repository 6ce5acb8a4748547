package domain

import "go.trai.ch/zerr"

var (
	// ErrModuleNotFound is returned when no loader knows how to build a module.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrModuleBuildFailed is returned when a module builder fails.
	ErrModuleBuildFailed = zerr.New("failed to build module")

	// ErrInvalidModuleName is returned for empty or malformed dotted module names.
	ErrInvalidModuleName = zerr.New("invalid module name")

	// ErrDuplicateRedirect is returned when a redirect table lists the same logical name twice.
	ErrDuplicateRedirect = zerr.New("duplicate redirect for logical module")

	// ErrSymbolNotFound is returned when a module does not export a requested symbol.
	ErrSymbolNotFound = zerr.New("symbol not found in module")

	// ErrInvalidAnnotation is returned when a type annotation cannot be parsed.
	ErrInvalidAnnotation = zerr.New("invalid type annotation")

	// ErrInvalidSignature is returned when a signature string cannot be parsed.
	ErrInvalidSignature = zerr.New("invalid signature")

	// ErrMissingAnnotation is returned when a parameter has no declared type.
	ErrMissingAnnotation = zerr.New("parameter has no type annotation")

	// ErrUnsupportedAnnotation is returned when a declared type has no schema equivalent.
	ErrUnsupportedAnnotation = zerr.New("unsupported type annotation")

	// ErrUnknownMutatedArg is returned when the mutation set names a parameter that does not exist.
	ErrUnknownMutatedArg = zerr.New("mutated argument is not in the function signature")

	// ErrMutatedNonTensor is returned when a mutated parameter is not tensor-like.
	ErrMutatedNonTensor = zerr.New("mutated argument must be tensor-like")

	// ErrCustomOpUnsupported is returned when the host runtime lacks custom operator support
	// on a platform that requires it.
	ErrCustomOpUnsupported = zerr.New(
		"platform needs a native runtime with custom op support, upgrade the runtime dependency",
	)

	// ErrOperatorExists is returned when defining an operator whose name is already taken.
	ErrOperatorExists = zerr.New("operator already defined")

	// ErrOperatorNotFound is returned when an operator name is unknown to the dispatcher.
	ErrOperatorNotFound = zerr.New("operator not found")

	// ErrKernelExists is returned when a kernel is already bound for a dispatch key.
	ErrKernelExists = zerr.New("kernel already registered for dispatch key")

	// ErrNoKernel is returned when an operator has no kernel for the requested dispatch key.
	ErrNoKernel = zerr.New("no kernel registered for dispatch key")

	// ErrNoFakeKernel is returned when tracing an operator without an abstract implementation.
	ErrNoFakeKernel = zerr.New("operator has no fake implementation")

	// ErrInvalidOperatorName is returned when an operator definition has a malformed name.
	ErrInvalidOperatorName = zerr.New("invalid operator name")

	// ErrLibraryClosed is returned when registering into a library that has been closed.
	ErrLibraryClosed = zerr.New("library is closed")

	// ErrNamespaceMismatch is returned when a qualified name does not belong to the library.
	ErrNamespaceMismatch = zerr.New("operator namespace does not match library")

	// ErrArgumentCount is returned when an operator is called with the wrong number of arguments.
	ErrArgumentCount = zerr.New("wrong number of operator arguments")

	// ErrInvalidDim is returned when a dimension argument is outside [-rank, rank).
	ErrInvalidDim = zerr.New("invalid dim for input tensor")

	// ErrNotATensor is returned when a tensor argument is missing or of the wrong type.
	ErrNotATensor = zerr.New("expected a tensor")

	// ErrInvalidTensorsType is returned when weak references are requested for an unsupported value.
	ErrInvalidTensorsType = zerr.New("invalid type for tensors")

	// ErrShapeMismatch is returned when tensors taking part in one operation disagree on shape.
	ErrShapeMismatch = zerr.New("tensor shape mismatch")

	// ErrCollectiveMismatch is returned when group members issue different collectives in one round.
	ErrCollectiveMismatch = zerr.New("group members issued mismatched collectives")

	// ErrGroupNotFound is returned when a collective op names an unknown group.
	ErrGroupNotFound = zerr.New("group not found")

	// ErrInvalidWorldSize is returned when a group is created with a non-positive size.
	ErrInvalidWorldSize = zerr.New("world size must be positive")

	// ErrNoOpenPort is returned when no port could be bound.
	ErrNoOpenPort = zerr.New("failed to find an open port")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidRuntimeVersion is returned when the configured runtime version is not a version.
	ErrInvalidRuntimeVersion = zerr.New("invalid runtime version")

	// ErrManifestReadFailed is returned when the operator manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read operator manifest")

	// ErrManifestWriteFailed is returned when the operator manifest cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write operator manifest")

	// ErrActivationFailed is returned when a mandatory activation step fails.
	ErrActivationFailed = zerr.New("plugin activation failed")
)
