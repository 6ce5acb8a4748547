package oplib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports/mocks"
	"go.trai.ch/kunlun/internal/engine/oplib"
	"go.trai.ch/kunlun/internal/engine/schema"
	"go.uber.org/mock/gomock"
)

func function(t *testing.T, sig string) *domain.Function {
	t.Helper()
	s, err := schema.ParseSignature(sig)
	require.NoError(t, err)
	return &domain.Function{Name: "fn", Signature: s, Impl: echo("impl")}
}

func newRegistrar(t *testing.T, caps domain.Capabilities) *oplib.Registrar {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	r, err := oplib.NewRegistrar(oplib.NewDispatcher(), caps, domain.KunlunPlatform(),
		schema.NewInferrer(), schema.NewLegacyInferrer(), log)
	require.NoError(t, err)
	return r
}

func TestRegistrar_Register(t *testing.T) {
	r := newRegistrar(t, domain.Capabilities{CustomOp: true, InferSchema: true})
	fn := function(t, "out: Tensor, x: Tensor, sizes: Optional[list[int]] = None -> None")

	err := r.Register("fill", fn,
		oplib.WithMutates("out"),
		oplib.WithFake(echo("fake")),
		oplib.WithTags(domain.TagNeedsFixedStrideOrder),
	)
	require.NoError(t, err)

	rec, ok := r.Dispatcher().Lookup("vllm::fill")
	require.True(t, ok)
	assert.Equal(t, "(Tensor(a0!) out, Tensor x, SymInt[]? sizes=None) -> ()", rec.Schema)
	assert.Equal(t, []domain.DispatchKey{domain.DispatchCUDA}, rec.DispatchKeys)
	assert.Equal(t, []domain.Tag{domain.TagNeedsFixedStrideOrder}, rec.Tags)
	assert.True(t, rec.HasFake)
	assert.Equal(t, r.Shared().ID(), rec.Library)

	assert.Equal(t, "Optional[List[int]]", fn.Signature.Params[2].Type.String(),
		"the normalized signature is stored back on the function")

	out, err := r.Dispatcher().Call("vllm::fill", domain.DispatchCUDA, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "impl", out)
}

func TestRegistrar_RegisterOptions(t *testing.T) {
	r := newRegistrar(t, domain.Capabilities{CustomOp: true, InferSchema: true})
	lib, err := r.Dispatcher().NewLibrary("_kunlun", domain.LibraryFragment)
	require.NoError(t, err)

	err = r.Register("copy", function(t, "x: Tensor -> Tensor"),
		oplib.WithLibrary(lib), oplib.WithDispatchKey(domain.DispatchXPU))
	require.NoError(t, err)

	_, ok := r.Dispatcher().Lookup("vllm::copy")
	assert.False(t, ok)
	rec, ok := r.Dispatcher().Lookup("_kunlun::copy")
	require.True(t, ok)
	assert.Equal(t, []domain.DispatchKey{domain.DispatchXPU}, rec.DispatchKeys)
	assert.False(t, rec.HasFake)
}

func TestRegistrar_LegacyInference(t *testing.T) {
	r := newRegistrar(t, domain.Capabilities{CustomOp: true})
	fn := function(t, "q: Tensor, positions: list[int] -> None")

	require.NoError(t, r.Register("rope", fn, oplib.WithMutates("q")))

	rec, ok := r.Dispatcher().Lookup("vllm::rope")
	require.True(t, ok)
	assert.Equal(t, "(Tensor(a0!) q, SymInt[] positions) -> ()", rec.Schema)
	assert.Equal(t, "list[int]", fn.Signature.Params[1].Type.String(), "legacy registration keeps the signature")
}

func TestRegistrar_SelectsInferrer(t *testing.T) {
	tests := []struct {
		name        string
		inferSchema bool
	}{
		{"primary", true},
		{"legacy", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			primary := mocks.NewMockSchemaInferrer(ctrl)
			legacy := mocks.NewMockSchemaInferrer(ctrl)
			log := mocks.NewMockLogger(ctrl)
			log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

			chosen := legacy
			if tt.inferSchema {
				chosen = primary
			}
			chosen.EXPECT().Infer(gomock.Any(), []string{"x"}).Return("(Tensor(a0!) x) -> ()", nil)

			r, err := oplib.NewRegistrar(oplib.NewDispatcher(),
				domain.Capabilities{CustomOp: true, InferSchema: tt.inferSchema},
				domain.KunlunPlatform(), primary, legacy, log)
			require.NoError(t, err)

			require.NoError(t, r.Register("op", function(t, "x: Tensor -> None"), oplib.WithMutates("x")))
		})
	}
}

func TestRegistrar_Errors(t *testing.T) {
	r := newRegistrar(t, domain.Capabilities{CustomOp: true, InferSchema: true})

	err := r.Register("op", function(t, "x: Tensor -> None"), oplib.WithMutates("y"))
	require.ErrorIs(t, err, domain.ErrUnknownMutatedArg)

	err = r.Register("op", function(t, "x -> None"))
	require.ErrorIs(t, err, domain.ErrMissingAnnotation)

	err = r.Register("op", function(t, "n: int -> None"), oplib.WithMutates("n"))
	require.ErrorIs(t, err, domain.ErrMutatedNonTensor)

	require.NoError(t, r.Register("op", function(t, "x: Tensor -> Tensor")))
	err = r.Register("op", function(t, "x: Tensor -> Tensor"))
	require.ErrorIs(t, err, domain.ErrOperatorExists)
}

func TestRegistrar_NoCustomOpSupport(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	inferrer := mocks.NewMockSchemaInferrer(ctrl)

	t.Run("cuda-alike platform", func(t *testing.T) {
		r, err := oplib.NewRegistrar(oplib.NewDispatcher(), domain.Capabilities{},
			domain.KunlunPlatform(), inferrer, inferrer, log)
		require.NoError(t, err)

		err = r.Register("op", function(t, "x: Tensor -> Tensor"))
		require.ErrorIs(t, err, domain.ErrCustomOpUnsupported)
		assert.Empty(t, r.Dispatcher().Operators())
	})

	t.Run("other platform", func(t *testing.T) {
		log.EXPECT().Debug("custom ops unsupported, skipping registration", "op", "op")

		r, err := oplib.NewRegistrar(oplib.NewDispatcher(), domain.Capabilities{},
			domain.Platform{Name: "cpu"}, inferrer, inferrer, log)
		require.NoError(t, err)

		require.NoError(t, r.Register("op", function(t, "x: Tensor -> Tensor")))
		assert.Empty(t, r.Dispatcher().Operators())
	})
}
