package schema_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/kunlun/internal/engine/schema"
	"go.trai.ch/zerr"
)

func mustSignature(t *testing.T, s string) domain.Signature {
	t.Helper()
	sig, err := schema.ParseSignature(s)
	require.NoError(t, err)
	return sig
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Optional[list[int]]", want: "Optional[List[int]]"},
		{in: "Union[list[float], None]", want: "Optional[List[float]]"},
		{in: "Union[None, list[int]]", want: "Optional[List[int]]"},
		{in: "list[int] | None", want: "Optional[List[int]]"},
		{in: "Optional[List]", want: "Optional[List[Any]]"},
		{in: "list[float]", want: "List[float]"},
		{in: "list", want: "list"},
		{in: "List", want: "List[Any]"},
		{in: "Optional[list]", want: "Optional[list]"},
		{in: "List[int]", want: "List[int]"},
		{in: "Optional[Tensor]", want: "Optional[Tensor]"},
		{in: "Optional[Sequence[int]]", want: "Optional[Sequence[int]]"},
		{in: "Dict[str, list[int]]", want: "Dict[str, list[int]]"},
		{in: "Tuple[list[int], int]", want: "Tuple[list[int], int]"},
		{in: "int", want: "int"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			typ, err := schema.ParseType(tt.in)
			require.NoError(t, err)

			sig := domain.Signature{Params: []domain.Param{{Name: "p", Type: typ, Annotated: true}}}
			got := schema.Normalize(sig)
			assert.Equal(t, tt.want, got.Params[0].Type.String())
		})
	}

	t.Run("leaves input and unannotated params alone", func(t *testing.T) {
		sig := mustSignature(t, "x, sizes: list[int] -> None")
		got := schema.Normalize(sig)

		assert.False(t, got.Params[0].Annotated)
		assert.True(t, got.Params[0].Type.IsZero())
		assert.Equal(t, "List[int]", got.Params[1].Type.String())
		assert.Equal(t, "list[int]", sig.Params[1].Type.String())
	})
}

type inferCase struct {
	sig     string
	mutates []string
}

func renderInference(t *testing.T, inf ports.SchemaInferrer, normalize bool, cases []inferCase) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, tc := range cases {
		sig := mustSignature(t, tc.sig)
		if normalize {
			sig = schema.Normalize(sig)
		}
		got, err := inf.Infer(sig, tc.mutates)
		require.NoError(t, err, tc.sig)

		fmt.Fprintf(&buf, "%s\n", tc.sig)
		if len(tc.mutates) > 0 {
			fmt.Fprintf(&buf, "  mutates: %s\n", strings.Join(tc.mutates, ", "))
		}
		fmt.Fprintf(&buf, "  => %s\n", got)
	}
	return buf.Bytes()
}

func TestInferrer_Golden(t *testing.T) {
	cases := []inferCase{
		{sig: "x: Tensor, sizes: Optional[list[int]] = None, *, eps: float = 1e-6 -> Tensor"},
		{sig: "out: Tensor, x: Tensor, scale: float -> None", mutates: []string{"out"}},
		{sig: "xs: list[Tensor], dims: list[int] | None = None -> Tuple[Tensor, Tensor]"},
		{
			sig:     "cache: Optional[Tensor], block_table: Tensor, dtype: torch.dtype, device: torch.device, reduce: str = 'mean' -> Tensor",
			mutates: []string{"cache"},
		},
		{sig: "weights: Sequence[float], alpha: Number = 1, flag: bool = True -> List[Tensor]"},
	}

	g := goldie.New(t)
	g.Assert(t, "infer_primary", renderInference(t, schema.NewInferrer(), true, cases))
}

func TestLegacyInferrer_Golden(t *testing.T) {
	cases := []inferCase{
		{sig: "x: Tensor, sizes: Optional[list[int]] = None -> Tensor"},
		{sig: "q: Tensor, k: Tensor, positions: List[int] -> None", mutates: []string{"q", "k"}},
	}

	g := goldie.New(t)
	g.Assert(t, "infer_legacy", renderInference(t, schema.NewLegacyInferrer(), false, cases))
}

func TestInferrer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		sig     string
		mutates []string
		legacy  bool
		wantErr error
	}{
		{name: "unannotated", sig: "x -> Tensor", wantErr: domain.ErrMissingAnnotation},
		{name: "no return annotation", sig: "x: Tensor", wantErr: domain.ErrMissingAnnotation},
		{name: "unknown mutated", sig: "x: Tensor -> None", mutates: []string{"y"}, wantErr: domain.ErrUnknownMutatedArg},
		{name: "mutated scalar", sig: "n: int -> None", mutates: []string{"n"}, wantErr: domain.ErrMutatedNonTensor},
		{name: "builtin list", sig: "sizes: list[int] -> None", wantErr: domain.ErrUnsupportedAnnotation},
		{name: "any", sig: "x: Any -> None", wantErr: domain.ErrUnsupportedAnnotation},
		{name: "dict", sig: "x: Dict[str, int] -> None", wantErr: domain.ErrUnsupportedAnnotation},
		{name: "nested optional", sig: "x: Optional[Optional[int]] -> None", wantErr: domain.ErrUnsupportedAnnotation},
		{name: "optional return", sig: "x: Tensor -> Optional[Tensor]", wantErr: domain.ErrUnsupportedAnnotation},
		{name: "legacy keyword-only", sig: "x: Tensor, *, eps: float = 1e-6 -> Tensor", legacy: true, wantErr: domain.ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := mustSignature(t, tt.sig)

			var err error
			if tt.legacy {
				_, err = schema.NewLegacyInferrer().Infer(sig, tt.mutates)
			} else {
				_, err = schema.NewInferrer().Infer(sig, tt.mutates)
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInferrer_BareListKeepsSpelling(t *testing.T) {
	sig := schema.Normalize(mustSignature(t, "sizes: list -> None"))

	_, err := schema.NewInferrer().Infer(sig, nil)
	require.ErrorIs(t, err, domain.ErrUnsupportedAnnotation)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "list", zErr.Metadata()["type"])
	assert.Equal(t, "sizes", zErr.Metadata()["param"])
}

func TestParseSignature(t *testing.T) {
	sig := mustSignature(t, "(x: Tensor, sizes: Optional[list[int]] = None, *, eps: float = 1e-6) -> Tensor")

	require.Len(t, sig.Params, 3)
	assert.Equal(t, []string{"x", "sizes", "eps"}, sig.Names())
	assert.Equal(t, "Optional[list[int]]", sig.Params[1].Type.String())
	assert.Equal(t, "None", sig.Params[1].Default)
	assert.True(t, sig.Params[2].KeywordOnly)
	assert.Equal(t, "Tensor", sig.Returns.String())
	assert.Equal(t, "(x: Tensor, sizes: Optional[list[int]] = None, *, eps: float = 1e-6) -> Tensor", sig.String())

	empty := mustSignature(t, "-> None")
	assert.Empty(t, empty.Params)
	assert.True(t, empty.Returns.IsNone())
}

func TestParseSignature_Errors(t *testing.T) {
	tests := []struct {
		name    string
		sig     string
		wantErr error
	}{
		{name: "duplicate parameter", sig: "x: int, x: int -> None", wantErr: domain.ErrInvalidSignature},
		{name: "required after default", sig: "x: int = 1, y: int -> None", wantErr: domain.ErrInvalidSignature},
		{name: "invalid name", sig: "1x: int -> None", wantErr: domain.ErrInvalidSignature},
		{name: "empty default", sig: "x: int = -> None", wantErr: domain.ErrInvalidSignature},
		{name: "unterminated annotation", sig: "x: Optional[int -> None", wantErr: domain.ErrInvalidAnnotation},
		{name: "bad return", sig: "x: int -> [", wantErr: domain.ErrInvalidAnnotation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.ParseSignature(tt.sig)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseType(t *testing.T) {
	typ, err := schema.ParseType("typing.Optional[typing.List[torch.Tensor]]")
	require.NoError(t, err)
	assert.Equal(t, "Optional[List[torch.Tensor]]", typ.String())

	typ, err = schema.ParseType("int | str | None")
	require.NoError(t, err)
	assert.Equal(t, "Union[int, str, None]", typ.String())

	for _, bad := range []string{"", "List[int,]", "Optional[", "int]", "List[]"} {
		_, err := schema.ParseType(bad)
		require.ErrorIs(t, err, domain.ErrInvalidAnnotation, bad)
	}
}
