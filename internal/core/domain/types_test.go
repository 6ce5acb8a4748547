package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kunlun/internal/core/domain"
)

func TestTypeExpr_OptionalInner(t *testing.T) {
	listInt := domain.Generic(domain.TypeBuiltinList, domain.Leaf("int"))

	tests := []struct {
		name   string
		typ    domain.TypeExpr
		want   domain.TypeExpr
		wantOK bool
	}{
		{name: "Optional", typ: domain.Generic(domain.TypeOptional, listInt), want: listInt, wantOK: true},
		{
			name:   "Union trailing None",
			typ:    domain.Generic(domain.TypeUnion, listInt, domain.Leaf(domain.TypeNone)),
			want:   listInt,
			wantOK: true,
		},
		{
			name:   "Union leading None",
			typ:    domain.Generic(domain.TypeUnion, domain.Leaf(domain.TypeNone), domain.Leaf("int")),
			want:   domain.Leaf("int"),
			wantOK: true,
		},
		{name: "Union without None", typ: domain.Generic(domain.TypeUnion, domain.Leaf("int"), domain.Leaf("str"))},
		{name: "leaf", typ: domain.Leaf("int")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.typ.OptionalInner()
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestTypeExpr_Origin(t *testing.T) {
	assert.Empty(t, domain.Leaf("int").Origin())
	assert.Empty(t, domain.Leaf("list").Origin())
	assert.Equal(t, "List", domain.Leaf("List").Origin())
	assert.Equal(t, "Optional", domain.Generic("Optional", domain.Leaf("int")).Origin())
	assert.Equal(t, "Optional[List[int]]",
		domain.Generic("Optional", domain.Generic("List", domain.Leaf("int"))).String())
}

func TestSignature_ValidateMutations(t *testing.T) {
	sig := domain.Signature{Params: []domain.Param{
		{Name: "out", Type: domain.Leaf("Tensor"), Annotated: true},
		{Name: "x", Type: domain.Leaf("Tensor"), Annotated: true},
	}}

	require.NoError(t, sig.ValidateMutations([]string{"out"}))
	require.NoError(t, sig.ValidateMutations(nil))

	err := sig.ValidateMutations([]string{"out", "y"})
	require.ErrorIs(t, err, domain.ErrUnknownMutatedArg)
}

func TestSignature_String(t *testing.T) {
	sig := domain.Signature{
		Params: []domain.Param{
			{Name: "x", Type: domain.Leaf("Tensor"), Annotated: true},
			{Name: "eps", Type: domain.Leaf("float"), Annotated: true, Default: "1e-6", HasDefault: true, KeywordOnly: true},
		},
		Returns: domain.Leaf("Tensor"),
	}
	assert.Equal(t, "(x: Tensor, *, eps: float = 1e-6) -> Tensor", sig.String())
}
