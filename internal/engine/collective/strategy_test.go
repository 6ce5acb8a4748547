package collective_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kunlun/internal/adapters/loopback"
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/kunlun/internal/core/ports/mocks"
	"go.trai.ch/kunlun/internal/engine/collective"
	"go.uber.org/mock/gomock"
)

func mockGroup(t *testing.T, worldSize int) (*collective.GroupCoordinator, *mocks.MockDeviceCommunicator) {
	t.Helper()
	comm := mocks.NewMockDeviceCommunicator(gomock.NewController(t))
	comm.EXPECT().WorldSize().Return(worldSize).AnyTimes()

	g, err := collective.NewFactory(collective.NewDeviceStrategy()).NewGroup("tp", comm)
	require.NoError(t, err)
	return g, comm
}

func TestAllReduce_SingleMember(t *testing.T) {
	g, _ := mockGroup(t, 1)
	in, err := domain.FromValues([]float64{1, 2, 3}, 3)
	require.NoError(t, err)

	out, err := g.AllReduce(t.Context(), in)
	require.NoError(t, err)
	assert.Same(t, in, out)
	assert.Equal(t, []float64{1, 2, 3}, out.Data())
}

func TestAllGather_SingleMember(t *testing.T) {
	g, _ := mockGroup(t, 1)
	in := domain.NewTensor(domain.DTypeBFloat16, "xpu", 2, 3)

	// Even an out-of-range dim is not inspected on the fast path.
	out, err := g.AllGather(t.Context(), in, 7)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestAllReduce_InPlace(t *testing.T) {
	g, comm := mockGroup(t, 2)
	in := domain.NewTensor(domain.DTypeFloat16, "xpu", 4)
	comm.EXPECT().AllReduce(gomock.Any(), in).Return(nil)

	out, err := g.AllReduce(t.Context(), in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestAllReduce_CommunicatorError(t *testing.T) {
	g, comm := mockGroup(t, 2)
	comm.EXPECT().AllReduce(gomock.Any(), gomock.Any()).Return(context.Canceled)

	_, err := g.AllReduce(t.Context(), domain.NewTensor(domain.DTypeFloat32, "cpu", 1))
	require.ErrorIs(t, err, context.Canceled)
}

func TestAllGather_Preconditions(t *testing.T) {
	g, _ := mockGroup(t, 2)
	in := domain.NewTensor(domain.DTypeFloat32, "cpu", 8, 16)

	for _, dim := range []int{2, -3, 100} {
		_, err := g.AllGather(t.Context(), in, dim)
		require.ErrorIs(t, err, domain.ErrInvalidDim, "dim %d", dim)
	}

	_, err := g.AllGather(t.Context(), nil, 0)
	require.ErrorIs(t, err, domain.ErrNotATensor)
	_, err = g.AllReduce(t.Context(), nil)
	require.ErrorIs(t, err, domain.ErrNotATensor)
}

func TestNewGroup_InvalidWorldSize(t *testing.T) {
	comm := mocks.NewMockDeviceCommunicator(gomock.NewController(t))
	comm.EXPECT().WorldSize().Return(0)

	_, err := collective.NewFactory(collective.NewDeviceStrategy()).NewGroup("tp", comm)
	require.ErrorIs(t, err, domain.ErrInvalidWorldSize)
}

// gather runs AllGather on every rank of a loopback group. Rank r contributes
// r*1000 + flat index.
func gather(t *testing.T, worldSize int, shape []int, dim int) []*domain.Tensor {
	t.Helper()
	hub, err := loopback.NewHub(worldSize)
	require.NoError(t, err)
	factory := collective.NewFactory(collective.NewDeviceStrategy())

	outs := make([]*domain.Tensor, worldSize)
	err = loopback.Run(t.Context(), hub, func(ctx context.Context, comm ports.DeviceCommunicator) error {
		g, err := factory.NewGroup("tp", comm)
		if err != nil {
			return err
		}
		in := domain.NewTensor(domain.DTypeFloat16, "xpu", shape...)
		for i := range in.Data() {
			in.Data()[i] = float64(comm.Rank()*1000 + i)
		}
		out, err := g.AllGather(ctx, in, dim)
		if err != nil {
			return err
		}
		outs[comm.Rank()] = out
		return nil
	})
	require.NoError(t, err)
	return outs
}

func TestAllGather_ShapeLaw(t *testing.T) {
	outs := gather(t, 4, []int{8, 16}, 1)

	for _, out := range outs {
		assert.Equal(t, []int{8, 64}, out.Shape())
		assert.Equal(t, 4*8*16, out.Numel())
		assert.Equal(t, domain.DTypeFloat16, out.DType())
		assert.Equal(t, "xpu", out.Device())
	}

	// Concatenation along dim 1: row i holds rank w's row i at columns [16w, 16w+16).
	data := outs[0].Data()
	for i := range 8 {
		for w := range 4 {
			for j := range 16 {
				want := float64(w*1000 + i*16 + j)
				require.Equal(t, want, data[i*64+w*16+j], "row %d rank %d col %d", i, w, j)
			}
		}
	}
}

func TestAllGather_NegativeDim(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
		dim   int
	}{
		{"last axis", []int{8, 16}, 1},
		{"first axis", []int{8, 16}, 0},
		{"middle axis", []int{2, 3, 4}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := gather(t, 3, tt.shape, tt.dim)
			neg := gather(t, 3, tt.shape, tt.dim-len(tt.shape))
			for rank := range pos {
				assert.True(t, pos[rank].Equal(neg[rank]), "rank %d", rank)
			}

			want := append([]int(nil), tt.shape...)
			want[tt.dim] *= 3
			assert.Equal(t, want, pos[0].Shape())
		})
	}
}

func TestAllGather_DimZeroIsConcatenation(t *testing.T) {
	outs := gather(t, 2, []int{2, 2}, 0)
	assert.Equal(t, []int{4, 2}, outs[1].Shape())
	assert.Equal(t, []float64{0, 1, 2, 3, 1000, 1001, 1002, 1003}, outs[1].Data())
}

func TestGroups(t *testing.T) {
	gs := collective.NewGroups()
	g, _ := mockGroup(t, 1)
	gs.Add(g)

	got, err := gs.Get("tp")
	require.NoError(t, err)
	assert.Same(t, g, got)
	assert.Equal(t, []string{"tp"}, gs.Names())

	_, err = gs.Get("pp")
	require.ErrorIs(t, err, domain.ErrGroupNotFound)
}
