package netport_test

import (
	"errors"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kunlun/internal/adapters/netport"
	"go.trai.ch/kunlun/internal/core/domain"
)

type stubListener struct {
	port int
}

func (l *stubListener) Accept() (net.Conn, error) { return nil, errors.New("not implemented") }
func (l *stubListener) Close() error              { return nil }
func (l *stubListener) Addr() net.Addr            { return &net.TCPAddr{Port: l.port} }

// fakeNet binds every port in free and answers port 0 with ephemeral.
type fakeNet struct {
	free      map[int]bool
	ephemeral int
	noOS      bool
	calls     []string
}

func (f *fakeNet) listen(network, address string) (net.Listener, error) {
	f.calls = append(f.calls, network+" "+address)
	_, p, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return nil, err
	}
	if port == 0 {
		if f.noOS {
			return nil, errors.New("network unreachable")
		}
		return &stubListener{port: f.ephemeral}, nil
	}
	if !f.free[port] {
		return nil, errors.New("address already in use")
	}
	return &stubListener{port: port}, nil
}

func TestAllocator_AdvancesFromBase(t *testing.T) {
	fn := &fakeNet{free: map[int]bool{5000: true, 5001: true}, ephemeral: 40000}
	alloc := netport.NewAllocatorWithListen(5000, fn.listen)

	first, err := alloc.OpenPort()
	require.NoError(t, err)
	second, err := alloc.OpenPort()
	require.NoError(t, err)

	assert.Equal(t, 5000, first)
	assert.Equal(t, 5001, second)
	assert.Equal(t, []string{"tcp4 :5000", "tcp4 :5001"}, fn.calls)
}

func TestAllocator_FallsBackToEphemeral(t *testing.T) {
	fn := &fakeNet{free: map[int]bool{}, ephemeral: 40000}
	alloc := netport.NewAllocatorWithListen(5000, fn.listen)

	port, err := alloc.OpenPort()
	require.NoError(t, err)

	assert.Equal(t, 40000, port)
	assert.Equal(t, []string{"tcp4 :5000", "tcp6 :0"}, fn.calls)
}

func TestAllocator_ZeroBaseAsksOS(t *testing.T) {
	fn := &fakeNet{ephemeral: 41000}
	alloc := netport.NewAllocatorWithListen(0, fn.listen)

	port, err := alloc.OpenPort()
	require.NoError(t, err)

	assert.Equal(t, 41000, port)
	assert.Equal(t, []string{"tcp6 :0"}, fn.calls)
}

func TestAllocator_NoPort(t *testing.T) {
	fn := &fakeNet{noOS: true}
	alloc := netport.NewAllocatorWithListen(5000, fn.listen)

	_, err := alloc.OpenPort()
	require.ErrorIs(t, err, domain.ErrNoOpenPort)
	assert.Equal(t, []string{"tcp4 :5000", "tcp6 :0", "tcp4 :0"}, fn.calls)
}

func TestAllocator_RealNetwork(t *testing.T) {
	busy, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = busy.Close() })
	taken := busy.Addr().(*net.TCPAddr).Port

	port, err := netport.NewAllocator(0).OpenPort()
	require.NoError(t, err)
	assert.Positive(t, port)
	assert.NotEqual(t, taken, port)
}
