// Package netport hands out TCP ports for the host runtime's rendezvous
// sockets.
package netport

import (
	"net"
	"strconv"
	"sync"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/zerr"
)

type listenFunc func(network, address string) (net.Listener, error)

// Allocator implements ports.PortAllocator.
//
// With a base port it hands out base, base+1, ... for as long as those bind.
// Once a configured port is taken it falls back to a port chosen by the
// operating system, trying IPv6 first.
type Allocator struct {
	mu     sync.Mutex
	next   int
	listen listenFunc
}

// NewAllocator creates an allocator starting at base. A base of 0 always asks
// the operating system.
func NewAllocator(base int) *Allocator {
	return newAllocator(base, net.Listen)
}

func newAllocator(base int, listen listenFunc) *Allocator {
	return &Allocator{next: base, listen: listen}
}

// OpenPort returns a port that was free when checked.
func (a *Allocator) OpenPort() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.next > 0 {
		port, err := a.probe("tcp4", a.next)
		if err == nil {
			a.next++
			return port, nil
		}
	}

	var errs []error
	for _, network := range []string{"tcp6", "tcp4"} {
		port, err := a.probe(network, 0)
		if err == nil {
			return port, nil
		}
		errs = append(errs, err)
	}

	err := zerr.Wrap(domain.ErrNoOpenPort, "open port")
	for i, cause := range errs {
		err = zerr.With(err, "attempt_"+strconv.Itoa(i), cause.Error())
	}
	return 0, err
}

func (a *Allocator) probe(network string, port int) (int, error) {
	lis, err := a.listen(network, net.JoinHostPort("", strconv.Itoa(port)))
	if err != nil {
		return 0, err
	}
	defer func() { _ = lis.Close() }()

	addr, ok := lis.Addr().(*net.TCPAddr)
	if !ok {
		return 0, zerr.With(zerr.New("unexpected listener address"), "addr", lis.Addr().String())
	}
	return addr.Port, nil
}
