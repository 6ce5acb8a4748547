package netport

import "net"

// NewAllocatorWithListen exposes the listener seam to tests.
func NewAllocatorWithListen(base int, listen func(network, address string) (net.Listener, error)) *Allocator {
	return newAllocator(base, listen)
}
