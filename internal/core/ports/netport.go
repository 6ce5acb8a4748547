package ports

// PortAllocator hands out TCP ports that were free when checked.
//
//go:generate go run go.uber.org/mock/mockgen -source=netport.go -destination=mocks/mock_netport.go -package=mocks
type PortAllocator interface {
	OpenPort() (int, error)
}
