package ports

import "go.trai.ch/kunlun/internal/core/domain"

// ConfigLoader defines the interface for loading the plugin configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration found in dir, applies environment
	// overrides and returns the resolved settings.
	Load(dir string) (*domain.Settings, error)
}
