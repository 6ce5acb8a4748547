package ports

import "go.trai.ch/kunlun/internal/core/domain"

// ManifestStore persists the operator manifest produced at activation.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestStore interface {
	// Save writes the manifest, replacing any previous one.
	Save(m domain.Manifest) error

	// Load reads the manifest.
	// Returns nil, nil if none was written.
	Load() (*domain.Manifest, error)
}
