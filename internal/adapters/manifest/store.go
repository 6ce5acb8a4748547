// Package manifest persists the operator manifest as a JSON file.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.ManifestStore using a single JSON file.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Path returns the manifest file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes m, replacing any previous manifest.
func (s *Store) Save(m domain.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", s.path)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", s.path)
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", s.path)
	}
	return nil
}

// Load reads the manifest. It returns nil, nil when none was written.
func (s *Store) Load() (*domain.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", s.path)
	}

	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", s.path)
	}
	return &m, nil
}

// Fingerprint hashes an operator's qualified name and schema.
func Fingerprint(name, schema string) string {
	d := xxhash.New()
	_, _ = d.WriteString(name)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(schema)
	return fmt.Sprintf("%016x", d.Sum64())
}

// Build assembles the manifest of the given operators and redirects.
func Build(settings *domain.Settings, ops []domain.OperatorRecord, redirects []domain.Redirect) domain.Manifest {
	m := domain.Manifest{
		Platform:       settings.Platform.ClassPath,
		RuntimeVersion: settings.RuntimeVersion,
		Operators:      make([]domain.ManifestEntry, 0, len(ops)),
		Redirects:      redirects,
	}
	for _, op := range ops {
		name := op.QualifiedName()
		m.Operators = append(m.Operators, domain.ManifestEntry{
			Name:         name,
			Schema:       op.Schema,
			DispatchKeys: op.DispatchKeys,
			HasFake:      op.HasFake,
			Tags:         op.Tags,
			Fingerprint:  Fingerprint(name, op.Schema),
		})
	}
	return m
}
