package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kunlun/internal/adapters/manifest"
	"go.trai.ch/kunlun/internal/core/domain"
)

func sampleManifest() domain.Manifest {
	settings := &domain.Settings{RuntimeVersion: "v2.5.1", Platform: domain.KunlunPlatform()}
	ops := []domain.OperatorRecord{
		{
			Namespace:    "vllm",
			Name:         "all_reduce",
			Schema:       "(Tensor tensor, str group_name) -> Tensor",
			DispatchKeys: []domain.DispatchKey{domain.DispatchCUDA},
			HasFake:      true,
		},
	}
	return manifest.Build(settings, ops, domain.DefaultRedirects())
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := manifest.NewStore(filepath.Join(t.TempDir(), "nested", "manifest.json"))
	want := sampleManifest()

	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestStore_LoadMissing(t *testing.T) {
	store := manifest.NewStore(filepath.Join(t.TempDir(), "manifest.json"))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := manifest.NewStore(path).Load()
	assert.ErrorContains(t, err, domain.ErrManifestReadFailed.Error())
}

func TestStore_SaveIntoFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := manifest.NewStore(filepath.Join(blocker, "manifest.json")).Save(sampleManifest())
	assert.ErrorContains(t, err, domain.ErrManifestWriteFailed.Error())
}

func TestBuild(t *testing.T) {
	m := sampleManifest()

	assert.Equal(t, "vllm_kunlun.platforms.kunlun.KunlunPlatform", m.Platform)
	assert.Equal(t, "v2.5.1", m.RuntimeVersion)
	require.Len(t, m.Operators, 1)
	assert.Equal(t, "vllm::all_reduce", m.Operators[0].Name)
	assert.Equal(t, manifest.Fingerprint("vllm::all_reduce", m.Operators[0].Schema), m.Operators[0].Fingerprint)
	assert.Len(t, m.Redirects, len(domain.DefaultRedirects()))
}

func TestFingerprint(t *testing.T) {
	a := manifest.Fingerprint("vllm::op", "(Tensor x) -> Tensor")

	assert.Equal(t, a, manifest.Fingerprint("vllm::op", "(Tensor x) -> Tensor"))
	assert.NotEqual(t, a, manifest.Fingerprint("vllm::op", "(Tensor y) -> Tensor"))
	assert.NotEqual(t, manifest.Fingerprint("ab", "c"), manifest.Fingerprint("a", "bc"))
	assert.Len(t, a, 16)
}
