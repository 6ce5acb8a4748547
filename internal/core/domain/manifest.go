package domain

// ManifestEntry records one registered operator.
type ManifestEntry struct {
	Name         string        `json:"name"`
	Schema       string        `json:"schema"`
	DispatchKeys []DispatchKey `json:"dispatchKeys"`
	HasFake      bool          `json:"hasFake"`
	Tags         []Tag         `json:"tags,omitempty"`
	// Fingerprint is a content hash of Name and Schema.
	Fingerprint string `json:"fingerprint"`
}

// Manifest is the operator table exported after activation.
type Manifest struct {
	Platform       string          `json:"platform"`
	RuntimeVersion string          `json:"runtimeVersion"`
	Operators      []ManifestEntry `json:"operators"`
	Redirects      []Redirect      `json:"redirects"`
}

// DefaultManifestPath is where the manifest is written when no path is configured.
const DefaultManifestPath = ".kunlun/manifest.json"
