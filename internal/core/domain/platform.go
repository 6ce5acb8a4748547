package domain

// PluginID tags every log line emitted during activation.
const PluginID = "KunlunPlugin"

// Platform describes the accelerator backend the plugin activates.
type Platform struct {
	Name string
	// ClassPath is the fully-qualified platform class returned to the host.
	ClassPath   string
	DeviceType  string
	DispatchKey DispatchKey
	// CUDAAlike marks platforms that cannot run without custom-op support.
	CUDAAlike bool
}

// KunlunPlatform is the platform this plugin provides.
func KunlunPlatform() Platform {
	return Platform{
		Name:        "kunlun",
		ClassPath:   "vllm_kunlun.platforms.kunlun.KunlunPlatform",
		DeviceType:  "xpu",
		DispatchKey: DispatchCUDA,
		CUDAAlike:   true,
	}
}

// Capabilities lists the native runtime features registration depends on.
type Capabilities struct {
	// CustomOp reports whether custom operators can be registered at all.
	CustomOp bool
	// InferSchema reports whether the primary schema inferrer is available.
	InferSchema bool
}

// Settings is the resolved plugin configuration.
type Settings struct {
	// RuntimeVersion is the semver of the native tensor runtime, e.g. "v2.5.1".
	RuntimeVersion string
	Capabilities   Capabilities
	Platform       Platform
	// BasePort is the first port handed out by the port allocator; 0 asks the
	// operating system.
	BasePort int
	LogJSON  bool
	// LogVerbose enables debug lines.
	LogVerbose bool
	// ManifestPath is where the operator manifest is written, empty to skip.
	ManifestPath string
	// WorldSize sizes the in-process reference communicator groups.
	WorldSize int
}

const (
	// ConfigFileName is the plugin configuration file looked up from the working directory upwards.
	ConfigFileName = "kunlun.yaml"
	// DefaultRuntimeVersion is assumed when neither the config file nor the environment name one.
	DefaultRuntimeVersion = "v2.5.1"
	// DefaultWorldSize sizes process groups when nothing else is configured.
	DefaultWorldSize = 1
)
