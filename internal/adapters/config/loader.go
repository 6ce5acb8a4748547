// Package config provides the configuration loader for the kunlun plugin.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvPort           = "VLLM_PORT"
	EnvRuntimeVersion = "KUNLUN_TORCH_VERSION"
	EnvLogJSON        = "KUNLUN_LOG_JSON"
	EnvLogVerbose     = "KUNLUN_LOG_VERBOSE"
)

// First native runtime versions providing each registration capability.
const (
	customOpVersion    = "v2.4.0"
	inferSchemaVersion = "v2.5.0"
)

const maxPort = 65535

// Loader implements ports.ConfigLoader using a YAML file and the process
// environment.
type Loader struct {
	Logger    ports.Logger
	FS        FileSystem
	LookupEnv func(key string) (string, bool)
}

// NewLoader creates a new Loader reading the real filesystem and environment.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		Logger:    logger,
		FS:        NewOSFS(),
		LookupEnv: os.LookupEnv,
	}
}

// Load resolves the settings for cwd. The nearest kunlun.yaml in cwd or one
// of its parents is read if present; environment variables take precedence
// over it. Without a file the defaults apply.
func (l *Loader) Load(cwd string) (*domain.Settings, error) {
	var file Kunlunfile
	if path, ok := l.findConfiguration(cwd); ok {
		if err := l.readAndUnmarshalYAML(path, &file); err != nil {
			return nil, err
		}
		l.Logger.Debug("loaded config file", "path", path)
	} else {
		l.Logger.Debug("no config file found, using defaults", "cwd", cwd)
	}

	if err := l.applyEnv(&file); err != nil {
		return nil, err
	}
	return l.resolve(&file)
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		path := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := l.FS.Stat(path); err == nil {
			return path, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) readAndUnmarshalYAML(path string, target *Kunlunfile) error {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return nil
}

func (l *Loader) applyEnv(file *Kunlunfile) error {
	if v, ok := l.LookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "env", EnvPort)
		}
		file.BasePort = port
	}

	if v, ok := l.LookupEnv(EnvRuntimeVersion); ok && v != "" {
		file.RuntimeVersion = v
	}

	if err := l.envBool(EnvLogJSON, &file.Log.JSON); err != nil {
		return err
	}
	return l.envBool(EnvLogVerbose, &file.Log.Verbose)
}

func (l *Loader) envBool(key string, target *bool) error {
	v, ok := l.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "env", key)
	}
	*target = enabled
	return nil
}

func (l *Loader) resolve(file *Kunlunfile) (*domain.Settings, error) {
	version, err := canonicalVersion(file.RuntimeVersion)
	if err != nil {
		return nil, err
	}

	if file.BasePort < 0 || file.BasePort > maxPort {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "base port out of range"),
			"base_port", file.BasePort)
	}

	worldSize := file.WorldSize
	if worldSize == 0 {
		worldSize = domain.DefaultWorldSize
	}
	if worldSize < 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidWorldSize, "load config"), "world_size", worldSize)
	}

	caps := CapabilitiesFor(version)
	l.Logger.Debug("resolved runtime capabilities",
		"runtime_version", version, "custom_op", caps.CustomOp, "infer_schema", caps.InferSchema)

	return &domain.Settings{
		RuntimeVersion: version,
		Capabilities:   caps,
		Platform:       domain.KunlunPlatform(),
		BasePort:       file.BasePort,
		LogJSON:        file.Log.JSON,
		LogVerbose:     file.Log.Verbose,
		ManifestPath:   file.Manifest,
		WorldSize:      worldSize,
	}, nil
}

// canonicalVersion accepts "2.5.1", "v2.5.1" and local builds such as
// "2.5.1+cu121".
func canonicalVersion(v string) (string, error) {
	if v == "" {
		return domain.DefaultRuntimeVersion, nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidRuntimeVersion, "load config"), "runtime_version", v)
	}
	return v, nil
}

// CapabilitiesFor reports what a native runtime of the given semver supports.
func CapabilitiesFor(version string) domain.Capabilities {
	return domain.Capabilities{
		CustomOp:    semver.Compare(version, customOpVersion) >= 0,
		InferSchema: semver.Compare(version, inferSchemaVersion) >= 0,
	}
}
