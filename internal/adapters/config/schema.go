package config

// Kunlunfile represents the structure of the kunlun.yaml configuration file.
type Kunlunfile struct {
	Version        string `yaml:"version"`
	RuntimeVersion string `yaml:"runtime_version"`
	BasePort       int    `yaml:"base_port"`
	WorldSize      int    `yaml:"world_size"`
	Manifest       string `yaml:"manifest"`
	Log            LogDTO `yaml:"log"`
}

// LogDTO configures log output.
type LogDTO struct {
	JSON    bool `yaml:"json"`
	Verbose bool `yaml:"verbose"`
}
