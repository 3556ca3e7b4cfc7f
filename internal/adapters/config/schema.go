package config

// File represents the structure of the depgate.yaml configuration file.
type File struct {
	Version string              `yaml:"version"`
	Probes  map[string]ProbeDTO `yaml:"probes"`
}

// ProbeDTO represents a probe definition in the configuration.
type ProbeDTO struct {
	Interpreter string            `yaml:"interpreter"`
	Module      string            `yaml:"module"`
	VersionAttr string            `yaml:"versionAttr"`
	MinVersion  string            `yaml:"minVersion"`
	DependsOn   []string          `yaml:"dependsOn"`
	Environment map[string]string `yaml:"environment"`
}
