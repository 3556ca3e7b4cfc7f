// Package config provides the configuration loader for depgate.
package config

import (
	"os"

	"go.trai.ch/depgate/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the probe plan file looked up when no --config flag is
// given.
const DefaultFilename = "depgate.yaml"

// defaultInterpreter is used when a probe does not name one.
const defaultInterpreter = "python"

// FileLoader implements ports.ConfigLoader using a YAML file.
type FileLoader struct{}

// NewLoader creates a new FileLoader.
func NewLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads a configuration file from the given path and returns a
// validated domain.Plan.
func (l *FileLoader) Load(path string) (*domain.Plan, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	plan := domain.NewPlan()
	probeNames := make(map[string]bool, len(file.Probes))

	// First pass: collect all probe names to verify dependencies later.
	for name := range file.Probes {
		probeNames[name] = true
	}

	// Second pass: translate DTOs and add to the plan.
	for name, dto := range file.Probes {
		for _, dep := range dto.DependsOn {
			if !probeNames[dep] {
				return nil, zerr.With(zerr.With(domain.ErrMissingDependency, "probe", name), "missing_dependency", dep)
			}
		}

		probe, err := translateProbe(name, dto)
		if err != nil {
			return nil, err
		}

		if err := plan.AddProbe(probe); err != nil {
			return nil, err
		}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}

func translateProbe(name string, dto ProbeDTO) (*domain.Probe, error) {
	interpreter := dto.Interpreter
	if interpreter == "" {
		interpreter = defaultInterpreter
	}

	// The module defaults to the probe name, so the common case is just:
	//   pycf: {minVersion: "1.2"}
	module := dto.Module
	if module == "" {
		module = name
	}

	versionAttr := dto.VersionAttr
	if versionAttr == "" {
		versionAttr = domain.DefaultVersionAttr
	}

	var minVersion *domain.MinVersion
	if dto.MinVersion != "" {
		mv, err := domain.ParseMinVersion(dto.MinVersion)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid minVersion"), "probe", name)
		}
		minVersion = mv
	}

	return &domain.Probe{
		Name:         domain.NewInternedString(name),
		Interpreter:  interpreter,
		Module:       module,
		VersionAttr:  versionAttr,
		MinVersion:   minVersion,
		Dependencies: internStrings(dto.DependsOn),
		Environment:  dto.Environment,
	}, nil
}

func internStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}
	res := make([]domain.InternedString, len(strs))
	for i, s := range strs {
		res[i] = domain.NewInternedString(s)
	}
	return res
}
