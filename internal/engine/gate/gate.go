// Package gate implements the dependency version gate.
package gate

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/depgate/internal/core/domain"
	"go.trai.ch/depgate/internal/core/ports"
)

// Gate probes one dependency in a target interpreter: first whether it is
// importable at all, then whether its reported version meets the probe's
// minimum.
type Gate struct {
	interpreter ports.Interpreter
	logger      ports.Logger
}

// New creates a new Gate.
func New(interpreter ports.Interpreter, logger ports.Logger) *Gate {
	return &Gate{
		interpreter: interpreter,
		logger:      logger,
	}
}

// Check runs the probe and always returns a definite Result. Import
// failures, interpreter start failures, and too-old versions all surface as
// Found=false with a diagnostic; nothing escapes as an error.
func (g *Gate) Check(ctx context.Context, probe *domain.Probe) domain.Result {
	result := domain.Result{Probe: probe.Name}

	// Step 1: can the module be imported at all?
	run, err := g.interpreter.Run(ctx, domain.Invocation{
		Interpreter: probe.Interpreter,
		Script:      importScript(probe),
		Environment: probe.Environment,
	})
	if err != nil || run.ExitCode != 0 {
		result.Diagnostic = fmt.Sprintf("could not import %s using %s", probe.Module, probe.Interpreter)
		g.logger.Warn(result.Diagnostic)
		return result
	}

	// Step 2: what version does it report?
	run, err = g.interpreter.Run(ctx, domain.Invocation{
		Interpreter: probe.Interpreter,
		Script:      versionScript(probe),
		Environment: probe.Environment,
	})
	if err != nil || run.ExitCode != 0 {
		result.Diagnostic = fmt.Sprintf("could not determine the version of %s using %s", probe.Module, probe.Interpreter)
		g.logger.Warn(result.Diagnostic)
		return result
	}

	result.Version = strings.TrimSpace(run.Stdout)

	if probe.MinVersion == nil {
		result.Found = true
		return result
	}

	version, perr := domain.ParseVersion(result.Version)
	if perr != nil {
		result.Diagnostic = fmt.Sprintf("%s reported an unparsable version %q", probe.Module, result.Version)
		g.logger.Warn(result.Diagnostic)
		return result
	}

	if !probe.MinVersion.Accepts(version) {
		result.Diagnostic = fmt.Sprintf(
			"%s %s is too old, version %s or newer is required",
			probe.Module, result.Version, probe.MinVersion,
		)
		g.logger.Warn(result.Diagnostic)
		return result
	}

	result.Found = true
	return result
}

func importScript(probe *domain.Probe) string {
	return fmt.Sprintf("import %s", probe.Module)
}

// versionScript writes the version through sys.stdout.write instead of a
// print statement, which keeps the script valid across interpreter
// generations.
func versionScript(probe *domain.Probe) string {
	return fmt.Sprintf(
		"import sys, %s; sys.stdout.write(str(%s.%s))",
		probe.Module, probe.Module, probe.VersionAttr,
	)
}
