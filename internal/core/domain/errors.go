package domain

import "go.trai.ch/zerr"

var (
	// ErrProbeAlreadyExists is returned when attempting to add a probe with a name that already exists.
	ErrProbeAlreadyExists = zerr.New("probe already exists")

	// ErrMissingDependency is returned when a probe references a dependency that doesn't exist in the plan.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the probe dependency plan.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrProbeNotFound is returned when a requested probe is not defined in the plan.
	ErrProbeNotFound = zerr.New("probe not found")

	// ErrUnparsableVersion is returned when a reported version string has no
	// leading numeric component to compare.
	ErrUnparsableVersion = zerr.New("unparsable version")

	// ErrNoProbesDefined is returned when the loaded plan contains no probes.
	ErrNoProbesDefined = zerr.New("no probes defined")

	// ErrDependencyNotSatisfied is returned by strict-mode checks when a
	// probe reported not found.
	ErrDependencyNotSatisfied = zerr.New("required dependency not satisfied")
)
