// Package domain contains the core domain models for dependency probes.
package domain

// DefaultVersionAttr is the attribute read from the probed module when the
// probe does not name one explicitly.
const DefaultVersionAttr = "__version__"

// Probe describes a single dependency check: which interpreter to run, which
// module to import, and the minimum version the module must report.
// It uses InternedString for fields that are frequently repeated to save memory.
type Probe struct {
	Name InternedString

	// Interpreter is the interpreter executable, either an absolute path or a
	// name resolved against PATH.
	Interpreter string

	// Module is the module the interpreter must be able to import.
	Module string

	// VersionAttr is the module attribute holding the version string.
	VersionAttr string

	// MinVersion is the minimum acceptable version. Nil means any importable
	// version passes.
	MinVersion *MinVersion

	// Dependencies are names of probes that must report found before this
	// probe runs.
	Dependencies []InternedString

	// Environment holds extra environment variables for the interpreter run.
	Environment map[string]string
}

// Result is the outcome of one probe invocation. A Result has no identity
// beyond the invocation that produced it; it is never cached or persisted.
type Result struct {
	Probe InternedString

	// Found is false whenever the import step failed or the reported version
	// is below the probe's minimum.
	Found bool

	// Version is the version string reported by the module. Only meaningful
	// when the import step succeeded.
	Version string

	// Diagnostic is a human-readable explanation of a not-found outcome.
	Diagnostic string
}

// Invocation is one interpreter run with an inline script.
type Invocation struct {
	Interpreter string
	Script      string
	WorkingDir  string
	Environment map[string]string
}

// Execution captures what a finished interpreter run produced.
type Execution struct {
	ExitCode int
	Stdout   string
	Stderr   string
}
