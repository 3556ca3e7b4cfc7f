// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/depgate/internal/core/domain"
)

// Interpreter runs the configured interpreter with a short inline script.
//
//go:generate mockgen -source=interpreter.go -destination=mocks/mock_interpreter.go -package=mocks
type Interpreter interface {
	// Run executes the invocation to completion and returns the captured
	// exit status, standard output, and standard error.
	//
	// A non-zero exit status is not an error: it is reported through
	// Execution.ExitCode. The error return is reserved for failures to start
	// the interpreter at all (not found, permission denied).
	Run(ctx context.Context, inv domain.Invocation) (domain.Execution, error)
}
