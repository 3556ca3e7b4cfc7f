// Package telemetry provides no-op telemetry for non-interactive runs.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/depgate/internal/core/ports"
)

// NoOp is a no-op implementation of ports.Telemetry.
type NoOp struct{}

// NewNoOp creates a new NoOp telemetry.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns a no-op vertex. The vertex still travels on the context so
// adapters that mirror output to it behave the same either way.
func (t *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	v := &noopVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (t *NoOp) Close() error { return nil }

type noopVertex struct{}

func (v *noopVertex) Stdout() io.Writer { return io.Discard }
func (v *noopVertex) Stderr() io.Writer { return io.Discard }
func (v *noopVertex) Complete(error)    {}
func (v *noopVertex) Skipped()          {}
