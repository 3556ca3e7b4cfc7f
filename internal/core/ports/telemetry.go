package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records per-probe progress for the configure run.
type Telemetry interface {
	// Record starts recording a new vertex for the named probe.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one probe's progress.
type Vertex interface {
	// Stdout returns a writer capturing the probe's standard output stream.
	Stdout() io.Writer
	// Stderr returns a writer capturing the probe's error output stream.
	Stderr() io.Writer
	// Complete marks the vertex as finished, with err non-nil on failure.
	Complete(err error)
	// Skipped marks the vertex as skipped because a prerequisite probe was
	// not found.
	Skipped()
}

type vertexCtxKey struct{}

// ContextWithVertex returns a context carrying the given vertex.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexCtxKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexCtxKey{}).(Vertex)
	return v, ok
}
