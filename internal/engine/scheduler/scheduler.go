// Package scheduler runs the probes of a plan in dependency order.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/depgate/internal/core/domain"
	"go.trai.ch/depgate/internal/core/ports"
	"go.trai.ch/depgate/internal/engine/gate"
	"go.trai.ch/zerr"
)

// ProbeStatus represents the status of a probe.
type ProbeStatus string

const (
	// StatusPending indicates the probe is waiting to be executed.
	StatusPending ProbeStatus = "Pending"
	// StatusRunning indicates the probe is currently executing.
	StatusRunning ProbeStatus = "Running"
	// StatusFound indicates the probe reported the dependency as found.
	StatusFound ProbeStatus = "Found"
	// StatusNotFound indicates the probe reported the dependency as not found.
	StatusNotFound ProbeStatus = "NotFound"
	// StatusSkipped indicates the probe was skipped because a prerequisite
	// probe reported not found.
	StatusSkipped ProbeStatus = "Skipped"
)

// Scheduler manages the execution of probes in the dependency plan.
type Scheduler struct {
	gate      *gate.Gate
	telemetry ports.Telemetry
	logger    ports.Logger

	mu          sync.RWMutex
	probeStatus map[domain.InternedString]ProbeStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(g *gate.Gate, telemetry ports.Telemetry, logger ports.Logger) *Scheduler {
	return &Scheduler{
		gate:        g,
		telemetry:   telemetry,
		logger:      logger,
		probeStatus: make(map[domain.InternedString]ProbeStatus),
	}
}

// Status retrieves the status of a probe.
func (s *Scheduler) Status(name domain.InternedString) ProbeStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.probeStatus[name]
}

func (s *Scheduler) updateStatus(name domain.InternedString, status ProbeStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeStatus[name] = status
}

// Run executes all probes of the plan with the specified parallelism and
// returns their results in the plan's execution order. A probe whose
// prerequisite probe reported not found is skipped and reported not found
// itself; probing it would only produce a noisier import failure.
//
// A not-found outcome is never an error. The error return covers only a
// cancelled context.
func (s *Scheduler) Run(ctx context.Context, plan *domain.Plan, parallelism int) ([]domain.Result, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	s.mu.Lock()
	for probe := range plan.Walk() {
		s.probeStatus[probe.Name] = StatusPending
	}
	s.mu.Unlock()

	var resMu sync.Mutex
	results := make(map[domain.InternedString]domain.Result, plan.ProbeCount())

	done := make(map[domain.InternedString]chan struct{}, plan.ProbeCount())
	for probe := range plan.Walk() {
		done[probe.Name] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	// Probes are launched in execution order, so a probe only ever waits on
	// probes launched before it. Under the group's limit this cannot
	// deadlock: the earliest unfinished probe has all its prerequisites
	// finished.
	for probe := range plan.Walk() {
		g.Go(func() error {
			defer close(done[probe.Name])

			for _, dep := range probe.Dependencies {
				select {
				case <-done[dep]:
				case <-gctx.Done():
					return gctx.Err()
				}
			}

			resMu.Lock()
			unsatisfied := ""
			for _, dep := range probe.Dependencies {
				if r, ok := results[dep]; !ok || !r.Found {
					unsatisfied = dep.String()
					break
				}
			}
			resMu.Unlock()

			var result domain.Result
			if unsatisfied != "" {
				result = s.skipProbe(gctx, &probe, unsatisfied)
			} else {
				result = s.runProbe(gctx, &probe)
			}

			resMu.Lock()
			results[probe.Name] = result
			resMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, zerr.Wrap(err, "probe run interrupted")
	}

	ordered := make([]domain.Result, 0, plan.ProbeCount())
	for probe := range plan.Walk() {
		ordered = append(ordered, results[probe.Name])
	}
	return ordered, nil
}

func (s *Scheduler) runProbe(ctx context.Context, probe *domain.Probe) domain.Result {
	s.updateStatus(probe.Name, StatusRunning)

	vctx, vertex := s.telemetry.Record(ctx, probe.Name.String())
	result := s.gate.Check(vctx, probe)

	if result.Found {
		vertex.Complete(nil)
		s.updateStatus(probe.Name, StatusFound)
	} else {
		vertex.Complete(zerr.New(result.Diagnostic))
		s.updateStatus(probe.Name, StatusNotFound)
	}
	return result
}

func (s *Scheduler) skipProbe(ctx context.Context, probe *domain.Probe, unsatisfied string) domain.Result {
	_, vertex := s.telemetry.Record(ctx, probe.Name.String())
	vertex.Skipped()
	s.updateStatus(probe.Name, StatusSkipped)

	diag := fmt.Sprintf("%s was not probed, prerequisite %s is not satisfied", probe.Module, unsatisfied)
	s.logger.Warn(diag)

	return domain.Result{
		Probe:      probe.Name,
		Found:      false,
		Diagnostic: diag,
	}
}
