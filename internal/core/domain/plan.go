package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Plan is the set of probes one configure run executes, with dependency
// edges between them.
type Plan struct {
	probes         map[InternedString]Probe
	executionOrder []InternedString
}

// NewPlan creates a new empty Plan.
func NewPlan() *Plan {
	return &Plan{
		probes: make(map[InternedString]Probe),
	}
}

// AddProbe adds a probe to the plan.
// It returns an error if a probe with the same name already exists.
func (p *Plan) AddProbe(pr *Probe) error {
	if _, exists := p.probes[pr.Name]; exists {
		return zerr.With(ErrProbeAlreadyExists, "probe", pr.Name.String())
	}
	p.probes[pr.Name] = *pr
	return nil
}

// ProbeCount returns the number of probes in the plan.
func (p *Plan) ProbeCount() int {
	return len(p.probes)
}

// Probe returns the probe with the given name.
func (p *Plan) Probe(name InternedString) (Probe, bool) {
	pr, ok := p.probes[name]
	return pr, ok
}

// Validate checks for missing dependencies and cycles using a topological
// sort. It populates the execution order used by Walk.
func (p *Plan) Validate() error {
	p.executionOrder = make([]InternedString, 0, len(p.probes))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		probe, exists := p.probes[u]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range probe.Dependencies {
			if visited[dep] == 1 {
				return p.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		p.executionOrder = append(p.executionOrder, u)
		return nil
	}

	// Iterate over all probes to cover disconnected components.
	for name := range p.probes {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (p *Plan) buildCycleError(path []InternedString, dep InternedString) error {
	cyclePath := ""
	startIdx := -1
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i].String() + " -> "
	}
	cyclePath += dep.String()
	return zerr.With(ErrCycleDetected, "cycle", cyclePath)
}

// Walk returns an iterator that yields probes in execution order, with every
// probe's dependencies yielded before the probe itself.
// It assumes Validate() has been called and returned nil.
func (p *Plan) Walk() iter.Seq[Probe] {
	return func(yield func(Probe) bool) {
		for _, name := range p.executionOrder {
			if !yield(p.probes[name]) {
				return
			}
		}
	}
}

// Subset returns a plan containing the named probes and their transitive
// dependencies. Dependencies still run because their outcome gates the named
// probes. The returned plan is validated.
func (p *Plan) Subset(names []string) (*Plan, error) {
	sub := NewPlan()

	var include func(name InternedString) error
	include = func(name InternedString) error {
		if _, exists := sub.probes[name]; exists {
			return nil
		}
		probe, ok := p.probes[name]
		if !ok {
			return zerr.With(ErrProbeNotFound, "probe", name.String())
		}
		sub.probes[name] = probe
		for _, dep := range probe.Dependencies {
			if err := include(dep); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range names {
		if err := include(NewInternedString(name)); err != nil {
			return nil, err
		}
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}
	return sub, nil
}
