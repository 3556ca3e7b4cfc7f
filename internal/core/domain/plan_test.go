package domain_test

import (
	"testing"

	"go.trai.ch/depgate/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestPlan_AddProbe(t *testing.T) {
	p := domain.NewPlan()
	probe := domain.Probe{Name: domain.NewInternedString("pycf")}

	if err := p.AddProbe(&probe); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.AddProbe(&probe); err == nil {
		t.Error("expected error when adding duplicate probe, got nil")
	} else {
		zErr, ok := err.(*zerr.Error)
		if !ok {
			t.Errorf("expected *zerr.Error, got %T", err)
		}
		meta := zErr.Metadata()
		if name, ok := meta["probe"].(string); !ok || name != "pycf" {
			t.Errorf("expected metadata probe=pycf, got %v", meta["probe"])
		}
	}
}

func TestPlan_Validate_Cycle(t *testing.T) {
	p := domain.NewPlan()
	probeA := domain.Probe{
		Name:         domain.NewInternedString("A"),
		Dependencies: []domain.InternedString{domain.NewInternedString("B")},
	}
	probeB := domain.Probe{
		Name:         domain.NewInternedString("B"),
		Dependencies: []domain.InternedString{domain.NewInternedString("A")},
	}

	if err := p.AddProbe(&probeA); err != nil {
		t.Fatalf("failed to add probe A: %v", err)
	}
	if err := p.AddProbe(&probeB); err != nil {
		t.Fatalf("failed to add probe B: %v", err)
	}

	err := p.Validate()
	if err == nil {
		t.Fatal("expected error for cycle, got nil")
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}

	meta := zErr.Metadata()
	if cycle, ok := meta["cycle"].(string); !ok || cycle == "" {
		t.Errorf("expected metadata cycle to be non-empty string, got %v", meta["cycle"])
	}
}

func TestPlan_Validate_MissingDependency(t *testing.T) {
	p := domain.NewPlan()
	probe := domain.Probe{
		Name:         domain.NewInternedString("pycf"),
		Dependencies: []domain.InternedString{domain.NewInternedString("numpy")},
	}

	if err := p.AddProbe(&probe); err != nil {
		t.Fatalf("failed to add probe: %v", err)
	}

	err := p.Validate()
	if err == nil {
		t.Fatal("expected error for missing dependency, got nil")
	}
}

func TestPlan_Walk_Order(t *testing.T) {
	p := domain.NewPlan()
	// pycf depends on numpy; numpy must be yielded first.
	probeA := domain.Probe{
		Name:         domain.NewInternedString("pycf"),
		Dependencies: []domain.InternedString{domain.NewInternedString("numpy")},
	}
	probeB := domain.Probe{Name: domain.NewInternedString("numpy")}

	if err := p.AddProbe(&probeA); err != nil {
		t.Fatalf("failed to add probe: %v", err)
	}
	if err := p.AddProbe(&probeB); err != nil {
		t.Fatalf("failed to add probe: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validation failed: %v", err)
	}

	order := make([]string, 0, 2)
	for probe := range p.Walk() {
		order = append(order, probe.Name.String())
	}

	if len(order) != 2 {
		t.Fatalf("expected 2 probes, got %d", len(order))
	}
	if order[0] != "numpy" {
		t.Errorf("expected first probe to be numpy, got %s", order[0])
	}
	if order[1] != "pycf" {
		t.Errorf("expected second probe to be pycf, got %s", order[1])
	}
}

func TestPlan_Subset(t *testing.T) {
	p := domain.NewPlan()
	probes := []domain.Probe{
		{Name: domain.NewInternedString("numpy")},
		{
			Name:         domain.NewInternedString("pycf"),
			Dependencies: []domain.InternedString{domain.NewInternedString("numpy")},
		},
		{Name: domain.NewInternedString("unrelated")},
	}
	for i := range probes {
		if err := p.AddProbe(&probes[i]); err != nil {
			t.Fatalf("failed to add probe: %v", err)
		}
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validation failed: %v", err)
	}

	sub, err := p.Subset([]string{"pycf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Transitive prerequisites are pulled in; unrelated probes are not.
	if sub.ProbeCount() != 2 {
		t.Fatalf("expected 2 probes in subset, got %d", sub.ProbeCount())
	}
	if _, ok := sub.Probe(domain.NewInternedString("numpy")); !ok {
		t.Error("expected numpy in subset")
	}
	if _, ok := sub.Probe(domain.NewInternedString("unrelated")); ok {
		t.Error("did not expect unrelated in subset")
	}
}

func TestPlan_Subset_UnknownProbe(t *testing.T) {
	p := domain.NewPlan()
	if err := p.Validate(); err != nil {
		t.Fatalf("validation failed: %v", err)
	}

	_, err := p.Subset([]string{"ghost"})
	if err == nil {
		t.Fatal("expected error for unknown probe, got nil")
	}
}
