// Package app implements the application layer for depgate.
package app

import (
	"context"
	"runtime"

	"go.trai.ch/depgate/internal/core/domain"
	"go.trai.ch/depgate/internal/core/ports"
	"go.trai.ch/depgate/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	telemetry    ports.Telemetry
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, sched *scheduler.Scheduler, telemetry ports.Telemetry) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		telemetry:    telemetry,
	}
}

// Check loads the probe plan and runs it, returning one result per probe in
// execution order. When only is non-empty, just the named probes and their
// prerequisites run.
func (a *App) Check(ctx context.Context, configPath string, only []string) ([]domain.Result, error) {
	plan, err := a.configLoader.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if plan.ProbeCount() == 0 {
		return nil, domain.ErrNoProbesDefined
	}

	if len(only) > 0 {
		plan, err = plan.Subset(only)
		if err != nil {
			return nil, err
		}
	}

	defer func() { _ = a.telemetry.Close() }()

	results, err := a.scheduler.Run(ctx, plan, runtime.NumCPU())
	if err != nil {
		return nil, zerr.Wrap(err, "probe execution failed")
	}

	return results, nil
}

// CheckProbe runs a single ad-hoc probe without a configuration file.
func (a *App) CheckProbe(ctx context.Context, probe *domain.Probe) (domain.Result, error) {
	plan := domain.NewPlan()
	if err := plan.AddProbe(probe); err != nil {
		return domain.Result{}, err
	}
	if err := plan.Validate(); err != nil {
		return domain.Result{}, err
	}

	defer func() { _ = a.telemetry.Close() }()

	results, err := a.scheduler.Run(ctx, plan, 1)
	if err != nil {
		return domain.Result{}, zerr.Wrap(err, "probe execution failed")
	}

	return results[0], nil
}

// Components bundles the resolved application pieces for the entry point.
type Components struct {
	App    *App
	Logger ports.Logger
}
