package ports

import "go.trai.ch/depgate/internal/core/domain"

// ConfigLoader loads a probe plan from a configuration file.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the plan from the given path. The returned plan is
	// validated.
	Load(path string) (*domain.Plan, error)
}
