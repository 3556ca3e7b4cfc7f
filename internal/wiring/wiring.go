// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/depgate/internal/adapters/config"
	_ "go.trai.ch/depgate/internal/adapters/logger"
	_ "go.trai.ch/depgate/internal/adapters/shell"
	_ "go.trai.ch/depgate/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/depgate/internal/app"
	_ "go.trai.ch/depgate/internal/engine/gate"
	_ "go.trai.ch/depgate/internal/engine/scheduler"
)
