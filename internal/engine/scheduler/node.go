package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/depgate/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/depgate/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/depgate/internal/core/ports"
	"go.trai.ch/depgate/internal/engine/gate"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			gate.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			g, err := graft.Dep[*gate.Gate](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(g, telemetry, log), nil
		},
	})
}
