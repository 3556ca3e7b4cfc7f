package gate

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/depgate/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/depgate/internal/adapters/shell"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/depgate/internal/core/ports"
)

// NodeID is the unique identifier for the gate Graft node.
const NodeID graft.ID = "engine.gate"

func init() {
	graft.Register(graft.Node[*Gate]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Gate, error) {
			interpreter, err := graft.Dep[ports.Interpreter](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(interpreter, log), nil
		},
	})
}
