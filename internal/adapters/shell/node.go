package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/depgate/internal/adapters/logger"
	"go.trai.ch/depgate/internal/core/ports"
)

const NodeID graft.ID = "adapter.interpreter"

func init() {
	graft.Register(graft.Node[ports.Interpreter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Interpreter, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewInterpreter(log), nil
		},
	})
}
