package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hexfetch/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry adapter Graft node.
// The default recorder is a no-op; the CLI swaps in the progrock recorder
// when progress rendering is requested.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			return NewNoOp(), nil
		},
	})
}
