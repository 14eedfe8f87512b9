package tarball

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hexfetch/internal/core/ports"
)

// NodeID is the unique identifier for the tarball unpacker Graft node.
const NodeID graft.ID = "adapter.unpacker"

func init() {
	graft.Register(graft.Node[ports.Unpacker]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Unpacker, error) {
			return NewUnpacker(), nil
		},
	})
}
