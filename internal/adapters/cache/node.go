package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hexfetch/internal/adapters/config"
	"go.trai.ch/hexfetch/internal/core/domain"
)

// NodeID is the unique identifier for the archive cache Graft node.
const NodeID graft.ID = "adapter.archive_cache"

func init() {
	graft.Register(graft.Node[*Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (*Cache, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			c := New(cfg)
			if err := c.EnsureRoot(); err != nil {
				return nil, err
			}
			return c, nil
		},
	})
}
