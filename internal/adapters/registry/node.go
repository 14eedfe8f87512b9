package registry

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/hexfetch/internal/adapters/config"
	"go.trai.ch/hexfetch/internal/adapters/logger"
	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/hexfetch/internal/core/ports"
)

const (
	// ClientNodeID is the unique identifier for the registry client Graft
	// node.
	ClientNodeID graft.ID = "adapter.registry_client"
	// MetaNodeID is the unique identifier for the registry metadata store
	// Graft node.
	MetaNodeID graft.ID = "adapter.registry_meta"

	metaFile = "registry.json"
)

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        ClientNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Fetcher, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(cfg, log), nil
		},
	})

	graft.Register(graft.Node[ports.TokenStore]{
		ID:        MetaNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (ports.TokenStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewMetaStore(filepath.Join(cfg.CacheRoot, metaFile))
		},
	})
}
