package checkout

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hexfetch/internal/adapters/cache"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hexfetch/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hexfetch/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hexfetch/internal/adapters/registry"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hexfetch/internal/adapters/tarball"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hexfetch/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/hexfetch/internal/core/ports"
)

// NodeID is the unique identifier for the checkout engine Graft node.
const NodeID graft.ID = "engine.checkout"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			cache.NodeID,
			registry.ClientNodeID,
			registry.MetaNodeID,
			tarball.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			archives, err := graft.Dep[*cache.Cache](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}

			tokens, err := graft.Dep[ports.TokenStore](ctx)
			if err != nil {
				return nil, err
			}

			unpacker, err := graft.Dep[ports.Unpacker](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewEngine(cfg, archives, fetcher, tokens, unpacker, log, tel), nil
		},
	})
}
