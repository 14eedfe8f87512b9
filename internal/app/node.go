package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hexfetch/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/hexfetch/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/hexfetch/internal/core/ports"
	"go.trai.ch/hexfetch/internal/engine/checkout"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components
	// Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			config.NodeID,
			checkout.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			loader, err := graft.Dep[*config.Loader](ctx)
			if err != nil {
				return nil, err
			}

			engine, err := graft.Dep[*checkout.Engine](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(cfg, loader, engine, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: application, Logger: log}, nil
		},
	})
}
