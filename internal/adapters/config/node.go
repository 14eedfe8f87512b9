package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hexfetch/internal/core/domain"
)

const (
	// NodeID is the unique identifier for the config loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// ConfigNodeID is the unique identifier for the resolved configuration
	// Graft node.
	ConfigNodeID graft.ID = "adapter.config"
)

func init() {
	graft.Register(graft.Node[*Loader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Loader, error) {
			return NewLoader(), nil
		},
	})

	// The configuration is resolved once at startup from the working
	// directory. Capabilities like the legacy manifest format are fixed
	// here and never re-checked at runtime.
	graft.Register(graft.Node[*domain.Config]{
		ID:        ConfigNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (*domain.Config, error) {
			loader, err := graft.Dep[*Loader](ctx)
			if err != nil {
				return nil, err
			}
			return loader.Load(".")
		},
	})
}
