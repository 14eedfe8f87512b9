// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/hexfetch/internal/adapters/cache"
	_ "go.trai.ch/hexfetch/internal/adapters/config"
	_ "go.trai.ch/hexfetch/internal/adapters/logger"
	_ "go.trai.ch/hexfetch/internal/adapters/registry"
	_ "go.trai.ch/hexfetch/internal/adapters/tarball"
	_ "go.trai.ch/hexfetch/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/hexfetch/internal/app"
	_ "go.trai.ch/hexfetch/internal/engine/checkout"
)
