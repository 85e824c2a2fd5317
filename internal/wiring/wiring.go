// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/carve/internal/adapters/config"
	_ "go.trai.ch/carve/internal/adapters/daemon"
	_ "go.trai.ch/carve/internal/adapters/export"
	_ "go.trai.ch/carve/internal/adapters/logger"
	_ "go.trai.ch/carve/internal/adapters/refkernel"
	_ "go.trai.ch/carve/internal/adapters/telemetry"
	_ "go.trai.ch/carve/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/carve/internal/app"
)
