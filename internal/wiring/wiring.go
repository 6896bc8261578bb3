// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/flow/internal/adapters/cache"
	_ "go.trai.ch/flow/internal/adapters/config"
	_ "go.trai.ch/flow/internal/adapters/events"
	_ "go.trai.ch/flow/internal/adapters/fs"
	_ "go.trai.ch/flow/internal/adapters/logger"
	_ "go.trai.ch/flow/internal/adapters/process"
	_ "go.trai.ch/flow/internal/adapters/storage"
	// Register app and engine nodes.
	_ "go.trai.ch/flow/internal/app"
	_ "go.trai.ch/flow/internal/engine/deployment"
)
