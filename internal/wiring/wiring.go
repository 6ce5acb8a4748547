// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/kunlun/internal/adapters/config"
	_ "go.trai.ch/kunlun/internal/adapters/logger"
	_ "go.trai.ch/kunlun/internal/adapters/loopback"
	_ "go.trai.ch/kunlun/internal/adapters/manifest"
	_ "go.trai.ch/kunlun/internal/adapters/modcache"
	_ "go.trai.ch/kunlun/internal/adapters/modules"
	_ "go.trai.ch/kunlun/internal/adapters/netport"
	_ "go.trai.ch/kunlun/internal/adapters/telemetry"
	// Register app, engine and plugin nodes.
	_ "go.trai.ch/kunlun/internal/app"
	_ "go.trai.ch/kunlun/internal/engine/collective"
	_ "go.trai.ch/kunlun/internal/engine/oplib"
	_ "go.trai.ch/kunlun/internal/engine/redirect"
	_ "go.trai.ch/kunlun/internal/plugin"
)
