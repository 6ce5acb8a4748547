package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kunlun/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kunlun/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kunlun/internal/adapters/manifest"  //nolint:depguard // Wired in app layer
	"go.trai.ch/kunlun/internal/adapters/modcache"  //nolint:depguard // Wired in app layer
	"go.trai.ch/kunlun/internal/adapters/modules"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kunlun/internal/adapters/netport"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kunlun/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/kunlun/internal/engine/collective"
	"go.trai.ch/kunlun/internal/engine/oplib"
	"go.trai.ch/kunlun/internal/engine/redirect"
	"go.trai.ch/kunlun/internal/plugin"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles what the CLI needs.
type Components struct {
	App      *App
	Logger   ports.Logger
	Settings *domain.Settings
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			modules.NodeID,
			modcache.NodeID,
			redirect.HookNodeID,
			oplib.NodeID,
			collective.NodeID,
			netport.NodeID,
			manifest.NodeID,
			plugin.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID, config.SettingsNodeID},
		Run:       runComponentsNode,
	})
}

//nolint:cyclop // dependency collection
func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[*domain.Settings](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	sys, err := graft.Dep[*modules.System](ctx)
	if err != nil {
		return nil, err
	}
	cache, err := graft.Dep[ports.ModuleCache](ctx)
	if err != nil {
		return nil, err
	}
	hook, err := graft.Dep[*redirect.Hook](ctx)
	if err != nil {
		return nil, err
	}
	registrar, err := graft.Dep[*oplib.Registrar](ctx)
	if err != nil {
		return nil, err
	}
	groups, err := graft.Dep[*collective.Groups](ctx)
	if err != nil {
		return nil, err
	}
	alloc, err := graft.Dep[ports.PortAllocator](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.ManifestStore](ctx)
	if err != nil {
		return nil, err
	}
	// Targets must be in the module registry before anything is imported.
	if _, err := graft.Dep[plugin.Targets](ctx); err != nil {
		return nil, err
	}

	return New(Deps{
		Settings:  settings,
		Logger:    log,
		Tracer:    tracer,
		Imports:   sys,
		Cache:     cache,
		Hook:      hook,
		Registrar: registrar,
		Groups:    groups,
		Ports:     alloc,
		Manifest:  store,
	}), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	settings, err := graft.Dep[*domain.Settings](ctx)
	if err != nil {
		return nil, err
	}
	if jl, ok := log.(interface{ SetJSON(enable bool) }); ok {
		jl.SetJSON(settings.LogJSON)
	}
	if vl, ok := log.(interface{ SetVerbose(enable bool) }); ok {
		vl.SetVerbose(settings.LogVerbose)
	}
	return &Components{App: a, Logger: log, Settings: settings}, nil
}
