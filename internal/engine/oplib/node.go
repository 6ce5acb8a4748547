package oplib

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kunlun/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kunlun/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/kunlun/internal/engine/schema"
)

const (
	// DispatcherNodeID is the unique identifier for the operator dispatcher Graft node.
	DispatcherNodeID graft.ID = "engine.dispatcher"
	// NodeID is the unique identifier for the operator registrar Graft node.
	NodeID graft.ID = "engine.registrar"
)

func init() {
	graft.Register(graft.Node[*Dispatcher]{
		ID:        DispatcherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Dispatcher, error) {
			return NewDispatcher(), nil
		},
	})

	graft.Register(graft.Node[*Registrar]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{DispatcherNodeID, config.SettingsNodeID, logger.NodeID},
		Run:       runRegistrarNode,
	})
}

func runRegistrarNode(ctx context.Context) (*Registrar, error) {
	d, err := graft.Dep[*Dispatcher](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[*domain.Settings](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewRegistrar(d, settings.Capabilities, settings.Platform,
		schema.NewInferrer(), schema.NewLegacyInferrer(), log)
}
