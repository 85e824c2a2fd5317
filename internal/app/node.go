package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/carve/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/carve/internal/adapters/daemon"    //nolint:depguard // Wired in app layer
	"go.trai.ch/carve/internal/adapters/export"    //nolint:depguard // Wired in app layer
	"go.trai.ch/carve/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/carve/internal/adapters/refkernel" //nolint:depguard // Wired in app layer
	"go.trai.ch/carve/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/carve/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/carve/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			daemon.NodeID,
			export.NodeID,
			watcher.NodeID,
			refkernel.NodeID,
			telemetry.TracerNodeID,
			telemetry.BridgeNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	connector, err := graft.Dep[ports.DaemonConnector](ctx)
	if err != nil {
		return nil, err
	}

	exporter, err := graft.Dep[ports.Exporter](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	kernel, err := graft.Dep[*refkernel.Kernel](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	bridge, err := graft.Dep[*telemetry.Bridge](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, connector, exporter, w, kernel, kernel, tracer, bridge), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
