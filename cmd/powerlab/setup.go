package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/huskerjeff/powerlab/internal/config"
	"github.com/huskerjeff/powerlab/internal/platform/vsphere"
	"github.com/huskerjeff/powerlab/pkg/log"
)

// setupConfig loads configuration and installs the global logger.
func setupConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	logger := log.InitLog(cfg.LogLevel)
	zap.ReplaceGlobals(logger)
	return cfg, nil
}

// setup additionally connects to the virtualization host. Subcommands
// touching platform resources start here.
func setup(ctx context.Context) (*config.Config, *vsphere.Host, error) {
	cfg, err := setupConfig()
	if err != nil {
		return nil, nil, err
	}

	host, err := vsphere.Connect(ctx, vsphere.Config{
		Endpoint:     cfg.Host.Endpoint,
		Username:     cfg.Host.Username,
		Password:     cfg.Host.Password,
		Insecure:     cfg.Host.Insecure,
		Datacenter:   cfg.Host.Datacenter,
		Datastore:    cfg.Host.Datastore,
		ResourcePool: cfg.Host.ResourcePool,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, host, nil
}
