package cmd

import (
	"fmt"
	"log/slog"

	"github.com/gurisko/waydroid-switch/internal/registry"
	"github.com/gurisko/waydroid-switch/internal/runner"
	"github.com/gurisko/waydroid-switch/internal/switcher"
	"github.com/gurisko/waydroid-switch/internal/waydroidcfg"
)

func openRegistry() (*registry.Registry, error) {
	return registry.New(settings.ImagesRoot)
}

func emptyRegistryError() error {
	return fmt.Errorf("no image profiles found in %s (need folders with %s and %s)",
		settings.ImagesRoot, registry.SystemImage, registry.VendorImage)
}

func newStore(r runner.Runner) *waydroidcfg.Store {
	return &waydroidcfg.Store{
		Path:      settings.WaydroidConfig,
		Privilege: settings.Privilege,
		Runner:    r,
		Logger:    slog.Default(),
	}
}

// activePath is best effort: an unreadable config shows as unknown.
func activePath() string {
	p, err := waydroidcfg.ReadActivePath(settings.WaydroidConfig)
	if err != nil {
		slog.Debug("active images path unavailable", "error", err)
		return ""
	}
	return p
}

func newOrchestrator(observer func(switcher.State)) (*switcher.Orchestrator, error) {
	sessionEnv, err := settings.SessionEnv()
	if err != nil {
		return nil, err
	}
	r := runner.ExecRunner{Logger: slog.Default()}
	return switcher.New(switcher.Config{
		Runner:     r,
		Config:     newStore(r),
		Env:        switcher.ProcessEnv{},
		SessionEnv: sessionEnv,
		Privilege:  settings.Privilege,
		Waydroid:   settings.Waydroid,
		Logger:     slog.Default(),
		Observer:   observer,
	}), nil
}
