//go:build windows

package main

import (
	"log/slog"

	"github.com/jmylchreest/notifier/internal/config"
	"github.com/jmylchreest/notifier/internal/host/toast"
)

const platformDefault = "toast"

func platformBackend(name string, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch name {
	case "toast":
		appID := cfg.App.ID
		if appID == "" {
			appID = cfg.App.Name
		}
		return &backend{name: name, capability: toast.New(appID, logger)}, nil
	case "generic":
		return genericBackend(cfg, logger), nil
	default:
		return nil, unsupportedBackend(name)
	}
}
