//go:build !linux && !windows

package main

import (
	"log/slog"

	"github.com/jmylchreest/notifier/internal/config"
)

const platformDefault = "generic"

func platformBackend(name string, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	if name != "generic" {
		return nil, unsupportedBackend(name)
	}
	return genericBackend(cfg, logger), nil
}
