//go:build linux

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmylchreest/notifier/internal/config"
	"github.com/jmylchreest/notifier/internal/host/freedesktop"
)

const platformDefault = "freedesktop"

func platformBackend(name string, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch name {
	case "freedesktop":
	case "generic":
		return genericBackend(cfg, logger), nil
	default:
		return nil, unsupportedBackend(name)
	}

	client, err := freedesktop.New(cfg.App.Name,
		freedesktop.WithLogger(logger),
		freedesktop.WithDesktopEntry(cfg.App.ID),
	)
	if err != nil {
		return nil, err
	}

	b := &backend{
		name:       name,
		capability: client,
		close:      client.Close,
		describe: func(ctx context.Context) ([]string, error) {
			info, err := client.ServerInformation(ctx)
			if err != nil {
				return nil, err
			}
			caps, err := client.Capabilities(ctx)
			if err != nil {
				return nil, err
			}
			return []string{
				fmt.Sprintf("server: %s %s (%s, spec %s)", info.Name, info.Version, info.Vendor, info.SpecVersion),
				"capabilities: " + strings.Join(caps, ", "),
			}, nil
		},
	}
	// A nil *Focuser must not become a non-nil host.Focuser
	if f := client.Focuser(cfg.App.ID); f != nil {
		b.focuser = f
	}
	return b, nil
}
