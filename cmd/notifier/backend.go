package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/notifier/internal/config"
	"github.com/jmylchreest/notifier/internal/host"
	"github.com/jmylchreest/notifier/internal/host/generic"
	"github.com/jmylchreest/notifier/internal/notifier"
)

// backend is the host capability selected for this platform together with
// what it needs torn down on exit.
type backend struct {
	name       string
	capability host.Capability
	focuser    host.Focuser
	close      func() error

	// describe returns lines about the notification server, when known.
	describe func(ctx context.Context) ([]string, error)
}

// Close releases the backend's resources.
func (b *backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// openBackend selects and connects the backend named by cfg.App.Backend.
// With "auto" a backend that cannot connect leaves the capability unset, so
// notifications report that they are unsupported instead of failing startup.
func openBackend(cfg *config.Config, logger *slog.Logger) (*backend, error) {
	name := cfg.App.Backend
	if name == "" {
		name = config.DefaultBackend
	}

	switch name {
	case "generic":
		return genericBackend(cfg, logger), nil
	case "auto":
		b, err := platformBackend(platformDefault, cfg, logger)
		if err != nil {
			logger.Warn("notification backend unavailable", "backend", platformDefault, "error", err)
			return &backend{name: platformDefault}, nil
		}
		return b, nil
	default:
		return platformBackend(name, cfg, logger)
	}
}

func genericBackend(cfg *config.Config, logger *slog.Logger) *backend {
	return &backend{
		name:       "generic",
		capability: generic.New(cfg.App.Name, logger),
	}
}

// newNotifier builds a notifier on b with the configured defaults.
func newNotifier(b *backend, cfg *config.Config, logger *slog.Logger) *notifier.Notifier {
	opts := []notifier.Option{
		notifier.WithDefaults(cfg.NotifierOptions()),
		notifier.WithLogger(logger),
	}
	if b.focuser != nil {
		opts = append(opts, notifier.WithFocuser(b.focuser))
	}
	return notifier.New(b.capability, opts...)
}

func unsupportedBackend(name string) error {
	return fmt.Errorf("backend %q is not available on this platform", name)
}
