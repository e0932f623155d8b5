// Package generic shows notifications through gen2brain/beeep, which works
// on every desktop platform but reports no interaction back.
package generic

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gen2brain/beeep"
	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/notifier/internal/host"
)

var _ host.Capability = (*Host)(nil)

// Host implements host.Capability. Permission is always granted.
type Host struct {
	logger *slog.Logger
	notify func(title, message, icon string) error
	alert  func(title, message, icon string) error
}

// New returns a Host that labels notifications with appName.
func New(appName string, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	if appName != "" {
		beeep.AppName = appName
	}
	return &Host{
		logger: logger,
		notify: func(title, message, icon string) error { return beeep.Notify(title, message, icon) },
		alert:  func(title, message, icon string) error { return beeep.Alert(title, message, icon) },
	}
}

func (h *Host) Permission(context.Context) (host.Permission, error) {
	return host.PermissionGranted, nil
}

func (h *Host) RequestPermission(context.Context) (host.Permission, error) {
	return host.PermissionGranted, nil
}

// Create shows the notification. Critical notifications that are not
// silent are sent as alerts, which also play the system beep.
func (h *Host) Create(_ context.Context, title string, opts host.Options) (host.Handle, error) {
	icon := opts.Icon
	if icon == "" {
		icon = opts.Image
	}

	send := h.notify
	if opts.Urgency == host.UrgencyCritical && !host.BoolValue(opts.Silent) {
		send = h.alert
	}
	if err := send(title, opts.Body, icon); err != nil {
		return nil, fmt.Errorf("failed to send notification: %w", err)
	}

	id := ulid.Make().String()
	h.logger.Debug("notification sent", "id", id, "summary", title)
	return host.NewDetachedHandle(id), nil
}
