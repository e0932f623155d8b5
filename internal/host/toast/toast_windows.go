//go:build windows

package toast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-toast/toast"
	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/notifier/internal/host"
)

// Host implements host.Capability for Windows. Toasts are fire-and-forget,
// so permission is always granted and handles are detached.
type Host struct {
	appID  string
	logger *slog.Logger
	push   func(n *toast.Notification) error
}

// New returns a Host that pushes toasts under appID.
func New(appID string, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		appID:  appID,
		logger: logger,
		push:   func(n *toast.Notification) error { return n.Push() },
	}
}

func (h *Host) Permission(context.Context) (host.Permission, error) {
	return host.PermissionGranted, nil
}

func (h *Host) RequestPermission(context.Context) (host.Permission, error) {
	return host.PermissionGranted, nil
}

func (h *Host) Create(_ context.Context, title string, opts host.Options) (host.Handle, error) {
	n := buildToast(h.appID, title, opts)
	if err := h.push(n); err != nil {
		return nil, fmt.Errorf("failed to push toast: %w", err)
	}

	id := ulid.Make().String()
	h.logger.Debug("toast pushed", "id", id, "summary", title)
	return host.NewDetachedHandle(id), nil
}

// buildToast maps options onto a toast. Actions become protocol buttons
// whose argument is the action key.
func buildToast(appID, title string, opts host.Options) *toast.Notification {
	icon := opts.Icon
	if icon == "" {
		icon = opts.Image
	}

	n := &toast.Notification{
		AppID:   appID,
		Title:   title,
		Message: opts.Body,
		Icon:    icon,
		Audio:   toast.Default,
	}
	if host.BoolValue(opts.Silent) {
		n.Audio = toast.Silent
	}
	if host.BoolValue(opts.RequireInteraction) {
		n.Duration = toast.Long
	}
	for _, a := range opts.Actions {
		if a.Key == "" {
			continue
		}
		n.Actions = append(n.Actions, toast.Action{Type: "protocol", Label: a.Label, Arguments: a.Key})
	}
	return n
}
