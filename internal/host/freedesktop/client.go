// Package freedesktop shows notifications through the org.freedesktop.Notifications
// D-Bus service.
package freedesktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/notifier/internal/host"
)

// caller is the part of dbus.BusObject the client uses.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

var (
	_ host.Capability   = (*Client)(nil)
	_ host.ActionHandle = (*Handle)(nil)
	_ host.Focuser      = (*Focuser)(nil)
)

// Client implements host.Capability on top of a session bus connection.
type Client struct {
	conn   *dbus.Conn
	logger *slog.Logger

	appName      string
	desktopEntry string

	notifications caller
	bus           caller
	object        func(dest string, path dbus.ObjectPath) caller

	mu      sync.Mutex
	handles map[uint32]*Handle
	tags    map[string]*Handle

	signals chan *dbus.Signal
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDesktopEntry sets the desktop-entry hint sent with every notification.
func WithDesktopEntry(entry string) Option {
	return func(c *Client) { c.desktopEntry = entry }
}

// New connects to the session bus and starts listening for notification signals.
func New(appName string, opts ...Option) (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	c := newClient(appName, conn.Object(DBusBusName, DBusPath), conn.BusObject(), opts...)
	c.conn = conn
	c.object = func(dest string, path dbus.ObjectPath) caller { return conn.Object(dest, path) }

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(DBusPath),
		dbus.WithMatchInterface(DBusInterface),
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to notification signals: %w", err)
	}
	conn.Signal(c.signals)
	go c.processSignals()

	c.logger.Debug("connected to notification service", "app_name", appName)
	return c, nil
}

func newClient(appName string, notifications, bus caller, opts ...Option) *Client {
	c := &Client{
		logger:        slog.Default(),
		appName:       appName,
		notifications: notifications,
		bus:           bus,
		handles:       make(map[uint32]*Handle),
		tags:          make(map[string]*Handle),
		signals:       make(chan *dbus.Signal, 64),
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close stops signal processing and closes the bus connection.
// Notifications already on screen stay there.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	c.conn.RemoveSignal(c.signals)
	close(c.stopCh)
	<-c.doneCh
	return c.conn.Close()
}

// Permission maps the state of the notification service onto a permission:
// a running daemon is granted, an activatable one is undecided, and a
// missing one is denied.
func (c *Client) Permission(ctx context.Context) (host.Permission, error) {
	var hasOwner bool
	if err := c.bus.CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, DBusBusName).Store(&hasOwner); err != nil {
		return host.PermissionDefault, fmt.Errorf("failed to query notification service owner: %w", err)
	}
	if hasOwner {
		return host.PermissionGranted, nil
	}

	var names []string
	if err := c.bus.CallWithContext(ctx, "org.freedesktop.DBus.ListActivatableNames", 0).Store(&names); err != nil {
		return host.PermissionDefault, fmt.Errorf("failed to list activatable services: %w", err)
	}
	if slices.Contains(names, DBusBusName) {
		return host.PermissionDefault, nil
	}
	return host.PermissionDenied, nil
}

// RequestPermission asks the bus to start the notification service.
func (c *Client) RequestPermission(ctx context.Context) (host.Permission, error) {
	var reply uint32
	err := c.bus.CallWithContext(ctx, "org.freedesktop.DBus.StartServiceByName", 0, DBusBusName, uint32(0)).Store(&reply)
	if err != nil {
		var dbusErr dbus.Error
		if errors.As(err, &dbusErr) {
			c.logger.Warn("notification service could not be started", "error", dbusErr.Name)
			return host.PermissionDenied, nil
		}
		return host.PermissionDefault, fmt.Errorf("failed to start notification service: %w", err)
	}

	switch reply {
	case startReplySuccess, startReplyAlreadyRunning:
		return host.PermissionGranted, nil
	default:
		return host.PermissionDenied, nil
	}
}

// Create sends a Notify call and returns a handle for the new notification.
func (c *Client) Create(ctx context.Context, title string, opts host.Options) (host.Handle, error) {
	var replacesID uint32
	if opts.Tag != "" {
		c.mu.Lock()
		prev := c.tags[opts.Tag]
		c.mu.Unlock()
		if prev != nil {
			if host.BoolValue(opts.Renotify) {
				if err := prev.Close(); err != nil {
					c.logger.Debug("failed to close tagged notification", "tag", opts.Tag, "error", err)
				}
			} else {
				replacesID = prev.id
			}
		}
	}

	call := c.notifications.CallWithContext(ctx, DBusInterface+".Notify", 0,
		c.appName,
		replacesID,
		opts.Icon,
		title,
		opts.Body,
		buildActions(opts),
		buildHints(opts, c.desktopEntry),
		expireTimeout(opts),
	)

	var id uint32
	if err := call.Store(&id); err != nil {
		return nil, fmt.Errorf("failed to send notification: %w", err)
	}

	h := c.register(id, opts.Tag)
	c.logger.Debug("notification sent", "id", id, "summary", title, "replaces_id", replacesID)
	return h, nil
}

// Capabilities returns the capabilities advertised by the notification server.
func (c *Client) Capabilities(ctx context.Context) ([]string, error) {
	var caps []string
	if err := c.notifications.CallWithContext(ctx, DBusInterface+".GetCapabilities", 0).Store(&caps); err != nil {
		return nil, fmt.Errorf("failed to get server capabilities: %w", err)
	}
	return caps, nil
}

// ServerInformation returns information about the notification server.
func (c *Client) ServerInformation(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	err := c.notifications.CallWithContext(ctx, DBusInterface+".GetServerInformation", 0).
		Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion)
	if err != nil {
		return ServerInfo{}, fmt.Errorf("failed to get server information: %w", err)
	}
	return info, nil
}

// register tracks a new handle for id. A previous handle for the same id
// (server-side replacement) is finished as replaced.
func (c *Client) register(id uint32, tag string) *Handle {
	h := &Handle{client: c, id: id, tag: tag}

	c.mu.Lock()
	prev := c.handles[id]
	c.handles[id] = h
	if tag != "" {
		c.tags[tag] = h
	}
	c.mu.Unlock()

	if prev != nil {
		prev.finish(CloseReasonReplaced)
	}
	return h
}

// take removes and returns the handle for id.
func (c *Client) take(id uint32) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := c.handles[id]
	if h == nil {
		return nil
	}
	delete(c.handles, id)
	if h.tag != "" && c.tags[h.tag] == h {
		delete(c.tags, h.tag)
	}
	return h
}

// lookup returns the handle for id without removing it.
func (c *Client) lookup(id uint32) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handles[id]
}

func (c *Client) closeNotification(id uint32) error {
	call := c.notifications.CallWithContext(context.Background(), DBusInterface+".CloseNotification", 0, id)
	if call.Err != nil {
		return fmt.Errorf("failed to close notification %d: %w", id, call.Err)
	}
	return nil
}
