package freedesktop

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notifier/internal/host"
)

type recordedCall struct {
	method string
	args   []interface{}
}

// fakeCaller answers D-Bus method calls from a table of canned replies.
type fakeCaller struct {
	mu      sync.Mutex
	replies map[string]*dbus.Call
	calls   []recordedCall
	nextID  uint32
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{replies: make(map[string]*dbus.Call)}
}

func (f *fakeCaller) reply(method string, body ...interface{}) {
	f.replies[method] = &dbus.Call{Body: body}
}

func (f *fakeCaller) fail(method string, err error) {
	f.replies[method] = &dbus.Call{Err: err}
}

func (f *fakeCaller) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{method: method, args: args})

	if method == DBusInterface+".Notify" {
		if r, ok := f.replies[method]; ok && r.Err != nil {
			return r
		}
		replaces := args[1].(uint32)
		if replaces != 0 {
			return &dbus.Call{Body: []interface{}{replaces}}
		}
		f.nextID++
		return &dbus.Call{Body: []interface{}{f.nextID}}
	}

	if r, ok := f.replies[method]; ok {
		return r
	}
	return &dbus.Call{}
}

func (f *fakeCaller) callsTo(method string) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func newTestClient(opts ...Option) (*Client, *fakeCaller, *fakeCaller) {
	notifications := newFakeCaller()
	bus := newFakeCaller()
	return newClient("notifier-test", notifications, bus, opts...), notifications, bus
}

func TestClient_Permission(t *testing.T) {
	tests := []struct {
		name        string
		hasOwner    bool
		activatable []string
		expected    host.Permission
	}{
		{name: "daemon running", hasOwner: true, expected: host.PermissionGranted},
		{name: "activatable", activatable: []string{"org.a", DBusBusName}, expected: host.PermissionDefault},
		{name: "missing", activatable: []string{"org.a"}, expected: host.PermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, bus := newTestClient()
			bus.reply("org.freedesktop.DBus.NameHasOwner", tt.hasOwner)
			bus.reply("org.freedesktop.DBus.ListActivatableNames", tt.activatable)

			perm, err := c.Permission(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, perm)
		})
	}
}

func TestClient_PermissionError(t *testing.T) {
	c, _, bus := newTestClient()
	errBus := errors.New("connection reset")
	bus.fail("org.freedesktop.DBus.NameHasOwner", errBus)

	_, err := c.Permission(context.Background())
	require.ErrorIs(t, err, errBus)
}

func TestClient_RequestPermission(t *testing.T) {
	tests := []struct {
		name     string
		reply    *dbus.Call
		expected host.Permission
		wantErr  bool
	}{
		{name: "started", reply: &dbus.Call{Body: []interface{}{startReplySuccess}}, expected: host.PermissionGranted},
		{name: "already running", reply: &dbus.Call{Body: []interface{}{startReplyAlreadyRunning}}, expected: host.PermissionGranted},
		{name: "unknown reply", reply: &dbus.Call{Body: []interface{}{uint32(9)}}, expected: host.PermissionDenied},
		{
			name:     "spawn failed",
			reply:    &dbus.Call{Err: dbus.Error{Name: "org.freedesktop.DBus.Error.Spawn.ChildExited"}},
			expected: host.PermissionDenied,
		},
		{name: "transport error", reply: &dbus.Call{Err: errors.New("broken pipe")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, bus := newTestClient()
			bus.replies["org.freedesktop.DBus.StartServiceByName"] = tt.reply

			perm, err := c.RequestPermission(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, perm)
		})
	}
}

func TestClient_Create(t *testing.T) {
	c, notifications, _ := newTestClient(WithDesktopEntry("org.example.App"))

	opts := host.Options{
		Body:     "Test Body",
		Icon:     "dialog-information",
		Urgency:  host.UrgencyCritical,
		Category: "im.received",
	}
	h, err := c.Create(context.Background(), "Test Title", opts)
	require.NoError(t, err)
	assert.Equal(t, "1", h.ID())

	calls := notifications.callsTo(DBusInterface + ".Notify")
	require.Len(t, calls, 1)
	args := calls[0].args
	assert.Equal(t, "notifier-test", args[0])
	assert.Equal(t, uint32(0), args[1])
	assert.Equal(t, "dialog-information", args[2])
	assert.Equal(t, "Test Title", args[3])
	assert.Equal(t, "Test Body", args[4])
	assert.Equal(t, []string{DefaultActionKey, ""}, args[5])

	hints := args[6].(map[string]dbus.Variant)
	assert.Equal(t, byte(2), hints[hintUrgency].Value())
	assert.Equal(t, "im.received", hints[hintCategory].Value())
	assert.Equal(t, "org.example.App", hints[hintDesktopEntry].Value())
	assert.Equal(t, int32(-1), args[7])
}

func TestClient_CreateError(t *testing.T) {
	c, notifications, _ := newTestClient()
	notifications.fail(DBusInterface+".Notify", errors.New("no daemon"))

	h, err := c.Create(context.Background(), "Test Title", host.Options{})
	require.Error(t, err)
	assert.Nil(t, h)
}

func TestClient_CreateWithTagReplaces(t *testing.T) {
	c, notifications, _ := newTestClient()

	first, err := c.Create(context.Background(), "Downloading", host.Options{Tag: "download"})
	require.NoError(t, err)

	var firstClosed int
	first.OnClose(func() { firstClosed++ })

	second, err := c.Create(context.Background(), "Downloaded", host.Options{Tag: "download"})
	require.NoError(t, err)

	calls := notifications.callsTo(DBusInterface + ".Notify")
	require.Len(t, calls, 2)
	assert.Equal(t, first.(*Handle).ServerID(), calls[1].args[1])
	assert.Equal(t, first.ID(), second.ID())
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, firstClosed)

	reason, closed := first.(*Handle).Closed()
	assert.True(t, closed)
	assert.Equal(t, CloseReasonReplaced, reason)
}

func TestClient_CreateWithTagRenotify(t *testing.T) {
	c, notifications, _ := newTestClient()

	first, err := c.Create(context.Background(), "Ping", host.Options{Tag: "ping"})
	require.NoError(t, err)
	_, err = c.Create(context.Background(), "Ping again", host.Options{Tag: "ping", Renotify: host.Bool(true)})
	require.NoError(t, err)

	closeCalls := notifications.callsTo(DBusInterface + ".CloseNotification")
	require.Len(t, closeCalls, 1)
	assert.Equal(t, first.(*Handle).ServerID(), closeCalls[0].args[0])

	notifyCalls := notifications.callsTo(DBusInterface + ".Notify")
	require.Len(t, notifyCalls, 2)
	assert.Equal(t, uint32(0), notifyCalls[1].args[1])
}

func TestHandle_CloseIsIdempotent(t *testing.T) {
	c, notifications, _ := newTestClient()

	h, err := c.Create(context.Background(), "Test Title", host.Options{})
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.Len(t, notifications.callsTo(DBusInterface+".CloseNotification"), 1)

	c.dispatch(closedSignal(h.(*Handle).ServerID(), CloseReasonClosed))
	require.NoError(t, h.Close())
	assert.Len(t, notifications.callsTo(DBusInterface+".CloseNotification"), 1)
}

func TestClient_ServerInformation(t *testing.T) {
	c, notifications, _ := newTestClient()
	notifications.reply(DBusInterface+".GetServerInformation", "dunst", "knopwob", "1.11.0", "1.2")
	notifications.reply(DBusInterface+".GetCapabilities", []string{"actions", "body"})

	info, err := c.ServerInformation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ServerInfo{Name: "dunst", Vendor: "knopwob", Version: "1.11.0", SpecVersion: "1.2"}, info)

	caps, err := c.Capabilities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"actions", "body"}, caps)
}

func TestClient_CloseWithoutConnection(t *testing.T) {
	c, _, _ := newTestClient()
	assert.NoError(t, c.Close())
}

func TestFocuser(t *testing.T) {
	c, _, _ := newTestClient()
	assert.Nil(t, c.Focuser("org.example.App"), "no connection, no focuser")

	app := newFakeCaller()
	var gotDest string
	var gotPath dbus.ObjectPath
	c.object = func(dest string, path dbus.ObjectPath) caller {
		gotDest, gotPath = dest, path
		return app
	}

	assert.Nil(t, c.Focuser(""))

	f := c.Focuser("org.example.My-App")
	require.NotNil(t, f)
	require.NoError(t, f.Focus(context.Background()))

	assert.Equal(t, "org.example.My-App", gotDest)
	assert.Equal(t, dbus.ObjectPath("/org/example/My_App"), gotPath)
	assert.Len(t, app.callsTo(ApplicationInterface+".Activate"), 1)
}

func TestFocuserError(t *testing.T) {
	c, _, _ := newTestClient()
	app := newFakeCaller()
	app.fail(ApplicationInterface+".Activate", dbus.Error{Name: "org.freedesktop.DBus.Error.ServiceUnknown"})
	c.object = func(string, dbus.ObjectPath) caller { return app }

	err := c.Focuser("org.example.App").Focus(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "org.example.App")
}

func TestHandle_OnCloseAfterClosedSignal(t *testing.T) {
	c, _, _ := newTestClient()

	h, err := c.Create(context.Background(), "Test Title", host.Options{})
	require.NoError(t, err)

	// The server closes the notification before anyone installs a close slot
	c.dispatch(closedSignal(h.(*Handle).ServerID(), CloseReasonExpired))

	var closed int
	h.OnClose(func() { closed++ })
	assert.Equal(t, 1, closed)

	require.NoError(t, h.Close())
	assert.Equal(t, 1, closed)
}

func TestHandle_CloseRetriesAfterFailure(t *testing.T) {
	c, notifications, _ := newTestClient()

	h, err := c.Create(context.Background(), "Test Title", host.Options{})
	require.NoError(t, err)

	method := DBusInterface + ".CloseNotification"
	notifications.fail(method, errors.New("bus timeout"))
	require.Error(t, h.Close())

	notifications.mu.Lock()
	delete(notifications.replies, method)
	notifications.mu.Unlock()

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.Len(t, notifications.callsTo(method), 2)
}
