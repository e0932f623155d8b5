package freedesktop

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

// Focuser activates a D-Bus activatable application (org.freedesktop.Application).
type Focuser struct {
	appID string
	obj   caller
}

// Focuser returns a host.Focuser that activates appID, or nil when appID is empty
// or the client has no connection.
func (c *Client) Focuser(appID string) *Focuser {
	if appID == "" || c.object == nil {
		return nil
	}
	return &Focuser{appID: appID, obj: c.object(appID, ApplicationPath(appID))}
}

// Focus brings the application to the foreground.
func (f *Focuser) Focus(ctx context.Context) error {
	call := f.obj.CallWithContext(ctx, ApplicationInterface+".Activate", 0, map[string]dbus.Variant{})
	if call.Err != nil {
		return fmt.Errorf("failed to activate %s: %w", f.appID, call.Err)
	}
	return nil
}

// ApplicationPath derives the object path for an application id,
// e.g. org.example.App-Name -> /org/example/App_Name.
func ApplicationPath(appID string) dbus.ObjectPath {
	path := strings.ReplaceAll(appID, ".", "/")
	path = strings.ReplaceAll(path, "-", "_")
	return dbus.ObjectPath("/" + path)
}
